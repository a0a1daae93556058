package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"pathmed-service/api"
	"pathmed-service/internal/models"
	"pathmed-service/pkg/response"
	"pathmed-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type PatientUpdater interface {
	UpdatePatient(ctx context.Context, id int64, upd models.PatientUpdate) (*api.Patient, error)
}

type Request struct {
	api.PatientUpdateRequest
}

type Response struct {
	response.Response
	Patient *api.Patient `json:"paciente,omitempty"`
}

func New(log *slog.Logger, updater PatientUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.patients.update.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		rawID := chi.URLParam(r, "id")

		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil || id <= 0 {
			log.Error("invalid patient id", slog.String("id", rawID))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.INVALID_PARAMETER), "id: must be a positive integer"))
			return
		}

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		if err := validator.New().Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			log.Error("Invalid request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		patient, err := updater.UpdatePatient(r.Context(), id, models.PatientUpdate{
			Name:  req.Name,
			Email: req.Email,
			Phone: req.Phone,
		})

		if errors.Is(err, response.ErrNotFound) {
			log.Error("patient not found", slog.Int64("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "patient not found"))
			return
		}

		if errors.Is(err, response.ErrConflict) {
			log.Error("e-mail already in use", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.CONFLICT), "e-mail already registered"))
			return
		}

		if err != nil {
			log.Error("Failed to update patient", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to update patient"))
			return
		}

		log.Info("Patient updated", slog.Int64("id_paciente", patient.PatientID))

		render.JSON(w, r, Response{Patient: patient})
	}
}
