package status

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"pathmed-service/api"
	"pathmed-service/pkg/response"
	"pathmed-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type StatusUpdater interface {
	UpdateConsultationStatus(ctx context.Context, id int64, statusID int64) (*api.Consultation, error)
}

type Request struct {
	api.ConsultationStatusRequest
}

type Response struct {
	response.Response
	Consultation *api.Consultation `json:"consulta,omitempty"`
}

func New(log *slog.Logger, updater StatusUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.consultations.status.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		rawID := chi.URLParam(r, "id")

		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil || id <= 0 {
			log.Error("invalid consultation id", slog.String("id", rawID))
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

		consultation, err := updater.UpdateConsultationStatus(r.Context(), id, req.Status)

		var paramErr *response.ParamError
		if errors.As(err, &paramErr) {
			log.Error("invalid status", slog.Int64("id_status", req.Status))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.INVALID_PARAMETER), paramErr.Error()))
			return
		}

		if errors.Is(err, response.ErrNotFound) {
			log.Error("consultation not found", slog.Int64("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "consultation not found"))
			return
		}

		if errors.Is(err, response.ErrConflict) {
			log.Error("slot already held by another consultation", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.SLOT_NOT_AVAILABLE), "slot is not available"))
			return
		}

		if err != nil {
			log.Error("Failed to update consultation status", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to update consultation status"))
			return
		}

		log.Info("Consultation status updated",
			slog.Int64("id_consulta", consultation.ConsultationID),
			slog.String("status", consultation.StatusName),
		)

		render.JSON(w, r, Response{Consultation: consultation})
	}
}
