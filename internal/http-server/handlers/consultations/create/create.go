package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"pathmed-service/api"
	"pathmed-service/pkg/response"
	"pathmed-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type ConsultationCreator interface {
	CreateConsultation(ctx context.Context, req *api.ConsultationCreateRequest) (*api.Consultation, error)
}

type Request struct {
	api.ConsultationCreateRequest
}

type Response struct {
	response.Response
	Consultation *api.Consultation `json:"consulta,omitempty"`
}

func New(log *slog.Logger, creator ConsultationCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.consultations.create.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		log.Info("Request body decoded", slog.Any("request", req))

		if err := validator.New().Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			log.Error("Invalid request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		consultation, err := creator.CreateConsultation(r.Context(), &req.ConsultationCreateRequest)

		var paramErr *response.ParamError
		if errors.As(err, &paramErr) {
			log.Error("invalid parameter", slog.String("param", paramErr.Param))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.INVALID_PARAMETER), paramErr.Error()))
			return
		}

		if errors.Is(err, response.ErrLocked) {
			log.Error("resource is locked")
			w.WriteHeader(http.StatusLocked)
			render.JSON(w, r, response.Error(string(response.LOCKED), "resource is locked"))
			return
		}

		if errors.Is(err, response.ErrSlotNotAvailable) || errors.Is(err, response.ErrConflict) {
			log.Error("slot is not available", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.SLOT_NOT_AVAILABLE), "slot is not available"))
			return
		}

		if errors.Is(err, response.ErrNotFound) {
			log.Error("patient or professional not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "patient or professional not found"))
			return
		}

		if err != nil {
			log.Error("Failed to create consultation", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to create consultation"))
			return
		}

		log.Info("Consultation created", slog.Int64("id_consulta", consultation.ConsultationID))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{Consultation: consultation})
	}
}
