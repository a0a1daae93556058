package get

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
)

type ConsultationGetter interface {
	GetConsultation(ctx context.Context, id int64) (*api.Consultation, error)
	ListConsultations(ctx context.Context, patientID *int64) ([]api.Consultation, error)
}

type Response struct {
	response.Response
	Consultation *api.Consultation `json:"consulta,omitempty"`
}

type ListResponse struct {
	response.Response
	Consultations []api.Consultation `json:"consultas"`
}

// New serves GET /consultas[?paciente={id}] and GET /consultas/{id}.
func New(log *slog.Logger, getter ConsultationGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.consultations.get.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if rawID := chi.URLParam(r, "id"); rawID != "" {
			id, err := strconv.ParseInt(rawID, 10, 64)
			if err != nil || id <= 0 {
				log.Error("invalid consultation id", slog.String("id", rawID))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error(string(response.INVALID_PARAMETER), "id: must be a positive integer"))
				return
			}

			consultation, err := getter.GetConsultation(r.Context(), id)

			if errors.Is(err, response.ErrNotFound) {
				log.Error("consultation not found", slog.Int64("id", id))
				w.WriteHeader(http.StatusNotFound)
				render.JSON(w, r, response.Error(string(response.NOT_FOUND), "consultation not found"))
				return
			}

			if err != nil {
				log.Error("Failed to get consultation", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get consultation"))
				return
			}

			log.Info("Consultation retrieved", slog.Int64("id_consulta", consultation.ConsultationID))
			render.JSON(w, r, Response{Consultation: consultation})
			return
		}

		var patientID *int64
		if raw := r.URL.Query().Get("paciente"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				log.Error("paciente is not an integer", slog.String("paciente", raw))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error(string(response.INVALID_PARAMETER), "paciente: must be a positive integer"))
				return
			}
			patientID = &id
		}

		consultations, err := getter.ListConsultations(r.Context(), patientID)

		var paramErr *response.ParamError
		if errors.As(err, &paramErr) {
			log.Error("invalid parameter", slog.String("param", paramErr.Param))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.INVALID_PARAMETER), paramErr.Error()))
			return
		}

		if err != nil {
			log.Error("Failed to list consultations", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list consultations"))
			return
		}

		log.Info("Consultations listed", slog.Int("count", len(consultations)))

		render.JSON(w, r, ListResponse{Consultations: consultations})
	}
}
