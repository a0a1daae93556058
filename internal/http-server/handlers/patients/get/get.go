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

type PatientGetter interface {
	GetPatient(ctx context.Context, id int64) (*api.Patient, error)
	ListPatients(ctx context.Context) ([]api.Patient, error)
}

type Response struct {
	response.Response
	Patient *api.Patient `json:"paciente,omitempty"`
}

type ListResponse struct {
	response.Response
	Patients []api.Patient `json:"pacientes"`
}

// New serves both GET /pacientes and GET /pacientes/{id}.
func New(log *slog.Logger, getter PatientGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.patients.get.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		rawID := chi.URLParam(r, "id")

		if rawID != "" {
			id, err := strconv.ParseInt(rawID, 10, 64)
			if err != nil || id <= 0 {
				log.Error("invalid patient id", slog.String("id", rawID))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error(string(response.INVALID_PARAMETER), "id: must be a positive integer"))
				return
			}

			patient, err := getter.GetPatient(r.Context(), id)

			if errors.Is(err, response.ErrNotFound) {
				log.Error("patient not found", slog.Int64("id", id))
				w.WriteHeader(http.StatusNotFound)
				render.JSON(w, r, response.Error(string(response.NOT_FOUND), "patient not found"))
				return
			}

			if err != nil {
				log.Error("Failed to get patient", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get patient"))
				return
			}

			log.Info("Patient retrieved", slog.Int64("id_paciente", patient.PatientID))
			render.JSON(w, r, Response{Patient: patient})
			return
		}

		patients, err := getter.ListPatients(r.Context())
		if err != nil {
			log.Error("Failed to list patients", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list patients"))
			return
		}

		log.Info("Patients listed", slog.Int("count", len(patients)))

		render.JSON(w, r, ListResponse{Patients: patients})
	}
}
