package get

import (
	"context"
	"log/slog"
	"net/http"

	"pathmed-service/api"
	"pathmed-service/pkg/response"
	"pathmed-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type SpecialtyLister interface {
	ListSpecialties(ctx context.Context) ([]api.Specialty, error)
}

type Response struct {
	response.Response
	Specialties []api.Specialty `json:"especialidades"`
}

func New(log *slog.Logger, lister SpecialtyLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.specialties.get.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		specialties, err := lister.ListSpecialties(r.Context())
		if err != nil {
			log.Error("Failed to list specialties", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list specialties"))
			return
		}

		log.Info("Specialties listed", slog.Int("count", len(specialties)))

		render.JSON(w, r, Response{Specialties: specialties})
	}
}
