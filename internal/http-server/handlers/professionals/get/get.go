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
	"github.com/go-chi/render"
)

type ProfessionalLister interface {
	ListProfessionals(ctx context.Context, specialtyID *int64) ([]api.Professional, error)
}

type Response struct {
	response.Response
	Professionals []api.Professional `json:"profissionais"`
}

func New(log *slog.Logger, lister ProfessionalLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.professionals.get.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var specialtyID *int64
		if raw := r.URL.Query().Get("especialidade"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				log.Error("especialidade is not an integer", slog.String("especialidade", raw))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error(string(response.INVALID_PARAMETER), "especialidade: must be a positive integer"))
				return
			}
			specialtyID = &id
		}

		professionals, err := lister.ListProfessionals(r.Context(), specialtyID)

		var paramErr *response.ParamError
		if errors.As(err, &paramErr) {
			log.Error("invalid parameter", slog.String("param", paramErr.Param))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.INVALID_PARAMETER), paramErr.Error()))
			return
		}

		if err != nil {
			log.Error("Failed to list professionals", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list professionals"))
			return
		}

		log.Info("Professionals listed", slog.Int("count", len(professionals)))

		render.JSON(w, r, Response{Professionals: professionals})
	}
}
