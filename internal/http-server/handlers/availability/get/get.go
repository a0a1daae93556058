package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"pathmed-service/api"
	"pathmed-service/internal/models"
	"pathmed-service/internal/service"
	"pathmed-service/pkg/response"
	"pathmed-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type AvailabilityFinder interface {
	DayAvailability(ctx context.Context, date time.Time, specialtyID int64) (*models.DayAvailability, error)
	Location() *time.Location
}

type Response struct {
	response.Response
	Availability *api.DayAvailability `json:"disponibilidade,omitempty"`
	Report       string               `json:"relatorio,omitempty"`
}

// New serves GET /disponibilidade?especialidade={id}&data={YYYY-MM-DD}. Without data the
// service answers for its own today.
func New(log *slog.Logger, finder AvailabilityFinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.availability.get.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		rawSpecialty := r.URL.Query().Get("especialidade")
		if rawSpecialty == "" {
			log.Error("especialidade is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.INVALID_PARAMETER), "especialidade is required"))
			return
		}

		specialtyID, err := strconv.ParseInt(rawSpecialty, 10, 64)
		if err != nil {
			log.Error("especialidade is not an integer", slog.String("especialidade", rawSpecialty))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.INVALID_PARAMETER), "especialidade: must be a positive integer"))
			return
		}

		var date time.Time
		rawDate := r.URL.Query().Get("data")
		if rawDate != "" {
			date, err = api.ParseDate(rawDate, finder.Location())
			if err != nil {
				log.Error("data is malformed", slog.String("data", rawDate))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error(string(response.INVALID_PARAMETER), "data: expected YYYY-MM-DD"))
				return
			}
		}

		day, err := finder.DayAvailability(r.Context(), date, specialtyID)

		var paramErr *response.ParamError
		if errors.As(err, &paramErr) {
			log.Error("invalid parameter", slog.String("param", paramErr.Param))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.INVALID_PARAMETER), paramErr.Error()))
			return
		}

		if errors.Is(err, response.ErrNoAvailability) {
			log.Info("no availability", slog.Int64("especialidade", specialtyID), slog.String("data", rawDate))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NO_AVAILABILITY), "no availability found for the requested date"))
			return
		}

		if errors.Is(err, response.ErrStorage) {
			log.Error("Failed to query availability", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.STORAGE_FAILURE), storageFailureMessage(err)))
			return
		}

		if err != nil {
			log.Error("Unexpected error while computing availability", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "internal error"))
			return
		}

		log.Info("Availability computed",
			slog.Int64("especialidade", specialtyID),
			slog.Int("total_horarios_disponiveis", day.TotalAvailableSlots()),
		)

		responseOK(w, r, day)
	}
}

// storageFailureMessage names the cause without leaking driver text.
func storageFailureMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "availability query timed out"
	}
	return "database unavailable"
}

func responseOK(w http.ResponseWriter, r *http.Request, day *models.DayAvailability) {
	availability := api.FromDayAvailability(day)

	render.JSON(w, r, Response{
		Availability: &availability,
		Report:       service.Summarize(day),
	})
}
