package register

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

type PatientRegistrar interface {
	RegisterPatient(ctx context.Context, req *api.PatientRegisterRequest) (*api.Patient, error)
}

type Request struct {
	api.PatientRegisterRequest
}

type Response struct {
	response.Response
	Patient *api.Patient `json:"paciente,omitempty"`
}

func New(log *slog.Logger, registrar PatientRegistrar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.patients.register.New"

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

		// the password never reaches the logs
		log.Info("Request body decoded", slog.String("cpf", req.CPF), slog.String("email", req.Email))

		if err := validator.New().Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			log.Error("Invalid request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		patient, err := registrar.RegisterPatient(r.Context(), &req.PatientRegisterRequest)

		var paramErr *response.ParamError
		if errors.As(err, &paramErr) {
			log.Error("invalid parameter", slog.String("param", paramErr.Param))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.INVALID_PARAMETER), paramErr.Error()))
			return
		}

		if errors.Is(err, response.ErrConflict) {
			log.Error("patient already registered", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.CONFLICT), "cpf or e-mail already registered"))
			return
		}

		if err != nil {
			log.Error("Failed to register patient", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to register patient"))
			return
		}

		log.Info("Patient registered", slog.Int64("id_paciente", patient.PatientID))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{Patient: patient})
	}
}
