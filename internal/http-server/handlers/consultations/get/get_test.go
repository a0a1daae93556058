package get_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"pathmed-service/api"
	"pathmed-service/internal/http-server/handlers/consultations/get"
	"pathmed-service/pkg/handlers/slogDiscard"
	"pathmed-service/pkg/response"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGetter struct {
	consultations []api.Consultation
	err           error

	listed       bool
	gotPatientID *int64
}

func (f *fakeGetter) GetConsultation(_ context.Context, id int64) (*api.Consultation, error) {
	if f.err != nil {
		return nil, f.err
	}

	for _, c := range f.consultations {
		if c.ConsultationID == id {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("service.GetConsultation: %w", response.ErrNotFound)
}

func (f *fakeGetter) ListConsultations(_ context.Context, patientID *int64) ([]api.Consultation, error) {
	f.listed = true
	f.gotPatientID = patientID

	if f.err != nil {
		return nil, f.err
	}

	if patientID != nil && *patientID <= 0 {
		return nil, response.NewParamError("paciente", "must be a positive integer")
	}

	list := make([]api.Consultation, 0)
	for _, c := range f.consultations {
		if patientID == nil || c.PatientID == *patientID {
			list = append(list, c)
		}
	}
	return list, nil
}

func newGetter() *fakeGetter {
	return &fakeGetter{consultations: []api.Consultation{
		{ConsultationID: 10, PatientID: 7, ProfessionalID: 1, Status: 1, StatusName: "Agendada", ScheduledAt: "2026-10-19T09:00:00"},
		{ConsultationID: 11, PatientID: 8, ProfessionalID: 2, Status: 2, StatusName: "Confirmada", ScheduledAt: "2026-10-19T10:30:00"},
	}}
}

func serve(t *testing.T, getter *fakeGetter, target string) *httptest.ResponseRecorder {
	t.Helper()

	handler := get.New(slogdiscard.NewDiscardLogger(), getter)

	router := chi.NewRouter()
	router.Get("/consultas", handler)
	router.Get("/consultas/{id}", handler)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	return rr
}

func TestGetConsultation(t *testing.T) {
	rr := serve(t, newGetter(), "/consultas/11")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp get.Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	require.NotNil(t, resp.Consultation)
	assert.Equal(t, "Confirmada", resp.Consultation.StatusName)
	assert.Equal(t, "2026-10-19T10:30:00", resp.Consultation.ScheduledAt)
}

func TestListConsultations(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		wantIDs []int64
	}{
		{name: "all", target: "/consultas", wantIDs: []int64{10, 11}},
		{name: "by patient", target: "/consultas?paciente=8", wantIDs: []int64{11}},
		{name: "patient without consultations", target: "/consultas?paciente=99", wantIDs: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(t, newGetter(), tt.target)
			require.Equal(t, http.StatusOK, rr.Code)

			var resp get.ListResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

			ids := make([]int64, 0, len(resp.Consultations))
			for _, c := range resp.Consultations {
				ids = append(ids, c.ConsultationID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestGetConsultation_Errors(t *testing.T) {
	tests := []struct {
		name       string
		getter     *fakeGetter
		target     string
		status     int
		code       response.ErrCode
		message    string
		wantListed bool
	}{
		{
			name:    "non-numeric id",
			getter:  newGetter(),
			target:  "/consultas/abc",
			status:  http.StatusBadRequest,
			code:    response.INVALID_PARAMETER,
			message: "id: must be a positive integer",
		},
		{
			name:    "unknown consultation",
			getter:  newGetter(),
			target:  "/consultas/404",
			status:  http.StatusNotFound,
			code:    response.NOT_FOUND,
			message: "consultation not found",
		},
		{
			name:    "non-numeric patient filter",
			getter:  newGetter(),
			target:  "/consultas?paciente=x",
			status:  http.StatusBadRequest,
			code:    response.INVALID_PARAMETER,
			message: "paciente: must be a positive integer",
		},
		{
			name:       "non-positive patient filter",
			getter:     newGetter(),
			target:     "/consultas?paciente=0",
			status:     http.StatusBadRequest,
			code:       response.INVALID_PARAMETER,
			message:    "paciente: must be a positive integer",
			wantListed: true,
		},
		{
			name:    "storage failure",
			getter:  &fakeGetter{err: fmt.Errorf("op: %w: %w", response.ErrStorage, errors.New("pq: connection reset"))},
			target:  "/consultas/10",
			status:  http.StatusInternalServerError,
			code:    response.FAILED_REQUEST,
			message: "failed to get consultation",
		},
		{
			name:       "list failure",
			getter:     &fakeGetter{err: errors.New("boom")},
			target:     "/consultas",
			status:     http.StatusInternalServerError,
			code:       response.FAILED_REQUEST,
			message:    "failed to list consultations",
			wantListed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(t, tt.getter, tt.target)

			var resp get.Response
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, string(tt.code), resp.Code)
			assert.Equal(t, tt.message, resp.Message)
			assert.Nil(t, resp.Consultation)
			assert.Equal(t, tt.wantListed, tt.getter.listed)
		})
	}
}
