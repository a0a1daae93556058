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
	"pathmed-service/internal/http-server/handlers/patients/get"
	"pathmed-service/pkg/handlers/slogDiscard"
	"pathmed-service/pkg/response"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGetter struct {
	patients map[int64]api.Patient
	err      error
}

func (f *fakeGetter) GetPatient(_ context.Context, id int64) (*api.Patient, error) {
	if f.err != nil {
		return nil, f.err
	}

	p, ok := f.patients[id]
	if !ok {
		return nil, fmt.Errorf("service.GetPatient: %w", response.ErrNotFound)
	}
	return &p, nil
}

func (f *fakeGetter) ListPatients(context.Context) ([]api.Patient, error) {
	if f.err != nil {
		return nil, f.err
	}

	list := make([]api.Patient, 0, len(f.patients))
	for _, p := range f.patients {
		list = append(list, p)
	}
	return list, nil
}

func newGetter() *fakeGetter {
	return &fakeGetter{patients: map[int64]api.Patient{
		7: {PatientID: 7, Name: "Maria Silva", Email: "maria@example.com"},
	}}
}

func serve(t *testing.T, getter *fakeGetter, target string) *httptest.ResponseRecorder {
	t.Helper()

	handler := get.New(slogdiscard.NewDiscardLogger(), getter)

	router := chi.NewRouter()
	router.Get("/pacientes", handler)
	router.Get("/pacientes/{id}", handler)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	return rr
}

func TestGetPatient(t *testing.T) {
	rr := serve(t, newGetter(), "/pacientes/7")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp get.Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	require.NotNil(t, resp.Patient)
	assert.Equal(t, "Maria Silva", resp.Patient.Name)
	assert.Empty(t, resp.Code)
}

func TestListPatients(t *testing.T) {
	rr := serve(t, newGetter(), "/pacientes")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp get.ListResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	require.Len(t, resp.Patients, 1)
	assert.Equal(t, int64(7), resp.Patients[0].PatientID)
}

func TestListPatients_Empty(t *testing.T) {
	rr := serve(t, &fakeGetter{}, "/pacientes")
	require.Equal(t, http.StatusOK, rr.Code)

	assert.JSONEq(t, `{"pacientes": []}`, rr.Body.String())
}

func TestGetPatient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		getter  *fakeGetter
		target  string
		status  int
		code    response.ErrCode
		message string
	}{
		{
			name:    "non-numeric id",
			getter:  newGetter(),
			target:  "/pacientes/abc",
			status:  http.StatusBadRequest,
			code:    response.INVALID_PARAMETER,
			message: "id: must be a positive integer",
		},
		{
			name:    "zero id",
			getter:  newGetter(),
			target:  "/pacientes/0",
			status:  http.StatusBadRequest,
			code:    response.INVALID_PARAMETER,
			message: "id: must be a positive integer",
		},
		{
			name:    "unknown patient",
			getter:  newGetter(),
			target:  "/pacientes/404",
			status:  http.StatusNotFound,
			code:    response.NOT_FOUND,
			message: "patient not found",
		},
		{
			name:    "storage failure",
			getter:  &fakeGetter{err: fmt.Errorf("op: %w: %w", response.ErrStorage, errors.New("pq: connection reset"))},
			target:  "/pacientes/7",
			status:  http.StatusInternalServerError,
			code:    response.FAILED_REQUEST,
			message: "failed to get patient",
		},
		{
			name:    "list failure",
			getter:  &fakeGetter{err: errors.New("boom")},
			target:  "/pacientes",
			status:  http.StatusInternalServerError,
			code:    response.FAILED_REQUEST,
			message: "failed to list patients",
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
			assert.Nil(t, resp.Patient)
		})
	}
}
