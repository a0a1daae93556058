package register_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"pathmed-service/api"
	"pathmed-service/internal/http-server/handlers/patients/register"
	"pathmed-service/pkg/handlers/slogDiscard"
	"pathmed-service/pkg/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRegistrar struct {
	err    error
	called bool
}

func (f *fakeRegistrar) RegisterPatient(_ context.Context, req *api.PatientRegisterRequest) (*api.Patient, error) {
	f.called = true
	if f.err != nil {
		return nil, f.err
	}

	return &api.Patient{
		PatientID: 42,
		RGHC:      req.RGHC,
		CPF:       req.CPF,
		Name:      req.Name,
		BirthDate: req.BirthDate,
		BloodType: req.BloodType,
		Email:     req.Email,
		Phone:     req.Phone,
	}, nil
}

const validBody = `{
	"identificador_rghc": "RG123",
	"cpf_paciente": "123.456.789-00",
	"nome_paciente": "Maria Silva",
	"data_nascimento": "1990-05-01",
	"tipo_sanguineo": "O+",
	"email_paciente": "maria@example.com",
	"telefone_paciente": "11999990000",
	"password": "segredo123"
}`

func post(t *testing.T, registrar *fakeRegistrar, body string) (*httptest.ResponseRecorder, register.Response) {
	t.Helper()

	handler := register.New(slogdiscard.NewDiscardLogger(), registrar)

	req := httptest.NewRequest(http.MethodPost, "/pacientes", bytes.NewReader([]byte(body)))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	var resp register.Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	return rr, resp
}

func TestRegisterPatient(t *testing.T) {
	rr, resp := post(t, &fakeRegistrar{}, validBody)

	require.Equal(t, http.StatusCreated, rr.Code)
	require.NotNil(t, resp.Patient)
	assert.Equal(t, int64(42), resp.Patient.PatientID)
	assert.NotContains(t, rr.Body.String(), "segredo123")
}

func TestRegisterPatient_Validation(t *testing.T) {
	registrar := &fakeRegistrar{}

	rr, resp := post(t, registrar, `{"nome_paciente": "Maria Silva", "email_paciente": "not-an-email", "password": "123"}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, string(response.VALIDATION_FAILED), resp.Code)
	assert.Contains(t, resp.Message, "field 'CPF' is required")
	assert.Contains(t, resp.Message, "field 'Email' must be a valid e-mail")
	assert.False(t, registrar.called)
}

func TestRegisterPatient_Duplicate(t *testing.T) {
	registrar := &fakeRegistrar{err: fmt.Errorf("service.RegisterPatient: %w (tb_paciente_cpf_pac_uc)", response.ErrConflict)}

	rr, resp := post(t, registrar, validBody)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, string(response.CONFLICT), resp.Code)
}

func TestRegisterPatient_InvalidBirthDate(t *testing.T) {
	registrar := &fakeRegistrar{err: response.NewParamError("data_nascimento", "expected YYYY-MM-DD")}

	rr, resp := post(t, registrar, validBody)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "data_nascimento: expected YYYY-MM-DD", resp.Message)
}
