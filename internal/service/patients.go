package service

import (
	"context"
	"fmt"
	"time"

	"pathmed-service/api"
	"pathmed-service/internal/models"
	"pathmed-service/pkg/response"

	"golang.org/x/crypto/bcrypt"
)

// RegisterPatient stores the patient, the contact row and the login row in one transaction.
// The e-mail doubles as the login username.
func (s *Service) RegisterPatient(ctx context.Context, req *api.PatientRegisterRequest) (*api.Patient, error) {
	const op = "service.RegisterPatient"

	birthDate, err := time.Parse(api.DateLayout, req.BirthDate)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, response.NewParamError("data_nascimento", "expected YYYY-MM-DD"))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%s: hash password: %w", op, err)
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: begin tx: %w", op, err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	id, err := s.store.CreatePatientTx(ctx, tx, &models.Patient{
		RGHC:      req.RGHC,
		CPF:       req.CPF,
		Name:      req.Name,
		BirthDate: birthDate,
		BloodType: req.BloodType,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.store.CreatePatientContactTx(ctx, tx, id, req.Email, req.Phone); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	login := &models.PatientLogin{
		PatientID:    id,
		Username:     req.Email,
		PasswordHash: string(hash),
	}

	if err := s.store.CreatePatientLoginTx(ctx, tx, login); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: commit: %w", op, err)
	}

	return s.GetPatient(ctx, id)
}

func (s *Service) GetPatient(ctx context.Context, id int64) (*api.Patient, error) {
	const op = "service.GetPatient"

	p, err := s.store.GetPatient(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := api.FromPatient(p)

	return &result, nil
}

func (s *Service) ListPatients(ctx context.Context) ([]api.Patient, error) {
	const op = "service.ListPatients"

	patients, err := s.store.ListPatients(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]api.Patient, 0, len(patients))
	for i := range patients {
		result = append(result, api.FromPatient(&patients[i]))
	}

	return result, nil
}

// UpdatePatient applies the non-nil fields of upd; an empty update returns the patient unchanged.
func (s *Service) UpdatePatient(ctx context.Context, id int64, upd models.PatientUpdate) (*api.Patient, error) {
	const op = "service.UpdatePatient"

	current, err := s.GetPatient(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if upd.Name == nil && upd.Email == nil && upd.Phone == nil {
		return current, nil
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: begin tx: %w", op, err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	if upd.Name != nil {
		if err := s.store.UpdatePatientNameTx(ctx, tx, id, *upd.Name); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := s.store.UpdatePatientContactTx(ctx, tx, id, upd.Email, upd.Phone); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: commit: %w", op, err)
	}

	return s.GetPatient(ctx, id)
}
