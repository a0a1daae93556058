package service

import (
	"context"
	"fmt"
	"time"

	"pathmed-service/api"
	"pathmed-service/internal/lock"
	"pathmed-service/internal/models"
	"pathmed-service/pkg/response"
)

const consultationLockTTL = 10 * time.Second

// CreateConsultation books the professional at the requested timestamp with status AGENDADA.
// The (professional, timestamp) pair is locked in Redis for the duration of the check-and-insert.
func (s *Service) CreateConsultation(ctx context.Context, req *api.ConsultationCreateRequest) (*api.Consultation, error) {
	const op = "service.CreateConsultation"

	at, err := time.ParseInLocation(api.DateTimeLayout, req.ScheduledAt, s.loc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, response.NewParamError("data_hora_consulta", "expected YYYY-MM-DDTHH:MM:SS"))
	}

	lockKey := lock.ConsultationSlotKey(req.ProfessionalID, at)

	token, locked, err := s.locker.Lock(ctx, lockKey, consultationLockTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: lock error: %w", op, err)
	}
	if !locked {
		return nil, fmt.Errorf("%s: %w", op, response.ErrLocked)
	}
	defer func() {
		_ = s.locker.Unlock(context.WithoutCancel(ctx), lockKey, token)
	}()

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: begin tx: %w", op, err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	taken, err := s.store.HasBlockingConsultationTx(ctx, tx, req.ProfessionalID, at)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if taken {
		return nil, fmt.Errorf("%s: %w", op, response.ErrSlotNotAvailable)
	}

	id, err := s.store.CreateConsultationTx(ctx, tx, &models.Consultation{
		PatientID:      req.PatientID,
		ProfessionalID: req.ProfessionalID,
		Status:         models.StatusScheduled,
		ScheduledAt:    at,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: create consultation: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: commit: %w", op, err)
	}

	return s.GetConsultation(ctx, id)
}

func (s *Service) GetConsultation(ctx context.Context, id int64) (*api.Consultation, error) {
	const op = "service.GetConsultation"

	c, err := s.store.GetConsultation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c.ScheduledAt = inLocation(c.ScheduledAt, s.loc)
	result := api.FromConsultation(c)

	return &result, nil
}

func (s *Service) ListConsultations(ctx context.Context, patientID *int64) ([]api.Consultation, error) {
	const op = "service.ListConsultations"

	if patientID != nil && *patientID <= 0 {
		return nil, fmt.Errorf("%s: %w", op, response.NewParamError("paciente", "must be a positive integer"))
	}

	consultations, err := s.store.ListConsultations(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]api.Consultation, 0, len(consultations))
	for i := range consultations {
		c := &consultations[i]
		c.ScheduledAt = inLocation(c.ScheduledAt, s.loc)
		result = append(result, api.FromConsultation(c))
	}

	return result, nil
}

func (s *Service) UpdateConsultationStatus(ctx context.Context, id int64, statusID int64) (*api.Consultation, error) {
	const op = "service.UpdateConsultationStatus"

	status := models.ConsultationStatus(statusID)
	if !status.Valid() {
		return nil, fmt.Errorf("%s: %w", op, response.NewParamError("id_status", "must be one of 1, 2, 3, 4"))
	}

	if err := s.store.UpdateConsultationStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetConsultation(ctx, id)
}
