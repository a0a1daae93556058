package service

import (
	"context"
	"fmt"

	"pathmed-service/api"
	"pathmed-service/pkg/response"
)

func (s *Service) ListSpecialties(ctx context.Context) ([]api.Specialty, error) {
	const op = "service.ListSpecialties"

	specialties, err := s.store.ListSpecialties(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]api.Specialty, 0, len(specialties))
	for _, sp := range specialties {
		result = append(result, api.FromSpecialty(sp))
	}

	return result, nil
}

func (s *Service) ListProfessionals(ctx context.Context, specialtyID *int64) ([]api.Professional, error) {
	const op = "service.ListProfessionals"

	if specialtyID != nil && *specialtyID <= 0 {
		return nil, fmt.Errorf("%s: %w", op, response.NewParamError("especialidade", "must be a positive integer"))
	}

	professionals, err := s.store.ListProfessionals(ctx, specialtyID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]api.Professional, 0, len(professionals))
	for _, p := range professionals {
		result = append(result, api.FromProfessional(p))
	}

	return result, nil
}
