package storage

import (
	"context"
	"time"

	"pathmed-service/internal/models"
)

// AvailabilityReader is a read session pinned to one pooled connection.
// Callers must Close it on every path to hand the connection back to the pool.
type AvailabilityReader interface {
	SpecialtyName(ctx context.Context, specialtyID int64) (name string, found bool, err error)
	FindAvailableProfessionals(ctx context.Context, at time.Time, specialtyID int64) ([]models.ProfessionalSummary, error)
	Close() error
}
