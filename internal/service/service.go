package service

import (
	"context"
	"database/sql"
	"time"

	"pathmed-service/internal/lock"
	"pathmed-service/internal/models"
	"pathmed-service/internal/storage"
)

type Service struct {
	store  Store
	locker lock.Locker
	loc    *time.Location
	now    func() time.Time
}

func NewService(store Store, locker lock.Locker, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}

	return &Service{
		store:  store,
		locker: locker,
		loc:    loc,
		now:    time.Now,
	}
}

type Store interface {
	BeginTx(ctx context.Context) (*sql.Tx, error)

	// Availability
	AvailabilityReader(ctx context.Context) (storage.AvailabilityReader, error)

	// Catalog
	ListSpecialties(ctx context.Context) ([]models.Specialty, error)
	ListProfessionals(ctx context.Context, specialtyID *int64) ([]models.Professional, error)

	// Patients
	CreatePatientTx(ctx context.Context, tx *sql.Tx, p *models.Patient) (int64, error)
	CreatePatientContactTx(ctx context.Context, tx *sql.Tx, patientID int64, email, phone string) error
	CreatePatientLoginTx(ctx context.Context, tx *sql.Tx, login *models.PatientLogin) error
	GetPatient(ctx context.Context, id int64) (*models.Patient, error)
	ListPatients(ctx context.Context) ([]models.Patient, error)
	UpdatePatientNameTx(ctx context.Context, tx *sql.Tx, id int64, name string) error
	UpdatePatientContactTx(ctx context.Context, tx *sql.Tx, id int64, email, phone *string) error

	// Consultations
	CreateConsultationTx(ctx context.Context, tx *sql.Tx, c *models.Consultation) (int64, error)
	HasBlockingConsultationTx(ctx context.Context, tx *sql.Tx, professionalID int64, at time.Time) (bool, error)
	GetConsultation(ctx context.Context, id int64) (*models.Consultation, error)
	ListConsultations(ctx context.Context, patientID *int64) ([]models.Consultation, error)
	UpdateConsultationStatus(ctx context.Context, id int64, status models.ConsultationStatus) error
}

// Location is the zone "today" and slot wall-clock times are evaluated in.
func (s *Service) Location() *time.Location {
	return s.loc
}

// truncateToDate returns midnight of t's calendar day in loc.
func truncateToDate(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// inLocation re-reads a TIMESTAMP column's wall clock in loc; the driver returns it as UTC.
func inLocation(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}
