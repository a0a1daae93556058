package service

import (
	"context"
	"fmt"
	"time"

	"pathmed-service/internal/models"
	"pathmed-service/pkg/response"
)

// Consultation grid: 08:00 inclusive to 18:00 exclusive, every 30 minutes.
const (
	dayStartHour        = 8
	dayEndHour          = 18
	slotIntervalMinutes = 30

	slotsPerDay = (dayEndHour - dayStartHour) * 60 / slotIntervalMinutes
)

const noAvailabilitySummary = "Nenhuma disponibilidade encontrada"

// GenerateDaySlots returns the empty consultation grid of date's calendar day, in date's location.
func GenerateDaySlots(date time.Time) []models.TimeSlot {
	y, m, d := date.Date()
	loc := date.Location()

	slots := make([]models.TimeSlot, 0, slotsPerDay)
	for i := range slotsPerDay {
		slots = append(slots, models.TimeSlot{
			Start: time.Date(y, m, d, dayStartHour, i*slotIntervalMinutes, 0, 0, loc),
		})
	}

	return slots
}

// DayAvailability attaches to every slot of the day the professionals of specialtyID
// who are free at that instant. A zero date means today. All lookups share one pooled connection.
func (s *Service) DayAvailability(ctx context.Context, date time.Time, specialtyID int64) (*models.DayAvailability, error) {
	const op = "service.DayAvailability"

	today := truncateToDate(s.now().In(s.loc), s.loc)

	day := today
	if !date.IsZero() {
		day = truncateToDate(date, s.loc)
	}

	if day.Before(today) {
		return nil, fmt.Errorf("%s: %w", op, response.NewParamError("data", "date must not be in the past"))
	}

	if specialtyID <= 0 {
		return nil, fmt.Errorf("%s: %w", op, response.NewParamError("especialidade", "must be a positive integer"))
	}

	reader, err := s.store.AvailabilityReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer func() {
		_ = reader.Close()
	}()

	name, found, err := reader.SpecialtyName(ctx, specialtyID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !found {
		name = fmt.Sprintf("Especialidade %d", specialtyID)
	}

	slots := GenerateDaySlots(day)
	for i := range slots {
		professionals, err := reader.FindAvailableProfessionals(ctx, slots[i].Start, specialtyID)
		if err != nil {
			return nil, fmt.Errorf("%s: slot %s: %w", op, slots[i].Start.Format("15:04"), err)
		}

		slots[i].Professionals = professionals
	}

	result := &models.DayAvailability{
		Date:          day,
		SpecialtyID:   specialtyID,
		SpecialtyName: name,
		Slots:         slots,
	}

	if result.TotalAvailableSlots() == 0 {
		return nil, fmt.Errorf("%s: %w", op, response.ErrNoAvailability)
	}

	return result, nil
}

// Summarize renders the two-line report shown next to a day's availability.
func Summarize(day *models.DayAvailability) string {
	if day == nil || len(day.Slots) == 0 {
		return noAvailabilitySummary
	}

	count := day.TotalAvailableSlots()
	total := len(day.Slots)
	pct := float64(count) / float64(total) * 100

	return fmt.Sprintf("📅 %s | %s\n📊 %d/%d horários disponíveis (%.1f%%)",
		day.Date.Format("2006-01-02"),
		day.SpecialtyName,
		count,
		total,
		pct,
	)
}
