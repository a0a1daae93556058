package api

import (
	"time"

	"pathmed-service/internal/models"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02T15:04:05"
)

type Specialty struct {
	SpecialtyID int64  `json:"id_especialidade"`
	Name        string `json:"descricao_especialidade"`
}

type Professional struct {
	ProfessionalID int64  `json:"id_profissional"`
	SpecialtyID    int64  `json:"id_especialidade"`
	Name           string `json:"nome_profissional_saude"`
	Email          string `json:"email_corporativo_profissional"`
}

type ProfessionalSummary struct {
	ProfessionalID int64  `json:"id_profissional"`
	Name           string `json:"nome_profissional_saude"`
	SpecialtyName  string `json:"descricao_especialidade"`
}

type TimeSlot struct {
	Start         string                `json:"data_hora"`
	Professionals []ProfessionalSummary `json:"profissionais_disponiveis"`
}

type DayAvailability struct {
	Date                string     `json:"data"`
	SpecialtyID         int64      `json:"id_especialidade"`
	SpecialtyName       string     `json:"nome_especialidade"`
	Slots               []TimeSlot `json:"horarios"`
	TotalAvailableSlots int        `json:"total_horarios_disponiveis"`
}

// #### pacientes ####

type PatientRegisterRequest struct {
	RGHC      string `json:"identificador_rghc" validate:"required,max=20"`
	CPF       string `json:"cpf_paciente" validate:"required,min=11,max=14"`
	Name      string `json:"nome_paciente" validate:"required,max=100"`
	BirthDate string `json:"data_nascimento" validate:"required"`
	BloodType string `json:"tipo_sanguineo" validate:"required,max=3"`
	Email     string `json:"email_paciente" validate:"required,email,max=100"`
	Phone     string `json:"telefone_paciente" validate:"required,max=20"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
}

type PatientUpdateRequest struct {
	Name  *string `json:"nome_paciente" validate:"omitempty,min=1,max=100"`
	Email *string `json:"email_paciente" validate:"omitempty,email,max=100"`
	Phone *string `json:"telefone_paciente" validate:"omitempty,min=1,max=20"`
}

type Patient struct {
	PatientID int64  `json:"id_paciente"`
	RGHC      string `json:"identificador_rghc"`
	CPF       string `json:"cpf_paciente"`
	Name      string `json:"nome_paciente"`
	BirthDate string `json:"data_nascimento"`
	BloodType string `json:"tipo_sanguineo"`
	Email     string `json:"email_paciente"`
	Phone     string `json:"telefone_paciente"`
}

// #### consultas ####

type ConsultationCreateRequest struct {
	PatientID      int64  `json:"id_paciente" validate:"required,gt=0"`
	ProfessionalID int64  `json:"id_profissional" validate:"required,gt=0"`
	ScheduledAt    string `json:"data_hora_consulta" validate:"required"`
}

type ConsultationStatusRequest struct {
	Status int64 `json:"id_status" validate:"required"`
}

type Consultation struct {
	ConsultationID int64  `json:"id_consulta"`
	PatientID      int64  `json:"id_paciente"`
	ProfessionalID int64  `json:"id_profissional"`
	Status         int64  `json:"id_status"`
	StatusName     string `json:"status"`
	ScheduledAt    string `json:"data_hora_consulta"`
}

func FromSpecialty(sp models.Specialty) Specialty {
	return Specialty{SpecialtyID: sp.SpecialtyID, Name: sp.Name}
}

func FromProfessional(p models.Professional) Professional {
	return Professional{
		ProfessionalID: p.ProfessionalID,
		SpecialtyID:    p.SpecialtyID,
		Name:           p.Name,
		Email:          p.Email,
	}
}

func FromPatient(p *models.Patient) Patient {
	return Patient{
		PatientID: p.PatientID,
		RGHC:      p.RGHC,
		CPF:       p.CPF,
		Name:      p.Name,
		BirthDate: p.BirthDate.Format(DateLayout),
		BloodType: p.BloodType,
		Email:     p.Email,
		Phone:     p.Phone,
	}
}

func FromConsultation(c *models.Consultation) Consultation {
	return Consultation{
		ConsultationID: c.ConsultationID,
		PatientID:      c.PatientID,
		ProfessionalID: c.ProfessionalID,
		Status:         int64(c.Status),
		StatusName:     c.Status.String(),
		ScheduledAt:    c.ScheduledAt.Format(DateTimeLayout),
	}
}

func FromDayAvailability(d *models.DayAvailability) DayAvailability {
	slots := make([]TimeSlot, 0, len(d.Slots))
	for _, slot := range d.Slots {
		profs := make([]ProfessionalSummary, 0, len(slot.Professionals))
		for _, p := range slot.Professionals {
			profs = append(profs, ProfessionalSummary{
				ProfessionalID: p.ProfessionalID,
				Name:           p.Name,
				SpecialtyName:  p.SpecialtyName,
			})
		}

		slots = append(slots, TimeSlot{
			Start:         slot.Start.Format(DateTimeLayout),
			Professionals: profs,
		})
	}

	return DayAvailability{
		Date:                d.Date.Format(DateLayout),
		SpecialtyID:         d.SpecialtyID,
		SpecialtyName:       d.SpecialtyName,
		Slots:               slots,
		TotalAvailableSlots: d.TotalAvailableSlots(),
	}
}

// ParseDate reads a YYYY-MM-DD calendar date at midnight in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, loc)
}
