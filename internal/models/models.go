package models

import "time"

type ConsultationStatus int64

const (
	StatusScheduled ConsultationStatus = 1
	StatusConfirmed ConsultationStatus = 2
	StatusCompleted ConsultationStatus = 3
	StatusCancelled ConsultationStatus = 4
)

// BlockingStatuses occupy the professional's slot.
var BlockingStatuses = []ConsultationStatus{StatusScheduled, StatusConfirmed}

func (s ConsultationStatus) Valid() bool {
	return s >= StatusScheduled && s <= StatusCancelled
}

func (s ConsultationStatus) Blocking() bool {
	return s == StatusScheduled || s == StatusConfirmed
}

func (s ConsultationStatus) String() string {
	switch s {
	case StatusScheduled:
		return "AGENDADA"
	case StatusConfirmed:
		return "CONFIRMADA"
	case StatusCompleted:
		return "REALIZADA"
	case StatusCancelled:
		return "CANCELADA"
	default:
		return "DESCONHECIDO"
	}
}

type Specialty struct {
	SpecialtyID int64  `db:"id_especialidade"`
	Name        string `db:"descricao_especialidade"`
}

type Professional struct {
	ProfessionalID int64  `db:"id_profissional"`
	SpecialtyID    int64  `db:"id_especialidade"`
	Name           string `db:"nome_profissional_saude"`
	Email          string `db:"email_corporativo_profissional"`
}

type ProfessionalSummary struct {
	ProfessionalID int64  `db:"id_profissional"`
	Name           string `db:"nome_profissional_saude"`
	SpecialtyName  string `db:"descricao_especialidade"`
}

type Patient struct {
	PatientID int64     `db:"id_paciente"`
	RGHC      string    `db:"identificador_rghc"`
	CPF       string    `db:"cpf_paciente"`
	Name      string    `db:"nome_paciente"`
	BirthDate time.Time `db:"data_nascimento"`
	BloodType string    `db:"tipo_sanguineo"`
	Email     string    `db:"email_paciente"`
	Phone     string    `db:"telefone_paciente"`
}

type PatientLogin struct {
	PatientID    int64  `db:"id_paciente"`
	Username     string `db:"usuario_login"`
	PasswordHash string `db:"senha_login"`
}

// PatientUpdate carries the optional fields of a partial update; nil means unchanged.
type PatientUpdate struct {
	Name  *string
	Email *string
	Phone *string
}

type Consultation struct {
	ConsultationID int64              `db:"id_consulta"`
	PatientID      int64              `db:"id_paciente"`
	ProfessionalID int64              `db:"id_profissional"`
	Status         ConsultationStatus `db:"id_status"`
	ScheduledAt    time.Time          `db:"data_hora_consulta"`
}

// TimeSlot is the start of a 30-minute window and the professionals free at that instant.
type TimeSlot struct {
	Start         time.Time
	Professionals []ProfessionalSummary
}

func (t TimeSlot) HasAvailability() bool {
	return len(t.Professionals) > 0
}

type DayAvailability struct {
	Date          time.Time
	SpecialtyID   int64
	SpecialtyName string
	Slots         []TimeSlot
}

func (d *DayAvailability) TotalAvailableSlots() int {
	n := 0
	for _, slot := range d.Slots {
		if slot.HasAvailability() {
			n++
		}
	}
	return n
}
