package postgres

import (
	"context"
	"database/sql"
	"time"

	"pathmed-service/internal/models"

	"github.com/lib/pq"
)

const consultationColumns = `id_consulta, id_paciente, id_profissional, id_status, data_hora_consulta`

func (s *Storage) CreateConsultationTx(ctx context.Context, tx *sql.Tx, c *models.Consultation) (int64, error) {
	const op = "storage.postgres.CreateConsultationTx"

	var id int64

	err := tx.QueryRowContext(ctx, `
		INSERT INTO tb_pathmed_teleconsulta
		(id_paciente, id_profissional, id_status, data_hora_consulta)
		VALUES ($1, $2, $3, $4)
		RETURNING id_consulta`,
		c.PatientID,
		c.ProfessionalID,
		int64(c.Status),
		c.ScheduledAt,
	).Scan(&id)
	if err != nil {
		return 0, wrapErr(op, err)
	}

	return id, nil
}

// HasBlockingConsultationTx reports whether the professional is already held at that exact timestamp.
func (s *Storage) HasBlockingConsultationTx(ctx context.Context, tx *sql.Tx, professionalID int64, at time.Time) (bool, error) {
	const op = "storage.postgres.HasBlockingConsultationTx"

	var exists bool

	err := tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM tb_pathmed_teleconsulta
			WHERE id_profissional = $1
			AND data_hora_consulta = $2
			AND id_status = ANY($3)
		)`,
		professionalID,
		at,
		pq.Array(blockingStatusIDs()),
	).Scan(&exists)
	if err != nil {
		return false, wrapErr(op, err)
	}

	return exists, nil
}

func (s *Storage) GetConsultation(ctx context.Context, id int64) (*models.Consultation, error) {
	const op = "storage.postgres.GetConsultation"

	var c models.Consultation

	err := s.db.QueryRowContext(ctx, `SELECT `+consultationColumns+`
		FROM tb_pathmed_teleconsulta
		WHERE id_consulta = $1`, id).
		Scan(
			&c.ConsultationID,
			&c.PatientID,
			&c.ProfessionalID,
			&c.Status,
			&c.ScheduledAt,
		)
	if err != nil {
		return nil, wrapErr(op, err)
	}

	return &c, nil
}

// ListConsultations returns every consultation, or only those of patientID when it is set.
func (s *Storage) ListConsultations(ctx context.Context, patientID *int64) ([]models.Consultation, error) {
	const op = "storage.postgres.ListConsultations"

	rows, err := s.db.QueryContext(ctx, `SELECT `+consultationColumns+`
		FROM tb_pathmed_teleconsulta
		WHERE ($1::BIGINT IS NULL OR id_paciente = $1)
		ORDER BY data_hora_consulta, id_consulta`, patientID)
	if err != nil {
		return nil, wrapErr(op, err)
	}

	defer rows.Close()

	consultations := make([]models.Consultation, 0)

	for rows.Next() {
		var c models.Consultation

		err := rows.Scan(
			&c.ConsultationID,
			&c.PatientID,
			&c.ProfessionalID,
			&c.Status,
			&c.ScheduledAt,
		)
		if err != nil {
			return nil, wrapErr(op, err)
		}

		consultations = append(consultations, c)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapErr(op, err)
	}

	return consultations, nil
}

func (s *Storage) UpdateConsultationStatus(ctx context.Context, id int64, status models.ConsultationStatus) error {
	const op = "storage.postgres.UpdateConsultationStatus"

	res, err := s.db.ExecContext(ctx, `UPDATE tb_pathmed_teleconsulta SET id_status=$1 WHERE id_consulta=$2`, int64(status), id)
	if err != nil {
		return wrapErr(op, err)
	}

	return expectAffected(op, res)
}
