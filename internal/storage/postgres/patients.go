package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"pathmed-service/internal/models"
	"pathmed-service/pkg/response"
)

const patientColumns = `
	p.id_paciente, p.identificador_rghc, p.cpf_paciente,
	p.nome_paciente, p.data_nascimento, p.tipo_sanguineo,
	COALESCE(c.email_paciente, ''), COALESCE(c.telefone_paciente, '')`

// #### pacientes/register ####

func (s *Storage) CreatePatientTx(ctx context.Context, tx *sql.Tx, p *models.Patient) (int64, error) {
	const op = "storage.postgres.CreatePatientTx"

	var id int64

	err := tx.QueryRowContext(ctx, `
		INSERT INTO tb_pathmed_paciente
		(identificador_rghc, cpf_paciente, nome_paciente, data_nascimento, tipo_sanguineo)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id_paciente`,
		p.RGHC,
		p.CPF,
		p.Name,
		p.BirthDate,
		p.BloodType,
	).Scan(&id)
	if err != nil {
		return 0, wrapErr(op, err)
	}

	return id, nil
}

func (s *Storage) CreatePatientContactTx(ctx context.Context, tx *sql.Tx, patientID int64, email, phone string) error {
	const op = "storage.postgres.CreatePatientContactTx"

	_, err := tx.ExecContext(ctx, `
		INSERT INTO tb_pathmed_contato_paciente
		(id_paciente, email_paciente, telefone_paciente)
		VALUES ($1, $2, $3)`,
		patientID,
		email,
		phone,
	)
	if err != nil {
		return wrapErr(op, err)
	}

	return nil
}

func (s *Storage) CreatePatientLoginTx(ctx context.Context, tx *sql.Tx, login *models.PatientLogin) error {
	const op = "storage.postgres.CreatePatientLoginTx"

	_, err := tx.ExecContext(ctx, `
		INSERT INTO tb_pathmed_login_paciente
		(id_paciente, usuario_login, senha_login)
		VALUES ($1, $2, $3)`,
		login.PatientID,
		login.Username,
		login.PasswordHash,
	)
	if err != nil {
		return wrapErr(op, err)
	}

	return nil
}

// #### pacientes/get ####

func (s *Storage) GetPatient(ctx context.Context, id int64) (*models.Patient, error) {
	const op = "storage.postgres.GetPatient"

	var p models.Patient

	err := s.db.QueryRowContext(ctx, `SELECT `+patientColumns+`
		FROM tb_pathmed_paciente p
		LEFT JOIN tb_pathmed_contato_paciente c ON p.id_paciente = c.id_paciente
		WHERE p.id_paciente = $1`, id).
		Scan(
			&p.PatientID,
			&p.RGHC,
			&p.CPF,
			&p.Name,
			&p.BirthDate,
			&p.BloodType,
			&p.Email,
			&p.Phone,
		)
	if err != nil {
		return nil, wrapErr(op, err)
	}

	return &p, nil
}

func (s *Storage) ListPatients(ctx context.Context) ([]models.Patient, error) {
	const op = "storage.postgres.ListPatients"

	rows, err := s.db.QueryContext(ctx, `SELECT `+patientColumns+`
		FROM tb_pathmed_paciente p
		LEFT JOIN tb_pathmed_contato_paciente c ON p.id_paciente = c.id_paciente
		ORDER BY p.id_paciente`)
	if err != nil {
		return nil, wrapErr(op, err)
	}

	defer rows.Close()

	patients := make([]models.Patient, 0)

	for rows.Next() {
		var p models.Patient

		err := rows.Scan(
			&p.PatientID,
			&p.RGHC,
			&p.CPF,
			&p.Name,
			&p.BirthDate,
			&p.BloodType,
			&p.Email,
			&p.Phone,
		)
		if err != nil {
			return nil, wrapErr(op, err)
		}

		patients = append(patients, p)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapErr(op, err)
	}

	return patients, nil
}

// #### pacientes/update ####

func (s *Storage) UpdatePatientNameTx(ctx context.Context, tx *sql.Tx, id int64, name string) error {
	const op = "storage.postgres.UpdatePatientNameTx"

	res, err := tx.ExecContext(ctx, `UPDATE tb_pathmed_paciente SET nome_paciente=$1 WHERE id_paciente=$2`, name, id)
	if err != nil {
		return wrapErr(op, err)
	}

	return expectAffected(op, res)
}

// UpdatePatientContactTx changes the non-nil contact fields only.
func (s *Storage) UpdatePatientContactTx(ctx context.Context, tx *sql.Tx, id int64, email, phone *string) error {
	const op = "storage.postgres.UpdatePatientContactTx"

	if email == nil && phone == nil {
		return nil
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE tb_pathmed_contato_paciente
		SET email_paciente = COALESCE($1, email_paciente),
			telefone_paciente = COALESCE($2, telefone_paciente)
		WHERE id_paciente = $3`,
		email,
		phone,
		id,
	)
	if err != nil {
		return wrapErr(op, err)
	}

	return expectAffected(op, res)
}

func expectAffected(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return wrapErr(op, err)
	}

	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}
