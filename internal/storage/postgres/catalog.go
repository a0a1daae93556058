package postgres

import (
	"context"

	"pathmed-service/internal/models"
)

func (s *Storage) ListSpecialties(ctx context.Context) ([]models.Specialty, error) {
	const op = "storage.postgres.ListSpecialties"

	rows, err := s.db.QueryContext(ctx, `
		SELECT id_especialidade, descricao_especialidade
		FROM tb_pathmed_especialidade
		ORDER BY descricao_especialidade`)
	if err != nil {
		return nil, wrapErr(op, err)
	}

	defer rows.Close()

	specialties := make([]models.Specialty, 0)

	for rows.Next() {
		var sp models.Specialty
		if err := rows.Scan(&sp.SpecialtyID, &sp.Name); err != nil {
			return nil, wrapErr(op, err)
		}

		specialties = append(specialties, sp)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapErr(op, err)
	}

	return specialties, nil
}

// ListProfessionals returns every professional, or only those of specialtyID when it is set.
func (s *Storage) ListProfessionals(ctx context.Context, specialtyID *int64) ([]models.Professional, error) {
	const op = "storage.postgres.ListProfessionals"

	rows, err := s.db.QueryContext(ctx, `
		SELECT id_profissional, id_especialidade, nome_profissional_saude, email_corporativo_profissional
		FROM tb_pathmed_profissional_saude
		WHERE ($1::BIGINT IS NULL OR id_especialidade = $1)
		ORDER BY nome_profissional_saude, id_profissional`, specialtyID)
	if err != nil {
		return nil, wrapErr(op, err)
	}

	defer rows.Close()

	professionals := make([]models.Professional, 0)

	for rows.Next() {
		var p models.Professional
		if err := rows.Scan(&p.ProfessionalID, &p.SpecialtyID, &p.Name, &p.Email); err != nil {
			return nil, wrapErr(op, err)
		}

		professionals = append(professionals, p)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapErr(op, err)
	}

	return professionals, nil
}
