package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pathmed-service/internal/models"
	"pathmed-service/internal/storage"

	"github.com/lib/pq"
)

const specialtyNameQuery = `
	SELECT descricao_especialidade
	FROM tb_pathmed_especialidade
	WHERE id_especialidade = $1`

const availableProfessionalsQuery = `
	SELECT ps.id_profissional, ps.nome_profissional_saude, e.descricao_especialidade
	FROM tb_pathmed_profissional_saude ps
	JOIN tb_pathmed_especialidade e ON ps.id_especialidade = e.id_especialidade
	WHERE ps.id_especialidade = $1
	AND NOT EXISTS (
		SELECT 1
		FROM tb_pathmed_teleconsulta tc
		WHERE tc.id_profissional = ps.id_profissional
		AND tc.data_hora_consulta = $2
		AND tc.id_status = ANY($3)
	)
	ORDER BY ps.nome_profissional_saude, ps.id_profissional`

// availabilityConn runs every availability query of one request on the same connection.
type availabilityConn struct {
	conn         *sql.Conn
	queryTimeout time.Duration
}

// AvailabilityReader acquires one connection from the pool for the duration of a request.
func (s *Storage) AvailabilityReader(ctx context.Context) (storage.AvailabilityReader, error) {
	const op = "storage.postgres.AvailabilityReader"

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, wrapErr(op, err)
	}

	return &availabilityConn{conn: conn, queryTimeout: s.queryTimeout}, nil
}

func (a *availabilityConn) SpecialtyName(ctx context.Context, specialtyID int64) (string, bool, error) {
	const op = "storage.postgres.SpecialtyName"

	ctx, cancel := withTimeout(ctx, a.queryTimeout)
	defer cancel()

	var name string

	err := a.conn.QueryRowContext(ctx, specialtyNameQuery, specialtyID).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, wrapErr(op, err)
	}

	return name, true, nil
}

func (a *availabilityConn) FindAvailableProfessionals(ctx context.Context, at time.Time, specialtyID int64) ([]models.ProfessionalSummary, error) {
	const op = "storage.postgres.FindAvailableProfessionals"

	ctx, cancel := withTimeout(ctx, a.queryTimeout)
	defer cancel()

	rows, err := a.conn.QueryContext(ctx, availableProfessionalsQuery, specialtyID, at, pq.Array(blockingStatusIDs()))
	if err != nil {
		return nil, wrapErr(op, err)
	}

	defer rows.Close()

	professionals := make([]models.ProfessionalSummary, 0)

	for rows.Next() {
		var p models.ProfessionalSummary
		if err := rows.Scan(&p.ProfessionalID, &p.Name, &p.SpecialtyName); err != nil {
			return nil, wrapErr(op, err)
		}

		professionals = append(professionals, p)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapErr(op, err)
	}

	return professionals, nil
}

func (a *availabilityConn) Close() error {
	if err := a.conn.Close(); err != nil {
		return fmt.Errorf("storage.postgres.availabilityConn.Close: %w", err)
	}
	return nil
}

func blockingStatusIDs() []int64 {
	ids := make([]int64, 0, len(models.BlockingStatuses))
	for _, s := range models.BlockingStatuses {
		ids = append(ids, int64(s))
	}
	return ids
}
