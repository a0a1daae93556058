package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pathmed-service/pkg/response"

	"github.com/lib/pq"
)

// SQLSTATE codes mapped onto the response taxonomy.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeQueryCanceled       = "57014"
)

type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	QueryTimeout    time.Duration
}

type Storage struct {
	db           *sql.DB
	queryTimeout time.Duration
}

func New(storagePath string, opts Options) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := sql.Open("postgres", storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return newStorage(db, opts.QueryTimeout), nil
}

func newStorage(db *sql.DB, queryTimeout time.Duration) *Storage {
	return &Storage{db: db, queryTimeout: queryTimeout}
}

func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

func (s *Storage) BeginTx(ctx context.Context) (*sql.Tx, error) {
	const op = "storage.postgres.BeginTx"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrapErr(op, err)
	}

	return tx, nil
}

// withTimeout bounds a single query; a zero timeout leaves ctx untouched.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// wrapErr classifies a driver error. Integrity violations keep only the constraint
// name; everything else is a storage failure carrying the raw cause for the logs.
func wrapErr(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%s: %w (%s)", op, response.ErrConflict, pqErr.Constraint)
		case codeForeignKeyViolation:
			return fmt.Errorf("%s: %w (%s)", op, response.ErrNotFound, pqErr.Constraint)
		case codeQueryCanceled:
			// lib/pq cancels the statement server-side when the query context expires.
			return fmt.Errorf("%s: %w: %w: %w", op, response.ErrStorage, context.DeadlineExceeded, err)
		}
	}

	return fmt.Errorf("%s: %w: %w", op, response.ErrStorage, err)
}
