package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// storePG persists session records in Postgres for deployments where the
// gateway runs more than one replica and a local file will not do.
type storePG struct{ pool *pgxpool.Pool }

// NewStorePG creates a Postgres-backed store and ensures its table exists.
func NewStorePG(ctx context.Context, pool *pgxpool.Pool) (Store, error) {
	s := &storePG{pool: pool}
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS gateway_session (
			id         TEXT PRIMARY KEY,
			token      TEXT NOT NULL,
			role       TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return nil, fmt.Errorf("ensure session table: %w", err)
	}
	return s, nil
}

func (s *storePG) Get(ctx context.Context, id string) (*Record, error) {
	var rec Record
	err := s.pool.QueryRow(ctx,
		`SELECT id, token, role, updated_at FROM gateway_session WHERE id = $1`, id).
		Scan(&rec.ID, &rec.Token, &rec.Role, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *storePG) Put(ctx context.Context, rec *Record) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO gateway_session (id, token, role, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			token = EXCLUDED.token,
			role = EXCLUDED.role,
			updated_at = EXCLUDED.updated_at`,
		rec.ID, rec.Token, rec.Role, rec.UpdatedAt)
	return err
}

func (s *storePG) Delete(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM gateway_session WHERE id = $1`, id)
	return err
}

func (s *storePG) All(ctx context.Context) ([]*Record, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, token, role, updated_at FROM gateway_session`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Token, &rec.Role, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}
