package attributes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps attributes in the session_attributes table, the
// durable option for production deployments.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Load(ctx context.Context, key string) (map[string]any, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT attributes FROM session_attributes WHERE key = $1`, key,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load attributes: %w", err)
	}
	var attrs map[string]any
	if err := json.Unmarshal(raw, &attrs); err != nil {
		return nil, fmt.Errorf("failed to decode attributes: %w", err)
	}
	return attrs, nil
}

func (s *PostgresStore) Save(ctx context.Context, key string, attrs map[string]any) error {
	if attrs == nil {
		attrs = map[string]any{}
	}
	data, err := json.Marshal(attrs)
	if err != nil {
		return fmt.Errorf("failed to encode attributes: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO session_attributes (key, attributes, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET attributes = EXCLUDED.attributes, updated_at = NOW()`,
		key, data,
	)
	if err != nil {
		return fmt.Errorf("failed to save attributes: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM session_attributes WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("failed to delete attributes: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT key, attributes, updated_at FROM session_attributes
		ORDER BY updated_at DESC LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list attributes: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var raw []byte
		if err := rows.Scan(&rec.Key, &raw, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &rec.Attributes); err != nil {
			return nil, fmt.Errorf("failed to decode attributes for %s: %w", rec.Key, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
