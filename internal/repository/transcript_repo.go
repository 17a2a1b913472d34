package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"voxbridge/internal/models"
)

type TranscriptRepo struct {
	pool *pgxpool.Pool
}

func NewTranscriptRepo(pool *pgxpool.Pool) *TranscriptRepo {
	return &TranscriptRepo{pool: pool}
}

// Insert archives one exchange. The record keeps the timestamp assigned
// when the exchange happened, not when the archiver got around to it.
func (r *TranscriptRepo) Insert(ctx context.Context, tr *models.Transcript) error {
	query := `INSERT INTO transcripts (id, session_id, user_id, question, reply, fallback, latency_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		tr.ID, tr.SessionID, tr.UserID, tr.Question, tr.Reply, tr.Fallback, tr.LatencyMS, tr.CreatedAt,
	)
	return err
}

func (r *TranscriptRepo) ListBySession(ctx context.Context, sessionID string, limit int) ([]models.Transcript, error) {
	query := `SELECT id, session_id, user_id, question, reply, fallback, latency_ms, created_at
		FROM transcripts WHERE session_id = $1 ORDER BY created_at DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transcripts := []models.Transcript{}
	for rows.Next() {
		var tr models.Transcript
		if err := rows.Scan(
			&tr.ID, &tr.SessionID, &tr.UserID, &tr.Question, &tr.Reply,
			&tr.Fallback, &tr.LatencyMS, &tr.CreatedAt,
		); err != nil {
			return nil, err
		}
		transcripts = append(transcripts, tr)
	}
	return transcripts, rows.Err()
}

func (r *TranscriptRepo) ListRecent(ctx context.Context, limit int) ([]models.Transcript, error) {
	query := `SELECT id, session_id, user_id, question, reply, fallback, latency_ms, created_at
		FROM transcripts ORDER BY created_at DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transcripts := []models.Transcript{}
	for rows.Next() {
		var tr models.Transcript
		if err := rows.Scan(
			&tr.ID, &tr.SessionID, &tr.UserID, &tr.Question, &tr.Reply,
			&tr.Fallback, &tr.LatencyMS, &tr.CreatedAt,
		); err != nil {
			return nil, err
		}
		transcripts = append(transcripts, tr)
	}
	return transcripts, rows.Err()
}
