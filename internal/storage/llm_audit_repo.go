package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"squish/internal/providers"
)

// Execer is the part of a pgx pool the audit repo needs.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type LLMAuditRepo struct {
	db Execer
}

func NewLLMAuditRepo(db Execer) *LLMAuditRepo {
	return &LLMAuditRepo{db: db}
}

func (r *LLMAuditRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
CREATE TABLE IF NOT EXISTS abridge_calls (
  call_id uuid PRIMARY KEY,
  run_id text NOT NULL,
  chunk_index integer NOT NULL,
  chunk_hash text NOT NULL,
  provider_name text NOT NULL,
  model text NOT NULL,
  status text NOT NULL,
  error_type text,
  duration_ms bigint NOT NULL,
  created_at timestamptz NOT NULL DEFAULT now()
)`)
	if err != nil {
		return fmt.Errorf("create abridge_calls: %w", err)
	}
	return nil
}

func (r *LLMAuditRepo) RecordCall(ctx context.Context, rec providers.CallRecord) error {
	_, err := r.db.Exec(ctx, `
INSERT INTO abridge_calls(call_id, run_id, chunk_index, chunk_hash, provider_name, model, status, error_type, duration_ms)
VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, NULLIF($8,''), $9)`,
		uuid.NewString(), rec.RunID, rec.ChunkIndex, rec.ChunkHash, rec.Provider, rec.Model, rec.Status, rec.ErrorType, rec.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("insert abridge call: %w", err)
	}
	return nil
}
