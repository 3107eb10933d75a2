package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"resume-export/internal/domain"
	"resume-export/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ResumesRepo stores whole resume documents as JSONB.
type ResumesRepo struct {
	pool *pgxpool.Pool
}

func NewResumesRepo(pool *pgxpool.Pool) *ResumesRepo {
	return &ResumesRepo{pool: pool}
}

func (r *ResumesRepo) Save(ctx context.Context, res *model.Resume) error {
	now := time.Now().UTC()
	if res.CreatedAt.IsZero() {
		res.CreatedAt = now
	}
	res.UpdatedAt = now

	doc, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode resume %s: %w", res.ID, err)
	}
	_, err = r.pool.Exec(ctx, `INSERT INTO resumes (id, user_id, title, document, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE SET user_id = EXCLUDED.user_id, title = EXCLUDED.title, document = EXCLUDED.document, updated_at = EXCLUDED.updated_at`,
		res.ID, res.UserID, res.Title, doc, res.CreatedAt, res.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert resume %s: %w", res.ID, err)
	}
	return nil
}

func (r *ResumesRepo) Get(ctx context.Context, id uuid.UUID) (*model.Resume, error) {
	var doc []byte
	err := r.pool.QueryRow(ctx, `SELECT document FROM resumes WHERE id = $1`, id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load resume %s: %w", id, err)
	}
	var res model.Resume
	if err := json.Unmarshal(doc, &res); err != nil {
		return nil, fmt.Errorf("decode resume %s: %w", id, err)
	}
	return &res, nil
}
