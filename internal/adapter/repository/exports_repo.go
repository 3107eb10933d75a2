package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"resume-export/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type ExportsRepo struct {
	pool *pgxpool.Pool
}

func NewExportsRepo(pool *pgxpool.Pool) *ExportsRepo {
	return &ExportsRepo{pool: pool}
}

func (r *ExportsRepo) Save(ctx context.Context, j *domain.ExportJob) error {
	metaB, err := json.Marshal(j.Metadata)
	if err != nil {
		return fmt.Errorf("encode job metadata: %w", err)
	}

	_, err = r.pool.Exec(ctx, `INSERT INTO export_jobs (id, resume_id, user_id, format, preview_element_id, status, filename, artifact_key, error, metadata, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, filename = EXCLUDED.filename, artifact_key = EXCLUDED.artifact_key, error = EXCLUDED.error, metadata = EXCLUDED.metadata, updated_at = EXCLUDED.updated_at`,
		j.ID, j.ResumeID, j.UserID, j.Format, j.PreviewElementID, string(j.Status), j.Filename, j.ArtifactKey, j.Error, metaB, j.CreatedAt, j.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert export job %s: %w", j.ID, err)
	}
	return nil
}

func (r *ExportsRepo) Get(ctx context.Context, id uuid.UUID) (*domain.ExportJob, error) {
	var (
		j      domain.ExportJob
		status string
		metaB  []byte
	)
	err := r.pool.QueryRow(ctx, `SELECT id, resume_id, user_id, format, preview_element_id, status, filename, artifact_key, error, metadata, created_at, updated_at
		FROM export_jobs WHERE id = $1`, id).
		Scan(&j.ID, &j.ResumeID, &j.UserID, &j.Format, &j.PreviewElementID, &status, &j.Filename, &j.ArtifactKey, &j.Error, &metaB, &j.CreatedAt, &j.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load export job %s: %w", id, err)
	}
	j.Status = domain.JobStatus(status)
	j.Metadata = map[string]interface{}{}
	if len(metaB) > 0 {
		if err := json.Unmarshal(metaB, &j.Metadata); err != nil {
			return nil, fmt.Errorf("decode job metadata: %w", err)
		}
	}
	return &j, nil
}
