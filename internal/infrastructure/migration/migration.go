package migration

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"
)

// Migration represents a database migration
type Migration struct {
	Name string
	SQL  string
}

// Migrations are applied in order; every statement is idempotent.
var Migrations = []Migration{
	{
		Name: "create_resumes",
		SQL: `
		CREATE TABLE IF NOT EXISTS resumes (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			document JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
	},
	{
		Name: "index_resumes_user",
		SQL:  `CREATE INDEX IF NOT EXISTS resumes_user_id_idx ON resumes (user_id);`,
	},
	{
		Name: "create_export_jobs",
		SQL: `
		CREATE TABLE IF NOT EXISTS export_jobs (
			id UUID PRIMARY KEY,
			resume_id UUID NOT NULL,
			user_id UUID NOT NULL,
			format TEXT NOT NULL,
			preview_element_id TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			filename TEXT NOT NULL DEFAULT '',
			artifact_key TEXT NOT NULL DEFAULT '',
			error TEXT NOT NULL DEFAULT '',
			metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
	},
	{
		Name: "index_export_jobs_resume",
		SQL:  `CREATE INDEX IF NOT EXISTS export_jobs_resume_id_idx ON export_jobs (resume_id);`,
	},
}

// RunMigrations executes all necessary database migrations on startup
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	logger.Info("starting database migrations", zap.Int("count", len(Migrations)))

	for _, m := range Migrations {
		if _, err := pool.Exec(ctx, m.SQL); err != nil {
			logger.Error("migration failed", zap.String("name", m.Name), zap.Error(err))
			return fmt.Errorf("migration %s: %w", m.Name, err)
		}
		logger.Info("migration completed", zap.String("name", m.Name))
	}

	logger.Info("all migrations completed")
	return nil
}
