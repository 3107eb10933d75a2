package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "resume-export/internal/adapter/http"
	repo "resume-export/internal/adapter/repository"
	"resume-export/internal/config"
	"resume-export/internal/infrastructure/migration"
	"resume-export/internal/logging"
	"resume-export/internal/usecase"
	"resume-export/pkg/cache"
	infra "resume-export/pkg/infrastructure"
	"resume-export/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	var (
		resumes usecase.ResumesRepo = repo.NewMemoryResumes()
		jobs    usecase.ExportsRepo = repo.NewMemoryExports()
	)
	if cfg.DatabaseURL != "" {
		pool, err := infra.NewPool(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			logger.Warn("database not available, keeping resumes and jobs in memory", zap.Error(err))
		} else {
			defer pool.Close()
			if err := migration.RunMigrations(ctx, pool, logger); err != nil {
				return err
			}
			resumes = repo.NewResumesRepo(pool)
			jobs = repo.NewExportsRepo(pool)
		}
	}

	store, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}

	renderer := infra.NewChromedpRenderer(cfg.ChromePath, cfg.RenderTimeout, logger)
	exporter, err := usecase.NewExporter(renderer, logger)
	if err != nil {
		return err
	}

	var procOpts []usecase.ProcessorOption
	if cfg.RedisAddr != "" {
		client, err := cache.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logger.Warn("redis not available, export cache disabled", zap.Error(err))
		} else {
			defer client.Close()
			procOpts = append(procOpts, usecase.WithCache(cache.NewRedisCache(client, cfg.CacheTTL)))
		}
	}
	processor := usecase.NewProcessor(exporter, resumes, jobs, store, logger, procOpts...)

	app := fiber.New(fiber.Config{
		AppName:      "resume-export",
		BodyLimit:    8 * 1024 * 1024,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.RenderTimeout + 30*time.Second,
	})
	handler := httpadapter.NewHandler(exporter, processor, resumes, jobs, store, logger)
	handler.Register(app)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("port", cfg.Port), zap.String("storage", cfg.StorageDriver))
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownErr := app.ShutdownWithTimeout(10 * time.Second)

		drainCtx, cancel := context.WithTimeout(context.Background(), cfg.RenderTimeout+30*time.Second)
		defer cancel()
		if err := handler.Drain(drainCtx); err != nil {
			logger.Warn("export jobs still running at exit", zap.Error(err))
		}
		return shutdownErr
	}
}

func newStore(ctx context.Context, cfg *config.Config) (usecase.ArtifactStore, error) {
	if cfg.StorageDriver == config.StorageS3 {
		client, err := storage.NewS3Client(ctx, cfg.AWSRegion, cfg.S3Endpoint)
		if err != nil {
			return nil, err
		}
		return storage.NewS3Store(client, cfg.S3Bucket, "exports"), nil
	}
	local, err := storage.NewLocalStore(cfg.StorageDir)
	if err != nil {
		return nil, err
	}
	return local, nil
}
