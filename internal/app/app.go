package app

import (
	"context"
	"log"
	"time"

	"github.com/zerofill/roku-s3-image-resizer/cmd/migrate"
	"github.com/zerofill/roku-s3-image-resizer/internal/config"
	"github.com/zerofill/roku-s3-image-resizer/internal/pipeline"
	"github.com/zerofill/roku-s3-image-resizer/internal/processor"
	"github.com/zerofill/roku-s3-image-resizer/internal/repository/storage"
	"github.com/zerofill/roku-s3-image-resizer/internal/s3"
	"github.com/zerofill/roku-s3-image-resizer/internal/staging"
)

type runHistory interface {
	InsertRun(ctx context.Context, bucket, prefix string, startedAt time.Time, summary pipeline.Summary) (int64, error)
	Close()
}

type App struct {
	cfg     *config.Config
	storage *s3.Client
	staging *staging.Area
	history runHistory
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	var history runHistory
	if cfg.Database.DSN != "" {
		err := migrate.Migrate(cfg.Database.DSN, migrate.Migrations)
		if err != nil {
			return nil, err
		}

		history, err = storage.New(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
	}

	s3Storage, err := s3.New(ctx, &cfg.Storage)
	if err != nil {
		return nil, err
	}

	stg, err := staging.New()
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:     cfg,
		storage: s3Storage,
		staging: stg,
		history: history,
	}, nil
}

// Run executes one full pipeline pass. The staging area is released on
// every exit path; only a discovery failure surfaces as an error.
func (a *App) Run() error {
	ctx := context.Background()

	defer func() {
		if err := a.staging.Cleanup(); err != nil {
			log.Printf("[app] staging cleanup: %v", err)
		}
	}()
	if a.history != nil {
		defer a.history.Close()
	}

	runner := pipeline.NewRunner(a.storage, processor.NewTranscoder(), a.staging, &a.cfg.Storage)

	startedAt := time.Now()
	summary, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	summary.Log()

	if a.history != nil {
		runID, err := a.history.InsertRun(ctx, a.cfg.Storage.Bucket, a.cfg.Storage.Prefix, startedAt, summary)
		if err != nil {
			// History is informational, a failed insert never fails the run.
			log.Printf("[app] record run history: %v", err)
		} else {
			log.Printf("[app] run recorded as id=%d", runID)
		}
	}

	return nil
}
