package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zerofill/roku-s3-image-resizer/internal/pipeline"
)

// dbStorage keeps an append-only history of resize runs. The pipeline
// never reads it back; runs are not resumable.
type dbStorage struct {
	dbpool *pgxpool.Pool
}

func New(ctx context.Context, databaseDSN string) (*dbStorage, error) {
	pool, err := pgxpool.New(ctx, databaseDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	return &dbStorage{dbpool: pool}, nil
}

func (s *dbStorage) Ping(ctx context.Context) error {
	return s.dbpool.Ping(ctx)
}

func (s *dbStorage) Close() {
	s.dbpool.Close()
}

// InsertRun records one completed run and its per-object outcomes.
func (s *dbStorage) InsertRun(ctx context.Context, bucket, prefix string, startedAt time.Time, summary pipeline.Summary) (int64, error) {
	tx, err := s.dbpool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var runID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO resize_runs
		   (bucket, prefix, objects_attempted, objects_with_failures, variants_published, variants_failed, started_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		bucket, prefix,
		summary.ObjectsAttempted, summary.ObjectsWithFailures,
		summary.VariantsPublished, summary.VariantsFailed,
		startedAt,
	).Scan(&runID)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}

	rows := make([][]any, 0, len(summary.Outcomes))
	for _, o := range summary.Outcomes {
		rows = append(rows, []any{runID, o.SourceKey, len(o.Variants), o.FailedVariants})
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"resize_run_objects"},
		[]string{"run_id", "source_key", "variants_published", "variants_failed"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run objects: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return runID, nil
}
