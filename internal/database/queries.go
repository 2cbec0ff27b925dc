package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/greyCat08/LLMAgentsForPM/internal/domain"
)

// Run is a finished batch recorded in the run history.
type Run struct {
	ID                int64
	InputPath         string
	OutputPath        string
	ReviewCount       int64
	UnstructuredCount int64
	StartedAt         time.Time
	FinishedAt        time.Time
}

func (d *Database) GetSummary(ctx context.Context, key string) (string, bool, error) {
	query := "select summary from summaries where cache_key = ?"

	var summary string
	err := d.db.QueryRowContext(ctx, query, key).Scan(&summary)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to scan row: %w", err)
	}

	return summary, true, nil
}

func (d *Database) PutSummary(
	ctx context.Context,
	key string,
	category domain.Category,
	model string,
	summary string,
) error {
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return errors.New("summary is empty")
	}

	query := `insert into summaries (cache_key, category, model, summary)
	values (?, ?, ?, ?)
	on conflict (cache_key) do update
	set summary = excluded.summary`

	_, err := d.db.ExecContext(ctx, query, key, string(category), model, summary)

	return err
}

func (d *Database) RecordRun(ctx context.Context, report domain.RunReport) error {
	query := `insert into runs (input_path, output_path, review_count, unstructured_count, started_at, finished_at)
	values (?, ?, ?, ?, ?, ?)`

	_, err := d.db.ExecContext(ctx, query,
		report.InputPath,
		report.OutputPath,
		report.Count,
		report.UnstructuredCount,
		report.StartedAt.UTC(),
		report.FinishedAt.UTC())

	return err
}

func (d *Database) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `select id, input_path, output_path, review_count, unstructured_count, started_at, finished_at
	from runs
	order by id desc
	limit ?`

	rows, err := d.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() {
		if err = rows.Close(); err != nil {
			d.log.ErrorContext(ctx, "Failed to close rows",
				"error", err,
				"operation", "ListRuns")
		}
	}()

	var runs []Run
	for rows.Next() {
		var r Run
		if err = rows.Scan(&r.ID, &r.InputPath, &r.OutputPath, &r.ReviewCount, &r.UnstructuredCount, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		runs = append(runs, r)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return runs, nil
}
