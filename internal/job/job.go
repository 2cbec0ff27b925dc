package job

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/greyCat08/LLMAgentsForPM/internal/domain"
	"github.com/greyCat08/LLMAgentsForPM/internal/feed"
	"github.com/greyCat08/LLMAgentsForPM/internal/runner"
	"github.com/greyCat08/LLMAgentsForPM/internal/tabular"
)

// FeedReader loads reviews from a remote feed.
type FeedReader interface {
	Reviews(ctx context.Context, feedURL string) ([]domain.Review, error)
}

// BatchRunner turns reviews into output records.
type BatchRunner interface {
	Run(ctx context.Context, reviews []domain.Review) ([]domain.OutputRecord, error)
}

// RunRecorder keeps the history of finished runs.
type RunRecorder interface {
	RecordRun(ctx context.Context, report domain.RunReport) error
}

type Notifier interface {
	Notify(ctx context.Context, report domain.RunReport) error
}

type Options struct {
	InputPath    string
	OutputPath   string
	ReviewColumn string

	Runner BatchRunner
	Feeds  FeedReader
	// Recorder and Notifier are optional.
	Recorder RunRecorder
	Notifier Notifier
	Log      *slog.Logger
}

// Job performs one full batch: read, classify and summarize, write.
type Job struct {
	opts Options
	now  func() time.Time
}

func New(opts Options) *Job {
	if opts.Log == nil {
		opts.Log = slog.Default()
	}

	return &Job{opts: opts, now: time.Now}
}

// Run fails before any review is processed when the input cannot be read,
// and leaves the output untouched unless every review was processed.
func (j *Job) Run(ctx context.Context) (domain.RunReport, error) {
	log := j.opts.Log
	startedAt := j.now()

	reviews, err := j.loadReviews(ctx)
	if err != nil {
		return domain.RunReport{}, fmt.Errorf("load reviews: %w", err)
	}

	log.InfoContext(ctx, "Reviews are loaded",
		"inputPath", j.opts.InputPath,
		"count", len(reviews))

	records, err := j.opts.Runner.Run(ctx, reviews)
	if err != nil {
		return domain.RunReport{}, fmt.Errorf("run batch: %w", err)
	}

	if err = tabular.WriteRecords(j.opts.OutputPath, records); err != nil {
		return domain.RunReport{}, fmt.Errorf("write output: %w", err)
	}

	report := domain.RunReport{
		InputPath:         j.opts.InputPath,
		OutputPath:        j.opts.OutputPath,
		Count:             len(records),
		UnstructuredCount: runner.UnstructuredCount(records),
		CategoryCounts:    runner.CategoryCounts(records),
		StartedAt:         startedAt,
		FinishedAt:        j.now(),
	}

	log.InfoContext(ctx, "Reviews are classified",
		"count", report.Count,
		"outputPath", report.OutputPath,
		"unstructuredCount", report.UnstructuredCount,
		"durationSeconds", report.Duration().Seconds())

	if j.opts.Recorder != nil {
		if err = j.opts.Recorder.RecordRun(ctx, report); err != nil {
			log.WarnContext(ctx, "Failed to record run",
				"error", err,
				"outputPath", report.OutputPath)
		}
	}

	if j.opts.Notifier != nil {
		if err = j.opts.Notifier.Notify(ctx, report); err != nil {
			log.WarnContext(ctx, "Failed to send run report",
				"error", err,
				"count", report.Count)
		}
	}

	return report, nil
}

func (j *Job) loadReviews(ctx context.Context) ([]domain.Review, error) {
	if feed.IsFeedURL(j.opts.InputPath) {
		if j.opts.Feeds == nil {
			return nil, fmt.Errorf("feed input %q is not supported", j.opts.InputPath)
		}
		return j.opts.Feeds.Reviews(ctx, j.opts.InputPath)
	}

	return tabular.ReadReviews(j.opts.InputPath, j.opts.ReviewColumn)
}
