package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/greyCat08/LLMAgentsForPM/internal/config"
	"github.com/greyCat08/LLMAgentsForPM/internal/database"
	"github.com/greyCat08/LLMAgentsForPM/internal/feed"
	"github.com/greyCat08/LLMAgentsForPM/internal/job"
	"github.com/greyCat08/LLMAgentsForPM/internal/notifier"
	"github.com/greyCat08/LLMAgentsForPM/internal/pacing"
	"github.com/greyCat08/LLMAgentsForPM/internal/runner"
	"github.com/greyCat08/LLMAgentsForPM/internal/scheduler"
	"github.com/greyCat08/LLMAgentsForPM/internal/summarizer"
)

func main() {
	cfg, err := config.Load()

	level := slog.LevelInfo
	if err == nil {
		level = cfg.LogLevel
	}
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err != nil {
		log.ErrorContext(ctx, "Failed to load config",
			"error", err)
		cancel()
		os.Exit(1)
	}

	if err = run(ctx, cfg, log); err != nil {
		log.ErrorContext(ctx, "Run is aborted",
			"error", err,
			"missingCredential", errors.Is(err, config.ErrMissingCredential))
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	start := time.Now()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	var (
		store    summarizer.Store
		recorder job.RunRecorder
	)
	if cfg.CacheDBPath != "" {
		db, err := database.New(ctx, cfg.CacheDBPath, log)
		if err != nil {
			return fmt.Errorf("initialize db: %w", err)
		}
		defer func() {
			if err = db.Close(); err != nil {
				log.ErrorContext(ctx, "Failed to close db",
					"error", err,
					"dbPath", cfg.CacheDBPath)
			}
		}()
		log.InfoContext(ctx, "DB is initialized",
			"dbPath", cfg.CacheDBPath)

		store = db
		recorder = db

		logLastRun(ctx, db, log)
	}

	s, model := initSummarizer(cfg)
	log.InfoContext(ctx, "Summarizer is initialized",
		"provider", cfg.Provider,
		"model", model,
		"maxOutputTokens", cfg.MaxOutputTokens)

	batchRunner := runner.New(runner.Options{
		Summarizer: withCache(s, model, store, log),
		Pacer:      pacing.FixedInterval(cfg.CallInterval),
		Log:        log,
	})

	opts := job.Options{
		InputPath:    cfg.InputPath,
		OutputPath:   cfg.OutputPath,
		ReviewColumn: cfg.ReviewColumn,
		Runner:       batchRunner,
		Feeds:        feed.NewSource(log),
		Recorder:     recorder,
		Log:          log,
	}

	if cfg.TelegramEnabled() {
		n, err := notifier.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID, log)
		if err != nil {
			return fmt.Errorf("initialize telegram notifier: %w", err)
		}
		opts.Notifier = n
		log.InfoContext(ctx, "Telegram notifier is initialized",
			"chatID", cfg.TelegramChatID)
	}

	batch := job.New(opts)

	if cfg.Schedule == "" {
		_, err := batch.Run(ctx)
		return err
	}

	sched := scheduler.New(ctx, cfg.Schedule, batch, log)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("start scheduler (spec = %s): %w", cfg.Schedule, err)
	}
	log.InfoContext(ctx, "Scheduler is started",
		"spec", cfg.Schedule,
		"timezone", scheduler.Timezone)

	<-ctx.Done()
	log.InfoContext(ctx, "Shutdown signal is received",
		"uptimeSeconds", time.Since(start).Seconds())

	sched.Stop()
	log.InfoContext(ctx, "Scheduler is stopped",
		"uptimeSeconds", time.Since(start).Seconds())

	return nil
}

func initSummarizer(cfg config.Config) (summarizer.Summarizer, string) {
	opts := summarizer.Options{
		APIKey:          cfg.APIKey(),
		Model:           cfg.Model,
		MaxOutputTokens: cfg.MaxOutputTokens,
	}

	if cfg.Provider == config.ProviderAnthropic {
		s := summarizer.NewAnthropicSummarizer(opts)
		return s, s.Model()
	}

	s := summarizer.NewOpenAISummarizer(opts)
	return s, s.Model()
}

// withCache wraps s with the summary cache only when a persistent store is
// configured. Without one every review costs exactly one provider call.
func withCache(s summarizer.Summarizer, model string, store summarizer.Store, log *slog.Logger) summarizer.Summarizer {
	if store == nil {
		return s
	}
	return summarizer.NewCached(s, model, store, log)
}

func logLastRun(ctx context.Context, db *database.Database, log *slog.Logger) {
	runs, err := db.ListRuns(ctx, 1)
	if err != nil {
		log.WarnContext(ctx, "Failed to list runs",
			"error", err)
		return
	}
	if len(runs) == 0 {
		return
	}

	last := runs[0]
	log.InfoContext(ctx, "Previous run is found",
		"inputPath", last.InputPath,
		"outputPath", last.OutputPath,
		"reviewCount", last.ReviewCount,
		"unstructuredCount", last.UnstructuredCount,
		"finishedAt", last.FinishedAt)
}
