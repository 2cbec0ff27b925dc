package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/greyCat08/LLMAgentsForPM/internal/domain"
)

const (
	Timezone              = "UTC"
	TimezoneOffsetSeconds = 0
	runJobTimeout         = 6 * time.Hour
)

type Job interface {
	Run(ctx context.Context) (domain.RunReport, error)
}

// Scheduler runs a batch job on a cron spec. Runs never overlap; a tick
// that fires while a run is in progress is skipped.
type Scheduler struct {
	ctx  context.Context
	cron *cron.Cron
	spec string
	job  Job
	mu   sync.Mutex
	log  *slog.Logger
}

func New(ctx context.Context, spec string, job Job, log *slog.Logger) *Scheduler {
	c := cron.New(cron.WithLocation(time.FixedZone(Timezone, TimezoneOffsetSeconds)))

	return &Scheduler{
		ctx:  ctx,
		cron: c,
		spec: spec,
		job:  job,
		log:  log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.runJob); err != nil {
		return err
	}

	s.cron.Start()

	return nil
}

// Stop stops the cron and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runJob() {
	if !s.mu.TryLock() {
		s.log.WarnContext(s.ctx, "Previous run is still in progress so this tick is skipped",
			"spec", s.spec)
		return
	}
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(s.ctx, runJobTimeout)
	defer cancel()

	select {
	case <-ctx.Done():
		s.log.InfoContext(ctx, "Scheduler context is done",
			"error", ctx.Err())
		return
	default:
	}

	report, err := s.job.Run(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to run scheduled batch",
			"error", err,
			"spec", s.spec)
		return
	}

	s.log.InfoContext(ctx, "Scheduled batch is finished",
		"spec", s.spec,
		"count", report.Count,
		"outputPath", report.OutputPath)
}
