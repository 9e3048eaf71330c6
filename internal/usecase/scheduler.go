package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// IngestRunner is the coordinator stage as seen by the scheduler.
type IngestRunner interface {
	Run(ctx context.Context) (int, error)
}

// StageRunner is any non-counting pipeline stage.
type StageRunner interface {
	Run(ctx context.Context) error
}

// SchedulerDeps wires the stages and their intervals.
type SchedulerDeps struct {
	Ingestor       IngestRunner
	Enricher       StageRunner
	Trender        StageRunner
	Linker         StageRunner
	CycleInterval  time.Duration
	LinkerInterval time.Duration
	Logger         *slog.Logger
}

// Scheduler drives the full cycle (ingest, enrich, trending) on one fixed
// interval and the linker on a longer one. Both run once at startup. Each
// loop skips a tick when the previous run is still in flight.
type Scheduler struct {
	ingestor       IngestRunner
	enricher       StageRunner
	trender        StageRunner
	linker         StageRunner
	cycleInterval  time.Duration
	linkerInterval time.Duration
	logger         *slog.Logger

	cycleMu  sync.Mutex
	linkerMu sync.Mutex
	stop     chan struct{}
	wg       sync.WaitGroup
}

// NewScheduler builds the scheduler; intervals default to 5m and 60m.
func NewScheduler(deps SchedulerDeps) *Scheduler {
	cycle := deps.CycleInterval
	if cycle <= 0 {
		cycle = 5 * time.Minute
	}
	linker := deps.LinkerInterval
	if linker <= 0 {
		linker = time.Hour
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		ingestor:       deps.Ingestor,
		enricher:       deps.Enricher,
		trender:        deps.Trender,
		linker:         deps.Linker,
		cycleInterval:  cycle,
		linkerInterval: linker,
		logger:         logger,
	}
}

// Start launches both loops. Calling Start on a running scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.stop != nil {
		return nil
	}
	s.stop = make(chan struct{})

	s.launch(ctx, s.cycleInterval, s.RunCycle)
	s.launch(ctx, s.linkerInterval, s.RunLinker)
	return nil
}

func (s *Scheduler) launch(ctx context.Context, interval time.Duration, job func(context.Context)) {
	stop := s.stop
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		job(ctx)
		for {
			select {
			case <-ticker.C:
				job(ctx)
			case <-ctx.Done():
				return
			case <-stop:
				return
			}
		}
	}()
}

// Stop halts both loops and waits for in-flight runs to return.
func (s *Scheduler) Stop() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	s.wg.Wait()
	s.stop = nil
}

// RunCycle executes ingest, enrich, and trending sequentially. A stage error
// is logged; later stages still run on whatever state exists.
func (s *Scheduler) RunCycle(ctx context.Context) {
	if !s.cycleMu.TryLock() {
		s.logger.Warn("previous cycle still running, skipping tick")
		return
	}
	defer s.cycleMu.Unlock()

	started := time.Now()

	if s.ingestor != nil {
		if created, err := s.ingestor.Run(ctx); err != nil {
			s.logger.Error("ingestion failed", "error", err)
		} else {
			s.logger.Info("ingestion done", "new_articles", created)
		}
	}

	if s.enricher != nil {
		if err := s.enricher.Run(ctx); err != nil {
			s.logger.Error("enrichment failed", "error", err)
		}
	}

	if s.trender != nil {
		if err := s.trender.Run(ctx); err != nil {
			s.logger.Error("trending aggregation failed", "error", err)
		}
	}

	s.logger.Debug("cycle complete", "elapsed", time.Since(started))
}

// RunLinker executes the related-article linker once.
func (s *Scheduler) RunLinker(ctx context.Context) {
	if !s.linkerMu.TryLock() {
		s.logger.Warn("previous linker run still in flight, skipping tick")
		return
	}
	defer s.linkerMu.Unlock()

	if s.linker == nil {
		return
	}
	if err := s.linker.Run(ctx); err != nil {
		s.logger.Error("related-article linking failed", "error", err)
	}
}
