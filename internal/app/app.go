package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Akthar-Farvees/TechPlusNew/internal/config"
	"github.com/Akthar-Farvees/TechPlusNew/internal/domain"
	"github.com/Akthar-Farvees/TechPlusNew/internal/feed"
	"github.com/Akthar-Farvees/TechPlusNew/internal/infrastructure/llm"
	"github.com/Akthar-Farvees/TechPlusNew/internal/infrastructure/sentiment"
	"github.com/Akthar-Farvees/TechPlusNew/internal/infrastructure/storage"
	"github.com/Akthar-Farvees/TechPlusNew/internal/logging"
	"github.com/Akthar-Farvees/TechPlusNew/internal/ports"
	"github.com/Akthar-Farvees/TechPlusNew/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	db        *sql.DB
	scheduler *usecase.Scheduler
}

// textService composes local VADER sentiment with the remote embeddings
// client into the single collaborator the pipeline depends on.
type textService struct {
	*sentiment.Analyzer
	*llm.Client
}

var _ ports.TextService = textService{}

// New builds a runnable application instance. Store wiring failures are the
// one fatal condition: everything past startup degrades per stage instead.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	var (
		db       *sql.DB
		sources  ports.SourceStore
		articles ports.ArticleStore
		trends   ports.TrendStore
	)
	if cfg.Database.DSN != "" {
		var err error
		db, err = storage.Open(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("connect storage: %w", err)
		}
		pg := storage.NewPostgresStore(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("prepare storage: %w", err)
		}
		sources, articles, trends = pg, pg, pg
	} else {
		baseLogger.Warn("no database DSN configured, using in-memory store")
		mem := storage.NewMemoryStore()
		sources, articles, trends = mem, mem, mem
	}

	text := textService{sentiment.NewAnalyzer(), llm.NewClient(cfg.LLM)}
	fetcher := feed.NewFetcher(nil, baseLogger.With("component", "fetcher"))
	loc := cfg.Scheduler.Location()

	ingestor := usecase.NewIngestor(usecase.IngestorDeps{
		Sources:   sources,
		Articles:  articles,
		Feeds:     fetcher,
		Bootstrap: bootstrapSources(cfg.Sources),
		Logger:    baseLogger.With("component", "ingest"),
	})
	enricher := usecase.NewEnricher(usecase.EnricherDeps{
		Articles: articles,
		Text:     text,
		Logger:   baseLogger.With("component", "enrich"),
		Location: loc,
	})
	trender := usecase.NewTrender(usecase.TrenderDeps{
		Articles: articles,
		Trends:   trends,
		Logger:   baseLogger.With("component", "trending"),
		Location: loc,
	})
	linker := usecase.NewLinker(usecase.LinkerDeps{
		Articles: articles,
		Trends:   trends,
		Text:     text,
		Logger:   baseLogger.With("component", "linker"),
	})

	scheduler := usecase.NewScheduler(usecase.SchedulerDeps{
		Ingestor:       ingestor,
		Enricher:       enricher,
		Trender:        trender,
		Linker:         linker,
		CycleInterval:  cfg.Scheduler.CycleInterval(),
		LinkerInterval: cfg.Scheduler.LinkerInterval(),
		Logger:         baseLogger.With("component", "scheduler"),
	})

	return &Application{cfg: cfg, logger: baseLogger, db: db, scheduler: scheduler}, nil
}

// Run starts the scheduler and blocks until the context is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()
	a.logger.Info("shutting down")
	a.scheduler.Stop()

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			return fmt.Errorf("close storage: %w", err)
		}
	}
	return nil
}

func bootstrapSources(cfgs []config.SourceConfig) []domain.Source {
	sources := make([]domain.Source, 0, len(cfgs))
	for _, c := range cfgs {
		interval := c.IntervalSeconds
		if interval <= 0 {
			interval = 300
		}
		sources = append(sources, domain.Source{
			Name:             c.Name,
			SiteURL:          c.SiteURL,
			FeedURL:          c.FeedURL,
			Active:           true,
			FetchIntervalSec: interval,
		})
	}
	return sources
}
