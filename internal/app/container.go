package app

import (
	"context"

	"github.com/kapu/osint-footprint-go/internal/config"
	"github.com/kapu/osint-footprint-go/internal/domain"
	"github.com/kapu/osint-footprint-go/internal/service/aggregate"
	"github.com/kapu/osint-footprint-go/internal/service/cache"
	"github.com/kapu/osint-footprint-go/internal/service/database"
	"github.com/kapu/osint-footprint-go/internal/service/extract"
	"github.com/kapu/osint-footprint-go/internal/service/investigation"
	"github.com/kapu/osint-footprint-go/internal/service/pipeline"
	"github.com/kapu/osint-footprint-go/pkg/errors"
	"go.uber.org/zap"
)

// Container bundles the assembled services. The acquisition collaborator is supplied
// per run through NewRunner.
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	Markers    *extract.MarkerTable
	Engine     *pipeline.Engine
	Aggregator *aggregate.Aggregator

	cache   *cache.CacheService
	reports *database.ReportRepository
	closers []func()
}

// NewRunner returns an investigation runner over collector with the optional cache and
// report store attached when they are enabled.
func (c *Container) NewRunner(collector investigation.Collector) *investigation.Runner {
	var opts []investigation.Option
	if c.cache != nil {
		opts = append(opts, investigation.WithCache(c.cache))
	}
	if c.reports != nil {
		opts = append(opts, investigation.WithStore(c.reports))
	}
	return investigation.NewRunner(collector, c.Engine, c.Aggregator, investigation.RunnerConfig{
		Concurrency:     c.Config.Worker.PoolSize,
		PlatformTimeout: c.Config.Worker.PlatformTimeout,
		ReportDeadline:  c.Config.Worker.ReportDeadline,
	}, c.Logger, opts...)
}

// PreviousReport returns the latest archived report for handle, or nil when none is
// stored. It fails when the report archive is disabled.
func (c *Container) PreviousReport(ctx context.Context, handle string) (*domain.Report, error) {
	if c.reports == nil {
		return nil, errors.NewValidationError("report archive is disabled", "POSTGRES_ENABLED", false)
	}
	return c.reports.Latest(ctx, handle)
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// Build assembles all services. Any failure is a FatalInitError and releases whatever
// was already opened.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, errors.NewFatalInitError("config must not be nil", "app", nil)
	}
	if logger == nil {
		return nil, errors.NewFatalInitError("logger must not be nil", "app", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	markers, err := extract.LoadMarkerTable(cfg.Analysis.MarkersFile)
	if err != nil {
		return nil, errors.NewFatalInitError("failed to load marker table", "markers", err)
	}

	engine := pipeline.NewEngine(markers, cfg.Analysis.MaxScanDepth, logger)
	aggregator := aggregate.New(cfg.Analysis.TopN, logger)

	// Cache and database
	var cacheSvc *cache.CacheService
	if cfg.Redis.Enabled {
		cacheSvc, err = cache.NewCacheService(cache.CacheConfig{
			Host:      cfg.Redis.Host,
			Port:      cfg.Redis.Port,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			ResultTTL: cfg.Redis.ResultTTL,
		}, logger)
		if err != nil {
			return nil, errors.NewFatalInitError("failed to create cache service", "redis", err)
		}
		closers = append(closers, func() {
			_ = cacheSvc.Close()
		})
	}

	var reports *database.ReportRepository
	if cfg.Postgres.Enabled {
		var postgresSvc *database.PostgresService
		postgresSvc, err = database.NewPostgresService(ctx, database.PostgresConfig{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			Database: cfg.Postgres.Database,
		}, logger)
		if err != nil {
			return nil, errors.NewFatalInitError("failed to create postgres service", "postgres", err)
		}
		closers = append(closers, func() {
			_ = postgresSvc.Close()
		})

		reports = database.NewReportRepository(postgresSvc, logger)
		if err = reports.EnsureSchema(ctx); err != nil {
			return nil, errors.NewFatalInitError("failed to prepare report schema", "postgres", err)
		}
	}

	logger.Info("Services assembled",
		zap.Int("markers", len(markers.Markers)),
		zap.Int("max_depth", engine.MaxDepth()),
		zap.Bool("cache", cacheSvc != nil),
		zap.Bool("report_store", reports != nil))

	return &Container{
		Config:     cfg,
		Logger:     logger,
		Markers:    markers,
		Engine:     engine,
		Aggregator: aggregator,
		cache:      cacheSvc,
		reports:    reports,
		closers:    closers,
	}, nil
}
