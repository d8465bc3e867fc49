package investigation

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/kapu/osint-footprint-go/internal/constants"
	"github.com/kapu/osint-footprint-go/internal/domain"
	"github.com/kapu/osint-footprint-go/internal/service/aggregate"
	"github.com/kapu/osint-footprint-go/internal/service/pipeline"
	"github.com/kapu/osint-footprint-go/internal/service/report"
	"github.com/kapu/osint-footprint-go/internal/util"
	"github.com/kapu/osint-footprint-go/pkg/errors"
	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// Collector acquires the capture of one platform for a subject. Navigation, rendering
// and scrolling all live behind it.
type Collector interface {
	Collect(ctx context.Context, platform string, subject domain.Subject) (domain.CaptureInput, error)
}

// ResultCache short-circuits platform checks that already succeeded recently.
type ResultCache interface {
	GetResult(ctx context.Context, platform, handle string) (*domain.PlatformResult, bool)
	SetResult(ctx context.Context, handle string, result domain.PlatformResult)
}

type ReportStore interface {
	Save(ctx context.Context, report *domain.Report) error
}

type RunnerConfig struct {
	Concurrency     int
	PlatformTimeout time.Duration
	ReportDeadline  time.Duration
}

// Runner checks every platform of an investigation concurrently, then aggregates the
// results in check order and builds the report.
type Runner struct {
	collector  Collector
	engine     *pipeline.Engine
	aggregator *aggregate.Aggregator
	builder    *report.Builder
	cache      ResultCache
	store      ReportStore
	cfg        RunnerConfig
	logger     *zap.Logger
	now        func() time.Time
}

type Option func(*Runner)

func WithCache(cache ResultCache) Option {
	return func(r *Runner) { r.cache = cache }
}

func WithStore(store ReportStore) Option {
	return func(r *Runner) { r.store = store }
}

func NewRunner(collector Collector, engine *pipeline.Engine, aggregator *aggregate.Aggregator, cfg RunnerConfig, logger *zap.Logger, opts ...Option) *Runner {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = constants.WorkerConfig.PoolSize
	}
	if cfg.Concurrency > constants.WorkerConfig.MaxPoolSize {
		cfg.Concurrency = constants.WorkerConfig.MaxPoolSize
	}
	if cfg.PlatformTimeout <= 0 {
		cfg.PlatformTimeout = constants.TimeoutConfig.Platform
	}
	if cfg.ReportDeadline <= 0 {
		cfg.ReportDeadline = constants.TimeoutConfig.Report
	}

	r := &Runner{
		collector:  collector,
		engine:     engine,
		aggregator: aggregator,
		builder:    report.NewBuilder(aggregator),
		cfg:        cfg,
		logger:     util.OrNop(logger),
		now:        util.NowUTC,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run checks platforms for subject and returns the finished report. Individual
// platform failures are recorded in the report; an unusable subject or a
// FatalInitError from the collector aborts the run.
func (r *Runner) Run(ctx context.Context, subject domain.Subject, platforms []string) (*domain.Report, error) {
	if util.NormalizeHandle(subject.Handle) == "" {
		return nil, errors.NewValidationError("subject handle is required", "handle", subject.Handle)
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReportDeadline)
	defer cancel()

	platforms = uniquePlatforms(platforms)
	start := time.Now()

	p := pool.New().WithMaxGoroutines(r.cfg.Concurrency)
	results := make([]domain.PlatformResult, len(platforms))
	fatals := make([]error, len(platforms))

	for i, platform := range platforms {
		idx := i
		platform := platform
		p.Go(func() {
			results[idx], fatals[idx] = r.check(ctx, platform, subject)
			if fatals[idx] != nil {
				cancel()
			}
		})
	}

	p.Wait()

	for _, err := range fatals {
		if err != nil {
			r.logger.Error("Investigation aborted", zap.String("handle", subject.Handle), zap.Error(err))
			return nil, err
		}
	}

	inv := domain.NewInvestigation(subject)
	r.aggregator.ApplyAll(inv, results)
	rep := r.builder.Build(inv, results, r.now())

	r.logger.Info("Investigation finished",
		zap.String("id", rep.InvestigationID),
		zap.String("handle", subject.Handle),
		zap.Int("platforms", len(platforms)),
		zap.Int("found", rep.CrossPlatformAnalysis.PlatformCount),
		zap.Duration("elapsed", time.Since(start)))

	if r.store != nil {
		if err := r.store.Save(ctx, &rep); err != nil {
			r.logger.Warn("Failed to store report",
				zap.String("id", rep.InvestigationID),
				zap.Error(err))
		}
	}

	return &rep, nil
}

type outcome struct {
	result domain.PlatformResult
	fatal  error
}

// check always returns a result: a timeout, a collector error and a panic all become a
// not-found result carrying the matching error tag. The error is set only for a
// FatalInitError.
func (r *Runner) check(ctx context.Context, platform string, subject domain.Subject) (domain.PlatformResult, error) {
	if r.cache != nil {
		if cached, ok := r.cache.GetResult(ctx, platform, subject.Handle); ok {
			r.logger.Debug("Platform result served from cache", zap.String("platform", platform))
			return *cached, nil
		}
	}

	pctx, cancel := context.WithTimeout(ctx, r.cfg.PlatformTimeout)
	defer cancel()

	done := make(chan outcome, 1)
	go func() {
		var pc panics.Catcher
		var o outcome
		pc.Try(func() {
			o.result, o.fatal = r.collectAndProcess(pctx, platform, subject)
		})
		if recovered := pc.Recovered(); recovered != nil {
			r.logger.Error("Platform check panicked",
				zap.String("platform", platform),
				zap.Any("panic", recovered.Value))
			err := errors.NewPlatformError(platform, domain.ErrorPlatformFetchError, fmt.Errorf("panic: %v", recovered.Value))
			o = outcome{result: domain.FailedResult(platform, domain.QueryHandle, domain.ErrorPlatformFetchError, detail(err))}
		}
		done <- o
	}()

	var o outcome
	select {
	case <-pctx.Done():
		r.logger.Warn("Platform check timed out",
			zap.String("platform", platform),
			zap.Duration("timeout", r.cfg.PlatformTimeout))
		err := errors.NewPlatformError(platform, domain.ErrorTimedOut, pctx.Err())
		return domain.FailedResult(platform, domain.QueryHandle, domain.ErrorTimedOut, detail(err)), nil
	case o = <-done:
	}

	if o.fatal == nil && r.cache != nil {
		r.cache.SetResult(ctx, subject.Handle, o.result)
	}
	return o.result, o.fatal
}

func (r *Runner) collectAndProcess(ctx context.Context, platform string, subject domain.Subject) (domain.PlatformResult, error) {
	input, err := r.collector.Collect(ctx, platform, subject)
	if err != nil {
		if errors.IsFatal(err) {
			return domain.FailedResult(platform, domain.QueryHandle, domain.ErrorFatalInit, detail(err)), err
		}
		kind := errors.KindOf(err)
		if stderrors.Is(err, context.DeadlineExceeded) {
			kind = domain.ErrorTimedOut
		}
		if kind == domain.ErrorNone {
			kind = domain.ErrorPlatformFetchError
		}
		r.logger.Warn("Collector failed",
			zap.String("platform", platform),
			zap.String("kind", string(kind)),
			zap.Error(err))
		return domain.FailedResult(platform, domain.QueryHandle, kind, detail(err)), nil
	}

	if input.Platform == "" {
		input.Platform = platform
	}
	return r.engine.Process(input, subject), nil
}

func uniquePlatforms(platforms []string) []string {
	seen := make(map[string]struct{}, len(platforms))
	out := make([]string, 0, len(platforms))
	for _, p := range platforms {
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

func detail(err error) string {
	return util.TruncateString(fmt.Sprint(err), constants.StringLimits.ErrorDetail)
}
