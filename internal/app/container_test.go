package app

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/kapu/osint-footprint-go/internal/config"
	"github.com/kapu/osint-footprint-go/internal/domain"
	"github.com/kapu/osint-footprint-go/internal/service/investigation"
	"github.com/kapu/osint-footprint-go/pkg/errors"
	"go.uber.org/zap"
)

func offlineConfig() *config.Config {
	return &config.Config{
		Logging:  config.LoggingConfig{Level: "info", Format: "console"},
		Worker:   config.WorkerConfig{PoolSize: 2, PlatformTimeout: time.Second, ReportDeadline: time.Minute},
		Analysis: config.AnalysisConfig{MaxScanDepth: 5, TopN: 5},
	}
}

func TestBuildWithoutBackends(t *testing.T) {
	container, err := Build(context.Background(), offlineConfig(), zap.NewNop())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	defer container.Close()

	if _, err := container.PreviousReport(context.Background(), "jane"); err == nil {
		t.Fatal("PreviousReport() should fail without a report archive")
	}

	bundle, err := investigation.LoadBundle(strings.NewReader(`{"subject":{"handle":"jane"},"captures":[{"platform":"github"}]}`))
	if err != nil {
		t.Fatalf("LoadBundle() error = %v", err)
	}
	report, err := container.NewRunner(investigation.NewBundleCollector(bundle)).
		Run(context.Background(), bundle.Subject, bundle.Platforms())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !report.Findings["github"].Found || report.Findings["github"].Error != domain.ErrorNone {
		t.Fatalf("findings = %+v", report.Findings)
	}
}

func TestBuildFailuresAreFatal(t *testing.T) {
	cfg := offlineConfig()
	cfg.Analysis.MarkersFile = t.TempDir() + "/missing.yaml"

	_, err := Build(context.Background(), cfg, zap.NewNop())
	if !errors.IsFatal(err) {
		t.Fatalf("Build() error = %v, want FatalInitError", err)
	}
	if _, err := Build(context.Background(), nil, zap.NewNop()); !errors.IsFatal(err) {
		t.Fatalf("Build(nil config) error = %v, want FatalInitError", err)
	}
}
