package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kapu/osint-footprint-go/internal/app"
	"github.com/kapu/osint-footprint-go/internal/config"
	"github.com/kapu/osint-footprint-go/internal/service/investigation"
	"github.com/kapu/osint-footprint-go/internal/util"
	"github.com/kapu/osint-footprint-go/pkg/errors"
	"go.uber.org/zap"
)

func main() {
	bundlePath := flag.String("bundle", "", "capture bundle JSON (subject + captures)")
	handle := flag.String("handle", "", "override the bundle's subject handle")
	previous := flag.Bool("previous", false, "print the latest archived report for -handle instead of running")
	flag.Parse()

	if (*bundlePath == "" && !*previous) || (*previous && *handle == "") {
		fmt.Fprintln(os.Stderr, "usage: investigate -bundle capture.json [-handle name] | -previous -handle name")
		os.Exit(2)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *previous {
		err = showPrevious(cfg, logger, *handle)
	} else {
		err = run(cfg, logger, *bundlePath, *handle)
	}
	if err != nil {
		logger.Error("Investigation failed", zap.Error(err))
		if errors.IsFatal(err) {
			os.Exit(1)
		}
		os.Exit(3)
	}
}

func run(cfg *config.Config, logger *zap.Logger, bundlePath, handle string) error {
	f, err := os.Open(bundlePath)
	if err != nil {
		return errors.NewFatalInitError("failed to open capture bundle", "bundle", err)
	}
	bundle, err := investigation.LoadBundle(f)
	f.Close()
	if err != nil {
		return err
	}
	if handle != "" {
		bundle.Subject.Handle = handle
	}

	container, err := build(cfg, logger)
	if err != nil {
		return err
	}
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Investigation starting",
		zap.String("handle", bundle.Subject.Handle),
		zap.Int("captures", len(bundle.Captures)))

	// Without captures every configured platform is still checked and reported as failed.
	platforms := bundle.Platforms()
	if len(platforms) == 0 {
		platforms = cfg.Worker.Platforms
	}

	runner := container.NewRunner(investigation.NewBundleCollector(bundle))
	report, err := runner.Run(ctx, bundle.Subject, platforms)
	if err != nil {
		return err
	}
	return printJSON(report)
}

func showPrevious(cfg *config.Config, logger *zap.Logger, handle string) error {
	container, err := build(cfg, logger)
	if err != nil {
		return err
	}
	defer container.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	report, err := container.PreviousReport(ctx, handle)
	if err != nil {
		return err
	}
	if report == nil {
		logger.Warn("No archived report", zap.String("handle", handle))
		return nil
	}
	return printJSON(report)
}

func build(cfg *config.Config, logger *zap.Logger) (*app.Container, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return app.Build(ctx, cfg, logger)
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
