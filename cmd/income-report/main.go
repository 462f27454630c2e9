package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"incomecli/internal/config"
	apperrors "incomecli/internal/errors"
	"incomecli/internal/infrastructure"
	"incomecli/internal/operations"
	"incomecli/pkg/contracts"
)

const shutdownTimeout = 5 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout)
	stop()
	os.Exit(code)
}

// options are the command line flags. -in and -out take precedence over
// the config file and the environment.
type options struct {
	configPath string
	input      string
	output     string
	version    bool
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "YAML config file (default: income.yaml or configs/income.yaml if present)")
	fs.StringVar(&opts.input, "in", "", "input CSV path (default "+config.DefaultInputPath+")")
	fs.StringVar(&opts.output, "out", "", "output workbook path (default "+config.DefaultOutputPath+")")
	fs.BoolVar(&opts.version, "version", false, "print version information and exit")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return opts, nil
}

// run executes one report and returns the process exit code.
func run(ctx context.Context, args []string, stdout io.Writer) int {
	opts, err := parseFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		slog.Error("Invalid command line", slog.String("error", err.Error()))
		return 1
	}
	if opts.version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		logFailure(ctx, slog.Default(), "Failed to load configuration", err)
		return 1
	}
	if opts.input != "" {
		cfg.Input.Path = opts.input
	}
	if opts.output != "" {
		cfg.Output.Path = opts.output
	}

	paths, err := cfg.ResolvePaths("")
	if err != nil {
		logFailure(ctx, slog.Default(), "Failed to resolve paths", err)
		return 1
	}
	if err := paths.EnsureOutputDirs(); err != nil {
		logFailure(ctx, slog.Default(), "Failed to create output directories",
			apperrors.NewIOError("", "cannot create output directories", err))
		return 1
	}
	if paths.LogFile != "" {
		cfg.Logging.FilePath = paths.LogFile
	}
	cfg.Telemetry.MetricsFile = paths.MetricsFile

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		logFailure(ctx, slog.Default(), "Failed to initialize logger", err)
		return 1
	}
	defer infrastructure.CloseLogFile()

	ctx = infrastructure.WithRunID(ctx, infrastructure.GenerateRunID())

	providers, err := infrastructure.InitializeOTel(ctx, cfg.Telemetry, infrastructure.GetRunID(ctx), logger)
	if err != nil {
		logFailure(ctx, logger, "Failed to initialize telemetry", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.WarnContext(ctx, "Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	metrics, err := infrastructure.CreatePipelineMetrics(providers.Meter)
	if err != nil {
		logFailure(ctx, logger, "Failed to create metrics", err)
		return 1
	}

	settings, err := operations.SettingsFromConfig(cfg, paths)
	if err != nil {
		logFailure(ctx, logger, "Invalid pipeline settings", err)
		return 1
	}
	registry, err := operations.NewIncomeRegistry(settings, logger)
	if err != nil {
		logFailure(ctx, logger, "Failed to register pipeline steps", err)
		return 1
	}

	logger.InfoContext(ctx, "Starting income report",
		slog.String("version", contracts.Version),
		slog.String("input", paths.InputFile),
		slog.String("output", paths.OutputFile),
		slog.String("region", cfg.Filter.Region),
		slog.Int("min_year", cfg.Filter.MinYear),
		slog.String("conflict_policy", cfg.Reshape.ConflictPolicy))

	manager := operations.NewManager(registry, logger,
		operations.WithTracer(providers.Tracer),
		operations.WithMetrics(metrics))
	manifest, runErr := manager.Run(ctx)

	if paths.ManifestFile != "" && manifest != nil {
		if err := manifest.SaveToFile(paths.ManifestFile); err != nil {
			logger.WarnContext(ctx, "Failed to write manifest", slog.String("error", err.Error()))
		}
	}
	if err := providers.WriteMetrics(ctx); err != nil {
		logger.WarnContext(ctx, "Failed to write metrics", slog.String("error", err.Error()))
	}

	if runErr != nil {
		logFailure(ctx, logger, "Income report failed", runErr)
		return 1
	}

	logger.InfoContext(ctx, "Income report written",
		slog.String("path", paths.OutputFile),
		slog.Int("sheets", len(manifest.Sheets)))
	return 0
}

// logFailure logs err as one structured record, expanding the type, stage
// and context of an AppError.
func logFailure(ctx context.Context, logger *slog.Logger, msg string, err error) {
	attrs := []any{slog.String("error", err.Error())}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		attrs = append(attrs, slog.String("error_type", string(appErr.Type)))
		if appErr.Stage != "" {
			attrs = append(attrs, slog.String("failed_stage", appErr.Stage))
		}
		for k, v := range appErr.Context {
			attrs = append(attrs, slog.Any(k, v))
		}
	}

	logger.ErrorContext(ctx, msg, attrs...)
}
