package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/rewired-gh/tickerhist/internal/config"
	"github.com/rewired-gh/tickerhist/internal/logger"
	"github.com/rewired-gh/tickerhist/internal/pipeline"
	"github.com/rewired-gh/tickerhist/internal/report"
	"github.com/rewired-gh/tickerhist/internal/storage"
	"github.com/rewired-gh/tickerhist/internal/telegram"
	"github.com/rewired-gh/tickerhist/internal/yahoo"
)

// interruptExitCode is the conventional status for a SIGINT-terminated run.
const interruptExitCode = 130

var configPath = flag.String("config", "", "Path to configuration file (built-in defaults when empty)")

func main() {
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	} else {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	runID := uuid.New().String()
	logger.Info("Starting run %s (%d symbols)", runID, len(cfg.Symbols))

	client := yahoo.NewClient(cfg.Provider.BaseURL, cfg.Provider.Timeout)

	var sink pipeline.Sink
	if cfg.Output.WriteCSV {
		csvSink, err := storage.NewCSVSink(cfg.Output.Dir)
		if err != nil {
			logger.Fatal("Failed to prepare output directory: %v", err)
		}
		sink = csvSink
	}

	var archive pipeline.Archiver
	if cfg.Archive.Enabled {
		arch, err := storage.OpenArchive(cfg.Archive.Path, runID)
		if err != nil {
			logger.Fatal("Failed to open archive: %v", err)
		}
		defer func() {
			if err := arch.Close(); err != nil {
				logger.Error("Failed to close archive: %v", err)
			}
		}()
		archive = arch
	}

	var notifier *telegram.Client
	if cfg.Telegram.Enabled {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			logger.Fatal("Failed to initialize Telegram client: %v", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Interrupt received, stopping after current unit of work")
		cancel()
	}()

	runner, err := pipeline.New(cfg, client, sink, archive, report.New(os.Stdout))
	if err != nil {
		logger.Fatal("Failed to build pipeline: %v", err)
	}

	start := time.Now()
	err = runner.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info("Run interrupted")
		os.Exit(interruptExitCode)
	}
	if err != nil {
		logger.Fatal("Run failed: %v", err)
	}
	logger.Info("Run %s completed in %v (%d files written, %d fetch failures)",
		runID, time.Since(start).Round(time.Millisecond), runner.FilesWritten(), len(runner.FetchFailures()))

	if notifier != nil {
		summary := telegram.RunSummary{
			RunID:         runID,
			Symbols:       cfg.Symbols,
			FilesWritten:  runner.FilesWritten(),
			FetchFailures: runner.FetchFailures(),
			Duration:      time.Since(start),
		}
		if err := notifier.SendSummary(summary); err != nil {
			logger.Warn("Failed to send Telegram summary: %v", err)
		}
	}
}
