package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexanderramin/worklog/internal/cli"
	"github.com/alexanderramin/worklog/internal/clock"
	"github.com/alexanderramin/worklog/internal/config"
	"github.com/alexanderramin/worklog/internal/db"
	"github.com/alexanderramin/worklog/internal/repository"
	"github.com/alexanderramin/worklog/internal/service"
	"github.com/alexanderramin/worklog/internal/telemetry"
	"github.com/mattn/go-isatty"
	"go.opentelemetry.io/otel"
)

const serviceName = "worklog"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Wire the session store.
	var sessionRepo repository.SessionRepo
	switch cfg.DBDriver {
	case config.DriverPostgres:
		pool, err := db.OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return err
		}
		defer pool.Close()
		sessionRepo = repository.NewPostgresSessionRepo(pool)
	default:
		database, err := db.OpenDB(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()
		sessionRepo = repository.NewSQLiteSessionRepo(database)
	}

	// Wire observers: logs, metrics and traces are each opt-in.
	observers := []service.UseCaseObserver{}
	if cfg.LogUseCases {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr, cfg.LogLevel))
	}

	if cfg.MetricsTextfile != "" {
		metrics := telemetry.NewMetrics()
		observers = append(observers, metrics)
		defer func() {
			if werr := metrics.WriteTextfile(cfg.MetricsTextfile); werr != nil && err == nil {
				err = fmt.Errorf("writing metrics: %w", werr)
			}
		}()
	}

	if cfg.OTLPEndpoint != "" {
		shutdown, err := telemetry.Setup(ctx, serviceName, cfg.OTLPEndpoint)
		if err != nil {
			return fmt.Errorf("setting up tracing: %w", err)
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(sctx)
		}()
		observers = append(observers, telemetry.NewSpanObserver(otel.GetTracerProvider()))
	}

	observer := service.MultiUseCaseObserver(observers...)
	clk := clock.System{}

	app := &cli.App{
		Sessions: service.NewSessionService(sessionRepo, clk, observer),
		Stats:    service.NewStatsService(sessionRepo, clk, cfg.Location, observer),
		Owner:    cfg.Owner,
		Location: cfg.Location,
		Now:      clk.Now,
	}

	// Detect interactive terminal for prompts and the watch view.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
