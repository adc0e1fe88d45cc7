package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"covidreport/internal/config"
	apierrors "covidreport/internal/errors"
	"covidreport/internal/exporter"
	"covidreport/internal/infrastructure"
	customMiddleware "covidreport/internal/middleware"
	"covidreport/internal/report"
	"covidreport/internal/services"
	"covidreport/internal/storage"
	handlers "covidreport/internal/transport/http"
	"covidreport/internal/watcher"
)

// ReportPrefix is where the report routes are mounted
const ReportPrefix = "/api/http_trigger"

var (
	// Version is overridden at link time
	Version = config.AppVersion
	// BuildTime is set at compile time
	BuildTime = ""
)

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.ReportMetrics
	ErrorHandler  *apierrors.ErrorHandler
	Source        storage.Source
	ReportService *services.ReportService
	HealthService *services.HealthService
	Monitor       *watcher.Monitor
	Prober        *watcher.Prober
	FileWatcher   *watcher.FileWatcher
}

// NewApplication wires every component from cfg. Nothing is started until
// Run is called.
func NewApplication(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", Version),
		slog.String("dataset_source", cfg.Dataset.Source))

	otelProviders, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.NewReportMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create report metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		ErrorHandler:  apierrors.NewErrorHandler(logger, false),
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices builds the dataset source, the services and the
// optional background watchers
func (a *Application) initializeServices() error {
	source, err := storage.New(a.Config.Dataset)
	if err != nil {
		return fmt.Errorf("failed to create dataset source: %w", err)
	}
	a.Source = source

	builder := report.NewBuilder(a.Config.Report)
	a.ReportService = services.NewReportService(source, builder, a.Metrics, a.Logger)

	var monitor services.DatasetMonitor
	if a.Config.Watch.Enabled {
		a.Monitor = watcher.NewMonitor(source.Describe())
		a.Prober = watcher.NewProber(source, a.Config.Watch.ProbeSchedule, a.Config.Dataset.Timeout,
			a.Monitor, a.Metrics, a.Logger)
		monitor = a.Monitor

		if a.Config.Dataset.Source == config.SourceFile {
			fw, err := watcher.NewFileWatcher(a.Config.Dataset.Path, a.Monitor, a.Metrics, a.Logger, a.onDatasetChange)
			if err != nil {
				// The scheduled probe still reports on the source
				a.Logger.Warn("Dataset file watcher disabled",
					slog.String("path", a.Config.Dataset.Path),
					slog.String("error", err.Error()))
			} else {
				a.FileWatcher = fw
			}
		}
	}

	a.HealthService = services.NewHealthService(Version, BuildTime, source.Describe(), monitor, a.Logger)
	return nil
}

// onDatasetChange re-probes the source as soon as the local file changes
func (a *Application) onDatasetChange(path string) {
	if a.Prober == nil {
		return
	}
	_ = a.Prober.Probe(context.Background())
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	// Order: RequestID → RealIP → OTel → Logger → Recoverer → headers → CORS → rate limit → Timeout
	r.Use(customMiddleware.RequestID)
	r.Use(middleware.RealIP)

	// Scrapes stay out of the request metrics and rate limit
	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics).Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(apierrors.RecoveryMiddleware(a.ErrorHandler))
		r.Use(customMiddleware.SecurityHeaders)

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(a.Config.Security.AllowedOrigins))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
				a.ErrorHandler,
			).Handler)
		}

		if a.Config.Server.RequestTimeout > 0 {
			r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))
		}

		a.setupAPIRoutes(r)
	})

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	reportHandler := handlers.NewReportHandler(a.ReportService, exporter.New(a.Logger), a.Logger, a.ErrorHandler)
	r.Mount(ReportPrefix, reportHandler.Routes())

	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
	r.Get("/api/health", healthHandler.HealthCheck)
	r.Get("/api/health/ready", healthHandler.ReadinessCheck)
	r.Get("/api/health/live", healthHandler.LivenessCheck)
	r.Get("/api/version", healthHandler.Version)
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Run serves HTTP and runs the background watchers until ctx is cancelled,
// then shuts everything down
func (a *Application) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve is Run on an existing listener
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	if a.Prober != nil {
		if err := a.Prober.Start(); err != nil {
			ln.Close()
			return fmt.Errorf("failed to start dataset prober: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	if a.FileWatcher != nil {
		g.Go(func() error {
			return a.FileWatcher.Run(gctx)
		})
	}

	g.Go(func() error {
		a.Logger.InfoContext(ctx, "HTTP server listening",
			slog.String("address", ln.Addr().String()),
			slog.String("report_prefix", ReportPrefix))
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.Logger.Info("Shutdown requested")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout())
		defer cancel()
		return a.Stop(shutdownCtx)
	})

	return g.Wait()
}

// Stop gracefully stops the server and the background workers
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	var errs []error
	if err := a.Server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}

	if a.Prober != nil {
		a.Prober.Stop()
	}
	if a.FileWatcher != nil {
		if err := a.FileWatcher.Close(); err != nil {
			a.Logger.WarnContext(ctx, "Error closing file watcher", slog.String("error", err.Error()))
		}
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(ctx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return errors.Join(errs...)
}

func (a *Application) shutdownTimeout() time.Duration {
	if a.Config.Server.ShutdownTimeout > 0 {
		return a.Config.Server.ShutdownTimeout
	}
	return 30 * time.Second
}
