package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron"

	"covidreport/internal/dataset"
	"covidreport/internal/infrastructure"
	"covidreport/internal/storage"
)

// Prober periodically opens the dataset source and checks its header
type Prober struct {
	source   storage.Source
	schedule string
	timeout  time.Duration
	monitor  *Monitor
	metrics  *infrastructure.ReportMetrics
	logger   *slog.Logger

	mu   sync.Mutex
	cron *cron.Cron
}

// NewProber creates a prober running on a robfig/cron schedule such as
// "@every 5m"
func NewProber(source storage.Source, schedule string, timeout time.Duration, monitor *Monitor, metrics *infrastructure.ReportMetrics, logger *slog.Logger) *Prober {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Prober{
		source:   source,
		schedule: schedule,
		timeout:  timeout,
		monitor:  monitor,
		metrics:  metrics,
		logger:   logger.With(slog.String("component", "dataset_prober")),
	}
}

// Start registers the schedule and runs one probe immediately in the
// background
func (p *Prober) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cron != nil {
		return fmt.Errorf("prober already started")
	}

	c := cron.New()
	if err := c.AddFunc(p.schedule, func() { p.Probe(context.Background()) }); err != nil {
		return fmt.Errorf("invalid probe schedule %q: %w", p.schedule, err)
	}
	c.Start()
	p.cron = c

	go p.Probe(context.Background())

	p.logger.Info("Dataset prober started",
		slog.String("source", p.source.Describe()),
		slog.String("schedule", p.schedule))
	return nil
}

// Stop halts the schedule. A probe already running finishes on its own.
func (p *Prober) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cron != nil {
		p.cron.Stop()
		p.cron = nil
	}
}

// Probe opens the source, validates the header and records the outcome
func (p *Prober) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	columns, err := p.inspect(ctx)
	p.monitor.recordProbe(time.Now(), columns, err)
	p.metrics.RecordProbe(ctx, err == nil)

	if err != nil {
		p.logger.WarnContext(ctx, "Dataset probe failed",
			slog.String("source", p.source.Describe()),
			slog.String("error", err.Error()))
		return err
	}

	p.logger.DebugContext(ctx, "Dataset probe succeeded",
		slog.String("source", p.source.Describe()),
		slog.Int("columns", columns))
	return nil
}

func (p *Prober) inspect(ctx context.Context) (int, error) {
	rc, err := p.source.Open(ctx)
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	header, err := dataset.Inspect(rc)
	if err != nil {
		return 0, err
	}
	return len(header), nil
}
