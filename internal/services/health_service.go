package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"covidreport/internal/watcher"
)

// DatasetMonitor exposes the background view of the dataset source
type DatasetMonitor interface {
	Status() watcher.Status
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	source    string
	monitor   DatasetMonitor
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Details *watcher.Status `json:"details,omitempty"`
}

// NewHealthService creates a health service. monitor is nil when the
// background probe is disabled.
func NewHealthService(version, buildTime, source string, monitor DatasetMonitor, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		buildTime: buildTime,
		source:    source,
		monitor:   monitor,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck reports whether the dataset source looked usable at the
// last probe
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	dataset := hs.checkDataset()

	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  map[string]ServiceHealth{"dataset": dataset},
	}
	if dataset.Status != "ready" {
		status.Status = "not_ready"
		hs.logger.WarnContext(ctx, "Readiness check failed", slog.String("reason", dataset.Message))
	}
	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	result := map[string]interface{}{
		"version":    hs.version,
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"source":     hs.source,
		"start_time": hs.startTime.Format(time.RFC3339),
	}
	if hs.buildTime != "" {
		result["build_time"] = hs.buildTime
	}
	return result
}

func (hs *HealthService) checkDataset() ServiceHealth {
	if hs.monitor == nil {
		return ServiceHealth{Status: "ready", Message: "dataset probe disabled"}
	}

	st := hs.monitor.Status()
	if !st.Healthy {
		return ServiceHealth{
			Status:  "not_ready",
			Message: fmt.Sprintf("dataset probe failed: %s", st.LastError),
			Details: &st,
		}
	}
	msg := "dataset source is reachable"
	if !st.Probed {
		msg = "dataset source not probed yet"
	}
	return ServiceHealth{Status: "ready", Message: msg, Details: &st}
}
