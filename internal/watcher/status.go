package watcher

import (
	"sync"
	"time"
)

// Status is a snapshot of what the background workers know about the
// dataset source
type Status struct {
	Source     string    `json:"source"`
	Healthy    bool      `json:"healthy"`
	Probed     bool      `json:"probed"`
	LastProbe  time.Time `json:"last_probe,omitempty"`
	LastError  string    `json:"last_error,omitempty"`
	Columns    int       `json:"columns,omitempty"`
	Changes    int       `json:"changes"`
	LastChange time.Time `json:"last_change,omitempty"`
}

// Monitor holds the shared Status. Workers write, the health endpoint reads.
type Monitor struct {
	mu     sync.RWMutex
	status Status
}

// NewMonitor creates a monitor for the named source. The source counts as
// healthy until a probe says otherwise.
func NewMonitor(source string) *Monitor {
	return &Monitor{status: Status{Source: source, Healthy: true}}
}

// Status returns a copy of the current snapshot
func (m *Monitor) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) recordProbe(at time.Time, columns int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.status.Probed = true
	m.status.LastProbe = at
	m.status.Columns = columns
	m.status.Healthy = err == nil
	m.status.LastError = ""
	if err != nil {
		m.status.LastError = err.Error()
	}
}

func (m *Monitor) recordChange(at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.status.Changes++
	m.status.LastChange = at
}
