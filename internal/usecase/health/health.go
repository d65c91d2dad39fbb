// Package health aggregates dependency probes for the health endpoint.
package health

import (
	"context"
	"time"
)

// Pinger is any dependency that answers a liveness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Statuses reported per check and overall.
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
)

// Report is the health endpoint payload. Checks maps a dependency name to
// "ok" or its error text.
type Report struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Checker probes registered dependencies with a shared timeout.
type Checker struct {
	timeout time.Duration
	probes  map[string]Pinger
	order   []string
}

// NewChecker creates a checker. A zero timeout defaults to 3 seconds.
func NewChecker(timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Checker{timeout: timeout, probes: map[string]Pinger{}}
}

// Add registers a named probe. Nil probes are ignored so optional
// dependencies (cache, embedding provider) can be wired conditionally.
func (c *Checker) Add(name string, p Pinger) {
	if p == nil {
		return
	}
	if _, seen := c.probes[name]; !seen {
		c.order = append(c.order, name)
	}
	c.probes[name] = p
}

// Check runs every probe. Status is degraded when any probe fails; the
// endpoint still answers 200 so orchestrators read the body, not the code.
func (c *Checker) Check(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	report := Report{Status: StatusOK, Checks: make(map[string]string, len(c.order))}
	for _, name := range c.order {
		if err := c.probes[name].Ping(ctx); err != nil {
			report.Checks[name] = err.Error()
			report.Status = StatusDegraded
			continue
		}
		report.Checks[name] = StatusOK
	}
	return report
}
