package monitor

import (
	"context"
	"fmt"
	"time"
)

// runCycle executes one retrying probe cycle for a single endpoint and
// writes the outcome to its health record. Probe failures never propagate;
// they are retried and ultimately downgraded to an offline status.
func (m *Monitor) runCycle(ctx context.Context, rawURL string) {
	start := m.clock.Now()

	var lastErr error
	for attempt := 1; attempt <= m.cfg.RetryAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, m.cfg.ProbeTimeout)
		err := m.prober.Probe(attemptCtx, rawURL)
		cancel()

		if err == nil {
			elapsed := m.clock.Now().Sub(start)
			m.setOnline(rawURL, elapsed)
			m.logs.Debug("probe", "endpoint reachable", map[string]interface{}{
				"url":              rawURL,
				"attempt":          attempt,
				"response_time_ms": float64(elapsed) / float64(time.Millisecond),
			})
			return
		}
		lastErr = err
		m.logs.Warn("probe", "probe attempt failed", map[string]interface{}{
			"url":     rawURL,
			"attempt": attempt,
			"error":   err.Error(),
		})

		// A cancelled parent context means the whole cycle is being torn
		// down, not that the endpoint failed.
		if ctx.Err() != nil {
			m.setErrored(rawURL, ctx.Err())
			return
		}

		if attempt < m.cfg.RetryAttempts {
			if !m.pause(ctx) {
				m.setErrored(rawURL, ctx.Err())
				return
			}
		}
	}

	m.setOffline(rawURL, fmt.Sprintf("failed after %d attempts", m.cfg.RetryAttempts))
	m.logs.Error("probe", "endpoint unreachable", map[string]interface{}{
		"url":      rawURL,
		"attempts": m.cfg.RetryAttempts,
	}, lastErr)
}

// pause waits the configured retry pause. Returns false if the context was
// cancelled while waiting.
func (m *Monitor) pause(ctx context.Context) bool {
	if m.cfg.RetryPause <= 0 {
		return true
	}
	timer := time.NewTimer(m.cfg.RetryPause)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// The set* helpers tolerate records removed mid-cycle: a late write against
// a missing record is silently discarded.

func (m *Monitor) setOnline(rawURL string, elapsed time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[rawURL]
	if !ok {
		return
	}
	ms := float64(elapsed) / float64(time.Millisecond)
	record.Status = StatusOnline
	record.ResponseTimeMs = &ms
	record.ErrorMessage = ""
	record.LastChecked = m.clock.Now()
}

func (m *Monitor) setOffline(rawURL, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[rawURL]
	if !ok {
		return
	}
	record.Status = StatusOffline
	record.ResponseTimeMs = nil
	record.ErrorMessage = message
	record.LastChecked = m.clock.Now()
}

func (m *Monitor) setErrored(rawURL string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[rawURL]
	if !ok {
		return
	}
	record.Status = StatusError
	record.ResponseTimeMs = nil
	if err != nil {
		record.ErrorMessage = err.Error()
	} else {
		record.ErrorMessage = "probe cycle interrupted"
	}
	record.LastChecked = m.clock.Now()
}
