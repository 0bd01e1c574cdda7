// Package monitor maintains best-effort reachability records for a small
// registry of external endpoints, probing each on a shared periodic schedule.
package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"labwatch/pkg/probe"
	"labwatch/pkg/telemetry"
)

// Config is fixed for the monitor's lifetime; there is no hot reload.
type Config struct {
	// CheckInterval is the pause between periodic probe cycles per endpoint.
	CheckInterval time.Duration
	// ProbeTimeout bounds each individual probe attempt.
	ProbeTimeout time.Duration
	// RetryAttempts is the number of attempts per cycle, at least 1.
	RetryAttempts int
	// RetryPause is the pause between attempts within a cycle.
	RetryPause time.Duration
}

func DefaultConfig() Config {
	return Config{
		CheckInterval: 30 * time.Second,
		ProbeTimeout:  5 * time.Second,
		RetryAttempts: 3,
		RetryPause:    time.Second,
	}
}

func (c Config) validate() error {
	if c.ProbeTimeout <= 0 {
		return fmt.Errorf("probe timeout must be positive, got %v", c.ProbeTimeout)
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("retry attempts must be at least 1, got %d", c.RetryAttempts)
	}
	if c.CheckInterval < 0 {
		return fmt.Errorf("check interval must not be negative, got %v", c.CheckInterval)
	}
	if c.RetryPause < 0 {
		return fmt.Errorf("retry pause must not be negative, got %v", c.RetryPause)
	}
	return nil
}

// Monitor owns the health record registry and the probe schedule. One
// scheduler goroutine drives all periodic cycles; CheckAll sweeps run
// concurrently and independently of the schedule.
type Monitor struct {
	mu      sync.RWMutex
	cfg     Config
	clock   telemetry.Clock
	prober  Prober
	logs    TelemetrySink
	records map[string]*HealthRecord

	sched   *schedule
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New constructs a monitor. A nil clock falls back to wall time; a nil sink
// discards diagnostics.
func New(cfg Config, prober Prober, logs TelemetrySink, clock telemetry.Clock) (*Monitor, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid monitor config: %w", err)
	}
	if prober == nil {
		return nil, fmt.Errorf("monitor requires a prober")
	}
	if clock == nil {
		clock = telemetry.RealClock{}
	}
	if logs == nil {
		logs = nopSink{}
	}

	return &Monitor{
		cfg:     cfg,
		clock:   clock,
		prober:  prober,
		logs:    logs,
		records: make(map[string]*HealthRecord),
		sched:   newSchedule(),
	}, nil
}

// AddURL registers an endpoint with initial status checking. A malformed or
// unsupported URL is an error; a duplicate registration is a logged no-op.
// While the monitor runs, the first probe fires immediately when
// probeImmediately is set, otherwise the endpoint joins the rotation one
// interval out.
func (m *Monitor) AddURL(rawURL string, probeImmediately bool) error {
	if _, err := probe.Scheme(rawURL); err != nil {
		return err
	}

	m.mu.Lock()
	if _, exists := m.records[rawURL]; exists {
		m.mu.Unlock()
		m.logs.Warn("registry", "endpoint already registered", map[string]interface{}{"url": rawURL})
		return nil
	}
	m.records[rawURL] = &HealthRecord{URL: rawURL, Status: StatusChecking}
	running := m.running
	m.mu.Unlock()

	m.logs.Info("registry", "endpoint registered", map[string]interface{}{"url": rawURL})

	if running {
		at := m.clock.Now()
		if !probeImmediately {
			at = at.Add(m.cfg.CheckInterval)
		}
		m.sched.upsert(rawURL, at)
	}
	return nil
}

// RemoveURL deletes an endpoint's record and cancels its scheduled probes.
// Idempotent; removing an unknown URL is a logged no-op. An in-flight cycle
// for the URL may still finish, but its result is discarded.
func (m *Monitor) RemoveURL(rawURL string) {
	m.mu.Lock()
	_, exists := m.records[rawURL]
	delete(m.records, rawURL)
	m.mu.Unlock()

	m.sched.remove(rawURL)

	if !exists {
		m.logs.Warn("registry", "remove of unknown endpoint", map[string]interface{}{"url": rawURL})
		return
	}
	m.logs.Info("registry", "endpoint removed", map[string]interface{}{"url": rawURL})
}

// Start begins periodic probing of every registered endpoint, probing each
// once right away. A no-op with a warning when already running.
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		m.logs.Warn("monitor", "start ignored, already running", nil)
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.running = true
	urls := make([]string, 0, len(m.records))
	for url := range m.records {
		urls = append(urls, url)
	}
	m.mu.Unlock()

	now := m.clock.Now()
	for _, url := range urls {
		m.sched.upsert(url, now)
	}

	m.wg.Add(1)
	go m.run(ctx)

	m.logs.Info("monitor", "monitoring started", map[string]interface{}{"endpoints": len(urls)})
}

// Stop cancels the schedule but retains health records; the last known
// status survives until removal or the next probe. A no-op with a warning
// when not running.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		m.logs.Warn("monitor", "stop ignored, not running", nil)
		return
	}
	cancel := m.cancel
	m.running = false
	m.cancel = nil
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
	m.sched.clear()

	m.logs.Info("monitor", "monitoring stopped", nil)
}

// Running reports whether the periodic scheduler is active.
func (m *Monitor) Running() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.running
}

// HealthStatus returns a copy of one endpoint's record.
func (m *Monitor) HealthStatus(rawURL string) (HealthRecord, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[rawURL]
	if !ok {
		return HealthRecord{}, false
	}
	return cloneRecord(record), true
}

// AllHealthStatus returns a snapshot of every record. Order is not guaranteed.
func (m *Monitor) AllHealthStatus() []HealthRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snapshot := make([]HealthRecord, 0, len(m.records))
	for _, record := range m.records {
		snapshot = append(snapshot, cloneRecord(record))
	}
	return snapshot
}

// Summary aggregates record counts per status over the current snapshot.
func (m *Monitor) Summary() Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var s Summary
	for _, record := range m.records {
		switch record.Status {
		case StatusOnline:
			s.Online++
		case StatusOffline:
			s.Offline++
		case StatusChecking:
			s.Checking++
		case StatusError:
			s.Error++
		}
		s.Total++
	}
	return s
}

// CheckAll probes every registered endpoint concurrently and returns once
// all cycles have settled, successes and failures alike. The periodic
// schedule is neither consulted nor reset.
func (m *Monitor) CheckAll(ctx context.Context) {
	m.mu.RLock()
	urls := make([]string, 0, len(m.records))
	for url := range m.records {
		urls = append(urls, url)
	}
	m.mu.RUnlock()

	var wg sync.WaitGroup
	for _, url := range urls {
		wg.Add(1)
		go func(u string) {
			defer wg.Done()
			m.runCycle(ctx, u)
		}(url)
	}
	wg.Wait()

	m.logs.Info("monitor", "manual sweep complete", map[string]interface{}{"endpoints": len(urls)})
}

// NetworkQuality derives a coarse rating from the share of online endpoints
// and their mean response time. Unknown if and only if no endpoints are
// registered.
func (m *Monitor) NetworkQuality() Quality {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := len(m.records)
	if total == 0 {
		return QualityUnknown
	}

	online := 0
	var sumMs float64
	for _, record := range m.records {
		if record.Status == StatusOnline {
			online++
			if record.ResponseTimeMs != nil {
				sumMs += *record.ResponseTimeMs
			}
		}
	}

	onlinePercent := float64(online) / float64(total) * 100
	meanMs := 0.0
	if online > 0 {
		meanMs = sumMs / float64(online)
	}
	return rate(onlinePercent, meanMs)
}

// run is the scheduler loop: sleep until the earliest fire time, pop every
// due endpoint, probe them one cycle at a time, and put them back one
// interval out.
func (m *Monitor) run(ctx context.Context) {
	defer m.wg.Done()

	for {
		var timer *time.Timer
		var fire <-chan time.Time
		if at, ok := m.sched.nextAt(); ok {
			wait := at.Sub(m.clock.Now())
			if wait < 0 {
				wait = 0
			}
			timer = time.NewTimer(wait)
			fire = timer.C
		}

		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case <-m.sched.wake:
			if timer != nil {
				timer.Stop()
			}
			continue
		case <-fire:
		}

		for _, url := range m.sched.popDue(m.clock.Now()) {
			if ctx.Err() != nil {
				return
			}
			if !m.registered(url) {
				continue
			}
			m.runCycle(ctx, url)
			if m.registered(url) {
				m.sched.upsert(url, m.clock.Now().Add(m.cfg.CheckInterval))
			}
		}
	}
}

func (m *Monitor) registered(rawURL string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.records[rawURL]
	return ok
}

func cloneRecord(record *HealthRecord) HealthRecord {
	clone := *record
	if record.ResponseTimeMs != nil {
		ms := *record.ResponseTimeMs
		clone.ResponseTimeMs = &ms
	}
	return clone
}

// nopSink discards diagnostics.
type nopSink struct{}

func (nopSink) Debug(string, string, map[string]interface{})        {}
func (nopSink) Info(string, string, map[string]interface{})         {}
func (nopSink) Warn(string, string, map[string]interface{})         {}
func (nopSink) Error(string, string, map[string]interface{}, error) {}
