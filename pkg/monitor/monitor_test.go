package monitor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"labwatch/pkg/testutil"
)

func testConfig() Config {
	return Config{
		CheckInterval: time.Hour, // periodic firing irrelevant unless a test wants it
		ProbeTimeout:  time.Second,
		RetryAttempts: 3,
		RetryPause:    0,
	}
}

func newTestMonitor(t *testing.T, cfg Config, prober Prober) (*Monitor, *testutil.CapturingSink) {
	t.Helper()
	sink := testutil.NewCapturingSink()
	m, err := New(cfg, prober, sink, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	return m, sink
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*Config)
	}{
		{"zero timeout", func(c *Config) { c.ProbeTimeout = 0 }},
		{"zero retries", func(c *Config) { c.RetryAttempts = 0 }},
		{"negative interval", func(c *Config) { c.CheckInterval = -time.Second }},
		{"negative pause", func(c *Config) { c.RetryPause = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mut(&cfg)
			if _, err := New(cfg, &testutil.ScriptedProber{}, nil, nil); err == nil {
				t.Fatal("expected config error, got nil")
			}
		})
	}
}

func TestRegistry_SetSemantics(t *testing.T) {
	m, sink := newTestMonitor(t, testConfig(), &testutil.ScriptedProber{})

	urls := []string{"https://a.example.com", "https://b.example.com", "https://c.example.com"}
	for _, u := range urls {
		if err := m.AddURL(u, false); err != nil {
			t.Fatalf("expected no error adding %s, got %v", u, err)
		}
	}

	// Duplicate add is a warned no-op
	if err := m.AddURL(urls[0], false); err != nil {
		t.Fatalf("expected duplicate add to be a no-op, got %v", err)
	}
	if !sink.Contains("warn", "already registered") {
		t.Error("expected a warning for duplicate registration")
	}

	// Unknown removal is a warned no-op
	m.RemoveURL("https://unknown.example.com")
	if !sink.Contains("warn", "unknown endpoint") {
		t.Error("expected a warning for unknown removal")
	}

	m.RemoveURL(urls[1])
	m.RemoveURL(urls[1]) // idempotent

	records := m.AllHealthStatus()
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	seen := map[string]int{}
	for _, record := range records {
		seen[record.URL]++
		if record.Status != StatusChecking {
			t.Errorf("expected initial status checking for %s, got %s", record.URL, record.Status)
		}
	}
	if seen[urls[0]] != 1 || seen[urls[2]] != 1 {
		t.Errorf("record set does not match adds minus removes: %v", seen)
	}
}

func TestAddURL_Malformed(t *testing.T) {
	m, _ := newTestMonitor(t, testConfig(), &testutil.ScriptedProber{})

	for _, bad := range []string{"", "not a url", "ftp://example.com", "example.com"} {
		if err := m.AddURL(bad, false); err == nil {
			t.Errorf("expected error for %q, got nil", bad)
		}
	}
	if len(m.AllHealthStatus()) != 0 {
		t.Error("expected no records after rejected registrations")
	}
}

func TestCycle_Success(t *testing.T) {
	prober := &testutil.ScriptedProber{}
	m, _ := newTestMonitor(t, testConfig(), prober)

	url := "https://labs.example.com"
	if err := m.AddURL(url, false); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	m.CheckAll(context.Background())

	record, ok := m.HealthStatus(url)
	if !ok {
		t.Fatal("expected record to exist")
	}
	if record.Status != StatusOnline {
		t.Errorf("expected status online, got %s", record.Status)
	}
	if record.ResponseTimeMs == nil || *record.ResponseTimeMs < 0 {
		t.Errorf("expected non-negative response time, got %v", record.ResponseTimeMs)
	}
	if record.ErrorMessage != "" {
		t.Errorf("expected empty error message, got %q", record.ErrorMessage)
	}
	if record.LastChecked.IsZero() {
		t.Error("expected last checked to be set")
	}
	if prober.Calls(url) != 1 {
		t.Errorf("expected success on first attempt to stop retries, got %d attempts", prober.Calls(url))
	}

	// Exactly one record per URL in the snapshot
	count := 0
	for _, r := range m.AllHealthStatus() {
		if r.URL == url {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one record for %s, got %d", url, count)
	}
}

func TestCycle_AllAttemptsFail(t *testing.T) {
	prober := &testutil.ScriptedProber{Default: errors.New("connection refused")}
	m, _ := newTestMonitor(t, testConfig(), prober)

	url := "https://down.example.com"
	if err := m.AddURL(url, false); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	m.CheckAll(context.Background())

	record, _ := m.HealthStatus(url)
	if record.Status != StatusOffline {
		t.Errorf("expected status offline, got %s", record.Status)
	}
	if record.ResponseTimeMs != nil {
		t.Errorf("expected response time cleared, got %v", *record.ResponseTimeMs)
	}
	if record.ErrorMessage != "failed after 3 attempts" {
		t.Errorf("unexpected error message %q", record.ErrorMessage)
	}
	if prober.Calls(url) != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", prober.Calls(url))
	}
}

func TestCycle_RecoversAfterFailure(t *testing.T) {
	url := "https://flaky.example.com"
	prober := &testutil.ScriptedProber{
		Results: map[string][]error{url: {errors.New("reset"), nil}},
	}
	m, _ := newTestMonitor(t, testConfig(), prober)

	if err := m.AddURL(url, false); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	m.CheckAll(context.Background())

	record, _ := m.HealthStatus(url)
	if record.Status != StatusOnline {
		t.Errorf("expected recovery to online within one cycle, got %s", record.Status)
	}
	if prober.Calls(url) != 2 {
		t.Errorf("expected 2 attempts, got %d", prober.Calls(url))
	}
}

func TestCycle_RetryPauseSeparatesAttempts(t *testing.T) {
	cfg := testConfig()
	cfg.RetryAttempts = 2
	cfg.RetryPause = 40 * time.Millisecond

	prober := &testutil.ScriptedProber{Default: errors.New("down")}
	m, _ := newTestMonitor(t, cfg, prober)

	url := "https://slow.example.com"
	if err := m.AddURL(url, false); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	start := time.Now()
	m.CheckAll(context.Background())
	elapsed := time.Since(start)

	if prober.Calls(url) != 2 {
		t.Fatalf("expected 2 attempts, got %d", prober.Calls(url))
	}
	if elapsed < cfg.RetryPause {
		t.Errorf("expected at least one retry pause of %v, cycle took %v", cfg.RetryPause, elapsed)
	}
}

func TestScenario_TwoURLsTimeOut(t *testing.T) {
	cfg := testConfig()
	cfg.RetryAttempts = 1
	cfg.ProbeTimeout = 50 * time.Millisecond

	prober := &testutil.BlockingProber{}
	m, _ := newTestMonitor(t, cfg, prober)

	urls := []string{"https://one.example.com", "https://two.example.com"}
	for _, u := range urls {
		if err := m.AddURL(u, false); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}

	m.CheckAll(context.Background())

	for _, u := range urls {
		record, _ := m.HealthStatus(u)
		if record.Status != StatusOffline {
			t.Errorf("expected %s offline, got %s", u, record.Status)
		}
		if !strings.Contains(record.ErrorMessage, "1") {
			t.Errorf("expected error message to mention 1 attempt, got %q", record.ErrorMessage)
		}
		if prober.Calls(u) != 1 {
			t.Errorf("expected exactly 1 attempt for %s, got %d", u, prober.Calls(u))
		}
	}
}

func TestScenario_ResponseTimeMeasured(t *testing.T) {
	prober := &testutil.ScriptedProber{Delay: 30 * time.Millisecond}
	m, _ := newTestMonitor(t, testConfig(), prober)

	url := "https://labs.example.com"
	if err := m.AddURL(url, false); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	m.CheckAll(context.Background())

	record, _ := m.HealthStatus(url)
	if record.Status != StatusOnline {
		t.Fatalf("expected online, got %s", record.Status)
	}
	if record.ResponseTimeMs == nil {
		t.Fatal("expected response time present")
	}
	if *record.ResponseTimeMs < 30 {
		t.Errorf("expected response time >= 30ms, got %.1fms", *record.ResponseTimeMs)
	}
	if *record.ResponseTimeMs > 1000 {
		t.Errorf("response time implausibly large: %.1fms", *record.ResponseTimeMs)
	}
}

func TestSummary_CountsSumToTotal(t *testing.T) {
	online := "https://up.example.com"
	offline := "https://down.example.com"
	checking := "https://new.example.com"

	prober := &testutil.ScriptedProber{
		Results: map[string][]error{
			offline: {errors.New("down"), errors.New("down"), errors.New("down")},
		},
	}
	m, _ := newTestMonitor(t, testConfig(), prober)

	for _, u := range []string{online, offline} {
		if err := m.AddURL(u, false); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}
	m.CheckAll(context.Background())
	if err := m.AddURL(checking, false); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	s := m.Summary()
	if s.Online != 1 || s.Offline != 1 || s.Checking != 1 || s.Error != 0 {
		t.Errorf("unexpected summary %+v", s)
	}
	if s.Online+s.Offline+s.Checking+s.Error != s.Total {
		t.Errorf("summary counts do not sum to total: %+v", s)
	}
	if s.Total != 3 {
		t.Errorf("expected total 3, got %d", s.Total)
	}
}

func TestStartStop_Idempotent(t *testing.T) {
	prober := &testutil.ScriptedProber{}
	m, sink := newTestMonitor(t, testConfig(), prober)

	if err := m.AddURL("https://labs.example.com", false); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	m.Start()
	defer m.Stop()
	if !m.Running() {
		t.Fatal("expected monitor to be running")
	}

	m.Start()
	if !sink.Contains("warn", "already running") {
		t.Error("expected warning for double start")
	}

	m.Stop()
	if m.Running() {
		t.Fatal("expected monitor to be stopped")
	}
	m.Stop()
	if !sink.Contains("warn", "not running") {
		t.Error("expected warning for double stop")
	}

	// Records survive a stop
	if len(m.AllHealthStatus()) != 1 {
		t.Error("expected records to survive stop")
	}
}

func TestPeriodicProbing(t *testing.T) {
	cfg := testConfig()
	cfg.CheckInterval = 10 * time.Millisecond
	cfg.RetryAttempts = 1

	prober := &testutil.ScriptedProber{}
	m, _ := newTestMonitor(t, cfg, prober)

	url := "https://labs.example.com"
	if err := m.AddURL(url, false); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	m.Start()
	time.Sleep(100 * time.Millisecond)
	m.Stop()

	calls := prober.Calls(url)
	if calls < 2 {
		t.Fatalf("expected repeated periodic probes, got %d", calls)
	}

	// No further probes after stop
	time.Sleep(50 * time.Millisecond)
	if after := prober.Calls(url); after != calls {
		t.Errorf("expected no probes after stop, got %d more", after-calls)
	}
}

func TestAddURL_ProbeImmediatelyWhileRunning(t *testing.T) {
	prober := &testutil.ScriptedProber{}
	m, _ := newTestMonitor(t, testConfig(), prober) // hour-long interval

	m.Start()
	defer m.Stop()

	url := "https://late.example.com"
	if err := m.AddURL(url, true); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if record, ok := m.HealthStatus(url); ok && record.Status == StatusOnline {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("expected an immediate probe for a URL added while running")
}

func TestRemoveURL_DiscardsLateWrite(t *testing.T) {
	cfg := testConfig()
	cfg.RetryAttempts = 1
	cfg.ProbeTimeout = 100 * time.Millisecond

	prober := &testutil.BlockingProber{}
	m, _ := newTestMonitor(t, cfg, prober)

	url := "https://gone.example.com"
	if err := m.AddURL(url, false); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	done := make(chan struct{})
	go func() {
		m.CheckAll(context.Background())
		close(done)
	}()

	time.Sleep(20 * time.Millisecond) // probe is now in flight
	m.RemoveURL(url)
	<-done

	if _, ok := m.HealthStatus(url); ok {
		t.Error("expected record to stay removed despite in-flight probe result")
	}
}

func TestNetworkQuality(t *testing.T) {
	t.Run("unknown iff no endpoints", func(t *testing.T) {
		m, _ := newTestMonitor(t, testConfig(), &testutil.ScriptedProber{})
		if q := m.NetworkQuality(); q != QualityUnknown {
			t.Errorf("expected unknown with empty registry, got %s", q)
		}
		if err := m.AddURL("https://labs.example.com", false); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if q := m.NetworkQuality(); q == QualityUnknown {
			t.Error("expected a rating once an endpoint is registered")
		}
	})

	t.Run("all online and fast is excellent", func(t *testing.T) {
		m, _ := newTestMonitor(t, testConfig(), &testutil.ScriptedProber{})
		for _, u := range []string{"https://a.example.com", "https://b.example.com"} {
			if err := m.AddURL(u, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		}
		m.CheckAll(context.Background())
		if q := m.NetworkQuality(); q != QualityExcellent {
			t.Errorf("expected excellent, got %s", q)
		}
	})

	t.Run("all offline is poor", func(t *testing.T) {
		m, _ := newTestMonitor(t, testConfig(), &testutil.ScriptedProber{Default: errors.New("down")})
		if err := m.AddURL("https://down.example.com", false); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		m.CheckAll(context.Background())
		if q := m.NetworkQuality(); q != QualityPoor {
			t.Errorf("expected poor, got %s", q)
		}
	})
}

func TestRate_Boundaries(t *testing.T) {
	tests := []struct {
		name     string
		percent  float64
		meanMs   float64
		expected Quality
	}{
		{"boundary excellent", 95.0, 1999.9, QualityExcellent},
		{"mean at 2000 is not excellent", 95.0, 2000.0, QualityGood},
		{"below 95 percent is not excellent", 94.9, 10.0, QualityGood},
		{"boundary good", 80.0, 4999.9, QualityGood},
		{"slow but mostly up is fair", 80.0, 5000.0, QualityFair},
		{"boundary fair", 50.0, 0, QualityFair},
		{"below half is poor", 49.9, 0, QualityPoor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rate(tt.percent, tt.meanMs); got != tt.expected {
				t.Errorf("rate(%.1f, %.1f) = %s; expected %s", tt.percent, tt.meanMs, got, tt.expected)
			}
		})
	}
}
