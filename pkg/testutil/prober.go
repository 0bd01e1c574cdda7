package testutil

import (
	"context"
	"sync"
	"time"
)

// ScriptedProber is a fake prober whose per-URL outcomes are scripted.
// It satisfies monitor.Prober and counts attempts per URL.
type ScriptedProber struct {
	mu sync.Mutex

	// Results maps a URL to the error returned per successive attempt.
	// Attempts beyond the script fall back to Default.
	Results map[string][]error

	// Default is returned when no script entry applies. nil means reachable.
	Default error

	// Delay, when set, makes each attempt take this long (or fail early
	// when the context expires first).
	Delay time.Duration

	calls map[string]int
}

func (p *ScriptedProber) Probe(ctx context.Context, rawURL string) error {
	if p.Delay > 0 {
		timer := time.NewTimer(p.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	} else if ctx.Err() != nil {
		return ctx.Err()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.calls == nil {
		p.calls = make(map[string]int)
	}
	attempt := p.calls[rawURL]
	p.calls[rawURL] = attempt + 1

	if script, ok := p.Results[rawURL]; ok && attempt < len(script) {
		return script[attempt]
	}
	return p.Default
}

// Calls returns how many attempts were made against a URL.
func (p *ScriptedProber) Calls(rawURL string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[rawURL]
}

// BlockingProber hangs every attempt until its context expires, simulating
// an endpoint that never answers within the timeout.
type BlockingProber struct {
	mu    sync.Mutex
	calls map[string]int
}

func (p *BlockingProber) Probe(ctx context.Context, rawURL string) error {
	p.mu.Lock()
	if p.calls == nil {
		p.calls = make(map[string]int)
	}
	p.calls[rawURL]++
	p.mu.Unlock()

	<-ctx.Done()
	return ctx.Err()
}

func (p *BlockingProber) Calls(rawURL string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[rawURL]
}
