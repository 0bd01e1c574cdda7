// Package testutil provides reusable fakes for monitor and telemetry tests.
package testutil

import (
	"strings"
	"sync"
)

// SinkEntry is one captured diagnostic call.
type SinkEntry struct {
	Level    string
	Category string
	Message  string
	Data     map[string]interface{}
	Err      error
}

// CapturingSink collects diagnostics for assertions in tests. It satisfies
// monitor.TelemetrySink.
type CapturingSink struct {
	mu      sync.Mutex
	entries []SinkEntry
}

func NewCapturingSink() *CapturingSink { return &CapturingSink{} }

func (c *CapturingSink) Debug(category, message string, data map[string]interface{}) {
	c.append(SinkEntry{Level: "debug", Category: category, Message: message, Data: data})
}

func (c *CapturingSink) Info(category, message string, data map[string]interface{}) {
	c.append(SinkEntry{Level: "info", Category: category, Message: message, Data: data})
}

func (c *CapturingSink) Warn(category, message string, data map[string]interface{}) {
	c.append(SinkEntry{Level: "warn", Category: category, Message: message, Data: data})
}

func (c *CapturingSink) Error(category, message string, data map[string]interface{}, err error) {
	c.append(SinkEntry{Level: "error", Category: category, Message: message, Data: data, Err: err})
}

func (c *CapturingSink) append(entry SinkEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, entry)
}

// Snapshot returns a copy of every captured entry.
func (c *CapturingSink) Snapshot() []SinkEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]SinkEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Contains reports whether any captured entry at the given level has the
// substring in its message.
func (c *CapturingSink) Contains(level, substring string) bool {
	for _, entry := range c.Snapshot() {
		if entry.Level == level && strings.Contains(entry.Message, substring) {
			return true
		}
	}
	return false
}
