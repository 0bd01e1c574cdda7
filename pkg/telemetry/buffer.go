package telemetry

import (
	"encoding/json"
	"log"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Clock interface allows for deterministic testing
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// Config for telemetry settings
type Config struct {
	MaxLogs      int
	SnapshotSize int
}

func DefaultConfig() Config {
	return Config{
		MaxLogs:      1000,
		SnapshotSize: 100,
	}
}

// Buffer is a bounded, append-only, in-memory log store. Appends beyond
// MaxLogs evict the oldest entries first. A single Buffer instance is owned
// by the composition root and injected into every component that records
// diagnostics.
type Buffer struct {
	mu    sync.RWMutex
	clock Clock
	cfg   Config

	sessionID string
	entries   []LogEntry

	// mirror, when set, echoes every entry to the console stream
	mirror *log.Logger

	store         SnapshotStore
	persistWarned bool
}

// NewBuffer creates a telemetry buffer. A nil clock falls back to wall time,
// a nil store disables persistence, a nil mirror disables console echoing.
func NewBuffer(clock Clock, cfg Config, store SnapshotStore, mirror *log.Logger) *Buffer {
	if clock == nil {
		clock = RealClock{}
	}
	if store == nil {
		store = NewNopStore()
	}
	if cfg.MaxLogs < 1 {
		cfg.MaxLogs = DefaultConfig().MaxLogs
	}
	if cfg.SnapshotSize < 1 {
		cfg.SnapshotSize = DefaultConfig().SnapshotSize
	}

	return &Buffer{
		clock:     clock,
		cfg:       cfg,
		sessionID: uuid.NewString(),
		entries:   make([]LogEntry, 0, cfg.MaxLogs),
		mirror:    mirror,
		store:     store,
	}
}

// SessionID is constant for the lifetime of the buffer.
func (b *Buffer) SessionID() string { return b.sessionID }

// Record appends a structured entry, evicting the oldest entries when the
// buffer is full, then mirrors it and persists a best-effort snapshot.
func (b *Buffer) Record(level Level, category, message string, data map[string]interface{}, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry := LogEntry{
		Timestamp: b.clock.Now(),
		Level:     level,
		Category:  category,
		Message:   message,
		Data:      data,
		Err:       NewErrorInfo(err),
		SessionID: b.sessionID,
	}

	b.entries = append(b.entries, entry)
	if overflow := len(b.entries) - b.cfg.MaxLogs; overflow > 0 {
		b.entries = b.entries[overflow:]
	}

	if b.mirror != nil {
		if err != nil {
			b.mirror.Printf("[%s] %s: %s (%v)", entry.Level, category, message, err)
		} else {
			b.mirror.Printf("[%s] %s: %s", entry.Level, category, message)
		}
	}

	b.persistLocked()
}

func (b *Buffer) Debug(category, message string, data map[string]interface{}) {
	b.Record(LevelDebug, category, message, data, nil)
}

func (b *Buffer) Info(category, message string, data map[string]interface{}) {
	b.Record(LevelInfo, category, message, data, nil)
}

func (b *Buffer) Warn(category, message string, data map[string]interface{}) {
	b.Record(LevelWarn, category, message, data, nil)
}

func (b *Buffer) Error(category, message string, data map[string]interface{}, err error) {
	b.Record(LevelError, category, message, data, err)
}

func (b *Buffer) Critical(category, message string, data map[string]interface{}, err error) {
	b.Record(LevelCritical, category, message, data, err)
}

// Query returns entries matching the level and category filters in insertion
// order. LevelAll matches every level; an empty category matches every
// category. The returned slice is a copy.
func (b *Buffer) Query(level Level, category string) []LogEntry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	matched := make([]LogEntry, 0, len(b.entries))
	for _, entry := range b.entries {
		if level != LevelAll && entry.Level != level {
			continue
		}
		if category != "" && entry.Category != category {
			continue
		}
		matched = append(matched, entry)
	}
	return matched
}

// Len returns the current number of buffered entries.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

// Export serializes the full buffer as an indented JSON array in insertion order.
func (b *Buffer) Export() ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return json.MarshalIndent(b.entries, "", "  ")
}

// Clear empties the buffer and deletes the persisted snapshot.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries = b.entries[:0]
	if err := b.store.Delete(); err != nil && b.mirror != nil {
		b.mirror.Printf("[warn] telemetry: delete snapshot failed: %v", err)
	}
}

// RecoverPanic records a panic as a Critical entry with the stack attached
// and stops it propagating. Meant to be deferred at goroutine boundaries:
//
//	defer buf.RecoverPanic("monitor")
func (b *Buffer) RecoverPanic(category string) {
	r := recover()
	if r == nil {
		return
	}

	entry := LogEntry{
		Timestamp: b.clock.Now(),
		Level:     LevelCritical,
		Category:  category,
		Message:   "recovered from panic",
		Data:      map[string]interface{}{"panic": describe(r)},
		Err: &ErrorInfo{
			Type:    "panic",
			Message: describe(r),
			Stack:   string(debug.Stack()),
		},
		SessionID: b.sessionID,
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = append(b.entries, entry)
	if overflow := len(b.entries) - b.cfg.MaxLogs; overflow > 0 {
		b.entries = b.entries[overflow:]
	}
	if b.mirror != nil {
		b.mirror.Printf("[critical] %s: recovered from panic: %s", category, describe(r))
	}
	b.persistLocked()
}

func describe(r interface{}) string {
	if err, ok := r.(error); ok {
		return err.Error()
	}
	return stringify(r)
}

func stringify(r interface{}) string {
	if s, ok := r.(string); ok {
		return s
	}
	data, err := json.Marshal(r)
	if err != nil {
		return "unprintable panic value"
	}
	return string(data)
}

// persistLocked writes the most recent SnapshotSize entries to the store.
// Failures are swallowed; the in-memory buffer stays authoritative.
func (b *Buffer) persistLocked() {
	recent := b.entries
	if len(recent) > b.cfg.SnapshotSize {
		recent = recent[len(recent)-b.cfg.SnapshotSize:]
	}

	data, err := json.MarshalIndent(recent, "", "  ")
	if err == nil {
		err = b.store.Save(data)
	}
	if err != nil && !b.persistWarned {
		b.persistWarned = true
		if b.mirror != nil {
			b.mirror.Printf("[warn] telemetry: snapshot persistence failed, continuing in memory only: %v", err)
		}
	}
}
