package monitor

import "context"

// Prober performs one reachability attempt, bounded by the context deadline.
// probe.Dispatcher satisfies this.
type Prober interface {
	Probe(ctx context.Context, rawURL string) error
}

// TelemetrySink receives the monitor's structured diagnostics.
// telemetry.Buffer satisfies this.
type TelemetrySink interface {
	Debug(category, message string, data map[string]interface{})
	Info(category, message string, data map[string]interface{})
	Warn(category, message string, data map[string]interface{})
	Error(category, message string, data map[string]interface{}, err error)
}
