package config

import (
	"fmt"
	"net/url"
)

func (c *Config) validate() error {
	if c.Monitor.ProbeTimeout <= 0 {
		return fmt.Errorf("%s must be positive", KeyProbeTimeoutSeconds)
	}
	if c.Monitor.RetryAttempts < 1 {
		return fmt.Errorf("%s must be at least 1", KeyProbeRetryAttempts)
	}
	if c.Monitor.CheckInterval < 0 {
		return fmt.Errorf("%s must not be negative", KeyCheckIntervalSeconds)
	}
	if c.Monitor.RetryPause < 0 {
		return fmt.Errorf("%s must not be negative", KeyProbeRetryPauseMs)
	}
	if c.Telemetry.MaxLogs < 1 {
		return fmt.Errorf("%s must be at least 1", KeyTelemetryMaxLogs)
	}
	if c.Telemetry.SnapshotSize < 1 {
		return fmt.Errorf("%s must be at least 1", KeyTelemetrySnapshotSize)
	}
	for _, endpoint := range c.Endpoints {
		u, err := url.Parse(endpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid endpoint URL %q", endpoint)
		}
	}
	return nil
}
