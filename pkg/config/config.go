package config

import (
	"strings"
	"time"

	"github.com/spf13/afero"
)

type Config struct {
	Endpoints []string
	Monitor   MonitorConfig
	Telemetry TelemetryConfig
	Serving   ServingConfig
}

type MonitorConfig struct {
	CheckInterval time.Duration
	ProbeTimeout  time.Duration
	RetryAttempts int
	RetryPause    time.Duration
	Enabled       bool
}

type TelemetryConfig struct {
	MaxLogs      int
	SnapshotPath string
	SnapshotSize int
}

type ServingConfig struct {
	HTTPListenAddr string
	DebugMode      bool
	TUIMode        bool
}

// Load loads configuration from CLI flags, environment variables and an
// optional YAML config file. Precedence: CLI flags > environment > file.
// Returns (nil, nil) when help was requested and printed.
func Load(args []string, fs afero.Fs) (*Config, error) {
	flagSource, tuiMode, showHelp, err := parseCLIFlags(args)
	if err != nil {
		return nil, err
	}

	if showHelp {
		printUsage()
		return nil, nil
	}

	sources := []ConfigSource{flagSource, &EnvSource{}}

	// The config file path itself resolves from flags and env only.
	pathResolver := NewConfigResolver(sources...)
	if path := pathResolver.ResolveString(KeyConfigFile, ""); path != "" {
		fileSource, err := NewFileSource(fs, path)
		if err != nil {
			return nil, err
		}
		sources = append(sources, fileSource)
	}

	resolver := NewConfigResolver(sources...)

	cfg := &Config{
		Endpoints: splitEndpoints(resolver.ResolveString(KeyEndpointURLs, "")),
		Monitor: MonitorConfig{
			CheckInterval: time.Duration(resolver.ResolveInt(KeyCheckIntervalSeconds, DefaultCheckIntervalSeconds)) * time.Second,
			ProbeTimeout:  time.Duration(resolver.ResolveInt(KeyProbeTimeoutSeconds, DefaultProbeTimeoutSeconds)) * time.Second,
			RetryAttempts: resolver.ResolveInt(KeyProbeRetryAttempts, DefaultProbeRetryAttempts),
			RetryPause:    time.Duration(resolver.ResolveInt(KeyProbeRetryPauseMs, DefaultProbeRetryPauseMs)) * time.Millisecond,
			Enabled:       resolver.ResolveBool(KeyMonitoringEnabled, false),
		},
		Telemetry: TelemetryConfig{
			MaxLogs:      resolver.ResolveInt(KeyTelemetryMaxLogs, DefaultTelemetryMaxLogs),
			SnapshotPath: resolver.ResolveString(KeyTelemetrySnapshotPath, DefaultTelemetrySnapshotPath),
			SnapshotSize: resolver.ResolveInt(KeyTelemetrySnapshotSize, DefaultTelemetrySnapshotSize),
		},
		Serving: ServingConfig{
			HTTPListenAddr: resolver.ResolveString(KeyHTTPListenAddr, DefaultHTTPListenAddr),
			DebugMode:      resolver.ResolveBool(KeyDebugMode, false),
			TUIMode:        tuiMode,
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func splitEndpoints(raw string) []string {
	if raw == "" {
		return nil
	}
	var endpoints []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			endpoints = append(endpoints, trimmed)
		}
	}
	return endpoints
}
