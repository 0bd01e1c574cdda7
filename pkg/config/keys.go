package config

// Configuration key constants
// These constants centralize all environment variable and configuration key names
// to eliminate magic strings and improve maintainability.

const (
	// Core service configuration keys
	KeyEndpointURLs = "ENDPOINT_URLS"
	KeyConfigFile   = "CONFIG_FILE"

	// Monitor configuration keys
	KeyCheckIntervalSeconds = "CHECK_INTERVAL_SECONDS"
	KeyProbeTimeoutSeconds  = "PROBE_TIMEOUT_SECONDS"
	KeyProbeRetryAttempts   = "PROBE_RETRY_ATTEMPTS"
	KeyProbeRetryPauseMs    = "PROBE_RETRY_PAUSE_MS"
	KeyMonitoringEnabled    = "MONITORING_ENABLED"

	// Telemetry configuration keys
	KeyTelemetryMaxLogs      = "TELEMETRY_MAX_LOGS"
	KeyTelemetrySnapshotPath = "TELEMETRY_SNAPSHOT_PATH"
	KeyTelemetrySnapshotSize = "TELEMETRY_SNAPSHOT_SIZE"

	// Serving configuration keys
	KeyHTTPListenAddr = "HTTP_LISTEN_ADDR"
	KeyDebugMode      = "DEBUG_MODE"
)

// Default values for configuration
const (
	// Monitor defaults
	DefaultCheckIntervalSeconds = 30
	DefaultProbeTimeoutSeconds  = 5
	DefaultProbeRetryAttempts   = 3
	DefaultProbeRetryPauseMs    = 1000

	// Telemetry defaults
	DefaultTelemetryMaxLogs      = 1000
	DefaultTelemetrySnapshotPath = "labwatch-logs.json"
	DefaultTelemetrySnapshotSize = 100

	// Serving defaults
	DefaultHTTPListenAddr = ""
)

// CLI flag name constants
const (
	// CLI flag names (kebab-case for command line)
	FlagEndpointURLs         = "endpoints"
	FlagConfigFile           = "config"
	FlagCheckIntervalSeconds = "check-interval-seconds"
	FlagProbeTimeoutSeconds  = "probe-timeout-seconds"
	FlagProbeRetryAttempts   = "probe-retry-attempts"
	FlagProbeRetryPauseMs    = "probe-retry-pause-ms"
	FlagMonitoringEnabled    = "monitoring-enabled"
	FlagTelemetryMaxLogs     = "telemetry-max-logs"
	FlagSnapshotPath         = "telemetry-snapshot-path"
	FlagSnapshotSize         = "telemetry-snapshot-size"
	FlagHTTPListenAddr       = "http-listen-addr"
	FlagDebugMode            = "debug"
	FlagTUIMode              = "tui"
	FlagHelp                 = "help"
)

// Help message constants
const (
	AppName        = "labwatch"
	AppDescription = "Monitor reachability of external lab endpoints"
	UsageFormat    = "labwatch [OPTIONS]"

	// Help descriptions
	HelpEndpointURLs         = "Comma-separated endpoint URLs to monitor"
	HelpConfigFile           = "Path to YAML configuration file"
	HelpCheckIntervalSeconds = "Interval between probe cycles in seconds"
	HelpProbeTimeoutSeconds  = "Per-attempt probe timeout in seconds"
	HelpProbeRetryAttempts   = "Probe attempts per cycle"
	HelpProbeRetryPauseMs    = "Pause between probe attempts in milliseconds"
	HelpMonitoringEnabled    = "Start periodic monitoring on launch"
	HelpTelemetryMaxLogs     = "Max in-memory telemetry entries"
	HelpSnapshotPath         = "Telemetry snapshot file path"
	HelpSnapshotSize         = "Entries persisted per snapshot"
	HelpHTTPListenAddr       = "Dashboard API listen address (empty disables)"
	HelpDebugMode            = "Mirror telemetry to the console and auto-start monitoring"
	HelpTUIMode              = "Run the interactive terminal dashboard"
	HelpShowHelp             = "Show this help message"

	// Help section headers
	HelpOptions         = "Options:"
	HelpEnvironmentVars = "Environment Variables:"
	HelpUsage           = "Usage:"
	HelpNote            = "Note: CLI options override environment variables, which override the config file"
)
