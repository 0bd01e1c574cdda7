package config

import (
	"flag"
	"fmt"
	"io"
)

// parseCLIFlags parses command-line flags into a FlagSource. The TUI flag is
// returned separately since it has no environment or file equivalent.
func parseCLIFlags(args []string) (*FlagSource, bool, bool, error) {
	flagSource := NewFlagSource()

	fs := flag.NewFlagSet(AppName, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	endpoints := fs.String(FlagEndpointURLs, "", HelpEndpointURLs)
	configFile := fs.String(FlagConfigFile, "", HelpConfigFile)
	checkIntervalSeconds := fs.Int(FlagCheckIntervalSeconds, 0, HelpCheckIntervalSeconds)
	probeTimeoutSeconds := fs.Int(FlagProbeTimeoutSeconds, 0, HelpProbeTimeoutSeconds)
	probeRetryAttempts := fs.Int(FlagProbeRetryAttempts, 0, HelpProbeRetryAttempts)
	probeRetryPauseMs := fs.Int(FlagProbeRetryPauseMs, 0, HelpProbeRetryPauseMs)
	monitoringEnabled := fs.Bool(FlagMonitoringEnabled, false, HelpMonitoringEnabled)
	telemetryMaxLogs := fs.Int(FlagTelemetryMaxLogs, 0, HelpTelemetryMaxLogs)
	snapshotPath := fs.String(FlagSnapshotPath, "", HelpSnapshotPath)
	snapshotSize := fs.Int(FlagSnapshotSize, 0, HelpSnapshotSize)
	httpListenAddr := fs.String(FlagHTTPListenAddr, "", HelpHTTPListenAddr)
	debugMode := fs.Bool(FlagDebugMode, false, HelpDebugMode)
	tuiMode := fs.Bool(FlagTUIMode, false, HelpTUIMode)
	help := fs.Bool(FlagHelp, false, HelpShowHelp)

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return flagSource, false, true, nil
		}
		return nil, false, false, err
	}

	if *help {
		return flagSource, false, true, nil
	}

	// Store non-zero/non-empty values in flag source
	if *endpoints != "" {
		flagSource.Set(KeyEndpointURLs, *endpoints)
	}
	if *configFile != "" {
		flagSource.Set(KeyConfigFile, *configFile)
	}
	if *checkIntervalSeconds != 0 {
		flagSource.Set(KeyCheckIntervalSeconds, *checkIntervalSeconds)
	}
	if *probeTimeoutSeconds != 0 {
		flagSource.Set(KeyProbeTimeoutSeconds, *probeTimeoutSeconds)
	}
	if *probeRetryAttempts != 0 {
		flagSource.Set(KeyProbeRetryAttempts, *probeRetryAttempts)
	}
	if *probeRetryPauseMs != 0 {
		flagSource.Set(KeyProbeRetryPauseMs, *probeRetryPauseMs)
	}
	if *monitoringEnabled {
		flagSource.Set(KeyMonitoringEnabled, *monitoringEnabled)
	}
	if *telemetryMaxLogs != 0 {
		flagSource.Set(KeyTelemetryMaxLogs, *telemetryMaxLogs)
	}
	if *snapshotPath != "" {
		flagSource.Set(KeyTelemetrySnapshotPath, *snapshotPath)
	}
	if *snapshotSize != 0 {
		flagSource.Set(KeyTelemetrySnapshotSize, *snapshotSize)
	}
	if *httpListenAddr != "" {
		flagSource.Set(KeyHTTPListenAddr, *httpListenAddr)
	}
	if *debugMode {
		flagSource.Set(KeyDebugMode, *debugMode)
	}

	return flagSource, *tuiMode, false, nil
}

// printUsage prints the usage message
func printUsage() {
	fmt.Printf("%s - %s\n", AppName, AppDescription)
	fmt.Println()
	fmt.Printf("%s\n", HelpUsage)
	fmt.Printf("  %s\n", UsageFormat)
	fmt.Println()
	fmt.Printf("%s\n", HelpOptions)
	fmt.Printf("  --%s string              %s\n", FlagEndpointURLs, HelpEndpointURLs)
	fmt.Printf("  --%s string                 %s\n", FlagConfigFile, HelpConfigFile)
	fmt.Printf("  --%s int     %s (default: %d)\n", FlagCheckIntervalSeconds, HelpCheckIntervalSeconds, DefaultCheckIntervalSeconds)
	fmt.Printf("  --%s int     %s (default: %d)\n", FlagProbeTimeoutSeconds, HelpProbeTimeoutSeconds, DefaultProbeTimeoutSeconds)
	fmt.Printf("  --%s int      %s (default: %d)\n", FlagProbeRetryAttempts, HelpProbeRetryAttempts, DefaultProbeRetryAttempts)
	fmt.Printf("  --%s int      %s (default: %d)\n", FlagProbeRetryPauseMs, HelpProbeRetryPauseMs, DefaultProbeRetryPauseMs)
	fmt.Printf("  --%s              %s\n", FlagMonitoringEnabled, HelpMonitoringEnabled)
	fmt.Printf("  --%s int         %s (default: %d)\n", FlagTelemetryMaxLogs, HelpTelemetryMaxLogs, DefaultTelemetryMaxLogs)
	fmt.Printf("  --%s string  %s (default: %s)\n", FlagSnapshotPath, HelpSnapshotPath, DefaultTelemetrySnapshotPath)
	fmt.Printf("  --%s int     %s (default: %d)\n", FlagSnapshotSize, HelpSnapshotSize, DefaultTelemetrySnapshotSize)
	fmt.Printf("  --%s string         %s\n", FlagHTTPListenAddr, HelpHTTPListenAddr)
	fmt.Printf("  --%s                           %s\n", FlagDebugMode, HelpDebugMode)
	fmt.Printf("  --%s                             %s\n", FlagTUIMode, HelpTUIMode)
	fmt.Printf("  --%s                            %s\n", FlagHelp, HelpShowHelp)
	fmt.Println()
	fmt.Printf("%s\n", HelpEnvironmentVars)
	fmt.Printf("  %-28s %s\n", KeyEndpointURLs, HelpEndpointURLs)
	fmt.Printf("  %-28s %s\n", KeyConfigFile, HelpConfigFile)
	fmt.Printf("  %-28s %s\n", KeyCheckIntervalSeconds, HelpCheckIntervalSeconds)
	fmt.Printf("  %-28s %s\n", KeyProbeTimeoutSeconds, HelpProbeTimeoutSeconds)
	fmt.Printf("  %-28s %s\n", KeyProbeRetryAttempts, HelpProbeRetryAttempts)
	fmt.Printf("  %-28s %s\n", KeyProbeRetryPauseMs, HelpProbeRetryPauseMs)
	fmt.Printf("  %-28s %s\n", KeyMonitoringEnabled, HelpMonitoringEnabled)
	fmt.Printf("  %-28s %s\n", KeyTelemetryMaxLogs, HelpTelemetryMaxLogs)
	fmt.Printf("  %-28s %s\n", KeyTelemetrySnapshotPath, HelpSnapshotPath)
	fmt.Printf("  %-28s %s\n", KeyTelemetrySnapshotSize, HelpSnapshotSize)
	fmt.Printf("  %-28s %s\n", KeyHTTPListenAddr, HelpHTTPListenAddr)
	fmt.Printf("  %-28s %s\n", KeyDebugMode, HelpDebugMode)
	fmt.Println()
	fmt.Printf("%s\n", HelpNote)
}
