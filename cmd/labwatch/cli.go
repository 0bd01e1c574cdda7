package main

import (
	"context"
	"log"
	"time"

	"labwatch/pkg/config"
	"labwatch/pkg/monitor"
	"labwatch/pkg/telemetry"
	"labwatch/pkg/utils"
)

// CLI is the quiet-mode runner: it blocks until shutdown and prints a status
// line only when something changed.
type CLI struct {
	mon    *monitor.Monitor
	logs   *telemetry.Buffer
	config *config.Config
	logger *log.Logger

	lastSummary monitor.Summary
	lastQuality monitor.Quality
	printedOnce bool
	done        chan struct{}
}

func NewCLI(mon *monitor.Monitor, logs *telemetry.Buffer, cfg *config.Config, logger *log.Logger) *CLI {
	return &CLI{
		mon:    mon,
		logs:   logs,
		config: cfg,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Run starts the CLI runner and blocks until shutdown
func (c *CLI) Run(ctx context.Context) error {
	c.logger.Printf("Starting labwatch in quiet mode")
	c.logger.Printf("Endpoints: %d", len(c.config.Endpoints))
	c.logger.Printf("Check interval: %s", c.config.Monitor.CheckInterval)
	if c.config.Serving.HTTPListenAddr != "" {
		c.logger.Printf("HTTP API: %s", c.config.Serving.HTTPListenAddr)
	}

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Printf("Shutting down...")
			return nil
		case <-ticker.C:
			c.printStatus()
		case <-c.done:
			return nil
		}
	}
}

// Stop stops the CLI runner
func (c *CLI) Stop() {
	close(c.done)
}

// printStatus prints the current monitor status if it changed since the last
// tick, plus per-endpoint detail for anything not online.
func (c *CLI) printStatus() {
	summary := c.mon.Summary()
	quality := c.mon.NetworkQuality()

	if !c.shouldPrintStatus(summary, quality) {
		return
	}

	c.logger.Printf("Status - online=%d, offline=%d, checking=%d, error=%d, quality=%s, logs=%s",
		summary.Online,
		summary.Offline,
		summary.Checking,
		summary.Error,
		quality,
		utils.FormatNumber(uint64(c.logs.Len())))

	for _, record := range c.mon.AllHealthStatus() {
		if record.Status == monitor.StatusOnline {
			continue
		}
		c.logger.Printf("  %s: %s %s", record.URL, record.Status, record.ErrorMessage)
	}

	c.lastSummary = summary
	c.lastQuality = quality
	c.printedOnce = true
}

// shouldPrintStatus determines if we should print a status update
func (c *CLI) shouldPrintStatus(summary monitor.Summary, quality monitor.Quality) bool {
	if !c.printedOnce {
		return true
	}
	if summary != c.lastSummary {
		return true
	}
	return quality != c.lastQuality
}
