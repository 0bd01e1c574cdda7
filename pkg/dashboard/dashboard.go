// Package dashboard renders a terminal view of endpoint health and the
// telemetry tail, refreshed on a fixed tick.
package dashboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"labwatch/pkg/monitor"
	"labwatch/pkg/telemetry"
	"labwatch/pkg/utils"
)

const (
	refreshInterval = time.Second
	logTailSize     = 12
)

// Dashboard owns the tview application. It reads from the monitor and the
// telemetry buffer but never mutates the registry beyond manual sweeps.
type Dashboard struct {
	mon  *monitor.Monitor
	logs *telemetry.Buffer

	app     *tview.Application
	table   *tview.Table
	summary *tview.TextView
	tail    *tview.TextView
}

func New(mon *monitor.Monitor, logs *telemetry.Buffer) *Dashboard {
	d := &Dashboard{
		mon:  mon,
		logs: logs,
		app:  tview.NewApplication(),
	}

	d.table = tview.NewTable().SetBorders(false).SetFixed(1, 0)
	d.table.SetBorder(true).SetTitle(" endpoints ")

	d.summary = tview.NewTextView().SetDynamicColors(true)
	d.summary.SetBorder(true).SetTitle(" summary ")

	d.tail = tview.NewTextView().SetDynamicColors(true).SetScrollable(false)
	d.tail.SetBorder(true).SetTitle(" telemetry ")

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(d.summary, 3, 0, false).
		AddItem(d.table, 0, 3, true).
		AddItem(d.tail, logTailSize+2, 0, false)

	d.app.SetRoot(layout, true)
	d.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch {
		case event.Key() == tcell.KeyCtrlC, event.Rune() == 'q':
			d.app.Stop()
			return nil
		case event.Rune() == 'c':
			go d.mon.CheckAll(context.Background())
			return nil
		}
		return event
	})

	return d
}

// Run blocks until the user quits or the context is cancelled.
func (d *Dashboard) Run(ctx context.Context) error {
	ticker := time.NewTicker(refreshInterval)
	done := make(chan struct{})

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				d.app.Stop()
				return
			case <-done:
				return
			case <-ticker.C:
				d.app.QueueUpdateDraw(d.refresh)
			}
		}
	}()

	d.refresh()
	err := d.app.Run()
	close(done)
	return err
}

func (d *Dashboard) refresh() {
	d.renderSummary()
	d.renderTable()
	d.renderTail()
}

func (d *Dashboard) renderSummary() {
	s := d.mon.Summary()
	state := "stopped"
	if d.mon.Running() {
		state = "running"
	}
	d.summary.SetText(fmt.Sprintf(
		" %s | quality: %s | online %d / offline %d / checking %d / error %d (total %d) | q quit, c check now",
		state, d.mon.NetworkQuality(), s.Online, s.Offline, s.Checking, s.Error, s.Total))
}

func (d *Dashboard) renderTable() {
	records := d.mon.AllHealthStatus()
	sort.Slice(records, func(i, j int) bool { return records[i].URL < records[j].URL })

	d.table.Clear()
	for col, title := range []string{"URL", "STATUS", "LATENCY", "CHECKED", "ERROR"} {
		d.table.SetCell(0, col, tview.NewTableCell(title).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false))
	}

	now := time.Now()
	for i, record := range records {
		row := i + 1
		d.table.SetCell(row, 0, tview.NewTableCell(utils.Truncate(record.URL, 48)))
		d.table.SetCell(row, 1, tview.NewTableCell(string(record.Status)).
			SetTextColor(statusColor(record.Status)))
		d.table.SetCell(row, 2, tview.NewTableCell(utils.FormatLatency(record.ResponseTimeMs)))
		d.table.SetCell(row, 3, tview.NewTableCell(utils.FormatAge(record.LastChecked, now)))
		d.table.SetCell(row, 4, tview.NewTableCell(utils.Truncate(record.ErrorMessage, 40)))
	}
}

func (d *Dashboard) renderTail() {
	entries := d.logs.Query(telemetry.LevelAll, "")
	if len(entries) > logTailSize {
		entries = entries[len(entries)-logTailSize:]
	}

	d.tail.Clear()
	for _, entry := range entries {
		fmt.Fprintf(d.tail, "%s [%s] %s: %s\n",
			entry.Timestamp.Format("15:04:05"), entry.Level, entry.Category, entry.Message)
	}
}

func statusColor(s monitor.Status) tcell.Color {
	switch s {
	case monitor.StatusOnline:
		return tcell.ColorGreen
	case monitor.StatusOffline:
		return tcell.ColorRed
	case monitor.StatusError:
		return tcell.ColorOrange
	default:
		return tcell.ColorGray
	}
}
