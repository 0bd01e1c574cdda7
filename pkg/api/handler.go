// Package api exposes the monitor registry and the telemetry buffer over a
// small JSON HTTP surface.
package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"labwatch/pkg/monitor"
	"labwatch/pkg/telemetry"
)

// telemetrySource is the slice of the telemetry buffer the API consumes.
type telemetrySource interface {
	SessionID() string
	Query(level telemetry.Level, category string) []telemetry.LogEntry
	Export() ([]byte, error)
	Clear()
	Warn(category, message string, data map[string]interface{})
}

type Handler struct {
	mon  *monitor.Monitor
	logs telemetrySource
}

func NewHandler(mon *monitor.Monitor, logs telemetrySource) *Handler {
	return &Handler{mon: mon, logs: logs}
}

// AddEndpointRequest registers a URL for monitoring.
type AddEndpointRequest struct {
	URL              string `json:"url"`
	ProbeImmediately bool   `json:"probe_immediately"`
}

func (h *Handler) getAllHealth(w http.ResponseWriter, r *http.Request) {
	if url := strings.TrimSpace(r.URL.Query().Get("url")); url != "" {
		record, ok := h.mon.HealthStatus(url)
		if !ok {
			writeError(w, http.StatusNotFound, "not_found", "endpoint not registered")
			return
		}
		writeSuccess(w, http.StatusOK, "", record)
		return
	}
	writeSuccess(w, http.StatusOK, "", h.mon.AllHealthStatus())
}

func (h *Handler) getSummary(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, "", h.mon.Summary())
}

func (h *Handler) getQuality(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, "", map[string]monitor.Quality{"quality": h.mon.NetworkQuality()})
}

func (h *Handler) checkAll(w http.ResponseWriter, r *http.Request) {
	h.mon.CheckAll(r.Context())
	writeSuccess(w, http.StatusOK, "sweep complete", h.mon.Summary())
}

func (h *Handler) addEndpoint(w http.ResponseWriter, r *http.Request) {
	var req AddEndpointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "invalid json body")
		return
	}
	if err := h.mon.AddURL(strings.TrimSpace(req.URL), req.ProbeImmediately); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}
	writeSuccess(w, http.StatusCreated, "endpoint registered", map[string]string{"url": req.URL})
}

func (h *Handler) removeEndpoint(w http.ResponseWriter, r *http.Request) {
	url := strings.TrimSpace(r.URL.Query().Get("url"))
	if url == "" {
		writeError(w, http.StatusBadRequest, "invalid_input", "url query parameter required")
		return
	}
	h.mon.RemoveURL(url)
	writeSuccess(w, http.StatusOK, "endpoint removed", map[string]string{"url": url})
}

func (h *Handler) getLogs(w http.ResponseWriter, r *http.Request) {
	level := telemetry.LevelAll
	if raw := strings.TrimSpace(r.URL.Query().Get("level")); raw != "" {
		parsed, err := telemetry.ParseLevel(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
			return
		}
		level = parsed
	}
	category := strings.TrimSpace(r.URL.Query().Get("category"))

	entries := h.logs.Query(level, category)
	writeSuccess(w, http.StatusOK, "", map[string]interface{}{
		"session_id": h.logs.SessionID(),
		"count":      len(entries),
		"entries":    entries,
	})
}

func (h *Handler) exportLogs(w http.ResponseWriter, _ *http.Request) {
	data, err := h.logs.Export()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="telemetry-export.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) clearLogs(w http.ResponseWriter, _ *http.Request) {
	h.logs.Clear()
	writeSuccess(w, http.StatusOK, "telemetry cleared", nil)
}
