package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware(handler.logs))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeSuccess(w, http.StatusOK, "", map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handler.getAllHealth)
		r.Get("/health/summary", handler.getSummary)
		r.Get("/health/quality", handler.getQuality)
		r.Post("/health/check", handler.checkAll)

		r.Post("/endpoints", handler.addEndpoint)
		r.Delete("/endpoints", handler.removeEndpoint)

		r.Get("/logs", handler.getLogs)
		r.Get("/logs/export", handler.exportLogs)
		r.Delete("/logs", handler.clearLogs)
	})

	return r
}
