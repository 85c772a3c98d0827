package http

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewServer создает роутер с API, метриками и раздачей статики фронтенда.
func NewServer(log *slog.Logger, h *Handler, staticDir string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/news", h.getNews)
	mux.HandleFunc("/api/verses", h.getVerses)
	mux.HandleFunc("/api/vapidPublicKey", h.getVapidPublicKey)
	mux.HandleFunc("/api/subscribe", h.subscribe)
	mux.HandleFunc("/api/health", h.healthCheck)
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))

	var handler http.Handler = mux
	handler = corsMiddleware()(handler)
	handler = loggingMiddleware(log)(handler)
	handler = requestIDMiddleware()(handler)
	return handler
}
