package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/efreitasn/papertrade/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
)

// NewRouter creates a chi router with all routes registered, request
// logging and Content-Type validation middleware. When allowedOrigins is
// non-empty the router is wrapped in a CORS handler for those origins.
func NewRouter(tradingSvc *service.TradingService, allowedOrigins []string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(requestLogging(logger))
	r.Use(contentTypeJSON)

	marketH := NewMarketHandler(tradingSvc)
	accountH := NewAccountHandler(tradingSvc)

	// Health check.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Market routes.
	r.Get("/market", marketH.List)
	r.Post("/market/simulate", marketH.Simulate)
	r.Get("/market/{symbol}", marketH.Quote)

	// Account routes.
	r.Get("/portfolio", accountH.Portfolio)
	r.Post("/account/deposit", accountH.Deposit)
	r.Post("/account/withdraw", accountH.Withdraw)

	// Trade routes.
	r.Get("/trades", accountH.ListTrades)
	r.Post("/trades", accountH.SubmitTrade)

	if len(allowedOrigins) == 0 {
		return r
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(r)
}

// requestLogging returns middleware that logs each request's method, path,
// status code, and duration using slog.
func requestLogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

// contentTypeJSON rejects POST requests whose Content-Type is not
// application/json with 400 before the handler runs. Bodyless POSTs such
// as /market/simulate are let through.
func contentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.ContentLength != 0 {
			ct := r.Header.Get("Content-Type")
			if ct == "" || !strings.HasPrefix(ct, "application/json") {
				WriteError(w, http.StatusBadRequest, "invalid_request",
					"Content-Type must be application/json")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
