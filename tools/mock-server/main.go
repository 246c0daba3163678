// Package main implements a mock Discord webhook server for local
// development. It accepts webhook posts the way Discord does, logs the
// embeds it receives, and can simulate rate limiting and delivery failures
// so the loss-alert notifier can be exercised without a real webhook.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"
)

type webhookPayload struct {
	Content string  `json:"content,omitempty"`
	Embeds  []embed `json:"embeds,omitempty"`
}

type embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []embedField `json:"fields,omitempty"`
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// recorder keeps every accepted payload for inspection via GET /received.
type recorder struct {
	mu       sync.Mutex
	count    int
	payloads []webhookPayload
}

func (r *recorder) add(p webhookPayload) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.count++
	r.payloads = append(r.payloads, p)
	return r.count
}

func (r *recorder) snapshot() (int, []webhookPayload) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count, append([]webhookPayload(nil), r.payloads...)
}

func main() {
	port := flag.Int("port", 8099, "port to listen on")
	failEvery := flag.Int("fail-every", 0, "return 500 on every Nth delivery (0 disables)")
	limitEvery := flag.Int("limit-every", 0, "return 429 on every Nth delivery (0 disables)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	rec := &recorder{}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/webhooks/{id}/{token}", webhookHandler(logger, rec, *failEvery, *limitEvery))
	mux.HandleFunc("GET /received", receivedHandler(rec))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock Discord webhook server", "addr", addr,
		"fail_every", *failEvery, "limit_every", *limitEvery)
	logger.Info("point the notifier at", "url",
		fmt.Sprintf("http://localhost:%d/api/webhooks/0/mock", *port))

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func webhookHandler(logger *slog.Logger, rec *recorder, failEvery, limitEvery int) http.HandlerFunc {
	var mu sync.Mutex
	var seen int

	return func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen++
		n := seen
		mu.Unlock()

		if limitEvery > 0 && n%limitEvery == 0 {
			logger.Warn("simulating rate limit", "delivery", n)
			w.Header().Set("Retry-After", "2")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		if failEvery > 0 && n%failEvery == 0 {
			logger.Warn("simulating delivery failure", "delivery", n)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		var payload webhookPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			logger.Warn("bad payload", "error", err)
			w.WriteHeader(http.StatusBadRequest)
			//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
			json.NewEncoder(w).Encode(map[string]string{"message": "Cannot send an empty message"})
			return
		}

		total := rec.add(payload)
		for _, e := range payload.Embeds {
			logger.Info("received embed", "title", e.Title, "color", fmt.Sprintf("#%06X", e.Color),
				"fields", len(e.Fields), "total", total)
		}

		// Discord returns 204 with no body on success.
		w.WriteHeader(http.StatusNoContent)
	}
}

func receivedHandler(rec *recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		count, payloads := rec.snapshot()
		if payloads == nil {
			payloads = []webhookPayload{}
		}

		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		json.NewEncoder(w).Encode(map[string]any{
			"count":    count,
			"payloads": payloads,
		})
	}
}
