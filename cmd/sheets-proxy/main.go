// Command sheets-proxy exposes a resilient Google Sheets client over HTTP:
// read, batch-read and metadata endpoints backed by the full decorator stack,
// plus health, Prometheus metrics and live client statistics.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	sheets "github.com/ariadng/sheets"
	"github.com/ariadng/sheets/pkg/cache"
	"github.com/ariadng/sheets/pkg/client"
	"github.com/ariadng/sheets/pkg/logging"
	"github.com/ariadng/sheets/pkg/metrics"
	"github.com/ariadng/sheets/pkg/ratelimit"
	"github.com/ariadng/sheets/pkg/transport"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logging.Setup(logging.Config{
		Level:  logging.LogLevel(getEnv("LOG_LEVEL", "info")),
		Pretty: getEnv("LOG_PRETTY", "") == "true",
	})

	port := getEnv("PORT", "8080")
	credentialsFile := getEnv("SHEETS_CREDENTIALS_FILE", "")
	cacheTTL := getDurationEnv("CACHE_TTL", 5*time.Minute)

	ctx := context.Background()
	tp, err := transport.NewWithCredentialsFile(ctx, credentialsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Sheets transport")
	}

	collector := metrics.NewCollector(0)
	sheetsClient, err := sheets.New(sheets.Config{
		Transport: tp,
		Cache:     &cache.Config{TTL: cacheTTL},
		Limiter:   ratelimit.NewAdaptive(ratelimit.DefaultAdaptiveConfig()),
		Collector: collector,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Sheets client")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /stats", statsHandler(collector))
	mux.HandleFunc("GET /spreadsheets/{id}", metadataHandler(sheetsClient))
	mux.HandleFunc("GET /spreadsheets/{id}/values/{range}", readHandler(sheetsClient))

	addr := ":" + port
	log.Info().Str("addr", addr).Msg("Starting sheets proxy server")

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

// statsHandler serves the collector's derived statistics as JSON.
func statsHandler(collector *metrics.Collector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary := collector.Summary()
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]interface{}{
			"total_requests":     summary.TotalRequests,
			"success_rate":       summary.SuccessRate,
			"average_latency_ms": summary.AverageLatency.Milliseconds(),
			"throughput_rps":     summary.Throughput,
			"rate_limit_hits":    summary.RateLimitHits,
			"uptime_seconds":     int64(summary.Uptime.Seconds()),
		}); err != nil {
			log.Error().Err(err).Msg("Failed to write stats response")
		}
	}
}

// readHandler proxies a single range read through the decorated client.
func readHandler(sheetsClient *sheets.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		spreadsheetID := r.PathValue("id")
		readRange := r.PathValue("range")

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		values, err := sheetsClient.Read(ctx, spreadsheetID, readRange)
		if err != nil {
			writeError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]interface{}{
			"range":  readRange,
			"values": values,
		}); err != nil {
			log.Error().Err(err).Msg("Failed to write read response")
		}
	}
}

// metadataHandler proxies a spreadsheet metadata lookup.
func metadataHandler(sheetsClient *sheets.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		spreadsheetID := r.PathValue("id")

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		meta, err := sheetsClient.GetMetadata(ctx, spreadsheetID)
		if err != nil {
			writeError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(meta); err != nil {
			log.Error().Err(err).Msg("Failed to write metadata response")
		}
	}
}

// writeError maps an upstream failure to a proxy response, keeping the
// original status when the error carries one.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	message := err.Error()

	ce := clientError(err)
	if ce != nil {
		if ce.StatusCode > 0 {
			status = ce.StatusCode
		}
		message = ce.UserMessage()
	}

	http.Error(w, message, status)
}

// clientError unwraps err to its classification, or nil.
func clientError(err error) *client.ClassifiedError {
	var ce *client.ClassifiedError
	if errors.As(err, &ce) {
		return ce
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Msg("Invalid duration, using default")
		return defaultValue
	}
	return d
}
