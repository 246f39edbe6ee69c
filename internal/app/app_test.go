package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskibarqy/matchday/internal/config"
	"github.com/riskibarqy/matchday/internal/platform/logging"
)

func TestNewHTTPServer_MemoryStore(t *testing.T) {
	t.Parallel()

	cfg := config.Config{
		HTTPAddr:                         ":0",
		ReadTimeout:                      time.Second,
		WriteTimeout:                     time.Second,
		Location:                         time.UTC,
		CORSAllowedOrigins:               []string{"*"},
		StorageDriver:                    config.StorageDriverMemory,
		ScoreboardCacheTTL:               time.Minute,
		PredictionCacheTTL:               time.Minute,
		APIFootballBaseURL:               "http://127.0.0.1:1",
		APIFootballTimeout:               time.Second,
		APIFootballCircuitFailureCount:   1,
		APIFootballCircuitOpenTimeout:    time.Second,
		APIFootballCircuitHalfOpenMaxReq: 1,
	}

	srv, err := NewHTTPServer(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("build server: %v", err)
	}
	t.Cleanup(func() { _ = srv.Close() })

	rec := httptest.NewRecorder()
	srv.HTTP.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected healthz 200, got %d", rec.Code)
	}
}

func TestNewHTTPServer_RequiresAddr(t *testing.T) {
	t.Parallel()

	if _, err := NewHTTPServer(context.Background(), config.Config{StorageDriver: config.StorageDriverMemory}, nil); err == nil {
		t.Fatalf("expected error for empty http addr")
	}
}

func TestNewHTTPServer_RedisUnreachable(t *testing.T) {
	t.Parallel()

	cfg := config.Config{
		HTTPAddr:      ":0",
		StorageDriver: config.StorageDriverMemory,
		RedisEnabled:  true,
		RedisURL:      "redis://127.0.0.1:1/0",
	}
	if _, err := NewHTTPServer(context.Background(), cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected error when redis cannot be reached")
	}
}
