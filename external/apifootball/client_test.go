package apifootball

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/matchday/internal/platform/logging"
	"github.com/riskibarqy/matchday/internal/platform/resilience"
	"github.com/riskibarqy/matchday/internal/usecase"
)

func newTestClient(srv *httptest.Server, retries int, breaker resilience.CircuitBreakerConfig) *Client {
	return NewClient(ClientConfig{
		HTTPClient:     srv.Client(),
		BaseURL:        srv.URL,
		APIKey:         "secret-key",
		Timezone:       "Asia/Jakarta",
		MaxRetries:     retries,
		RetryBackoff:   time.Millisecond,
		Logger:         logging.NewNop(),
		CircuitBreaker: breaker,
	})
}

func TestClientFetchFixturesByDate_SendsKeyAndMapsRecords(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fixtures" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("x-apisports-key"); got != "secret-key" {
			t.Errorf("unexpected api key header: %s", got)
		}
		if got := r.URL.Query().Get("date"); got != "2026-03-01" {
			t.Errorf("unexpected date: %s", got)
		}
		if got := r.URL.Query().Get("timezone"); got != "Asia/Jakarta" {
			t.Errorf("unexpected timezone: %s", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = jsoniter.NewEncoder(w).Encode(map[string]any{
			"get":     "fixtures",
			"errors":  []any{},
			"results": 2,
			"response": []any{
				map[string]any{
					"fixture": map[string]any{
						"id":   1035037,
						"date": "2026-03-01T19:00:00+07:00",
						"status": map[string]any{
							"long":    "Not Started",
							"short":   "NS",
							"elapsed": nil,
						},
					},
					"league": map[string]any{"id": 274, "name": "Liga 1", "country": "Indonesia", "logo": "l.png", "flag": "id.svg"},
					"teams": map[string]any{
						"home": map[string]any{"id": 1, "name": "Persija Jakarta", "logo": "h.png"},
						"away": map[string]any{"id": 2, "name": "Persib Bandung", "logo": "a.png"},
					},
					"goals": map[string]any{"home": nil, "away": nil},
				},
				map[string]any{
					"fixture": map[string]any{"id": 1035038, "status": map[string]any{"short": "2H", "elapsed": 67}},
				},
			},
		})
	}))
	defer srv.Close()

	client := newTestClient(srv, 0, resilience.CircuitBreakerConfig{Enabled: false})

	items, err := client.FetchFixturesByDate(context.Background(), "2026-03-01")
	if err != nil {
		t.Fatalf("fetch fixtures: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 fixtures, got %d", len(items))
	}

	first := items[0]
	if first.Fixture == nil || first.Fixture.ID != 1035037 || first.Fixture.Status.Short != "NS" {
		t.Fatalf("unexpected fixture: %+v", first.Fixture)
	}
	if first.Fixture.Status.Elapsed != nil {
		t.Fatalf("expected nil elapsed")
	}
	if first.Teams == nil || first.Teams.Home.Name != "Persija Jakarta" || first.Teams.Away.Name != "Persib Bandung" {
		t.Fatalf("unexpected teams: %+v", first.Teams)
	}
	if first.League == nil || first.League.Name != "Liga 1" || first.League.Flag != "id.svg" {
		t.Fatalf("unexpected league: %+v", first.League)
	}
	if first.Goals == nil || first.Goals.Home != nil {
		t.Fatalf("unexpected goals: %+v", first.Goals)
	}

	second := items[1]
	if second.League != nil || second.Teams != nil || second.Goals != nil {
		t.Fatalf("expected missing sub-objects to stay nil: %+v", second)
	}
	if second.Fixture.Status.Elapsed == nil || *second.Fixture.Status.Elapsed != 67 {
		t.Fatalf("unexpected elapsed: %v", second.Fixture.Status.Elapsed)
	}
}

func TestClientFetchFixturesByDate_RejectsBadDate(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{Logger: logging.NewNop()})
	_, err := client.FetchFixturesByDate(context.Background(), "01/03/2026")
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestClientFetchLiveFixtures_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("live") != "all" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = jsoniter.NewEncoder(w).Encode(map[string]any{"errors": []any{}, "response": []any{}})
	}))
	defer srv.Close()

	client := newTestClient(srv, 2, resilience.CircuitBreakerConfig{Enabled: false})
	items, err := client.FetchLiveFixtures(context.Background())
	if err != nil {
		t.Fatalf("fetch live: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no fixtures, got %d", len(items))
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 calls, got %d", calls.Load())
	}
}

func TestClientFetchLiveFixtures_DoesNotRetryClientError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"forbidden"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv, 3, resilience.CircuitBreakerConfig{Enabled: false})
	_, err := client.FetchLiveFixtures(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}
	if !crerr.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected provider failure to be marked unavailable, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single call, got %d", calls.Load())
	}
}

func TestClientFetchLiveFixtures_SurfacesProviderErrors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = jsoniter.NewEncoder(w).Encode(map[string]any{
			"errors":   map[string]any{"token": "Error/Missing application key secret-key"},
			"response": []any{},
		})
	}))
	defer srv.Close()

	client := newTestClient(srv, 0, resilience.CircuitBreakerConfig{Enabled: false})
	_, err := client.FetchLiveFixtures(context.Background())
	if err == nil {
		t.Fatalf("expected provider error")
	}
	if !strings.Contains(err.Error(), "token: Error/Missing application key") {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(err.Error(), "secret-key") {
		t.Fatalf("api key leaked into error: %v", err)
	}
}

func TestClientFetchOddsByFixture(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/odds" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		response := []any{}
		if r.URL.Query().Get("fixture") == "42" {
			response = append(response, map[string]any{
				"fixture": map[string]any{"id": 42},
				"update":  "2026-03-01T10:00:00+00:00",
				"bookmakers": []any{
					map[string]any{"id": 8, "name": "Bet365", "bets": []any{}},
				},
			})
		}
		_ = jsoniter.NewEncoder(w).Encode(map[string]any{"errors": []any{}, "response": response})
	}))
	defer srv.Close()

	client := newTestClient(srv, 0, resilience.CircuitBreakerConfig{Enabled: false})

	odds, err := client.FetchOddsByFixture(context.Background(), 42)
	if err != nil {
		t.Fatalf("fetch odds: %v", err)
	}
	if odds.FixtureID != 42 {
		t.Fatalf("unexpected fixture id: %d", odds.FixtureID)
	}
	if !strings.Contains(string(odds.Payload), `"Bet365"`) {
		t.Fatalf("unexpected payload: %s", odds.Payload)
	}

	_, err = client.FetchOddsByFixture(context.Background(), 43)
	if !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_CircuitBreakerOpensAfterTransientFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := newTestClient(srv, 0, resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	})

	for i := 0; i < 2; i++ {
		if _, err := client.FetchLiveFixtures(context.Background()); err == nil {
			t.Fatalf("expected failure on call %d", i)
		}
	}

	_, err := client.FetchLiveFixtures(context.Background())
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected breaker to short-circuit the third call, got %d calls", calls.Load())
	}
}
