package apifootball

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/matchday/internal/platform/logging"
	"github.com/riskibarqy/matchday/internal/platform/resilience"
	"github.com/riskibarqy/matchday/internal/usecase"
)

const (
	defaultBaseURL      = "https://v3.football.api-sports.io"
	defaultTimezone     = "UTC"
	defaultRetryBackoff = time.Second
	apiKeyHeader        = "x-apisports-key"
	maxResponseBytes    = 6 << 20

	fixturesPath = "/fixtures"
	oddsPath     = "/odds"
)

var errProviderTransient = crerr.New("api-football transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timezone       string
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to API-Football v3 and implements usecase.FixtureProvider.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	timezone       string
	maxRetries     int
	retryBackoff   time.Duration
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	oddsBreaker    *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.Group[string, []byte]
}

var _ usecase.FixtureProvider = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timezone := strings.TrimSpace(cfg.Timezone)
	if timezone == "" {
		timezone = defaultTimezone
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		timezone:       timezone,
		maxRetries:     max(cfg.MaxRetries, 0),
		retryBackoff:   backoff,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		oddsBreaker:    resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		circuitEnabled: cfg.CircuitBreaker.Enabled,
	}
}

func (c *Client) FetchLiveFixtures(ctx context.Context) ([]usecase.ExternalFixture, error) {
	var payload envelope[fixtureItem]
	if err := c.doJSON(ctx, fixturesPath, map[string]string{"live": "all"}, &payload); err != nil {
		return nil, fmt.Errorf("fetch live fixtures: %w", err)
	}
	return mapFixtures(payload.Response), nil
}

func (c *Client) FetchFixturesByDate(ctx context.Context, date string) ([]usecase.ExternalFixture, error) {
	date = strings.TrimSpace(date)
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", usecase.ErrInvalidInput, date)
	}

	var payload envelope[fixtureItem]
	query := map[string]string{"date": date, "timezone": c.timezone}
	if err := c.doJSON(ctx, fixturesPath, query, &payload); err != nil {
		return nil, fmt.Errorf("fetch fixtures date=%s: %w", date, err)
	}
	return mapFixtures(payload.Response), nil
}

// FetchOddsByFixture returns the bookmaker list of the first odds record for
// the fixture. No record yields usecase.ErrNotFound.
func (c *Client) FetchOddsByFixture(ctx context.Context, fixtureID int64) (usecase.ExternalOdds, error) {
	if fixtureID <= 0 {
		return usecase.ExternalOdds{}, fmt.Errorf("%w: fixture id must be greater than zero", usecase.ErrInvalidInput)
	}

	var payload envelope[oddsItem]
	query := map[string]string{"fixture": strconv.FormatInt(fixtureID, 10)}
	if err := c.doJSON(ctx, oddsPath, query, &payload); err != nil {
		return usecase.ExternalOdds{}, fmt.Errorf("fetch odds fixture_id=%d: %w", fixtureID, err)
	}
	if len(payload.Response) == 0 {
		return usecase.ExternalOdds{}, fmt.Errorf("%w: odds fixture_id=%d", usecase.ErrNotFound, fixtureID)
	}

	item := payload.Response[0]
	return usecase.ExternalOdds{
		FixtureID: fixtureID,
		Payload:   []byte(item.Bookmakers),
	}, nil
}

// breakerFor keeps odds outcomes from deciding whether fixture requests are allowed.
func (c *Client) breakerFor(path string) *resilience.CircuitBreaker {
	if path == oddsPath {
		return c.oddsBreaker
	}
	return c.breaker
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	breaker := c.breakerFor(path)
	if c.circuitEnabled {
		if err := breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "api-football circuit breaker rejected request", "path", path, "state", breaker.State())
			return fmt.Errorf("%w: sport data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	raw, err, _ := c.flight.Do(path+"?"+values.Encode(), func() ([]byte, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errProviderTransient) {
				breaker.RecordFailure()
			} else {
				breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		return crerr.Mark(err, usecase.ErrDependencyUnavailable)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return crerr.Mark(crerr.Wrap(err, "decode provider payload"), usecase.ErrDependencyUnavailable)
	}
	if msg := providerErrors(target); msg != "" {
		return crerr.Mark(crerr.Newf("provider rejected request: %s", sanitizeSensitiveText(msg, c.apiKey)), usecase.ErrDependencyUnavailable)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set(apiKeyHeader, c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = crerr.Wrapf(errProviderTransient, "send request: %s", sanitizeSensitiveText(err.Error(), c.apiKey))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = crerr.Wrapf(errProviderTransient, "read response body: %v", readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = crerr.Wrapf(errProviderTransient, "provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * c.retryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "api-football request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func mapFixtures(items []fixtureItem) []usecase.ExternalFixture {
	out := make([]usecase.ExternalFixture, 0, len(items))
	for _, item := range items {
		out = append(out, mapFixture(item))
	}
	return out
}

// mapFixture keeps absent sub-objects absent so aggregation can skip them.
func mapFixture(item fixtureItem) usecase.ExternalFixture {
	var out usecase.ExternalFixture
	if item.Fixture != nil {
		out.Fixture = &usecase.ExternalFixtureInfo{
			ID:   item.Fixture.ID,
			Date: item.Fixture.Date,
			Status: usecase.ExternalFixtureStatus{
				Short:   item.Fixture.Status.Short,
				Elapsed: item.Fixture.Status.Elapsed,
			},
		}
	}
	if item.League != nil {
		out.League = &usecase.ExternalLeague{
			ID:      item.League.ID,
			Name:    item.League.Name,
			Logo:    item.League.Logo,
			Country: item.League.Country,
			Flag:    item.League.Flag,
		}
	}
	if item.Teams != nil {
		out.Teams = &usecase.ExternalTeams{
			Home: mapTeam(item.Teams.Home),
			Away: mapTeam(item.Teams.Away),
		}
	}
	if item.Goals != nil {
		out.Goals = &usecase.ExternalGoals{Home: item.Goals.Home, Away: item.Goals.Away}
	}
	return out
}

func mapTeam(team *teamInfo) usecase.ExternalTeam {
	if team == nil {
		return usecase.ExternalTeam{}
	}
	return usecase.ExternalTeam{Name: team.Name, Logo: team.Logo}
}

func providerErrors(target any) string {
	var errs any
	switch payload := target.(type) {
	case *envelope[fixtureItem]:
		errs = payload.Errors
	case *envelope[oddsItem]:
		errs = payload.Errors
	default:
		return ""
	}

	switch value := errs.(type) {
	case map[string]any:
		if len(value) == 0 {
			return ""
		}
		parts := make([]string, 0, len(value))
		for key, msg := range value {
			parts = append(parts, fmt.Sprintf("%s: %v", key, msg))
		}
		sort.Strings(parts)
		return strings.Join(parts, "; ")
	case []any:
		if len(value) == 0 {
			return ""
		}
		return fmt.Sprint(value...)
	default:
		return ""
	}
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if value == "" || apiKey == "" {
		return value
	}
	return strings.ReplaceAll(value, apiKey, "REDACTED")
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
