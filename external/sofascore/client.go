// Package sofascore fetches Brasileirão standings from the public
// Sofascore API. The endpoint sits behind bot protection, so the client
// runs an ordered chain of fetch strategies: a browser-fingerprint request
// first, then the scrape.do proxy when a token is configured.
package sofascore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/gfmartins/bolao-brasileirao/internal/platform/logging"
	"github.com/gfmartins/bolao-brasileirao/internal/platform/resilience"
	"github.com/gfmartins/bolao-brasileirao/internal/usecase"
)

const (
	defaultBaseURL   = "https://www.sofascore.com/api/v1"
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	badgeURLFormat   = "https://api.sofascore.app/api/v1/team/%d/image"
	scrapedoBaseURL  = "https://api.scrape.do/"

	maxResponseBytes = 6 << 20
)

var scrapedoTokenRegex = regexp.MustCompile(`token=[^&\s"']+`)

var errStrategySkipped = crerr.New("fetch strategy skipped")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	UserAgent      string
	TournamentID   int64
	SeasonID       int64
	Timeout        time.Duration
	BadgeTimeout   time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
	ScrapedoToken  string
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client owns its HTTP transport; tests substitute it through
// ClientConfig.HTTPClient.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	userAgent      string
	tournamentID   int64
	seasonID       int64
	badgeTimeout   time.Duration
	maxRetries     int
	retryDelay     time.Duration
	scrapedoToken  string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

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
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	retryDelay := cfg.RetryDelay
	if retryDelay < 0 {
		retryDelay = 0
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		userAgent:      userAgent,
		tournamentID:   cfg.TournamentID,
		seasonID:       cfg.SeasonID,
		badgeTimeout:   cfg.BadgeTimeout,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		retryDelay:     retryDelay,
		scrapedoToken:  strings.TrimSpace(cfg.ScrapedoToken),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// fetchStrategy is one way of retrieving a URL. Strategies are pure with
// respect to the chain: each attempt fully completes before the next one
// starts, and the chain short-circuits on the first success.
type fetchStrategy struct {
	name    string
	retries int
	fetch   func(ctx context.Context, rawURL string) ([]byte, error)
}

func (c *Client) strategies() []fetchStrategy {
	return []fetchStrategy{
		{name: "browser", retries: c.maxRetries, fetch: c.fetchBrowser},
		{name: "scrape.do", retries: 0, fetch: c.fetchScrapedo},
	}
}

// fetchWithFallback walks the strategy chain, applying each strategy's
// retry budget with a fixed delay between attempts. Skipped strategies
// consume neither attempts nor delay.
func (c *Client) fetchWithFallback(ctx context.Context, rawURL string) ([]byte, error) {
	var failures []string
	for _, strategy := range c.strategies() {
		raw, err := c.runStrategy(ctx, strategy, rawURL)
		if err == nil {
			return raw, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if crerr.Is(err, errStrategySkipped) {
			c.logger.InfoContext(ctx, "fetch strategy skipped", "strategy", strategy.name)
			continue
		}
		failures = append(failures, fmt.Sprintf("%s: %v", strategy.name, err))
	}

	return nil, fmt.Errorf(
		"%w: all fetch strategies failed (%s); check that the season id is correct and the tournament has started, and configure BOLAO_SCRAPEDO_TOKEN to enable the proxy fallback",
		usecase.ErrUpstreamUnavailable,
		strings.Join(failures, "; "),
	)
}

func (c *Client) runStrategy(ctx context.Context, strategy fetchStrategy, rawURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= strategy.retries; attempt++ {
		raw, err := strategy.fetch(ctx, rawURL)
		if err == nil {
			c.logger.InfoContext(ctx, "fetch strategy succeeded", "strategy", strategy.name, "attempt", attempt+1)
			return raw, nil
		}
		if crerr.Is(err, errStrategySkipped) || ctx.Err() != nil {
			return nil, err
		}

		lastErr = err
		c.logger.WarnContext(ctx, "fetch attempt failed",
			"strategy", strategy.name,
			"attempt", attempt+1,
			"error", err,
		)

		if attempt == strategy.retries {
			break
		}
		if err := sleepContext(ctx, c.retryDelay); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

// fetchBrowser issues the request directly with a desktop browser
// fingerprint. Enough for Sofascore's basic anti-bot checks.
func (c *Client) fetchBrowser(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,pt-BR;q=0.8")
	req.Header.Set("Referer", "https://www.sofascore.com/")

	return c.execute(req)
}

// fetchScrapedo routes the same URL through the scrape.do proxy. Without a
// token the strategy reports itself skipped.
func (c *Client) fetchScrapedo(ctx context.Context, rawURL string) ([]byte, error) {
	if c.scrapedoToken == "" {
		return nil, errStrategySkipped
	}

	values := url.Values{}
	values.Set("token", c.scrapedoToken)
	values.Set("url", rawURL)
	proxyURL := scrapedoBaseURL + "?" + values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, proxyURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build proxy request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	return c.execute(req)
}

func (c *Client) execute(req *http.Request) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(req.Context(), "sofascore circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: standings source is temporarily unavailable", usecase.ErrUpstreamUnavailable)
		}
	}

	raw, err := c.executeOnce(req)
	if c.circuitEnabled {
		if err != nil {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	return raw, err
}

func (c *Client) executeOnce(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %s", c.sanitize(err.Error()))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
	}

	return raw, nil
}

// doJSON fetches rawURL through the fallback chain, deduplicating
// concurrent requests for the same URL, and decodes into target.
func (c *Client) doJSON(ctx context.Context, rawURL string, target any) error {
	out, err, _ := c.flight.Do(rawURL, func() (any, error) {
		return c.fetchWithFallback(ctx, rawURL)
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	return decodeJSON(raw, target)
}

// FetchBadge downloads a club badge image. Badge traffic bypasses the
// fallback chain: failures here are recovered by the caller per team.
// Images carry their own deadline, tighter than the standings one.
func (c *Client) FetchBadge(ctx context.Context, sofascoreID int64) ([]byte, error) {
	if sofascoreID <= 0 {
		return nil, fmt.Errorf("sofascore id must be greater than zero")
	}
	if c.badgeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.badgeTimeout)
		defer cancel()
	}
	return c.fetchBrowser(ctx, fmt.Sprintf(badgeURLFormat, sofascoreID))
}

func (c *Client) sanitize(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if c.scrapedoToken != "" {
		value = strings.ReplaceAll(value, c.scrapedoToken, "REDACTED")
	}
	return scrapedoTokenRegex.ReplaceAllString(value, "token=REDACTED")
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func abbreviateBody(raw []byte) string {
	const limit = 200
	body := strings.TrimSpace(string(raw))
	if len(body) <= limit {
		return body
	}
	return body[:limit] + "..."
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
