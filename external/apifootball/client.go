package apifootball

import (
	"context"
	stderrors "errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/asstoyanov/predictor-mcp/internal/platform/logging"
	"github.com/asstoyanov/predictor-mcp/internal/platform/resilience"
	"github.com/asstoyanov/predictor-mcp/internal/usecase"
	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
)

const (
	DefaultBaseURL  = "https://v3.football.api-sports.io"
	DefaultTimezone = "Europe/Sofia"

	apiKeyHeader     = "x-apisports-key"
	maxResponseBytes = 6 << 20
)

var apiKeyHeaderRegex = regexp.MustCompile(`(?i)x-apisports-key[:=]\s*[^\s,"']+`)
var errTransient = crerr.New("api-football transient failure")

type ClientConfig struct {
	HTTPClient     *fasthttp.Client
	BaseURL        string
	APIKey         string
	Timezone       string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.BreakerConfig
}

// Client talks to API-Football. Identical in-flight GETs are collapsed into
// one upstream request and repeated transport failures open the breaker.
type Client struct {
	httpClient *fasthttp.Client
	baseURL    string
	apiKey     string
	timezone   string
	timeout    time.Duration
	maxRetries int
	logger     *logging.Logger
	breaker    *resilience.Breaker
	flight     resilience.Flight[[]byte]
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			Name:                "predictor-mcp",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxResponseBodySize: maxResponseBytes,
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timezone := strings.TrimSpace(cfg.Timezone)
	if timezone == "" {
		timezone = DefaultTimezone
	}

	breaker := resilience.NewBreaker(cfg.CircuitBreaker)
	breaker.OnStateChange(func(from, to resilience.CircuitState) {
		logger.Warn("api-football circuit breaker state changed", "from", from, "to", to)
	})

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		timezone:   timezone,
		timeout:    timeout,
		maxRetries: max(cfg.MaxRetries, 0),
		logger:     logger,
		breaker:    breaker,
	}
}

type param struct {
	key   string
	value string
}

// getJSON fetches path with params and decodes the envelope into target.
// Every failure is reported as usecase.ErrDependencyUnavailable.
func (c *Client) getJSON(ctx context.Context, path string, params []param, target envelopeChecker) error {
	fullURL := c.buildURL(path, params)

	raw, err, _ := c.flight.Do(fullURL, func() ([]byte, error) {
		// callers joining this flight must not inherit the leader's cancellation
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.requestBudget())
		defer cancel()

		var body []byte
		execErr := c.breaker.Execute(func() error {
			var reqErr error
			body, reqErr = c.executeRequest(shared, fullURL)
			return reqErr
		}, isTransient)
		return body, execErr
	})
	if err != nil {
		if stderrors.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "api-football circuit breaker rejected request", "path", path, "state", c.breaker.State())
			return fmt.Errorf("%w: sport data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %w", usecase.ErrDependencyUnavailable, err)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: decode provider payload: %v", usecase.ErrDependencyUnavailable, err)
	}
	if msg := target.providerError(); msg != "" {
		return fmt.Errorf("%w: provider error on %s: %s", usecase.ErrDependencyUnavailable, path, sanitizeSensitiveText(msg, c.apiKey))
	}
	return nil
}

func (c *Client) buildURL(path string, params []param) string {
	args := fasthttp.AcquireArgs()
	defer fasthttp.ReleaseArgs(args)

	for _, p := range params {
		if strings.TrimSpace(p.value) == "" {
			continue
		}
		args.Set(p.key, p.value)
	}
	if !args.Has("timezone") {
		args.Set("timezone", c.timezone)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(c.baseURL)
	_, _ = buf.WriteString(path)
	_ = buf.WriteByte('?')
	_, _ = buf.Write(args.QueryString())
	return buf.String()
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("accept", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp.Reset()
		err := c.httpClient.DoDeadline(req, resp, c.deadline(ctx))
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errTransient, sanitizeSensitiveText(err.Error(), c.apiKey))
		} else {
			status := resp.StatusCode()
			body := resp.Body()
			if status >= 200 && status < 300 {
				return append([]byte(nil), body...), nil
			}
			if !isRetryableStatus(status) {
				lastErr = fmt.Errorf("provider status=%d body=%s", status, abbreviateBody(body))
				break
			}
			lastErr = fmt.Errorf("%w: provider status=%d body=%s", errTransient, status, abbreviateBody(body))
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
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

// requestBudget bounds one shared request: every attempt plus the linear
// backoff between them.
func (c *Client) requestBudget() time.Duration {
	backoff := time.Duration(c.maxRetries*(c.maxRetries+1)/2) * time.Second
	return c.timeout*time.Duration(c.maxRetries+1) + backoff
}

func (c *Client) deadline(ctx context.Context) time.Time {
	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		return ctxDeadline
	}
	return deadline
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if apiKey != "" {
		value = strings.ReplaceAll(value, apiKey, "REDACTED")
	}
	return apiKeyHeaderRegex.ReplaceAllString(value, apiKeyHeader+": REDACTED")
}

func isTransient(err error) bool {
	return err != nil && stderrors.Is(err, errTransient)
}

func isRetryableStatus(code int) bool {
	return code == fasthttp.StatusTooManyRequests || code >= fasthttp.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
