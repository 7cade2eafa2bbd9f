package transport

import (
	"btc-price-service/internal/infrastructure/logging"
	"btc-price-service/internal/infrastructure/metrics"
	"btc-price-service/internal/infrastructure/ratelimit"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	DefaultTimeout   = 10 * time.Second
	DefaultBackoff   = 200 * time.Millisecond
	MaxBackoff       = 2 * time.Second
	DefaultUserAgent = "btc-price-service/1.0"

	// maxBodyBytes acota lo que se lee de una respuesta upstream
	maxBodyBytes = 4 << 20
)

// ErrTransport marks failures below HTTP: dial, reset, timeout, body read.
var ErrTransport = errors.New("upstream transport failure")

// Options configures a Client
type Options struct {
	Timeout     time.Duration
	MaxAttempts uint
	Backoff     time.Duration
	UserAgent   string
	// Limiter es opcional; nil no limita
	Limiter *ratelimit.UpstreamLimiter
}

// Response is a fully read upstream response
type Response struct {
	StatusCode int
	Body       []byte
}

// IsSuccess reports a 2xx status
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client performs GET requests against one upstream service. HTTP statuses are
// returned to the caller untouched; only transport failures are retried, and
// only when MaxAttempts > 1.
type Client struct {
	service    string
	httpClient *http.Client
	opts       Options
}

// NewClient crea un cliente con su propio http.Client
func NewClient(service string, opts Options) *Client {
	opts = withDefaults(opts)
	return &Client{
		service:    service,
		httpClient: &http.Client{Timeout: opts.Timeout},
		opts:       opts,
	}
}

// NewClientWithHTTP reuses an existing http.Client (tests, shared transports)
func NewClientWithHTTP(service string, httpClient *http.Client, opts Options) *Client {
	return &Client{
		service:    service,
		httpClient: httpClient,
		opts:       withDefaults(opts),
	}
}

func withDefaults(opts Options) Options {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	// retry.Attempts(0) significa reintentos infinitos
	if opts.MaxAttempts == 0 {
		opts.MaxAttempts = 1
	}
	if opts.Backoff <= 0 {
		opts.Backoff = DefaultBackoff
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	return opts
}

// Get fetches rawURL. endpoint is a low-cardinality label for metrics.
func (c *Client) Get(ctx context.Context, endpoint, rawURL string, headers map[string]string) (*Response, error) {
	var resp *Response

	err := retry.Do(
		func() error {
			r, reqErr := c.do(ctx, endpoint, rawURL, headers)
			if reqErr != nil {
				return reqErr
			}
			resp = r
			return nil
		},
		retry.Attempts(c.opts.MaxAttempts),
		retry.Delay(c.opts.Backoff),
		retry.MaxDelay(MaxBackoff),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, ErrTransport) && ctx.Err() == nil
		}),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			metrics.RecordExternalAPIRetry(c.service, endpoint, int(n+1))
			logging.ExternalAPI().RetryScheduled(ctx, c.service, endpoint, n+1, err)
		}),
	)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// do performs a single attempt
func (c *Client) do(ctx context.Context, endpoint, rawURL string, headers map[string]string) (*Response, error) {
	if err := c.opts.Limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.opts.UserAgent)
	for name, value := range headers {
		req.Header.Set(name, value)
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		duration := time.Since(start)
		metrics.RecordExternalAPICall(c.service, endpoint, 0, duration.Seconds())
		logging.ExternalAPI().RequestFailed(ctx, c.service, endpoint, err, duration)
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer func() {
		_ = httpResp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodyBytes))
	duration := time.Since(start)
	metrics.RecordExternalAPICall(c.service, endpoint, httpResp.StatusCode, duration.Seconds())
	if err != nil {
		logging.ExternalAPI().RequestFailed(ctx, c.service, endpoint, err, duration)
		return nil, fmt.Errorf("%w: reading body: %v", ErrTransport, err)
	}

	logging.ExternalRequest(ctx, c.service, endpoint, httpResp.StatusCode, duration)

	return &Response{
		StatusCode: httpResp.StatusCode,
		Body:       body,
	}, nil
}
