package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/felixgeelhaar/fortify/timeout"
)

// Opener defaults.
const (
	DefaultAttempts = 3
	DefaultDelay    = 200 * time.Millisecond
	DefaultTimeout  = 30 * time.Second

	maxBodySize = 32 << 20
)

// ErrHTTPStatus is returned for responses outside the 2xx range.
var ErrHTTPStatus = errors.New("unexpected HTTP status")

// Opener fetches URLs with retries and a timeout, and caches bodies for the
// lifetime of a report pass.
type Opener struct {
	client   *http.Client
	username string
	password string
	retryCfg retry.Config
	timeout  time.Duration

	mu    sync.Mutex
	cache map[string][]byte
}

// OpenerOption configures an Opener.
type OpenerOption func(*Opener)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(c *http.Client) OpenerOption {
	return func(o *Opener) { o.client = c }
}

// WithBasicAuth sets credentials sent with every request.
func WithBasicAuth(username, password string) OpenerOption {
	return func(o *Opener) { o.username, o.password = username, password }
}

// WithRetry sets the number of attempts and the initial backoff delay.
func WithRetry(attempts int, delay time.Duration) OpenerOption {
	return func(o *Opener) {
		o.retryCfg.MaxAttempts = attempts
		o.retryCfg.InitialDelay = delay
	}
}

// WithTimeout bounds each fetch, retries included.
func WithTimeout(d time.Duration) OpenerOption {
	return func(o *Opener) { o.timeout = d }
}

// NewOpener creates an Opener.
func NewOpener(opts ...OpenerOption) *Opener {
	o := &Opener{
		client: http.DefaultClient,
		retryCfg: retry.Config{
			MaxAttempts:   DefaultAttempts,
			InitialDelay:  DefaultDelay,
			BackoffPolicy: retry.BackoffExponential,
		},
		timeout: DefaultTimeout,
		cache:   make(map[string][]byte),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Get returns the body of url, from cache when fetched before.
func (o *Opener) Get(ctx context.Context, url string) ([]byte, error) {
	o.mu.Lock()
	if body, ok := o.cache[url]; ok {
		o.mu.Unlock()
		return body, nil
	}
	o.mu.Unlock()

	t := timeout.New[[]byte](timeout.Config{DefaultTimeout: o.timeout})
	r := retry.New[[]byte](o.retryCfg)
	body, err := t.Execute(ctx, o.timeout, func(ctx context.Context) ([]byte, error) {
		return r.Do(ctx, func(ctx context.Context) ([]byte, error) {
			return o.fetch(ctx, url)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", url, err)
	}

	o.mu.Lock()
	o.cache[url] = body
	o.mu.Unlock()
	return body, nil
}

// GetJSON fetches url and decodes the JSON body into v.
func (o *Opener) GetJSON(ctx context.Context, url string, v any) error {
	body, err := o.Get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// ClearCache forgets all fetched bodies.
func (o *Opener) ClearCache() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cache = make(map[string][]byte)
}

func (o *Opener) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if o.username != "" {
		req.SetBasicAuth(o.username, o.password)
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrHTTPStatus, resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
}
