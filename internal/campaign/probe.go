package campaign

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/fulmenhq/rsaforge/pkg/logger"
	"github.com/fulmenhq/rsaforge/pkg/retry"
)

var (
	// ErrURLNotAccessible is wrapped by every probe failure.
	ErrURLNotAccessible = errors.New("landing page URL is not accessible")
	// ErrInvalidURL marks a URL that is not an absolute http(s) URL.
	ErrInvalidURL = errors.New("invalid landing page URL")
)

// ProbeError reports a landing page that answered with an unusable status or
// could not be reached. StatusCode is zero for transport failures.
type ProbeError struct {
	URL        string
	Method     string
	StatusCode int
	Err        error
}

func (e *ProbeError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s returned status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Method, e.URL, e.Err)
}

func (e *ProbeError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrURLNotAccessible}
	}
	return []error{ErrURLNotAccessible, e.Err}
}

// Retryable reports whether probing again might succeed: transport failures,
// rate limiting and server errors are, other statuses are not.
func (e *ProbeError) Retryable() bool {
	return e.StatusCode == 0 || e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

const probeUserAgent = "Mozilla/5.0 (compatible; rsaforge-probe/1.0)"

// URLProber checks that a landing page is reachable before it is used as a
// final URL. Failed URLs are rejected, never rewritten.
type URLProber struct {
	client HTTPDoer
}

// NewURLProber creates a prober backed by client.
func NewURLProber(client HTTPDoer) *URLProber {
	return &URLProber{client: client}
}

// Probe sends a HEAD request and falls back to GET when HEAD is refused or
// fails. A 2xx or 3xx answer counts as accessible.
func (p *URLProber) Probe(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidURL, rawURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	err = p.try(ctx, http.MethodHead, rawURL)
	if err == nil {
		return nil
	}
	logger.Debug("HEAD probe failed, retrying with GET", logger.String("url", rawURL), logger.Err(err))
	return p.try(ctx, http.MethodGet, rawURL)
}

func (p *URLProber) try(ctx context.Context, method, rawURL string) error {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return &ProbeError{URL: rawURL, Method: method, Err: err}
	}
	req.Header.Set("User-Agent", probeUserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return &ProbeError{URL: rawURL, Method: method, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return &ProbeError{URL: rawURL, Method: method, StatusCode: resp.StatusCode}
	}
	return nil
}

// ProbeWithRetry probes rawURL under policy. Only retryable probe failures are
// attempted again.
func ProbeWithRetry(ctx context.Context, p *URLProber, rawURL string, policy retry.Policy) error {
	_, err := retry.Do(ctx, policy, func(ctx context.Context, attempt int) (struct{}, error) {
		err := p.Probe(ctx, rawURL)
		if err == nil {
			return struct{}{}, nil
		}
		var pe *ProbeError
		if !errors.As(err, &pe) || !pe.Retryable() {
			return struct{}{}, retry.Permanent(err)
		}
		logger.Warn("landing page probe failed",
			logger.String("url", rawURL),
			logger.Int("attempt", attempt),
			logger.Int("attempts", policy.Attempts),
			logger.Err(err),
		)
		return struct{}{}, err
	})
	return err
}
