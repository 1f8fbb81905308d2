package campaign

import (
	"crypto/tls"
	"net/http"
	"time"
)

// HTTPDoer abstracts HTTP calls for testability.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DefaultProbeTimeout bounds a single probe request.
const DefaultProbeTimeout = 10 * time.Second

// NewHTTPClient returns a client that follows redirects, enforces TLS 1.2 and
// gives up after timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
}
