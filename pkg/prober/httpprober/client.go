// Package httpprober provides a prober.Prober implementation on top of
// net/http.
package httpprober

import (
	"context"
	"crypto/tls"
	"errors"
	"linkvault/pkg/prober"
	"linkvault/pkg/serrors"
	"net"
	"net/http"
	"time"
)

// DefaultUserAgent is a desktop browser agent. Some sites answer requests
// from unknown agents with 403 even though they are up.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// DefaultMaxRedirects is the number of redirects followed when Options leaves it unset.
const DefaultMaxRedirects = 10

// Options configures a Client.
type Options struct {
	// UserAgent is sent with every probe. DefaultUserAgent is used when empty.
	UserAgent string
	// MaxRedirects is the number of redirects followed before the last
	// redirect response is reported as is. DefaultMaxRedirects is used when zero.
	MaxRedirects int
	// Transport overrides the default tuned transport, mostly for tests.
	Transport http.RoundTripper
}

// Client probes URLs with net/http. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// Ensure Client conforms to the prober.Prober interface at compile time.
var _ prober.Prober = (*Client)(nil)

// New constructs a Client. Per-probe deadlines come from the caller's context;
// the client itself has no overall timeout.
func New(opts Options) *Client {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.MaxRedirects <= 0 {
		opts.MaxRedirects = DefaultMaxRedirects
	}
	if opts.Transport == nil {
		opts.Transport = newTransport()
	}

	maxRedirects := opts.MaxRedirects

	return &Client{
		httpClient: &http.Client{
			Transport: opts.Transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return http.ErrUseLastResponse
				}
				req.Header.Set("User-Agent", opts.UserAgent)

				return nil
			},
		},
		userAgent: opts.UserAgent,
	}
}

func newTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
	}
}

// Probe sends a bodyless method request to URL and returns the final status code.
func (c *Client) Probe(ctx context.Context, method, URL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, URL, nil)
	if err != nil {
		return 0, serrors.Wrap(serrors.ErrInternal, err, "could not create request")
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return 0, serrors.Wrap(serrors.ErrTimeout, err, "probe timed out")
		}

		return 0, serrors.Wrap(serrors.ErrUnavailable, err, "could not send request")
	}
	_ = resp.Body.Close()

	return resp.StatusCode, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error

	return errors.As(err, &netErr) && netErr.Timeout()
}
