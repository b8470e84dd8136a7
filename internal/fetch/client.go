package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

const (
	// defaultTimeout bounds a single asset download end to end.
	defaultTimeout = 30 * time.Second

	// defaultMaxBytes is the response body cap. Oversized assets become
	// placeholders rather than ballooning the capture document.
	defaultMaxBytes = 8 * 1024 * 1024

	// defaultUserAgent identifies asset requests. Some CDNs refuse
	// requests with no User-Agent at all.
	defaultUserAgent = "framecap/1.0 (+https://github.com/nao1215/framecap)"

	// maxRedirects stops redirect loops while allowing normal CDN hops.
	maxRedirects = 10
)

// Result is one fetched asset body with the content type the server
// declared, or a sniffed type when the server declared none.
type Result struct {
	// URL is the URL the body was fetched from.
	URL string

	// Data is the raw body. Never larger than the configured size cap.
	Data []byte

	// ContentType is the media type without parameters, e.g. "image/png".
	ContentType string
}

// Client downloads asset bytes. The zero value is not usable; construct
// with NewClient.
type Client struct {
	// httpClient is shared across all fetches so connections are pooled.
	httpClient *http.Client

	// userAgent is sent on every request.
	userAgent string

	// maxBytes caps every response body.
	maxBytes int64
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithMaxBytes overrides the response body cap.
func WithMaxBytes(maxBytes int64) Option {
	return func(c *Client) {
		if maxBytes > 0 {
			c.maxBytes = maxBytes
		}
	}
}

// NewClient creates an asset download client. proxyAddress is an optional
// SOCKS5 proxy in "host:port" format; pass an empty string to connect
// directly. The constructor validates the address format but does not
// dial it.
func NewClient(proxyAddress string, opts ...Option) (*Client, error) {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,
	}

	if proxyAddress != "" {
		if !isValidProxyAddress(proxyAddress) {
			return nil, ErrInvalidProxyAddress
		}
		dialer, err := proxy.SOCKS5("tcp", proxyAddress, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("fetch: create SOCKS5 dialer: %w", err)
		}
		transport.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
			return dialer.Dial(network, addr)
		}
	}

	c := &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   defaultTimeout,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		userAgent: defaultUserAgent,
		maxBytes:  defaultMaxBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Fetch downloads the URL and returns its body. data: URLs are decoded
// locally without touching the network. The body is capped at the
// configured maximum; exceeding it returns ErrBodyTooLarge.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	if strings.HasPrefix(rawURL, "data:") {
		return DecodeDataURL(rawURL)
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch: parse URL %q: %w", rawURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("fetch: %q: %w", parsed.Scheme, ErrUnsupportedScheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: build request for %q: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "image/*,*/*;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: GET %q: %w", rawURL, err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close errors are not actionable

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("fetch: GET %q: unexpected status %d", rawURL, resp.StatusCode)
	}

	// Read one byte past the cap so oversized bodies are detected without
	// buffering the whole response.
	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("fetch: read body of %q: %w", rawURL, err)
	}
	if int64(len(data)) > c.maxBytes {
		return nil, fmt.Errorf("fetch: %q: %w", rawURL, ErrBodyTooLarge)
	}

	return &Result{
		URL:         rawURL,
		Data:        data,
		ContentType: normalizeContentType(resp.Header.Get("Content-Type"), data),
	}, nil
}

// normalizeContentType strips media type parameters and falls back to
// sniffing when the server sent no usable Content-Type header.
func normalizeContentType(header string, data []byte) string {
	mediaType := strings.TrimSpace(header)
	if i := strings.Index(mediaType, ";"); i >= 0 {
		mediaType = strings.TrimSpace(mediaType[:i])
	}
	mediaType = strings.ToLower(mediaType)
	if mediaType == "" || mediaType == "application/octet-stream" {
		return http.DetectContentType(data)
	}
	return mediaType
}

// isValidProxyAddress checks the "host:port" format without resolving
// anything. The format is too small to justify a full URL parser.
func isValidProxyAddress(address string) bool {
	parts := strings.Split(address, ":")
	if len(parts) != 2 {
		return false
	}
	host, port := parts[0], parts[1]
	if host == "" || port == "" {
		return false
	}

	portNum := 0
	for _, r := range port {
		if r < '0' || r > '9' {
			return false
		}
		portNum = portNum*10 + int(r-'0')
		if portNum > 65535 {
			return false
		}
	}
	return portNum >= 1
}
