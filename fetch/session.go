package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pevans/newsharvest/dom"
)

// DefaultUserAgent is a desktop browser identity. Several publications
// serve reduced markup, or nothing, to unknown agents.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// DefaultTimeout bounds a single request.
const DefaultTimeout = 30 * time.Second

var (
	// ErrUnexpectedStatus marks a non-2xx response.
	ErrUnexpectedStatus = errors.New("unexpected status code")
	// ErrDisallowed marks a URL excluded by the host's robots.txt.
	ErrDisallowed = errors.New("disallowed by robots.txt")
)

// FetchError describes a failed GET. StatusCode is zero when no response
// was received.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: %v (%d)", e.URL, e.Err, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Options configures a Session. Zero values select defaults.
type Options struct {
	UserAgent string
	Timeout   time.Duration
	// MinInterval, when positive, spaces requests to the same host.
	MinInterval time.Duration
	// RespectRobots enables robots.txt checks before every request.
	RespectRobots bool
	// Client overrides the HTTP client; Timeout is ignored when set.
	Client *http.Client
}

// Session performs GET requests with a fixed identity. It is shared
// read-only across all fetches of a run.
type Session struct {
	client  *http.Client
	headers http.Header
	limiter *HostRateLimiter
	robots  *RobotsChecker
}

// NewSession creates a session from opts.
func NewSession(opts Options) *Session {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	headers := http.Header{}
	headers.Set("User-Agent", opts.UserAgent)
	headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	s := &Session{
		client:  client,
		headers: headers,
	}
	if opts.MinInterval > 0 {
		s.limiter = NewHostRateLimiter(opts.MinInterval)
	}
	if opts.RespectRobots {
		s.robots = NewRobotsChecker(client, opts.UserAgent)
	}
	return s
}

// UserAgent returns the identity sent with every request.
func (s *Session) UserAgent() string {
	return s.headers.Get("User-Agent")
}

// Get fetches url and returns the body. Any failure, including a non-2xx
// status, is returned as a *FetchError. There are no retries.
func (s *Session) Get(ctx context.Context, url string) ([]byte, error) {
	if s.robots != nil && !s.robots.Allowed(ctx, url) {
		return nil, &FetchError{URL: url, Err: ErrDisallowed}
	}

	if s.limiter != nil {
		if err := s.limiter.WaitForHost(ctx, url); err != nil {
			return nil, &FetchError{URL: url, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header = s.headers.Clone()

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode, Err: ErrUnexpectedStatus}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read body: %w", err)}
	}

	return body, nil
}

// Document fetches url and parses it as HTML.
func (s *Session) Document(ctx context.Context, url string) (*dom.Document, error) {
	body, err := s.Get(ctx, url)
	if err != nil {
		return nil, err
	}

	doc, err := dom.Parse(body)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	return doc, nil
}
