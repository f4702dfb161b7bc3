package fetch

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"
)

// RobotsChecker answers whether a URL may be fetched under its host's
// robots.txt. Rules are fetched once per host. A robots.txt that cannot be
// fetched or parsed allows everything.
type RobotsChecker struct {
	client    *http.Client
	userAgent string

	mu    sync.Mutex
	hosts map[string]*robotstxt.Group
}

// NewRobotsChecker creates a checker that evaluates rules for userAgent.
func NewRobotsChecker(client *http.Client, userAgent string) *RobotsChecker {
	return &RobotsChecker{
		client:    client,
		userAgent: userAgent,
		hosts:     make(map[string]*robotstxt.Group),
	}
}

// Allowed reports whether rawURL may be fetched.
func (r *RobotsChecker) Allowed(ctx context.Context, rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return true
	}

	group := r.group(ctx, parsed)
	if group == nil {
		return true
	}

	path := parsed.EscapedPath()
	if path == "" {
		path = "/"
	}
	if parsed.RawQuery != "" {
		path += "?" + parsed.RawQuery
	}
	return group.Test(path)
}

func (r *RobotsChecker) group(ctx context.Context, u *url.URL) *robotstxt.Group {
	key := u.Scheme + "://" + u.Host

	r.mu.Lock()
	defer r.mu.Unlock()

	if group, ok := r.hosts[key]; ok {
		return group
	}

	group := r.load(ctx, key)
	r.hosts[key] = group
	return group
}

func (r *RobotsChecker) load(ctx context.Context, origin string) *robotstxt.Group {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", http.NoBody)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "text/plain")

	resp, err := r.client.Do(req)
	if err != nil {
		log.Printf("WARN: Failed to fetch robots.txt for %s: %v", origin, err)
		return nil
	}
	defer resp.Body.Close()

	// robotstxt treats 5xx as disallow-all; an unavailable robots.txt is
	// treated here like a missing one.
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil
	}

	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		log.Printf("WARN: Failed to parse robots.txt for %s: %v", origin, err)
		return nil
	}
	return data.FindGroup(r.userAgent)
}
