// Package fetch downloads council minutes and plenary session pages over
// HTTP with timeouts, bounded retry and optional on-disk revalidation.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Mohagames205/openbestuur/internal/cache"
)

// DefaultMaxBytes caps a downloaded document.
const DefaultMaxBytes = 32 << 20

// Document is a fetched body together with the content type it was served
// with.
type Document struct {
	URL         string
	Body        []byte
	ContentType string
	FromCache   bool
}

// Client wraps http.Client with a user agent, per-request timeout and
// limited retry on server errors and timeouts.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	// MaxAttempts includes the initial attempt. Minimum 1.
	MaxAttempts int
	// PerRequestTimeout bounds each attempt.
	PerRequestTimeout time.Duration
	// Cache, when set, is revalidated with If-None-Match / If-Modified-Since.
	Cache *cache.PageCache
	// BypassCache skips revalidation but still stores fresh responses.
	BypassCache bool
	// RedirectMaxHops caps redirects. Zero means 5.
	RedirectMaxHops int
	// MaxBytes caps the body size. Zero means DefaultMaxBytes.
	MaxBytes int64
	// MaxConcurrent limits in-flight requests. Zero means unlimited.
	MaxConcurrent int

	limiter     chan struct{}
	limiterOnce sync.Once
	backoff     func(attempt int) time.Duration
}

// StatusError reports a non-2xx, non-304 response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.Code)
}

// Transient reports whether retrying may help.
func (e *StatusError) Transient() bool { return e.Code >= 500 && e.Code <= 599 }

// ErrUnsupportedContentType is returned for bodies that are neither HTML nor
// plain text.
var ErrUnsupportedContentType = errors.New("unsupported content type")

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		base := *c.HTTPClient
		base.CheckRedirect = c.checkRedirect()
		return &base
	}
	return &http.Client{CheckRedirect: c.checkRedirect()}
}

// Get fetches rawURL. A 304 answer is served from the cache.
func (c *Client) Get(ctx context.Context, rawURL string) (Document, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Document{}, fmt.Errorf("parse url: %w", err)
	}
	if !isHTTPScheme(u) {
		return Document{}, fmt.Errorf("unsupported URL scheme: %q", rawURL)
	}

	var etag, lastMod string
	if c.Cache != nil && !c.BypassCache {
		if meta, err := c.Cache.Lookup(ctx, rawURL); err == nil {
			etag, lastMod = meta.ETag, meta.LastModified
		}
	}

	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		doc, err := c.tryOnce(ctx, rawURL, etag, lastMod)
		if err == nil {
			return doc, nil
		}
		lastErr = err
		if !isTransient(err) || i == attempts-1 {
			break
		}
		log.Debug().Err(err).Str("url", rawURL).Int("attempt", i+1).Msg("fetch: retrying")
		select {
		case <-ctx.Done():
			return Document{}, ctx.Err()
		case <-time.After(c.delay(i)):
		}
	}
	return Document{}, lastErr
}

func (c *Client) delay(attempt int) time.Duration {
	if c.backoff != nil {
		return c.backoff(attempt)
	}
	return time.Duration(attempt+1) * 200 * time.Millisecond
}

func (c *Client) tryOnce(ctx context.Context, rawURL, etag, lastMod string) (Document, error) {
	c.acquire()
	defer c.release()

	if c.PerRequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.PerRequestTimeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Document{}, fmt.Errorf("new request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}
	if lastMod != "" {
		req.Header.Set("If-Modified-Since", lastMod)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return Document{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified && c.Cache != nil {
		body, err := c.Cache.Body(ctx, rawURL)
		if err == nil {
			ct := resp.Header.Get("Content-Type")
			if meta, mErr := c.Cache.Lookup(ctx, rawURL); mErr == nil && meta.ContentType != "" {
				ct = meta.ContentType
			}
			return Document{URL: rawURL, Body: body, ContentType: ct, FromCache: true}, nil
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Document{}, &StatusError{URL: rawURL, Code: resp.StatusCode}
	}

	contentType := resp.Header.Get("Content-Type")
	if !IsAllowedContentType(contentType) {
		return Document{}, fmt.Errorf("%w: %s", ErrUnsupportedContentType, contentType)
	}
	limit := c.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return Document{}, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > limit {
		return Document{}, fmt.Errorf("body exceeds %d bytes", limit)
	}
	if c.Cache != nil {
		if err := c.Cache.Store(ctx, rawURL, contentType, resp.Header.Get("ETag"), resp.Header.Get("Last-Modified"), body); err != nil {
			log.Debug().Err(err).Str("url", rawURL).Msg("fetch: cache store failed")
		}
	}
	return Document{URL: rawURL, Body: body, ContentType: contentType}, nil
}

func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var se *StatusError
	return errors.As(err, &se) && se.Transient()
}

func (c *Client) checkRedirect() func(req *http.Request, via []*http.Request) error {
	max := c.RedirectMaxHops
	if max <= 0 {
		max = 5
	}
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= max {
			return errors.New("too many redirects")
		}
		if !isHTTPScheme(req.URL) {
			return errors.New("redirect to unsupported scheme")
		}
		return nil
	}
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

// IsAllowedContentType accepts HTML, XHTML and plain text. An empty header
// is accepted and left to content sniffing by the caller.
func IsAllowedContentType(ct string) bool {
	if strings.TrimSpace(ct) == "" {
		return true
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	switch mt {
	case "text/html", "application/xhtml+xml", "text/plain":
		return true
	}
	return false
}

func (c *Client) acquire() {
	if c.MaxConcurrent <= 0 {
		return
	}
	c.limiterOnce.Do(func() {
		c.limiter = make(chan struct{}, c.MaxConcurrent)
	})
	c.limiter <- struct{}{}
}

func (c *Client) release() {
	if c.MaxConcurrent <= 0 || c.limiter == nil {
		return
	}
	<-c.limiter
}
