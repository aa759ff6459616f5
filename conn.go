package discogs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// HTTP header names and media types used on the wire.
const (
	headerAccept      = "Accept"
	headerContentType = "Content-Type"
	headerUserAgent   = "User-Agent"
	headerLocation    = "Location"

	headerRateLimit          = "X-Discogs-Ratelimit"
	headerRateLimitUsed      = "X-Discogs-Ratelimit-Used"
	headerRateLimitRemaining = "X-Discogs-Ratelimit-Remaining"

	mediaTypeDiscogs = "application/vnd.discogs.v2.discogs+json"
	mediaTypeJSON    = "application/json"
)

// RateLimit is the most recent rate-limit window reported by the API.
type RateLimit struct {
	Limit      int
	Used       int
	Remaining  int
	ObservedAt time.Time
}

// Conn executes requests against the API. It resolves paths against the
// base URL, attaches credentials, throttles through a token bucket and maps
// status codes to typed errors. A Conn is safe for concurrent use.
type Conn struct {
	baseURL   *url.URL
	client    *http.Client
	userAgent string
	limiter   *rate.Limiter
	logger    *slog.Logger

	mu        sync.Mutex
	rateLimit RateLimit
}

// RateLimit returns the last rate-limit headers seen, or the zero value if
// no response carried them yet.
func (c *Conn) RateLimit() RateLimit {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rateLimit
}

// BaseURL returns the root every relative path is resolved against.
func (c *Conn) BaseURL() string {
	return c.baseURL.String()
}

// resolve turns a path, or an absolute URL taken from a pagination link,
// into a request URL with query merged in.
func (c *Conn) resolve(path string, query url.Values) (*url.URL, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("parsing path %q: %w", path, err)
	}
	var u *url.URL
	if ref.IsAbs() {
		u = ref
	} else {
		// Joined without cleaning so an escaped "." or ".." stays a segment.
		base := *c.baseURL
		u = &base
		u.Path = strings.TrimSuffix(base.Path, "/") + "/" + strings.TrimPrefix(ref.Path, "/")
		u.RawPath = strings.TrimSuffix(base.EscapedPath(), "/") + "/" + strings.TrimPrefix(ref.EscapedPath(), "/")
		u.RawQuery = ref.RawQuery
	}
	if len(query) > 0 {
		merged := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				merged.Add(k, v)
			}
		}
		u.RawQuery = merged.Encode()
	}
	return u, nil
}

// NewRequest builds a request for path. A non-nil body is encoded as JSON.
func (c *Conn) NewRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := c.newRawRequest(ctx, method, path, query, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set(headerContentType, mediaTypeJSON)
	}
	return req, nil
}

func (c *Conn) newRawRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u, err := c.resolve(path, query)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set(headerAccept, mediaTypeDiscogs)
	req.Header.Set(headerUserAgent, c.userAgent)
	return req, nil
}

// Do sends req and returns the raw response for any 2xx status. Any other
// status is drained and returned as a [*RequestError] or [*ResponseError].
// The caller closes the body of a successful response.
func (c *Conn) Do(req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, &RequestError{Method: req.Method, URL: redactURL(req.URL), Err: fmt.Errorf("rate limiter: %w", err)}
	}

	start := time.Now()
	resp, err := c.client.Do(req) //nolint:gosec // URL built from configured base + escaped path params
	if err != nil {
		return nil, &RequestError{Method: req.Method, URL: redactURL(req.URL), Err: err}
	}
	c.observeRateLimit(resp.Header)

	c.logger.Debug("discogs request",
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.String("query", scrubQuery(req.URL.RawQuery)),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close() //nolint:errcheck
		return nil, statusError(resp)
	}
	return resp, nil
}

func (c *Conn) observeRateLimit(h http.Header) {
	limit, okLimit := headerInt(h, headerRateLimit)
	used, _ := headerInt(h, headerRateLimitUsed)
	remaining, okRemaining := headerInt(h, headerRateLimitRemaining)
	if !okLimit && !okRemaining {
		return
	}
	c.mu.Lock()
	c.rateLimit = RateLimit{Limit: limit, Used: used, Remaining: remaining, ObservedAt: time.Now()}
	c.mu.Unlock()
}

func headerInt(h http.Header, key string) (int, bool) {
	v := h.Get(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Parser turns a successful response into a value. The caller closes the body.
type Parser[T any] func(*http.Response) (T, error)

// JSONParser decodes the body as JSON into a new T.
func JSONParser[T any]() Parser[*T] {
	return func(resp *http.Response) (*T, error) {
		out := new(T)
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, &DecodeError{URL: redactURL(resp.Request.URL), Err: err}
		}
		return out, nil
	}
}

// Execute sends req through c and parses the response with parse.
func Execute[T any](c *Conn, req *http.Request, parse Parser[T]) (T, error) {
	resp, err := c.Do(req)
	if err != nil {
		var zero T
		return zero, err
	}
	defer resp.Body.Close() //nolint:errcheck
	return parse(resp)
}

// getJSON issues a GET and decodes the JSON body into a new T.
func getJSON[T any](ctx context.Context, c *Conn, path string, query url.Values) (*T, error) {
	return sendJSON[T](ctx, c, http.MethodGet, path, query, nil)
}

// sendJSON issues method with an optional JSON body and decodes the reply.
func sendJSON[T any](ctx context.Context, c *Conn, method, path string, query url.Values, body any) (*T, error) {
	req, err := c.NewRequest(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}
	return Execute(c, req, JSONParser[T]())
}

// sendNoContent issues method and discards the body of a 2xx reply.
func sendNoContent(ctx context.Context, c *Conn, method, path string, query url.Values, body any) error {
	req, err := c.NewRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	_, err = Execute(c, req, discardBody)
	return err
}

func discardBody(resp *http.Response) (struct{}, error) {
	_, _ = io.Copy(io.Discard, resp.Body)
	return struct{}{}, nil
}

// endpoint joins fixed segments and path parameters into an escaped path.
// Dot segments are percent-encoded so a parameter stays inside its segment.
func endpoint(segments ...any) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteByte('/')
		switch seg := fmt.Sprint(s); seg {
		case ".":
			b.WriteString("%2E")
		case "..":
			b.WriteString("%2E%2E")
		default:
			b.WriteString(url.PathEscape(seg))
		}
	}
	return b.String()
}

// scrubPatterns are substrings that mark sensitive query parameters.
var scrubPatterns = []string{"token", "secret", "key", "signature", "verifier"}

// scrubQuery redacts sensitive query parameter values for logs and errors.
func scrubQuery(raw string) string {
	if raw == "" {
		return ""
	}
	parts := strings.Split(raw, "&")
	for i, part := range parts {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		lower := strings.ToLower(kv[0])
		for _, pattern := range scrubPatterns {
			if strings.Contains(lower, pattern) {
				parts[i] = kv[0] + "=REDACTED"
				break
			}
		}
	}
	return strings.Join(parts, "&")
}

func redactURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	c := *u
	c.RawQuery = scrubQuery(c.RawQuery)
	return c.String()
}
