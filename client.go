package discogs

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	version "github.com/hashicorp/go-version"
	"golang.org/x/time/rate"

	"github.com/sydlexius/discogs/model"
)

// DefaultBaseURL is the root of the public Discogs API.
const DefaultBaseURL = "https://api.discogs.com"

// DefaultImageHost serves release and artist images. Credentials are sent
// there as well as to the API host.
const DefaultImageHost = "i.discogs.com"

// DefaultUserAgent identifies this library. Discogs asks every application
// to send a unique User-Agent, so callers should override it.
const DefaultUserAgent = "sydlexius-discogs/1.0 +https://github.com/sydlexius/discogs"

// Authenticated clients may make 60 requests per minute.
const (
	DefaultRateLimit = rate.Limit(1)
	DefaultRateBurst = 5
)

// SupportedAPIVersions is the API version range this package speaks.
const SupportedAPIVersions = ">= 2, < 3"

// Client bundles the API areas over one shared [Conn].
//
// Client is safe for concurrent use. All methods that perform I/O accept a
// context for cancellation and timeout control.
type Client struct {
	conn *Conn

	Database        *DatabaseService
	Marketplace     *MarketplaceService
	Collection      *CollectionService
	Identity        *IdentityService
	Lists           *ListsService
	Wantlist        *WantlistService
	InventoryExport *InventoryExportService
	InventoryUpload *InventoryUploadService
}

// clientConfig holds configuration during client construction.
type clientConfig struct {
	baseURL   string
	http      *http.Client
	userAgent string
	auth      Authenticator
	logger    *slog.Logger
	limit     rate.Limit
	burst     int
}

// Option configures a [Client].
type Option func(*clientConfig)

// WithBaseURL sets the API root.
//
// Default: https://api.discogs.com
func WithBaseURL(baseURL string) Option {
	return func(c *clientConfig) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client requests are sent through. Its
// transport is wrapped by the authenticator; the client itself is not
// modified.
//
// Default: [http.DefaultClient]
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.http = client
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *clientConfig) {
		c.userAgent = ua
	}
}

// WithAuth sets how requests are authenticated.
//
// Default: [Anonymous]
func WithAuth(auth Authenticator) Option {
	return func(c *clientConfig) {
		c.auth = auth
	}
}

// WithLogger sets the logger request summaries are written to at debug
// level.
//
// Default: discard
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithRateLimit sets the client-side token bucket. Burst must be at least
// one unless limit is [rate.Inf], which disables throttling.
//
// Default: one request per second, burst of five
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(c *clientConfig) {
		c.limit = limit
		c.burst = burst
	}
}

// New creates a client with the given options.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		baseURL:   DefaultBaseURL,
		http:      http.DefaultClient,
		userAgent: DefaultUserAgent,
		auth:      Anonymous{},
		limit:     DefaultRateLimit,
		burst:     DefaultRateBurst,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	base, err := url.Parse(strings.TrimRight(cfg.baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, &ValidationError{Field: "base url", Reason: "must be an http or https URL"}
	}
	if strings.TrimSpace(cfg.userAgent) == "" {
		return nil, &ValidationError{Field: "user agent", Reason: "must not be blank"}
	}
	if cfg.burst < 1 && cfg.limit != rate.Inf {
		return nil, &ValidationError{Field: "rate burst", Reason: "must be at least 1"}
	}

	httpClient := cfg.http
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	baseTransport := httpClient.Transport
	if baseTransport == nil {
		baseTransport = http.DefaultTransport
	}
	auth := cfg.auth
	if auth == nil {
		auth = Anonymous{}
	}
	transport, err := auth.Transport(baseTransport)
	if err != nil {
		return nil, fmt.Errorf("configuring authentication: %w", err)
	}
	signed := *httpClient
	signed.Transport = &hostScopedTransport{
		auth:  transport,
		plain: baseTransport,
		hosts: map[string]bool{strings.ToLower(base.Host): true, DefaultImageHost: true},
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	conn := &Conn{
		baseURL:   base,
		client:    &signed,
		userAgent: cfg.userAgent,
		limiter:   rate.NewLimiter(cfg.limit, cfg.burst),
		logger:    logger.With(slog.String("component", "discogs")),
	}
	return &Client{
		conn:            conn,
		Database:        &DatabaseService{conn: conn},
		Marketplace:     &MarketplaceService{conn: conn},
		Collection:      &CollectionService{conn: conn},
		Identity:        &IdentityService{conn: conn},
		Lists:           &ListsService{conn: conn},
		Wantlist:        &WantlistService{conn: conn},
		InventoryExport: &InventoryExportService{conn: conn},
		InventoryUpload: &InventoryUploadService{conn: conn},
	}, nil
}

// Conn returns the connection shared by every service, for endpoints this
// package does not wrap.
func (c *Client) Conn() *Conn {
	return c.conn
}

// APIVersion reads the API root and returns its version banner.
func (c *Client) APIVersion(ctx context.Context) (*model.APIRoot, error) {
	return getJSON[model.APIRoot](ctx, c.conn, "/", nil)
}

// CheckAPIVersion fails when the server reports a version outside
// [SupportedAPIVersions].
func (c *Client) CheckAPIVersion(ctx context.Context) (*version.Version, error) {
	root, err := c.APIVersion(ctx)
	if err != nil {
		return nil, err
	}
	v, err := version.NewVersion(root.APIVersion)
	if err != nil {
		return nil, &DecodeError{URL: c.conn.BaseURL(), Err: fmt.Errorf("parsing api version %q: %w", root.APIVersion, err)}
	}
	constraints, err := version.NewConstraint(SupportedAPIVersions)
	if err != nil {
		return nil, fmt.Errorf("parsing supported versions: %w", err)
	}
	if !constraints.Check(v) {
		return v, fmt.Errorf("discogs: api version %s is outside supported range %q", v, SupportedAPIVersions)
	}
	return v, nil
}
