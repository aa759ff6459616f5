package discogs

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"golang.org/x/time/rate"
)

func TestNew_Defaults(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := c.Conn().BaseURL(); got != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", got, DefaultBaseURL)
	}
	if c.Database == nil || c.Marketplace == nil || c.Collection == nil || c.Identity == nil ||
		c.Lists == nil || c.Wantlist == nil || c.InventoryExport == nil || c.InventoryUpload == nil {
		t.Error("expected every service to be set")
	}
}

func TestNew_RejectsBadOptions(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"relative base url", []Option{WithBaseURL("api.discogs.com")}},
		{"ftp base url", []Option{WithBaseURL("ftp://api.discogs.com")}},
		{"blank user agent", []Option{WithUserAgent("  ")}},
		{"zero burst", []Option{WithRateLimit(1, 0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.opts...); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("New = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestNew_InfiniteRateIgnoresBurst(t *testing.T) {
	_, rec, srv := newTestClient(t, serveJSON(t, "identity.json"))
	unthrottled, err := New(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()), WithRateLimit(rate.Inf, 0))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for range 3 {
		if _, err := unthrottled.Identity.Identity(context.Background()); err != nil {
			t.Fatalf("Identity: %v", err)
		}
	}
	if rec.hits() != 3 {
		t.Errorf("hits = %d, want 3", rec.hits())
	}
}

func TestNew_TrailingSlashBaseURL(t *testing.T) {
	_, rec, srv := newTestClient(t, serveJSON(t, "identity.json"))
	c, err := New(WithBaseURL(srv.URL+"/"), WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Identity.Identity(context.Background()); err != nil {
		t.Fatalf("Identity: %v", err)
	}
	if got := rec.last(t).Path; got != "/oauth/identity" {
		t.Errorf("path = %q", got)
	}
}

func TestCheckAPIVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		wantErr bool
	}{
		{"v2", "v2", false},
		{"2.1", "2.1", false},
		{"v3", "v3", true},
		{"v1", "v1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"hello": "Welcome to the Discogs API.", "api_version": "` + tt.version + `",
					"documentation_url": "http://www.discogs.com/developers/", "statistics": {"releases": 4549160, "artists": 3821969, "labels": 521748}}`))
			})
			v, err := c.CheckAPIVersion(context.Background())
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %s", tt.version)
				}
				return
			}
			if err != nil {
				t.Fatalf("CheckAPIVersion: %v", err)
			}
			if v.Segments()[0] != 2 {
				t.Errorf("version = %s", v)
			}
			if got := rec.last(t).Path; got != "/" {
				t.Errorf("path = %q", got)
			}
		})
	}
}

func TestAPIVersion_Statistics(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"hello": "Welcome", "api_version": "v2", "statistics": {"releases": 10, "artists": 20, "labels": 30}}`))
	})
	root, err := c.APIVersion(context.Background())
	if err != nil {
		t.Fatalf("APIVersion: %v", err)
	}
	if root.Statistics.Releases != 10 || root.Statistics.Labels != 30 {
		t.Errorf("statistics = %+v", root.Statistics)
	}
}
