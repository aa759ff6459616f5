package oauthflow

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dghubble/oauth1"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeProvider plays the Discogs token endpoints.
type fakeProvider struct {
	mu            sync.Mutex
	callback      string
	verifier      string
	requestStatus int
}

func (p *fakeProvider) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/request_token", func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		p.callback = authParam(r, "oauth_callback")
		status := p.requestStatus
		p.mu.Unlock()
		if status != 0 {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/x-www-form-urlencoded")
		_, _ = io.WriteString(w, "oauth_token=req-tok&oauth_token_secret=req-sec&oauth_callback_confirmed=true")
	})
	mux.HandleFunc("/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		p.verifier = authParam(r, "oauth_verifier")
		p.mu.Unlock()
		w.Header().Set("Content-Type", "application/x-www-form-urlencoded")
		_, _ = io.WriteString(w, "oauth_token=acc-tok&oauth_token_secret=acc-sec")
	})
	return mux
}

// authParam extracts one parameter from an OAuth Authorization header.
func authParam(r *http.Request, name string) string {
	header := strings.TrimPrefix(r.Header.Get("Authorization"), "OAuth ")
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || k != name {
			continue
		}
		unquoted := strings.Trim(v, `"`)
		decoded, err := url.QueryUnescape(unquoted)
		if err != nil {
			return unquoted
		}
		return decoded
	}
	return ""
}

func newTestFlow(t *testing.T, port int) (*Flow, *fakeProvider) {
	t.Helper()
	p := &fakeProvider{}
	srv := httptest.NewServer(p.handler())
	t.Cleanup(srv.Close)

	f, err := New("ckey", "csecret", port, testLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f.SetEndpoint(oauth1.Endpoint{
		RequestTokenURL: srv.URL + "/oauth/request_token",
		AuthorizeURL:    srv.URL + "/oauth/authorize",
		AccessTokenURL:  srv.URL + "/oauth/access_token",
	})
	return f, p
}

// scriptedUI answers the flow from test code.
type scriptedUI struct {
	onShow   func(authURL, callback string)
	verifier string
	shown    sync.WaitGroup

	mu       sync.Mutex
	authURL  string
	callback string
}

func (u *scriptedUI) ShowAuthorizationURL(authURL, callback string) {
	u.mu.Lock()
	u.authURL, u.callback = authURL, callback
	u.mu.Unlock()
	if u.onShow != nil {
		u.shown.Add(1)
		go func() {
			defer u.shown.Done()
			u.onShow(authURL, callback)
		}()
	}
}

func (u *scriptedUI) ReadVerifier(ctx context.Context) (string, error) {
	if u.verifier != "" {
		return u.verifier, nil
	}
	<-ctx.Done()
	return "", ctx.Err()
}

func hitCallback(t *testing.T, callback, query string) int {
	t.Helper()
	resp, err := http.Get(callback + "?" + query) //nolint:noctx
	if err != nil {
		t.Errorf("calling callback: %v", err)
		return 0
	}
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestLoginViaCallback(t *testing.T) {
	f, p := newTestFlow(t, 0)
	ui := &scriptedUI{onShow: func(_, callback string) {
		hitCallback(t, callback, "oauth_token=req-tok&oauth_verifier=from-browser")
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	tok, err := f.Login(ctx, ui)
	ui.shown.Wait()
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if tok.Token != "acc-tok" || tok.Secret != "acc-sec" {
		t.Errorf("token = %+v", tok)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.verifier != "from-browser" {
		t.Errorf("verifier sent = %q", p.verifier)
	}
	if !strings.HasPrefix(p.callback, "http://127.0.0.1:") || !strings.HasSuffix(p.callback, "/callback") {
		t.Errorf("callback = %q", p.callback)
	}
}

func TestLoginOutOfBand(t *testing.T) {
	f, p := newTestFlow(t, OutOfBand)
	ui := &scriptedUI{verifier: "  pasted-code\n"}

	tok, err := f.Login(context.Background(), ui)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if tok.Token != "acc-tok" {
		t.Errorf("token = %+v", tok)
	}
	if ui.callback != "" {
		t.Errorf("callback shown in out-of-band mode: %q", ui.callback)
	}
	u, err := url.Parse(ui.authURL)
	if err != nil {
		t.Fatal(err)
	}
	if u.Path != "/oauth/authorize" || u.Query().Get("oauth_token") != "req-tok" {
		t.Errorf("auth URL = %s", ui.authURL)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.callback != "oob" {
		t.Errorf("callback = %q, want oob", p.callback)
	}
	if p.verifier != "pasted-code" {
		t.Errorf("verifier = %q", p.verifier)
	}
}

func TestLoginDenied(t *testing.T) {
	f, _ := newTestFlow(t, 0)
	ui := &scriptedUI{onShow: func(_, callback string) {
		if code := hitCallback(t, callback, "denied=req-tok"); code != http.StatusForbidden {
			t.Errorf("denied status = %d", code)
		}
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := f.Login(ctx, ui)
	ui.shown.Wait()
	if !errors.Is(err, ErrDenied) {
		t.Errorf("err = %v, want ErrDenied", err)
	}
}

func TestCallbackRejectsWrongToken(t *testing.T) {
	f, _ := newTestFlow(t, 0)
	ui := &scriptedUI{onShow: func(_, callback string) {
		if code := hitCallback(t, callback, "oauth_token=other&oauth_verifier=v"); code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", code)
		}
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	_, err := f.Login(ctx, ui)
	ui.shown.Wait()
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
}

func TestLoginRequestTokenFailure(t *testing.T) {
	f, p := newTestFlow(t, OutOfBand)
	p.requestStatus = http.StatusUnauthorized

	if _, err := f.Login(context.Background(), &scriptedUI{verifier: "x"}); err == nil {
		t.Error("expected error when request token is refused")
	}
}

func TestNewValidates(t *testing.T) {
	if _, err := New("", "s", 0, testLogger()); err == nil {
		t.Error("expected error for blank key")
	}
	if _, err := New("k", " ", 0, testLogger()); err == nil {
		t.Error("expected error for blank secret")
	}
	if _, err := New("k", "s", 70000, testLogger()); err == nil {
		t.Error("expected error for bad port")
	}
}
