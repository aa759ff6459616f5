// Package oauthflow runs the three-legged OAuth 1.0a authorization against
// Discogs and returns an access token pair.
//
// The user approves access in a browser. Discogs then redirects to a
// short-lived listener on the loopback interface, or, when that cannot be
// reached, shows a verifier code the user pastes back.
package oauthflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
)

// Endpoint is the Discogs OAuth 1.0a endpoint set.
var Endpoint = oauth1.Endpoint{
	RequestTokenURL: "https://api.discogs.com/oauth/request_token",
	AuthorizeURL:    "https://www.discogs.com/oauth/authorize",
	AccessTokenURL:  "https://api.discogs.com/oauth/access_token",
}

// OutOfBand disables the callback listener; the user must paste the
// verifier.
const OutOfBand = -1

const callbackPath = "/callback"

// ErrDenied is returned when the user declines the authorization.
var ErrDenied = errors.New("authorization denied")

// Token is an OAuth access grant.
type Token struct {
	Token  string
	Secret string
}

// UI is how the flow talks to the user.
type UI interface {
	// ShowAuthorizationURL presents the page the user must open. callback
	// is empty in out-of-band mode.
	ShowAuthorizationURL(authURL, callback string)
	// ReadVerifier blocks until the user pastes a verifier code or ctx is
	// done. ctx is canceled once the callback delivers a verifier.
	ReadVerifier(ctx context.Context) (string, error)
}

// Flow holds the consumer credentials and listener settings.
type Flow struct {
	config *oauth1.Config
	port   int
	logger *slog.Logger
}

// New creates a flow for the consumer pair. port selects the loopback
// callback port; 0 picks a free one and [OutOfBand] disables the listener.
func New(consumerKey, consumerSecret string, port int, logger *slog.Logger) (*Flow, error) {
	if strings.TrimSpace(consumerKey) == "" || strings.TrimSpace(consumerSecret) == "" {
		return nil, errors.New("consumer key and secret are required")
	}
	if port < OutOfBand || port > 65535 {
		return nil, fmt.Errorf("invalid callback port %d", port)
	}
	return &Flow{
		config: &oauth1.Config{
			ConsumerKey:    consumerKey,
			ConsumerSecret: consumerSecret,
			Endpoint:       Endpoint,
		},
		port:   port,
		logger: logger.With("component", "oauthflow"),
	}, nil
}

// SetEndpoint points the flow at another OAuth endpoint set.
func (f *Flow) SetEndpoint(e oauth1.Endpoint) {
	f.config.Endpoint = e
}

// Login runs the authorization. It returns when a verifier arrives by
// callback or by paste, whichever comes first, and exchanges it.
func (f *Flow) Login(ctx context.Context, ui UI) (Token, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	verifiers := make(chan string, 2)
	errs := make(chan error, 2)

	var (
		listener net.Listener
		callback = "oob"
	)
	if f.port != OutOfBand {
		l, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(f.port)))
		if err != nil {
			f.logger.Warn("callback listener unavailable, falling back to pasted verifier", "error", err)
		} else {
			listener = l
			callback = "http://" + l.Addr().String() + callbackPath
		}
	}
	f.config.CallbackURL = callback

	requestToken, requestSecret, err := f.config.RequestToken()
	if err != nil {
		if listener != nil {
			_ = listener.Close()
		}
		return Token{}, fmt.Errorf("obtaining request token: %w", err)
	}
	authURL, err := f.config.AuthorizationURL(requestToken)
	if err != nil {
		if listener != nil {
			_ = listener.Close()
		}
		return Token{}, fmt.Errorf("building authorization URL: %w", err)
	}

	if listener != nil {
		srv := &http.Server{
			Handler:           f.callbackHandler(requestToken, verifiers, errs),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				f.logger.Error("callback listener failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		ui.ShowAuthorizationURL(authURL.String(), callback)
	} else {
		ui.ShowAuthorizationURL(authURL.String(), "")
	}

	go func() {
		v, err := ui.ReadVerifier(ctx)
		if err != nil {
			errs <- err
			return
		}
		verifiers <- v
	}()

	var verifier string
	select {
	case <-ctx.Done():
		return Token{}, ctx.Err()
	case err := <-errs:
		return Token{}, err
	case verifier = <-verifiers:
	}

	verifier = strings.TrimSpace(verifier)
	if verifier == "" {
		return Token{}, errors.New("empty verifier")
	}
	token, secret, err := f.config.AccessToken(requestToken, requestSecret, verifier)
	if err != nil {
		return Token{}, fmt.Errorf("exchanging verifier: %w", err)
	}
	f.logger.Debug("access token obtained")
	return Token{Token: token, Secret: secret}, nil
}

func (f *Flow) callbackHandler(requestToken string, verifiers chan<- string, errs chan<- error) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+callbackPath, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("denied") != "" {
			http.Error(w, "Access was denied. You can close this window.", http.StatusForbidden)
			select {
			case errs <- ErrDenied:
			default:
			}
			return
		}
		token, verifier, err := oauth1.ParseAuthorizationCallback(r)
		if err != nil {
			http.Error(w, "Missing verifier.", http.StatusBadRequest)
			return
		}
		if token != requestToken {
			http.Error(w, "Unexpected request token.", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Authorization complete. You can close this window and return to the terminal.\n"))
		select {
		case verifiers <- verifier:
		default:
		}
	})
	return mux
}
