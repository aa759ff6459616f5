package discogs

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dghubble/oauth1"
)

// Authenticator attaches credentials to outgoing requests by wrapping the
// connection's round tripper.
type Authenticator interface {
	Transport(base http.RoundTripper) (http.RoundTripper, error)
}

// Anonymous sends requests without credentials. Public endpoints such as
// release lookups and public collections work; most others return 401.
type Anonymous struct{}

// Transport returns base unchanged.
func (Anonymous) Transport(base http.RoundTripper) (http.RoundTripper, error) {
	return base, nil
}

// PersonalToken authenticates with a user token generated on the Discogs
// developer settings page.
type PersonalToken struct {
	Token string
}

// Transport sets "Authorization: Discogs token=...".
func (p PersonalToken) Transport(base http.RoundTripper) (http.RoundTripper, error) {
	if strings.TrimSpace(p.Token) == "" {
		return nil, &ValidationError{Field: "token", Reason: "must not be blank"}
	}
	return &headerTransport{base: base, value: "Discogs token=" + p.Token}, nil
}

// KeySecret authenticates as an application without a user, which raises
// rate limits and unlocks image URLs.
type KeySecret struct {
	Key    string
	Secret string
}

// Transport sets "Authorization: Discogs key=..., secret=...".
func (k KeySecret) Transport(base http.RoundTripper) (http.RoundTripper, error) {
	if strings.TrimSpace(k.Key) == "" {
		return nil, &ValidationError{Field: "consumer key", Reason: "must not be blank"}
	}
	if strings.TrimSpace(k.Secret) == "" {
		return nil, &ValidationError{Field: "consumer secret", Reason: "must not be blank"}
	}
	value := fmt.Sprintf("Discogs key=%s, secret=%s", k.Key, k.Secret)
	return &headerTransport{base: base, value: value}, nil
}

// OAuth signs every request with OAuth 1.0a consumer and access
// credentials. Obtain the access pair through the three-legged flow.
type OAuth struct {
	ConsumerKey    string
	ConsumerSecret string
	Token          string
	TokenSecret    string
}

// Transport returns an oauth1 signing transport layered over base.
func (o OAuth) Transport(base http.RoundTripper) (http.RoundTripper, error) {
	required := []struct{ field, value string }{
		{"consumer key", o.ConsumerKey},
		{"consumer secret", o.ConsumerSecret},
		{"access token", o.Token},
		{"token secret", o.TokenSecret},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, &ValidationError{Field: r.field, Reason: "must not be blank"}
		}
	}
	cfg := oauth1.NewConfig(o.ConsumerKey, o.ConsumerSecret)
	ctx := context.WithValue(context.Background(), oauth1.HTTPClient, &http.Client{Transport: base})
	return cfg.Client(ctx, oauth1.NewToken(o.Token, o.TokenSecret)).Transport, nil
}

// headerTransport sets a fixed Authorization header on a copy of each request.
type headerTransport struct {
	base  http.RoundTripper
	value string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("Authorization", t.value)
	return t.base.RoundTrip(r)
}

// hostScopedTransport authenticates requests to trusted hosts only. Anything
// else, such as a redirect to a CDN, goes out through plain unsigned.
type hostScopedTransport struct {
	auth  http.RoundTripper
	plain http.RoundTripper
	hosts map[string]bool
}

func (t *hostScopedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.hosts[strings.ToLower(req.URL.Host)] {
		return t.auth.RoundTrip(req)
	}
	return t.plain.RoundTrip(req)
}
