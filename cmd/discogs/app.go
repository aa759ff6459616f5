package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"golang.org/x/term"
	"golang.org/x/time/rate"

	"github.com/sydlexius/discogs"
	"github.com/sydlexius/discogs/internal/config"
	"github.com/sydlexius/discogs/internal/credstore"
	"github.com/sydlexius/discogs/internal/database"
)

// app carries what every command needs.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	profile string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	lines *bufio.Reader
}

// newClient builds an SDK client from the config with the given credentials.
func (a *app) newClient(auth discogs.Authenticator) (*discogs.Client, error) {
	return discogs.New(
		discogs.WithBaseURL(a.cfg.API.BaseURL),
		discogs.WithUserAgent(a.cfg.API.UserAgent),
		discogs.WithHTTPClient(&http.Client{Timeout: a.cfg.API.Timeout}),
		discogs.WithRateLimit(rate.Limit(a.cfg.API.RateLimit), a.cfg.API.RateBurst),
		discogs.WithLogger(a.logger),
		discogs.WithAuth(auth),
	)
}

// client resolves credentials in order: personal token, stored OAuth grant
// for the profile, application key and secret, anonymous.
func (a *app) client(ctx context.Context) (*discogs.Client, error) {
	auth, err := a.authenticator(ctx)
	if err != nil {
		return nil, err
	}
	return a.newClient(auth)
}

func (a *app) authenticator(ctx context.Context) (discogs.Authenticator, error) {
	ac := a.cfg.Auth
	if ac.Token != "" {
		return discogs.PersonalToken{Token: ac.Token}, nil
	}

	if ac.ConsumerKey != "" && ac.ConsumerSecret != "" {
		creds, err := a.storedCredentials(ctx)
		switch {
		case err == nil:
			return discogs.OAuth{
				ConsumerKey:    ac.ConsumerKey,
				ConsumerSecret: ac.ConsumerSecret,
				Token:          creds.Token,
				TokenSecret:    creds.TokenSecret,
			}, nil
		case errors.Is(err, credstore.ErrNotFound):
			a.logger.Debug("no stored credentials, using application key", "profile", a.profile)
			return discogs.KeySecret{Key: ac.ConsumerKey, Secret: ac.ConsumerSecret}, nil
		default:
			return nil, err
		}
	}

	a.logger.Debug("no credentials configured, sending anonymous requests")
	return discogs.Anonymous{}, nil
}

// storedCredentials loads the profile's OAuth grant. A store that was never
// created reports credstore.ErrNotFound without prompting.
func (a *app) storedCredentials(ctx context.Context) (credstore.Credentials, error) {
	if _, err := os.Stat(a.cfg.Store.Path); errors.Is(err, os.ErrNotExist) {
		return credstore.Credentials{}, credstore.ErrNotFound
	}
	store, db, err := a.openStore(ctx)
	if err != nil {
		return credstore.Credentials{}, err
	}
	defer db.Close() //nolint:errcheck
	return store.Load(ctx, a.profile)
}

// openStore opens and unlocks the credential store. The caller closes db.
func (a *app) openStore(ctx context.Context) (*credstore.Store, *sql.DB, error) {
	db, err := database.OpenAndMigrate(ctx, a.cfg.Store.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening credential store: %w", err)
	}

	passphrase := a.cfg.Store.Passphrase
	if passphrase == "" {
		passphrase, err = a.readSecret("Credential store passphrase: ")
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
	}

	store, err := credstore.Unlock(ctx, db, passphrase)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("unlocking credential store: %w", err)
	}
	return store, db, nil
}

// readSecret prompts on stderr and reads a line without echo. It refuses to
// run when stdin is not a terminal.
func (a *app) readSecret(prompt string) (string, error) {
	f, ok := a.stdin.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return "", errors.New("passphrase required: set store.passphrase or DISCOGS_STORE_PASSPHRASE")
	}
	fmt.Fprint(a.stderr, prompt)
	b, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(a.stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(b), nil
}

// readLine reads one trimmed line from stdin, returning early when ctx is
// done.
func (a *app) readLine(ctx context.Context) (string, error) {
	if a.lines == nil {
		a.lines = bufio.NewReader(a.stdin)
	}
	type result struct {
		line string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		line, err := a.lines.ReadString('\n')
		if errors.Is(err, io.EOF) && line != "" {
			err = nil
		}
		ch <- result{strings.TrimSpace(line), err}
	}()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		return r.line, r.err
	}
}

// username returns explicit, or the authenticated user's name.
func username(ctx context.Context, c *discogs.Client, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	id, err := c.Identity.Identity(ctx)
	if err != nil {
		if discogs.IsUnauthorized(err) {
			return "", errors.New("not logged in: pass -user or run \"discogs login\"")
		}
		return "", err
	}
	return id.Username, nil
}
