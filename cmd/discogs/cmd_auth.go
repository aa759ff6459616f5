package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"

	"github.com/sydlexius/discogs"
	"github.com/sydlexius/discogs/internal/credstore"
	"github.com/sydlexius/discogs/internal/oauthflow"
)

// terminalUI drives the OAuth flow from the terminal.
type terminalUI struct {
	a *app
}

func (u terminalUI) ShowAuthorizationURL(authURL, callback string) {
	fmt.Fprintln(u.a.stderr, "Open this page in a browser and approve access:")
	fmt.Fprintln(u.a.stderr)
	fmt.Fprintln(u.a.stderr, "  "+authURL)
	fmt.Fprintln(u.a.stderr)
	if callback != "" {
		fmt.Fprintf(u.a.stderr, "Waiting for the redirect to %s.\n", callback)
		fmt.Fprintln(u.a.stderr, "If the browser cannot reach it, paste the verifier code here instead.")
	}
	fmt.Fprint(u.a.stderr, "Verifier: ")
}

func (u terminalUI) ReadVerifier(ctx context.Context) (string, error) {
	return u.a.readLine(ctx)
}

func cmdLogin(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	oob := fs.Bool("oob", false, "skip the local callback and paste the verifier")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ac := a.cfg.Auth
	if ac.ConsumerKey == "" || ac.ConsumerSecret == "" {
		return errors.New("login needs auth.consumer_key and auth.consumer_secret (or DISCOGS_CONSUMER_KEY / DISCOGS_CONSUMER_SECRET)")
	}

	port := ac.CallbackPort
	if *oob {
		port = oauthflow.OutOfBand
	}
	flow, err := oauthflow.New(ac.ConsumerKey, ac.ConsumerSecret, port, a.logger)
	if err != nil {
		return err
	}
	tok, err := flow.Login(ctx, terminalUI{a: a})
	if err != nil {
		return fmt.Errorf("authorizing: %w", err)
	}
	fmt.Fprintln(a.stderr)

	c, err := a.newClient(discogs.OAuth{
		ConsumerKey:    ac.ConsumerKey,
		ConsumerSecret: ac.ConsumerSecret,
		Token:          tok.Token,
		TokenSecret:    tok.Secret,
	})
	if err != nil {
		return err
	}
	id, err := c.Identity.Identity(ctx)
	if err != nil {
		return fmt.Errorf("verifying new token: %w", err)
	}

	store, db, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck

	saved, err := store.Save(ctx, credstore.Credentials{
		Profile:     a.profile,
		Username:    id.Username,
		ConsumerKey: ac.ConsumerKey,
		Token:       tok.Token,
		TokenSecret: tok.Secret,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Logged in as %s (profile %s).\n", saved.Username, saved.Profile)
	return nil
}

func cmdLogout(ctx context.Context, a *app, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("logout takes no arguments")
	}
	store, db, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck

	if err := store.Delete(ctx, a.profile); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Removed credentials for profile %s.\n", a.profile)
	return nil
}

func cmdWhoami(ctx context.Context, a *app, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("whoami takes no arguments")
	}
	c, err := a.client(ctx)
	if err != nil {
		return err
	}
	id, err := c.Identity.Identity(ctx)
	if err != nil {
		if discogs.IsUnauthorized(err) {
			return errors.New("not logged in")
		}
		return err
	}
	profile, err := c.Identity.GetProfile(ctx, id.Username)
	if err != nil {
		return err
	}

	rl := c.Conn().RateLimit()
	printPairs(a.stdout, [][2]string{
		{"username", id.Username},
		{"id", strconv.Itoa(id.ID)},
		{"application", id.ConsumerName},
		{"name", profile.Name},
		{"location", profile.Location},
		{"collection", strconv.Itoa(profile.NumCollection)},
		{"wantlist", strconv.Itoa(profile.NumWantlist)},
		{"for sale", strconv.Itoa(profile.NumForSale)},
		{"rate limit", fmt.Sprintf("%d of %d remaining", rl.Remaining, rl.Limit)},
	})
	return nil
}
