package main

import (
	"context"
	"flag"
	"fmt"
	"runtime"

	"github.com/sydlexius/discogs"
)

func cmdVersion(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("version", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	check := fs.Bool("check", false, "query the API and verify its version is supported")
	if err := fs.Parse(args); err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "discogs %s (%s, %s/%s)\n", version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	if !*check {
		return nil
	}

	c, err := a.client(ctx)
	if err != nil {
		return err
	}
	v, err := c.CheckAPIVersion(ctx)
	if v != nil {
		fmt.Fprintf(a.stdout, "api %s at %s (supported: %s)\n", v, c.Conn().BaseURL(), discogs.SupportedAPIVersions)
	}
	return err
}
