// Command discogs is a terminal client for the Discogs API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/sydlexius/discogs/internal/config"
	"github.com/sydlexius/discogs/internal/credstore"
	"github.com/sydlexius/discogs/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// command is one subcommand of the CLI.
type command struct {
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

func commands() map[string]command {
	return map[string]command{
		"login":     {"authorize this machine with OAuth and store the token", cmdLogin},
		"logout":    {"remove stored credentials for the profile", cmdLogout},
		"whoami":    {"show the authenticated user", cmdWhoami},
		"search":    {"search the database", cmdSearch},
		"release":   {"show a release", cmdRelease},
		"images":    {"list, verify or save release images", cmdImages},
		"folders":   {"list and manage collection folders", cmdFolders},
		"wantlist":  {"list and edit the wantlist", cmdWantlist},
		"inventory": {"export, download and upload inventory CSV files", cmdInventory},
		"orders":    {"list and manage marketplace orders", cmdOrders},
		"store":     {"inspect, back up and tidy the local credential store", cmdStore},
		"version":   {"print the CLI version and check the API version", cmdVersion},
	}
}

func usage(w io.Writer, global *flag.FlagSet) {
	fmt.Fprintln(w, "usage: discogs [flags] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-10s %s\n", name, cmds[name].summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "flags:")
	global.SetOutput(w)
	global.PrintDefaults()
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	defaultConfig := os.Getenv("DISCOGS_CONFIG")
	if defaultConfig == "" {
		defaultConfig = config.DefaultPath()
	}

	global := flag.NewFlagSet("discogs", flag.ContinueOnError)
	global.SetOutput(stderr)
	configPath := global.String("config", defaultConfig, "config file")
	profile := global.String("profile", credstore.DefaultProfile, "stored credential profile")
	verbose := global.Bool("v", false, "log debug output to stderr")
	global.Usage = func() { usage(stderr, global) }
	if err := global.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	rest := global.Args()
	if len(rest) == 0 {
		usage(stderr, global)
		return errors.New("no command given")
	}
	cmd, ok := commands()[rest[0]]
	if !ok {
		return fmt.Errorf("unknown command %q", rest[0])
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logManager, logger := logging.NewManager(cfg.Logging, stderr, logging.Options{Verbose: *verbose})
	defer logManager.Close() //nolint:errcheck

	a := &app{
		cfg:     cfg,
		logger:  logger,
		profile: *profile,
		stdin:   stdin,
		stdout:  stdout,
		stderr:  stderr,
	}
	return cmd.run(ctx, a, rest[1:])
}
