package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sydlexius/discogs/internal/backup"
	"github.com/sydlexius/discogs/internal/database"
	"github.com/sydlexius/discogs/internal/maintenance"
)

// cmdStore manages the local database that holds credentials and the
// upload journal. None of its actions need the passphrase.
func cmdStore(ctx context.Context, a *app, args []string) error {
	action, args := subcommand(args)
	if action == "list" {
		action = "status"
	}
	fs := flag.NewFlagSet("store "+action, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	keep := fs.Int("keep", a.cfg.Store.BackupKeep, "snapshots to retain when pruning")
	maxAge := fs.Duration("max-age", 0, "also prune snapshots older than this")
	olderThan := fs.Duration("older-than", 90*24*time.Hour, "journal entries older than this are removed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := os.Stat(a.cfg.Store.Path); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("no store at %s", a.cfg.Store.Path)
	}
	db, err := database.OpenAndMigrate(ctx, a.cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer db.Close() //nolint:errcheck

	maint := maintenance.NewService(db, a.cfg.Store.Path, a.logger)
	snapshots := backup.NewService(db, a.cfg.Store.BackupDir, a.logger)

	switch action {
	case "status":
		st, err := maint.Status(ctx)
		if err != nil {
			return err
		}
		printPairs(a.stdout, [][2]string{
			{"path", a.cfg.Store.Path},
			{"schema version", strconv.FormatInt(st.SchemaVersion, 10)},
			{"file size", strconv.FormatInt(st.DBFileSize, 10)},
			{"wal size", strconv.FormatInt(st.WALFileSize, 10)},
			{"pages", fmt.Sprintf("%d x %d", st.PageCount, st.PageSize)},
			{"profiles", strconv.Itoa(st.Profiles)},
			{"journal entries", strconv.Itoa(st.JournalEntries)},
			{"last optimize", st.LastOptimizeAt},
		})
		return nil

	case "check":
		if err := maint.Check(ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, "ok")
		return nil

	case "optimize":
		if err := maint.Optimize(ctx); err != nil {
			return err
		}
		return maint.Vacuum(ctx)

	case "backup":
		info, err := snapshots.Backup(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Saved %s (%d bytes).\n", info.Path, info.Size)
		return nil

	case "backups":
		list, err := snapshots.List()
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(list))
		for _, b := range list {
			rows = append(rows, []string{b.Filename, strconv.FormatInt(b.Size, 10), b.CreatedAt.Format(time.RFC3339)})
		}
		printTable(a.stdout, []string{"filename", "size", "created"}, rows)
		return nil

	case "prune":
		removed, err := snapshots.Prune(*keep, *maxAge)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Removed %d snapshot(s).\n", len(removed))
		return nil

	case "prune-journal":
		n, err := maint.PruneJournal(ctx, time.Now().Add(-*olderThan))
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Removed %d journal entries.\n", n)
		return nil
	}
	return fmt.Errorf("unknown store action %q (want status, check, optimize, backup, backups, prune or prune-journal)", action)
}
