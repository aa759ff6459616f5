package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"time"

	"github.com/sydlexius/discogs"
	"github.com/sydlexius/discogs/internal/database"
	"github.com/sydlexius/discogs/internal/watcher"
	"github.com/sydlexius/discogs/internal/webhook"
	"github.com/sydlexius/discogs/model"
)

// exportPollInterval is how often "inventory export -wait" checks the job.
var exportPollInterval = 5 * time.Second

func cmdInventory(ctx context.Context, a *app, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: discogs inventory <export|exports|download|upload|uploads|watch> [args]")
	}
	action, args := args[0], args[1:]
	switch action {
	case "export":
		return inventoryExport(ctx, a, args)
	case "exports":
		return inventoryExports(ctx, a, args)
	case "download":
		return inventoryDownload(ctx, a, args)
	case "upload":
		return inventoryUpload(ctx, a, args)
	case "uploads":
		return inventoryUploads(ctx, a, args)
	case "watch":
		return inventoryWatch(ctx, a, args)
	}
	return fmt.Errorf("unknown inventory action %q", action)
}

func inventoryExport(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("inventory export", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	wait := fs.Bool("wait", false, "wait for the export to finish and download it")
	dir := fs.String("dir", a.cfg.Download.Dir, "download directory used with -wait")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := a.client(ctx)
	if err != nil {
		return err
	}
	info, err := c.InventoryExport.Request(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Export %d queued.\n", info.ID)
	if !*wait {
		return nil
	}
	if info.ID == 0 {
		return fmt.Errorf("export location %q carries no id", info.Location)
	}

	ticker := time.NewTicker(exportPollInterval)
	defer ticker.Stop()
	for {
		exp, err := c.InventoryExport.Get(ctx, info.ID)
		if err != nil {
			return err
		}
		a.logger.Debug("export status", "id", info.ID, "status", string(exp.Status))
		if exp.Status == model.JobFailed {
			return fmt.Errorf("export %d failed", info.ID)
		}
		if exp.Status.Done() {
			return downloadExport(ctx, a, c, info.ID, *dir)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func inventoryExports(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("inventory exports", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	page := fs.Int("page", 0, "page number")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c, err := a.client(ctx)
	if err != nil {
		return err
	}
	p, err := c.InventoryExport.List(ctx, &discogs.PageParams{Page: *page})
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(p.Items))
	for _, e := range p.Items {
		rows = append(rows, []string{strconv.Itoa(e.ID), string(e.Status), e.Filename, formatTime(e.CreatedTS), formatTime(e.FinishedTS)})
	}
	printTable(a.stdout, []string{"id", "status", "filename", "created", "finished"}, rows)
	printPageFooter(a.stdout, p.Pagination)
	return nil
}

func inventoryDownload(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("inventory download", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	dir := fs.String("dir", a.cfg.Download.Dir, "download directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: discogs inventory download [-dir DIR] <export-id>")
	}
	id, err := parseID("export id", fs.Arg(0))
	if err != nil {
		return err
	}
	c, err := a.client(ctx)
	if err != nil {
		return err
	}
	return downloadExport(ctx, a, c, id, *dir)
}

func downloadExport(ctx context.Context, a *app, c *discogs.Client, id int, dir string) error {
	progress := newProgress(a.stderr, "downloading")
	info, err := c.InventoryExport.Download(ctx, id, dir, progress.fn())
	progress.finish()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Saved %s (%d bytes).\n", info.Path, info.Bytes)
	return nil
}

func inventoryUpload(ctx context.Context, a *app, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: discogs inventory upload <add|change|delete> <file.csv>")
	}
	kind := discogs.UploadKind(args[0])
	if !kind.Valid() {
		return fmt.Errorf("unknown upload kind %q", args[0])
	}
	c, err := a.client(ctx)
	if err != nil {
		return err
	}
	progress := newProgress(a.stderr, "uploading")
	info, err := c.InventoryUpload.Send(ctx, kind, args[1], progress.fn())
	progress.finish()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Upload %d queued (%s, %d bytes).\n", info.ID, info.Filename, info.Bytes)
	return nil
}

func inventoryUploads(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("inventory uploads", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	page := fs.Int("page", 0, "page number")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c, err := a.client(ctx)
	if err != nil {
		return err
	}
	if fs.NArg() == 1 {
		id, err := parseID("upload id", fs.Arg(0))
		if err != nil {
			return err
		}
		u, err := c.InventoryUpload.Get(ctx, id)
		if err != nil {
			return err
		}
		printPairs(a.stdout, [][2]string{
			{"id", strconv.Itoa(u.ID)},
			{"type", u.Type},
			{"status", string(u.Status)},
			{"filename", u.Filename},
			{"created", formatTime(u.CreatedTS)},
			{"finished", formatTime(u.FinishedTS)},
			{"results", u.Results},
		})
		return nil
	}

	p, err := c.InventoryUpload.List(ctx, &discogs.PageParams{Page: *page})
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(p.Items))
	for _, u := range p.Items {
		rows = append(rows, []string{strconv.Itoa(u.ID), u.Type, string(u.Status), u.Filename, formatTime(u.CreatedTS)})
	}
	printTable(a.stdout, []string{"id", "type", "status", "filename", "created"}, rows)
	printPageFooter(a.stdout, p.Pagination)
	return nil
}

func inventoryWatch(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("inventory watch", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	dir := fs.String("dir", a.cfg.Watch.Dir, "drop folder with add/, change/ and delete/ subfolders")
	noJournal := fs.Bool("no-journal", false, "upload files even if identical content was sent before")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dir == "" {
		return errors.New("no drop folder: pass -dir or set watch.dir")
	}

	c, err := a.client(ctx)
	if err != nil {
		return err
	}

	var journal watcher.Journal
	if !*noJournal {
		db, err := database.OpenAndMigrate(ctx, a.cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("opening upload journal: %w", err)
		}
		defer db.Close() //nolint:errcheck
		journal = watcher.NewSQLJournal(db)
	}

	svc := watcher.NewService(*dir, c.InventoryUpload, journal, a.logger)
	svc.SetDebounce(a.cfg.Watch.Debounce)
	var hooks *webhook.Dispatcher
	if len(a.cfg.Watch.Webhooks) > 0 {
		hooks = webhook.NewDispatcher(a.cfg.Watch.Webhooks, nil, a.logger)
		defer hooks.Close(15 * time.Second)
	}
	svc.OnResult(func(r watcher.Result) {
		e := resultEvent(r)
		fmt.Fprintln(a.stdout, e.Message)
		if hooks != nil {
			hooks.Notify(e)
		}
	})
	fmt.Fprintf(a.stderr, "Watching %s. Press Ctrl-C to stop.\n", *dir)
	return svc.Start(ctx)
}

// resultEvent describes a drop folder outcome for the terminal and webhooks.
func resultEvent(r watcher.Result) webhook.Event {
	data := map[string]any{
		"kind":     string(r.Kind),
		"filename": r.Filename,
		"checksum": r.Checksum,
	}
	e := webhook.Event{Timestamp: time.Now().UTC(), Data: data}
	switch {
	case r.Err != nil:
		e.Type = webhook.UploadFailed
		e.Message = fmt.Sprintf("%s %s: %v", r.Kind, r.Filename, r.Err)
		data["error"] = r.Err.Error()
	case r.Skipped:
		e.Type = webhook.UploadSkipped
		e.Message = fmt.Sprintf("%s %s: already uploaded, skipped", r.Kind, r.Filename)
	default:
		e.Type = webhook.UploadQueued
		e.Message = fmt.Sprintf("%s %s: upload %d queued", r.Kind, r.Filename, r.UploadID)
		data["upload_id"] = r.UploadID
	}
	if r.MovedTo != "" {
		data["moved_to"] = r.MovedTo
	}
	return e
}

func formatTime(t model.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}
