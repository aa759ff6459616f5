package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"

	"github.com/sydlexius/discogs"
	"github.com/sydlexius/discogs/model"
)

// subcommand splits args into an action and its arguments, defaulting to
// "list".
func subcommand(args []string) (string, []string) {
	if len(args) == 0 || (len(args[0]) > 0 && args[0][0] == '-') {
		return "list", args
	}
	return args[0], args[1:]
}

func cmdFolders(ctx context.Context, a *app, args []string) error {
	action, args := subcommand(args)
	fs := flag.NewFlagSet("folders "+action, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	user := fs.String("user", "", "collection owner (default: authenticated user)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := a.client(ctx)
	if err != nil {
		return err
	}
	name, err := username(ctx, c, *user)
	if err != nil {
		return err
	}

	switch action {
	case "list":
		folders, err := c.Collection.ListFolders(ctx, name)
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(folders))
		for _, f := range folders {
			rows = append(rows, []string{strconv.Itoa(f.ID), f.Name, strconv.Itoa(f.Count)})
		}
		printTable(a.stdout, []string{"id", "name", "count"}, rows)
		return nil

	case "show":
		if fs.NArg() != 1 {
			return errors.New("usage: discogs folders show <folder-id>")
		}
		id, err := strconv.Atoi(fs.Arg(0))
		if err != nil || id < 0 {
			return fmt.Errorf("invalid folder id %q", fs.Arg(0))
		}
		page, err := c.Collection.GetItemsByFolder(ctx, &discogs.ItemsByFolderRequest{
			Username:   name,
			FolderID:   id,
			SortParams: discogs.SortParams{Sort: "added", SortOrder: model.SortDesc},
		})
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(page.Items))
		for _, item := range page.Items {
			bi := item.BasicInformation
			rows = append(rows, []string{
				strconv.Itoa(bi.ID),
				strconv.Itoa(item.InstanceID),
				artistNames(bi.Artists),
				bi.Title,
				itoa(bi.Year),
				itoa(item.Rating),
			})
		}
		printTable(a.stdout, []string{"release", "instance", "artist", "title", "year", "rating"}, rows)
		printPageFooter(a.stdout, page.Pagination)
		return nil

	case "create":
		if fs.NArg() != 1 {
			return errors.New("usage: discogs folders create <name>")
		}
		f, err := c.Collection.CreateFolder(ctx, name, fs.Arg(0))
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Created folder %d %q.\n", f.ID, f.Name)
		return nil

	case "rename":
		if fs.NArg() != 2 {
			return errors.New("usage: discogs folders rename <folder-id> <name>")
		}
		id, err := parseID("folder id", fs.Arg(0))
		if err != nil {
			return err
		}
		f, err := c.Collection.RenameFolder(ctx, name, id, fs.Arg(1))
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Renamed folder %d to %q.\n", f.ID, f.Name)
		return nil

	case "delete":
		if fs.NArg() != 1 {
			return errors.New("usage: discogs folders delete <folder-id>")
		}
		id, err := parseID("folder id", fs.Arg(0))
		if err != nil {
			return err
		}
		if err := c.Collection.DeleteFolder(ctx, name, id); err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Deleted folder %d.\n", id)
		return nil
	}
	return fmt.Errorf("unknown folders action %q (want list, show, create, rename or delete)", action)
}

func cmdWantlist(ctx context.Context, a *app, args []string) error {
	action, args := subcommand(args)
	fs := flag.NewFlagSet("wantlist "+action, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	user := fs.String("user", "", "wantlist owner (default: authenticated user)")
	notes := fs.String("notes", "", "notes for the want")
	rating := fs.Int("rating", -1, "rating 0-5")
	page := fs.Int("page", 0, "page number")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := a.client(ctx)
	if err != nil {
		return err
	}
	name, err := username(ctx, c, *user)
	if err != nil {
		return err
	}

	wantReq := func() (*discogs.WantRequest, error) {
		if fs.NArg() != 1 {
			return nil, fmt.Errorf("usage: discogs wantlist %s [-notes TEXT] [-rating N] <release-id>", action)
		}
		id, err := parseID("release id", fs.Arg(0))
		if err != nil {
			return nil, err
		}
		req := &discogs.WantRequest{Username: name, ReleaseID: id, Notes: *notes}
		if *rating >= 0 {
			req.Rating = rating
		}
		return req, nil
	}

	switch action {
	case "list":
		p, err := c.Wantlist.GetWantlist(ctx, &discogs.UserPageRequest{
			Username:   name,
			PageParams: discogs.PageParams{Page: *page},
		})
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(p.Items))
		for _, w := range p.Items {
			bi := w.BasicInformation
			rows = append(rows, []string{
				strconv.Itoa(w.ID),
				artistNames(bi.Artists),
				bi.Title,
				itoa(bi.Year),
				itoa(w.Rating),
				w.Notes,
			})
		}
		printTable(a.stdout, []string{"release", "artist", "title", "year", "rating", "notes"}, rows)
		printPageFooter(a.stdout, p.Pagination)
		return nil

	case "add", "edit":
		req, err := wantReq()
		if err != nil {
			return err
		}
		var w *model.Want
		if action == "add" {
			w, err = c.Wantlist.AddWant(ctx, req)
		} else {
			w, err = c.Wantlist.EditWant(ctx, req)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Wantlist: %s - %s (%d).\n", artistNames(w.BasicInformation.Artists), w.BasicInformation.Title, w.ID)
		return nil

	case "remove":
		req, err := wantReq()
		if err != nil {
			return err
		}
		if err := c.Wantlist.DeleteWant(ctx, name, req.ReleaseID); err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Removed release %d from the wantlist.\n", req.ReleaseID)
		return nil
	}
	return fmt.Errorf("unknown wantlist action %q (want list, add, edit or remove)", action)
}
