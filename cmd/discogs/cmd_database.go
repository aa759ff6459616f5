package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sydlexius/discogs"
	"github.com/sydlexius/discogs/internal/filesystem"
	"github.com/sydlexius/discogs/internal/imageprobe"
	"github.com/sydlexius/discogs/model"
)

// maxImageBytes bounds a single image fetch.
const maxImageBytes = 20 << 20

func parseID(what, s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", what, s)
	}
	return id, nil
}

func cmdSearch(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	var req discogs.SearchRequest
	searchType := fs.String("type", "", "release, master, artist or label")
	fs.StringVar(&req.Artist, "artist", "", "artist name")
	fs.StringVar(&req.Title, "title", "", "combined \"artist - title\" field")
	fs.StringVar(&req.ReleaseTitle, "release-title", "", "release title")
	fs.StringVar(&req.Label, "label", "", "label name")
	fs.StringVar(&req.Genre, "genre", "", "genre")
	fs.StringVar(&req.Style, "style", "", "style")
	fs.StringVar(&req.Country, "country", "", "release country")
	fs.StringVar(&req.Year, "year", "", "release year")
	fs.StringVar(&req.Format, "format", "", "format, such as Vinyl")
	fs.StringVar(&req.CatNo, "catno", "", "catalog number")
	fs.StringVar(&req.Barcode, "barcode", "", "barcode")
	fs.StringVar(&req.Track, "track", "", "track title")
	fs.IntVar(&req.Page, "page", 0, "page number")
	fs.IntVar(&req.PerPage, "per-page", 0, "results per page (1-100)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	req.Query = strings.Join(fs.Args(), " ")
	req.Type = model.SearchType(*searchType)

	c, err := a.client(ctx)
	if err != nil {
		return err
	}
	page, err := c.Database.Search(ctx, &req)
	if err != nil {
		if discogs.IsUnauthorized(err) {
			return errors.New("search requires authentication: set a token or run \"discogs login\"")
		}
		return err
	}

	rows := make([][]string, 0, len(page.Items))
	for _, r := range page.Items {
		rows = append(rows, []string{
			strconv.Itoa(r.ID),
			string(r.Type),
			r.Title,
			r.Year,
			r.Country,
			strings.Join(r.Format, ", "),
			r.CatNo,
		})
	}
	printTable(a.stdout, []string{"id", "type", "title", "year", "country", "format", "catno"}, rows)
	printPageFooter(a.stdout, page.Pagination)
	return nil
}

func cmdRelease(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("release", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	curr := fs.String("curr", "", "currency for the lowest price, such as EUR")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: discogs release [-curr CUR] <release-id>")
	}
	id, err := parseID("release id", fs.Arg(0))
	if err != nil {
		return err
	}

	c, err := a.client(ctx)
	if err != nil {
		return err
	}
	r, err := c.Database.GetRelease(ctx, &discogs.GetReleaseRequest{ReleaseID: id, CurrAbbr: model.Currency(*curr)})
	if err != nil {
		if discogs.IsNotFound(err) {
			return fmt.Errorf("release %d not found", id)
		}
		return err
	}

	labels := make([]string, 0, len(r.Labels))
	for _, l := range r.Labels {
		labels = append(labels, strings.TrimSpace(l.Name+" "+l.CatNo))
	}
	lowest := ""
	if r.LowestPrice != nil {
		lowest = strconv.FormatFloat(*r.LowestPrice, 'f', 2, 64)
	}
	printPairs(a.stdout, [][2]string{
		{"id", strconv.Itoa(r.ID)},
		{"artist", artistNames(r.Artists)},
		{"title", r.Title},
		{"label", strings.Join(labels, "; ")},
		{"format", formatNames(r.Formats)},
		{"country", r.Country},
		{"released", r.Released},
		{"genre", strings.Join(r.Genres, ", ")},
		{"style", strings.Join(r.Styles, ", ")},
		{"master", itoa(r.MasterID)},
		{"have / want", fmt.Sprintf("%d / %d", r.Community.Have, r.Community.Want)},
		{"for sale", itoa(r.NumForSale)},
		{"lowest price", lowest},
		{"url", r.URI},
	})

	if len(r.Tracklist) > 0 {
		fmt.Fprintln(a.stdout)
		rows := make([][]string, 0, len(r.Tracklist))
		for _, t := range r.Tracklist {
			rows = append(rows, []string{t.Position, t.Title, t.Duration})
		}
		printTable(a.stdout, []string{"pos", "track", "duration"}, rows)
	}
	return nil
}

func cmdImages(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("images", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	probe := fs.Bool("probe", false, "download each image and check its real dimensions")
	saveDir := fs.String("save", "", "write images into this directory")
	thumb := fs.Int("thumb", 0, "scale saved images to fit within this many pixels")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: discogs images [-probe] [-save DIR [-thumb PX]] <release-id>")
	}
	id, err := parseID("release id", fs.Arg(0))
	if err != nil {
		return err
	}
	if *thumb < 0 {
		return errors.New("-thumb must not be negative")
	}

	c, err := a.client(ctx)
	if err != nil {
		return err
	}
	r, err := c.Database.GetRelease(ctx, &discogs.GetReleaseRequest{ReleaseID: id})
	if err != nil {
		return err
	}
	if len(r.Images) == 0 {
		fmt.Fprintln(a.stdout, "no images")
		return nil
	}

	fetch := *probe || *saveDir != ""
	rows := make([][]string, 0, len(r.Images))
	for i, img := range r.Images {
		row := []string{strconv.Itoa(i + 1), img.Type, fmt.Sprintf("%dx%d", img.Width, img.Height), "", "", img.URI}
		if fetch {
			if img.URI == "" {
				row[3] = "no uri (authentication required)"
				rows = append(rows, row)
				continue
			}
			data, contentType, err := c.Conn().Fetch(ctx, img.URI, "image/*", maxImageBytes)
			if errors.Is(err, discogs.ErrTooLarge) {
				row[3] = fmt.Sprintf("larger than %d MiB, skipped", maxImageBytes>>20)
				rows = append(rows, row)
				continue
			}
			if err != nil {
				return fmt.Errorf("fetching image %d: %w", i+1, err)
			}
			info, err := imageprobe.Probe(data, contentType)
			if err != nil {
				row[3] = err.Error()
			} else {
				row[3] = fmt.Sprintf("%s %dx%d", info.Format, info.Width, info.Height)
				if !info.Matches(img) {
					row[3] += " (size mismatch)"
				}
				if info.Mislabeled() {
					row[3] += " (served as " + info.Declared + ")"
				}
			}
			if *saveDir != "" && err == nil {
				path, err := saveImage(*saveDir, r.ID, i+1, img.Type, data, info, *thumb)
				if err != nil {
					return err
				}
				row[4] = path
			}
		}
		rows = append(rows, row)
	}
	printTable(a.stdout, []string{"#", "type", "listed", "probed", "saved", "uri"}, rows)
	return nil
}

func saveImage(dir string, releaseID, n int, kind string, data []byte, info imageprobe.Info, thumb int) (string, error) {
	format := info.Format
	if thumb > 0 {
		scaled, scaledFormat, err := imageprobe.Thumbnail(data, thumb)
		if err != nil {
			return "", fmt.Errorf("scaling image %d: %w", n, err)
		}
		data, format = scaled, scaledFormat
	}
	if kind == "" {
		kind = "image"
	}
	name := fmt.Sprintf("R-%d-%d-%s%s", releaseID, n, kind, format.Ext())
	path := filepath.Join(dir, name)
	if err := filesystem.WriteFileAtomic(path, data, 0o644); err != nil {
		return "", fmt.Errorf("saving image %d: %w", n, err)
	}
	return path, nil
}
