package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/bndr/gotabulate"

	"github.com/sydlexius/discogs"
	"github.com/sydlexius/discogs/model"
)

// printTable renders rows under headers. An empty result prints a note
// instead of an empty grid.
func printTable(w io.Writer, headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "no results")
		return
	}
	t := gotabulate.Create(rows)
	t.SetHeaders(headers)
	t.SetAlign("left")
	t.SetEmptyString("-")
	t.SetWrapStrings(true)
	t.SetMaxCellSize(60)
	fmt.Fprint(w, t.Render("simple"))
}

// printPairs renders a two-column key/value table.
func printPairs(w io.Writer, pairs [][2]string) {
	rows := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		if p[1] == "" {
			continue
		}
		rows = append(rows, []string{p[0], p[1]})
	}
	printTable(w, []string{"field", "value"}, rows)
}

func printPageFooter(w io.Writer, p model.Pagination) {
	if p.Pages > 1 {
		fmt.Fprintf(w, "page %d of %d (%d items)\n", p.Page, p.Pages, p.Items)
	}
}

func itoa(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func artistNames(credits []model.ArtistCredit) string {
	var b strings.Builder
	for i, c := range credits {
		name := c.Name
		if c.ANV != "" {
			name = c.ANV
		}
		b.WriteString(name)
		if i < len(credits)-1 {
			join := strings.TrimSpace(c.Join)
			if join == "" || join == "," {
				b.WriteString(", ")
			} else {
				b.WriteString(" " + join + " ")
			}
		}
	}
	return b.String()
}

func formatNames(formats []model.Format) string {
	names := make([]string, 0, len(formats))
	for _, f := range formats {
		name := f.Name
		if len(f.Descriptions) > 0 {
			name += " (" + strings.Join(f.Descriptions, ", ") + ")"
		}
		names = append(names, name)
	}
	return strings.Join(names, "; ")
}

func formatPrice(p model.Price) string {
	if p.Currency == "" && p.Value == 0 {
		return ""
	}
	return fmt.Sprintf("%.2f %s", p.Value, p.Currency)
}

// progressPrinter redraws one status line on w. It is safe to call from the
// transport goroutine during uploads.
type progressPrinter struct {
	mu    sync.Mutex
	w     io.Writer
	label string
	last  int64
}

func newProgress(w io.Writer, label string) *progressPrinter {
	return &progressPrinter{w: w, label: label}
}

func (p *progressPrinter) update(done, total int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	// Redraw at most every 64 KiB, and always at the end.
	if done-p.last < 64<<10 && done != total {
		return
	}
	p.last = done
	if total > 0 {
		fmt.Fprintf(p.w, "\r%s %d/%d bytes (%d%%)", p.label, done, total, done*100/total)
	} else {
		fmt.Fprintf(p.w, "\r%s %d bytes", p.label, done)
	}
}

func (p *progressPrinter) fn() discogs.ProgressFunc {
	return p.update
}

func (p *progressPrinter) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.last > 0 {
		fmt.Fprintln(p.w)
	}
}
