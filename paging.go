package discogs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"net/http"
	"net/url"

	"github.com/sydlexius/discogs/model"
)

// Page is one page of a paginated list. Items are decoded from the JSON
// key the endpoint uses ("releases", "wants", "listings" and so on).
type Page[T any] struct {
	Pagination model.Pagination
	Items      []T

	conn *Conn
	key  string
}

// HasNext reports whether a following page exists.
func (p *Page[T]) HasNext() bool { return p.Pagination.URL(model.RelNext) != "" }

// HasPrev reports whether a preceding page exists.
func (p *Page[T]) HasPrev() bool { return p.Pagination.URL(model.RelPrev) != "" }

// Next fetches the following page.
func (p *Page[T]) Next(ctx context.Context) (*Page[T], error) {
	return FetchPage[T](ctx, p.conn, p.Pagination.URLs, model.RelNext, p.key)
}

// Prev fetches the preceding page.
func (p *Page[T]) Prev(ctx context.Context) (*Page[T], error) {
	return FetchPage[T](ctx, p.conn, p.Pagination.URLs, model.RelPrev, p.key)
}

// First fetches the first page.
func (p *Page[T]) First(ctx context.Context) (*Page[T], error) {
	return FetchPage[T](ctx, p.conn, p.Pagination.URLs, model.RelFirst, p.key)
}

// Last fetches the last page.
func (p *Page[T]) Last(ctx context.Context) (*Page[T], error) {
	return FetchPage[T](ctx, p.conn, p.Pagination.URLs, model.RelLast, p.key)
}

// All yields every item from this page onward, fetching pages as needed.
// Iteration stops after the first error, which is yielded with a zero item.
func (p *Page[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		page := p
		for {
			for _, item := range page.Items {
				if !yield(item, nil) {
					return
				}
			}
			if !page.HasNext() {
				return
			}
			next, err := page.Next(ctx)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			page = next
		}
	}
}

// FetchPage issues a GET against the link named rel in urls and decodes
// the items found under key. It returns [ErrNoPage] when the link is
// absent.
func FetchPage[T any](ctx context.Context, conn *Conn, urls map[string]string, rel, key string) (*Page[T], error) {
	link := urls[rel]
	if link == "" {
		return nil, fmt.Errorf("%w: %q", ErrNoPage, rel)
	}
	if conn == nil {
		return nil, fmt.Errorf("%w: page has no connection", ErrNoPage)
	}
	return getPage[T](ctx, conn, link, nil, key)
}

func getPage[T any](ctx context.Context, c *Conn, path string, query url.Values, key string) (*Page[T], error) {
	req, err := c.NewRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	return Execute(c, req, pageParser[T](c, key))
}

// pageParser decodes the pagination envelope and the items under key. An
// object under key, as the submissions endpoint returns, becomes a single
// item.
func pageParser[T any](c *Conn, key string) Parser[*Page[T]] {
	return func(resp *http.Response) (*Page[T], error) {
		decodeErr := func(err error) error {
			return &DecodeError{URL: redactURL(resp.Request.URL), Err: err}
		}

		var envelope map[string]json.RawMessage
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
			return nil, decodeErr(err)
		}

		page := &Page[T]{conn: c, key: key}
		if raw, ok := envelope["pagination"]; ok {
			if err := json.Unmarshal(raw, &page.Pagination); err != nil {
				return nil, decodeErr(fmt.Errorf("pagination: %w", err))
			}
		}

		raw := bytes.TrimSpace(envelope[key])
		switch {
		case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		case raw[0] == '{':
			var item T
			if err := json.Unmarshal(raw, &item); err != nil {
				return nil, decodeErr(fmt.Errorf("%s: %w", key, err))
			}
			page.Items = []T{item}
		default:
			if err := json.Unmarshal(raw, &page.Items); err != nil {
				return nil, decodeErr(fmt.Errorf("%s: %w", key, err))
			}
		}
		return page, nil
	}
}
