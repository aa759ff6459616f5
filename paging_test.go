package discogs

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/sydlexius/discogs/model"
)

func versionsServer(t *testing.T) http.HandlerFunc {
	page1 := serveJSON(t, "master_versions_page1.json")
	page2 := serveJSON(t, "master_versions_page2.json")
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			page2(w, r)
			return
		}
		page1(w, r)
	}
}

func TestPage_NextAndPrev(t *testing.T) {
	c, rec, _ := newTestClient(t, versionsServer(t))
	ctx := context.Background()

	first, err := c.Database.GetMasterVersions(ctx, &MasterVersionsRequest{MasterID: 1000, PageParams: PageParams{PerPage: 2}})
	if err != nil {
		t.Fatalf("GetMasterVersions: %v", err)
	}
	if first.Pagination.Page != 1 || first.Pagination.Items != 3 || len(first.Items) != 2 {
		t.Fatalf("first page = %+v, %d items", first.Pagination, len(first.Items))
	}
	if !first.HasNext() || first.HasPrev() {
		t.Errorf("HasNext=%v HasPrev=%v", first.HasNext(), first.HasPrev())
	}
	if first.Items[1].Country != "France" || first.Items[0].Stats.Community.InCollection != 200 {
		t.Errorf("items = %+v", first.Items)
	}

	second, err := first.Next(ctx)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if got := rec.last(t); got.Path != "/masters/1000/versions" || got.Query != "page=2&per_page=2" {
		t.Errorf("next request = %s?%s", got.Path, got.Query)
	}
	if second.Pagination.Page != 2 || len(second.Items) != 1 || second.Items[0].ID != 5530 {
		t.Errorf("second page = %+v", second.Items)
	}
	if second.HasNext() {
		t.Error("last page should not have next")
	}

	if _, err := second.Next(ctx); !errors.Is(err, ErrNoPage) {
		t.Errorf("Next past end = %v, want ErrNoPage", err)
	}

	back, err := second.Prev(ctx)
	if err != nil {
		t.Fatalf("Prev: %v", err)
	}
	if back.Pagination.Page != 1 {
		t.Errorf("prev page = %d", back.Pagination.Page)
	}

	last, err := first.Last(ctx)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if last.Pagination.Page != 2 {
		t.Errorf("last page = %d", last.Pagination.Page)
	}
	if _, err := first.First(ctx); !errors.Is(err, ErrNoPage) {
		t.Errorf("First on page without link = %v, want ErrNoPage", err)
	}
}

func TestPage_All(t *testing.T) {
	c, rec, _ := newTestClient(t, versionsServer(t))
	ctx := context.Background()

	first, err := c.Database.GetMasterVersions(ctx, &MasterVersionsRequest{MasterID: 1000, PageParams: PageParams{PerPage: 2}})
	if err != nil {
		t.Fatalf("GetMasterVersions: %v", err)
	}

	var ids []int
	for v, err := range first.All(ctx) {
		if err != nil {
			t.Fatalf("All: %v", err)
		}
		ids = append(ids, v.ID)
	}
	want := []int{29964, 1872, 5530}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %d, want %d", i, ids[i], want[i])
		}
	}
	if rec.hits() != 2 {
		t.Errorf("server hits = %d, want 2", rec.hits())
	}
}

func TestPage_AllStopsEarly(t *testing.T) {
	c, rec, _ := newTestClient(t, versionsServer(t))
	ctx := context.Background()

	first, err := c.Database.GetMasterVersions(ctx, &MasterVersionsRequest{MasterID: 1000})
	if err != nil {
		t.Fatalf("GetMasterVersions: %v", err)
	}
	for range first.All(ctx) {
		break
	}
	if rec.hits() != 1 {
		t.Errorf("server hits = %d, want 1", rec.hits())
	}
}

func TestPage_AllYieldsError(t *testing.T) {
	var calls atomic.Int32
	page1 := serveJSON(t, "master_versions_page1.json")
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) > 1 {
			serveStatus(http.StatusBadGateway, `{"message": "upstream"}`)(w, r)
			return
		}
		page1(w, r)
	})
	ctx := context.Background()

	first, err := c.Database.GetMasterVersions(ctx, &MasterVersionsRequest{MasterID: 1000})
	if err != nil {
		t.Fatalf("GetMasterVersions: %v", err)
	}
	var n int
	var last error
	for _, err := range first.All(ctx) {
		if err != nil {
			last = err
			break
		}
		n++
	}
	if n != 2 {
		t.Errorf("items before error = %d, want 2", n)
	}
	var respErr *ResponseError
	if !errors.As(last, &respErr) || respErr.StatusCode != http.StatusBadGateway {
		t.Errorf("error = %v, want 502 ResponseError", last)
	}
}

func TestFetchPage_MissingLink(t *testing.T) {
	_, err := FetchPage[model.Want](context.Background(), nil, map[string]string{}, model.RelNext, "wants")
	if !errors.Is(err, ErrNoPage) {
		t.Errorf("FetchPage = %v, want ErrNoPage", err)
	}
}

func TestPage_ObjectItems(t *testing.T) {
	c, _, _ := newTestClient(t, serveJSON(t, "submissions.json"))

	page, err := c.Identity.GetSubmissions(context.Background(), &UserPageRequest{Username: "shooezgirl"})
	if err != nil {
		t.Fatalf("GetSubmissions: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(page.Items))
	}
	s := page.Items[0]
	if len(s.Artists) != 1 || s.Artists[0].Name != "Grimm" || len(s.Releases) != 1 || s.Releases[0].Title != "Fireworks" {
		t.Errorf("submissions = %+v", s)
	}
}
