package browse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func parseQuery(raw string) (url.Values, error) {
	return url.ParseQuery(raw)
}

func TestGalleryFetchAndDrillDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":"a","title":"a","file_url":"/media/a.jpg","upload_date":"2025-01-05T12:00:00Z"},
			{"id":"b","title":"b","file_url":"/media/b.mp4","upload_date":"2025-03-09T12:00:00Z"},
			{"id":"c","title":"c","file_url":"/media/c.jpg","upload_date":"2024-12-31T12:00:00Z"}
		]`))
	}))
	defer srv.Close()

	now := time.Date(2025, time.August, 14, 10, 0, 0, 0, time.UTC)
	g := NewGallery(NewClient(srv.URL, srv.Client()), now)
	defer g.Close()

	g.Refresh(context.Background())
	if err := g.Err(); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if g.Loading() {
		t.Fatalf("loading flag still set after refresh")
	}

	root := g.View()
	if len(root.Folders) != 2 {
		t.Fatalf("expected 2 year folders, got %v", root.Keys)
	}

	g.Descend("2025")
	months := g.View()
	if len(months.Folders) != 2 {
		t.Fatalf("expected 2 month folders under 2025, got %v", months.Keys)
	}

	g.Descend("01")
	g.Descend("05")
	day := g.View()
	if day.Folders != nil || len(day.Items) != 1 || day.Items[0].ID != "a" {
		t.Fatalf("day view = %+v", day)
	}

	g.Breadcrumb(0)
	if len(g.Path()) != 0 {
		t.Fatalf("root breadcrumb left path %v", g.Path())
	}
}

func TestGallerySendsFilterConstraints(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	now := time.Date(2025, time.August, 14, 10, 0, 0, 0, time.UTC)
	g := NewGallery(NewClient(srv.URL, srv.Client()), now)
	defer g.Close()

	g.SetFilter(context.Background(), Filter{ClientID: "c9", CategoryID: "k2"})

	values, err := parseQuery(query)
	if err != nil {
		t.Fatalf("parse query: %v", err)
	}
	if got := values.Get("client_id"); got != "c9" {
		t.Fatalf("client_id = %q", got)
	}
	if got := values.Get("category_id"); got != "k2" {
		t.Fatalf("category_id = %q", got)
	}
	if values.Has("q") || values.Has("start_date") || values.Has("end_date") {
		t.Fatalf("inactive dimensions were sent: %q", query)
	}
}

func TestGalleryDefaultFilterBoundsDates(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	now := time.Date(2025, time.August, 14, 10, 0, 0, 0, time.UTC)
	g := NewGallery(NewClient(srv.URL, srv.Client()), now)
	defer g.Close()

	g.Refresh(context.Background())

	values, err := parseQuery(query)
	if err != nil {
		t.Fatalf("parse query: %v", err)
	}
	if got := values.Get("start_date"); got != "2025-01-01" {
		t.Fatalf("start_date = %q", got)
	}
	if got := values.Get("end_date"); got != "2025-08-14" {
		t.Fatalf("end_date = %q", got)
	}
}

func TestGalleryDebouncedSearchLastValueWins(t *testing.T) {
	queries := make(chan string, 8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries <- r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	now := time.Date(2025, time.August, 14, 10, 0, 0, 0, time.UTC)
	g := NewGallery(NewClient(srv.URL, srv.Client()), now)
	defer g.Close()

	for _, term := range []string{"م", "مط", "مطب"} {
		g.SetSearch(context.Background(), term)
	}

	select {
	case got := <-queries:
		if got != "مطب" {
			t.Fatalf("debounced fetch used %q, want the last term", got)
		}
	case <-time.After(2 * SearchDelay):
		t.Fatalf("debounced fetch never fired")
	}

	select {
	case got := <-queries:
		t.Fatalf("extra fetch with %q after the quiet period", got)
	case <-time.After(SearchDelay):
	}
}
