package browse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

func TestResolverLoadSubcategories(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/content/printedMaterials/subcategories" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"s1","name":"بوسترات"},{"id":"s2","name":"بروشورات"}]`))
	}))
	defer srv.Close()

	r := NewResolver(NewClient(srv.URL, srv.Client()), "printedMaterials", nil)
	defer r.Close()

	r.Load(context.Background())

	if err := r.Err(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if r.Loading() {
		t.Fatalf("loading flag still set after load")
	}
	if got := r.Subcategories(); len(got) != 2 || got[0].Name != "بوسترات" {
		t.Fatalf("subcategories = %+v", got)
	}
}

func TestResolverEmptyResultIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	r := NewResolver(NewClient(srv.URL, srv.Client()), "events", nil)
	defer r.Close()

	r.Select(context.Background(), "s1")

	if err := r.Err(); err != nil {
		t.Fatalf("empty result surfaced as error: %v", err)
	}
	if got := r.Items(); len(got) != 0 {
		t.Fatalf("items = %+v", got)
	}
}

func TestResolverLoadingClearedOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := NewResolver(NewClient(srv.URL, srv.Client()), "events", nil)
	defer r.Close()

	r.Select(context.Background(), "s1")

	if r.Loading() {
		t.Fatalf("loading flag stuck after a failed fetch")
	}
	if r.Err() == nil {
		t.Fatalf("failed fetch did not surface an error")
	}
}

func TestResolverDiscardsStaleResponse(t *testing.T) {
	slowArrived := make(chan struct{})
	release := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("q") {
		case "slow":
			close(slowArrived)
			<-release
			w.Write([]byte(`[{"id":"stale","title":"stale"}]`))
		case "fast":
			w.Write([]byte(`[{"id":"fresh","title":"fresh"}]`))
		default:
			w.Write([]byte(`[]`))
		}
	}))
	defer srv.Close()

	r := NewResolver(NewClient(srv.URL, srv.Client()), "events", nil)
	defer r.Close()

	r.Select(context.Background(), "s1")

	r.mu.Lock()
	r.search = "slow"
	r.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		r.fetchItems(context.Background())
	}()
	<-slowArrived

	r.mu.Lock()
	r.search = "fast"
	r.mu.Unlock()
	r.fetchItems(context.Background())

	close(release)
	wg.Wait()

	items := r.Items()
	if len(items) != 1 || items[0].ID != "fresh" {
		t.Fatalf("stale response was applied: %+v", items)
	}
	if r.Loading() {
		t.Fatalf("loading flag stuck after the stale response settled")
	}
}

func TestResolverSelectResetsSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if got := r.URL.Query().Get("q"); got != "" {
			t.Errorf("select carried a stale search term %q", got)
		}
		w.Write([]byte(`[{"id":"i1","title":"one"}]`))
	}))
	defer srv.Close()

	r := NewResolver(NewClient(srv.URL, srv.Client()), "billboards", nil)
	defer r.Close()

	r.mu.Lock()
	r.search = "leftover"
	r.mu.Unlock()

	r.Select(context.Background(), "s1")

	if got := r.Items(); len(got) != 1 || got[0].ID != "i1" {
		t.Fatalf("items = %+v", got)
	}
}

func TestResolverBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	exited := false
	r := NewResolver(NewClient(srv.URL, srv.Client()), "billboards", func() { exited = true })
	defer r.Close()

	r.Select(context.Background(), "s1")
	r.Back()
	if r.Selected() != "" {
		t.Fatalf("back did not clear the selection")
	}
	if exited {
		t.Fatalf("back below the root invoked the exit callback")
	}

	r.Back()
	if !exited {
		t.Fatalf("back at the root did not invoke the exit callback")
	}
}
