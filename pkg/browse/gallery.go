package browse

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Gallery is the portfolio view state: a filter, the server-filtered
// item set and the current folder path. Text edits refetch after the
// typing pause; entity and date edits refetch immediately.
type Gallery struct {
	client   *Client
	debounce *Debouncer
	seq      atomic.Uint64
	grouper  Grouper

	mu      sync.Mutex
	filter  Filter
	items   []PortfolioItem
	path    Path
	loading bool
	err     error
}

func NewGallery(client *Client, now time.Time) *Gallery {
	return &Gallery{
		client:   client,
		debounce: NewDebouncer(SearchDelay),
		filter:   DefaultFilter(now),
	}
}

func (g *Gallery) Filter() Filter {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.filter
}

// SetFilter replaces the whole filter and refetches. The folder path
// is kept; it simply greets the new item set.
func (g *Gallery) SetFilter(ctx context.Context, filter Filter) {
	g.mu.Lock()
	g.filter = filter
	g.mu.Unlock()

	g.fetch(ctx)
}

// SetSearch updates only the free-text term, debounced.
func (g *Gallery) SetSearch(ctx context.Context, term string) {
	g.mu.Lock()
	g.filter.Search = term
	g.mu.Unlock()

	g.debounce.Schedule(func() {
		g.fetch(ctx)
	})
}

// Refresh refetches with the current filter.
func (g *Gallery) Refresh(ctx context.Context) {
	g.fetch(ctx)
}

// Descend enters the folder with the given key.
func (g *Gallery) Descend(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.path = g.path.Descend(key)
}

// Breadcrumb truncates the path to depth i; 0 returns to the root.
func (g *Gallery) Breadcrumb(i int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.path = g.path.Truncate(i)
}

func (g *Gallery) Path() Path {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.path
}

// View groups the current items at the current path.
func (g *Gallery) View() View {
	g.mu.Lock()
	items := g.items
	path := g.path
	g.mu.Unlock()

	return g.grouper.View(items, path)
}

func (g *Gallery) Loading() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.loading
}

func (g *Gallery) Err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.err
}

func (g *Gallery) Close() {
	g.debounce.Stop()
}

func (g *Gallery) fetch(ctx context.Context) {
	seq := g.seq.Add(1)

	g.mu.Lock()
	g.loading = true
	filter := g.filter
	g.mu.Unlock()

	items, err := g.client.PortfolioItems(ctx, filter)

	g.mu.Lock()
	defer g.mu.Unlock()
	if seq != g.seq.Load() {
		return
	}
	g.loading = false
	if err != nil {
		g.err = err
		return
	}
	g.err = nil
	g.items = items
}
