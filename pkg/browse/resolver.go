package browse

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// SearchDelay is how long typing must pause before a search refetches.
const SearchDelay = 500 * time.Millisecond

// Resolver drives one category's browsing state: its subcategory list,
// the selected subcategory and that subcategory's items. Every fetch
// carries a sequence number; a response that arrives after a newer
// fetch started is discarded, so the visible state always reflects the
// most recent request.
type Resolver struct {
	client   *Client
	category string
	onExit   func()

	debounce *Debouncer
	seq      atomic.Uint64

	mu       sync.Mutex
	subs     []Subcategory
	items    []ContentItem
	selected string
	search   string
	loading  bool
	err      error
}

func NewResolver(client *Client, category string, onExit func()) *Resolver {
	return &Resolver{
		client:   client,
		category: category,
		onExit:   onExit,
		debounce: NewDebouncer(SearchDelay),
	}
}

// Load fetches the subcategory list.
func (r *Resolver) Load(ctx context.Context) {
	seq := r.begin()

	subs, err := r.client.Subcategories(ctx, r.category)

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.settle(seq) {
		return
	}
	if err != nil {
		r.err = err
		return
	}
	r.err = nil
	r.subs = subs
}

// Select enters a subcategory. Any active search and previous item
// list are reset before the items are fetched.
func (r *Resolver) Select(ctx context.Context, subcategoryID string) {
	r.mu.Lock()
	r.selected = subcategoryID
	r.search = ""
	r.items = nil
	r.mu.Unlock()

	r.fetchItems(ctx)
}

// SetSearch updates the search term and schedules a refetch after the
// typing pause. Rapid calls collapse into one fetch with the last
// term.
func (r *Resolver) SetSearch(ctx context.Context, term string) {
	r.mu.Lock()
	r.search = term
	selected := r.selected
	r.mu.Unlock()

	if selected == "" {
		return
	}
	r.debounce.Schedule(func() {
		r.fetchItems(ctx)
	})
}

// Back leaves the current subcategory, or hands control to the exit
// callback when already at the category root.
func (r *Resolver) Back() {
	r.mu.Lock()
	if r.selected != "" {
		r.selected = ""
		r.search = ""
		r.items = nil
		r.err = nil
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()

	if r.onExit != nil {
		r.onExit()
	}
}

// Refresh refetches the current lists, e.g. after an admin mutation.
func (r *Resolver) Refresh(ctx context.Context) {
	r.Load(ctx)

	r.mu.Lock()
	selected := r.selected
	r.mu.Unlock()
	if selected != "" {
		r.fetchItems(ctx)
	}
}

func (r *Resolver) Close() {
	r.debounce.Stop()
}

func (r *Resolver) Subcategories() []Subcategory {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.subs
}

func (r *Resolver) Items() []ContentItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items
}

func (r *Resolver) Selected() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selected
}

// Loading is true only while the latest fetch is still in flight.
func (r *Resolver) Loading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loading
}

// Err reports the outcome of the latest fetch. An empty result list is
// not an error.
func (r *Resolver) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *Resolver) fetchItems(ctx context.Context) {
	seq := r.begin()

	r.mu.Lock()
	selected := r.selected
	search := r.search
	r.mu.Unlock()

	if selected == "" {
		r.mu.Lock()
		r.settle(seq)
		r.mu.Unlock()
		return
	}

	items, err := r.client.Items(ctx, r.category, selected, search)

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.settle(seq) {
		return
	}
	if err != nil {
		r.err = err
		return
	}
	r.err = nil
	r.items = items
}

// begin marks a new fetch as the authoritative one and raises the
// loading flag.
func (r *Resolver) begin() uint64 {
	seq := r.seq.Add(1)
	r.mu.Lock()
	r.loading = true
	r.mu.Unlock()
	return seq
}

// settle reports whether seq is still the latest fetch, clearing the
// loading flag when it is. A stale fetch must not touch any state: the
// newer fetch owns the loading flag now. Callers hold the mutex.
func (r *Resolver) settle(seq uint64) bool {
	if seq != r.seq.Load() {
		return false
	}
	r.loading = false
	return true
}
