package browse

import (
	"net/url"
	"sync"
	"time"
)

const dateLayout = "2006-01-02"

// Filter is the ephemeral query state for the portfolio item listing.
// A zero field means no constraint on that dimension.
type Filter struct {
	Search     string
	ClientID   string
	CategoryID string
	StartDate  time.Time
	EndDate    time.Time
}

// DefaultFilter bounds the initial result set to the current year so a
// large archive does not flood the first view.
func DefaultFilter(now time.Time) Filter {
	return Filter{
		StartDate: time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()),
		EndDate:   now,
	}
}

// Values renders the filter as query parameters, dropping every
// inactive dimension so the server only sees real constraints.
func (f Filter) Values() url.Values {
	values := url.Values{}
	if f.Search != "" {
		values.Set("q", f.Search)
	}
	if f.ClientID != "" {
		values.Set("client_id", f.ClientID)
	}
	if f.CategoryID != "" {
		values.Set("category_id", f.CategoryID)
	}
	if !f.StartDate.IsZero() {
		values.Set("start_date", f.StartDate.Format(dateLayout))
	}
	if !f.EndDate.IsZero() {
		values.Set("end_date", f.EndDate.Format(dateLayout))
	}
	return values
}

// Debouncer collapses rapid triggers into one callback per quiet
// period. Schedule cancels any pending callback, so the last scheduled
// function is the one that runs.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

func (d *Debouncer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
