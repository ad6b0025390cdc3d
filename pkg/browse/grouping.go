package browse

import (
	"sort"
	"sync"
)

const maxDepth = 3

// Path is the current drill-down position in the portfolio folder
// view: empty, [year], [year month] or [year month day].
type Path []string

// Descend returns a new path with key appended. At full depth the path
// is returned unchanged.
func (p Path) Descend(key string) Path {
	if len(p) >= maxDepth {
		return p
	}
	next := make(Path, len(p), len(p)+1)
	copy(next, p)
	return append(next, key)
}

// Truncate returns the path cut to length i, clamped to the valid
// range. Truncate(0) returns to the root.
func (p Path) Truncate(i int) Path {
	if i < 0 {
		i = 0
	}
	if i > len(p) {
		i = len(p)
	}
	next := make(Path, i)
	copy(next, p[:i])
	return next
}

func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// View is the result of grouping at a path. Below full depth, Folders
// maps the next segment key to its items and Keys lists those keys in
// descending order. At full depth Folders is nil and Items holds the
// flat list for the selected day.
type View struct {
	Folders map[string][]PortfolioItem
	Keys    []string
	Items   []PortfolioItem
}

// Group buckets items by the next calendar component below path. It is
// a pure function of its inputs: items already restricted by the
// consumed path segments are keyed by year at the root, zero-padded
// month below a year, and zero-padded day below a month.
func Group(items []PortfolioItem, path Path) View {
	matched := make([]PortfolioItem, 0, len(items))
	for _, item := range items {
		if matchesPath(item, path) {
			matched = append(matched, item)
		}
	}

	if len(path) >= maxDepth {
		return View{Items: matched}
	}

	folders := make(map[string][]PortfolioItem)
	for _, item := range matched {
		key := segmentKey(item, len(path))
		folders[key] = append(folders[key], item)
	}

	keys := make([]string, 0, len(folders))
	for key := range folders {
		keys = append(keys, key)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	return View{Folders: folders, Keys: keys}
}

func matchesPath(item PortfolioItem, path Path) bool {
	for depth, segment := range path {
		if segmentKey(item, depth) != segment {
			return false
		}
	}
	return true
}

func segmentKey(item PortfolioItem, depth int) string {
	switch depth {
	case 0:
		return item.UploadDate.Format("2006")
	case 1:
		return item.UploadDate.Format("01")
	default:
		return item.UploadDate.Format("02")
	}
}

// Grouper caches the last computed view. The grouping is recomputed
// only when the item slice or the path actually changes, which keeps
// repeated renders of the same state cheap.
type Grouper struct {
	mu        sync.Mutex
	lastItems []PortfolioItem
	lastPath  Path
	lastView  View
	valid     bool
}

func (g *Grouper) View(items []PortfolioItem, path Path) View {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.valid && sameSlice(g.lastItems, items) && g.lastPath.Equal(path) {
		return g.lastView
	}

	g.lastItems = items
	g.lastPath = path.Truncate(len(path))
	g.lastView = Group(items, path)
	g.valid = true
	return g.lastView
}

func sameSlice(a, b []PortfolioItem) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return &a[0] == &b[0]
}
