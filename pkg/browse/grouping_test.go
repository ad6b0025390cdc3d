package browse

import (
	"testing"
	"time"
)

func datedItem(id string, year int, month time.Month, day int) PortfolioItem {
	return PortfolioItem{
		ID:         id,
		Title:      "item " + id,
		FileURL:    "/media/" + id + ".jpg",
		UploadDate: time.Date(year, month, day, 12, 0, 0, 0, time.UTC),
	}
}

func sampleItems() []PortfolioItem {
	return []PortfolioItem{
		datedItem("a", 2025, time.January, 5),
		datedItem("b", 2025, time.January, 5),
		datedItem("c", 2025, time.March, 9),
		datedItem("d", 2024, time.December, 31),
		datedItem("e", 2024, time.December, 1),
	}
}

func TestGroupByYear(t *testing.T) {
	view := Group(sampleItems(), nil)

	if view.Items != nil {
		t.Fatalf("expected folder view at the root")
	}
	if len(view.Folders) != 2 {
		t.Fatalf("expected 2 year folders, got %d", len(view.Folders))
	}
	if got := len(view.Folders["2025"]); got != 3 {
		t.Fatalf("expected 3 items in 2025, got %d", got)
	}
	if got := len(view.Folders["2024"]); got != 2 {
		t.Fatalf("expected 2 items in 2024, got %d", got)
	}

	total := 0
	for _, items := range view.Folders {
		total += len(items)
	}
	if total != len(sampleItems()) {
		t.Fatalf("folders cover %d items, want %d", total, len(sampleItems()))
	}
}

func TestGroupByMonthFiltersYear(t *testing.T) {
	view := Group(sampleItems(), Path{"2025"})

	if len(view.Folders) != 2 {
		t.Fatalf("expected 2 month folders, got %d", len(view.Folders))
	}
	if got := len(view.Folders["01"]); got != 2 {
		t.Fatalf("expected 2 items in January, got %d", got)
	}
	if got := len(view.Folders["03"]); got != 1 {
		t.Fatalf("expected 1 item in March, got %d", got)
	}
	if _, ok := view.Folders["12"]; ok {
		t.Fatalf("December of another year leaked into the 2025 view")
	}
}

func TestGroupByDayZeroPadded(t *testing.T) {
	view := Group(sampleItems(), Path{"2024", "12"})

	if len(view.Folders) != 2 {
		t.Fatalf("expected 2 day folders, got %d", len(view.Folders))
	}
	if _, ok := view.Folders["01"]; !ok {
		t.Fatalf("expected zero-padded day key \"01\", got %v", view.Keys)
	}
	if _, ok := view.Folders["31"]; !ok {
		t.Fatalf("expected day key \"31\", got %v", view.Keys)
	}
}

func TestGroupFullDepthIsFlat(t *testing.T) {
	view := Group(sampleItems(), Path{"2025", "01", "05"})

	if view.Folders != nil {
		t.Fatalf("expected flat item view at full depth")
	}
	if len(view.Items) != 2 {
		t.Fatalf("expected 2 items on 2025-01-05, got %d", len(view.Items))
	}
	for _, item := range view.Items {
		if item.ID != "a" && item.ID != "b" {
			t.Fatalf("unexpected item %q at 2025-01-05", item.ID)
		}
	}
}

func TestGroupKeysSortedDescending(t *testing.T) {
	view := Group(sampleItems(), nil)
	if len(view.Keys) != 2 || view.Keys[0] != "2025" || view.Keys[1] != "2024" {
		t.Fatalf("expected keys [2025 2024], got %v", view.Keys)
	}
}

func TestPathDescendTruncateInverse(t *testing.T) {
	p := Path{"2025"}

	descended := p.Descend("01")
	if len(descended) != 2 || descended[0] != "2025" || descended[1] != "01" {
		t.Fatalf("descend gave %v", descended)
	}
	if len(p) != 1 {
		t.Fatalf("descend mutated the original path: %v", p)
	}

	back := descended.Truncate(len(p))
	if !back.Equal(p) {
		t.Fatalf("truncate did not restore the original path: %v", back)
	}
}

func TestPathDescendCapped(t *testing.T) {
	p := Path{"2025", "01", "05"}
	if got := p.Descend("x"); len(got) != 3 {
		t.Fatalf("descend past full depth grew the path: %v", got)
	}
}

func TestPathTruncateClamped(t *testing.T) {
	p := Path{"2025", "01"}
	if got := p.Truncate(-1); len(got) != 0 {
		t.Fatalf("negative truncate gave %v", got)
	}
	if got := p.Truncate(5); !got.Equal(p) {
		t.Fatalf("over-long truncate gave %v", got)
	}
	if got := p.Truncate(0); len(got) != 0 {
		t.Fatalf("root breadcrumb gave %v", got)
	}
}

func TestGrouperMemoizes(t *testing.T) {
	items := sampleItems()
	var g Grouper

	first := g.View(items, Path{"2025"})
	second := g.View(items, Path{"2025"})
	if len(first.Folders) != len(second.Folders) {
		t.Fatalf("memoized view differs from the first computation")
	}

	flat := g.View(items, Path{"2025", "01", "05"})
	if flat.Folders != nil || len(flat.Items) != 2 {
		t.Fatalf("path change did not recompute the view")
	}
}
