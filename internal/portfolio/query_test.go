package portfolio

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

func TestItemQueryEmptyFilter(t *testing.T) {
	query := itemQuery(ItemFilter{})
	if len(query) != 0 {
		t.Fatalf("empty filter produced constraints: %v", query)
	}
}

func TestItemQueryDropsEmptyDimensions(t *testing.T) {
	query := itemQuery(ItemFilter{ClientID: "c7"})

	if len(query) != 1 {
		t.Fatalf("expected a single constraint, got %v", query)
	}
	if got := query["clientId"]; got != "c7" {
		t.Fatalf("clientId = %v", got)
	}
}

func TestItemQuerySearchMatchesTitleAndDescription(t *testing.T) {
	query := itemQuery(ItemFilter{Query: "مطبوعات"})

	or, ok := query["$or"].(bson.A)
	if !ok || len(or) != 2 {
		t.Fatalf("expected $or over title and description, got %v", query)
	}
}

func TestItemQueryEndDateInclusive(t *testing.T) {
	end := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	query := itemQuery(ItemFilter{End: &end})

	dateRange, ok := query["uploadDate"].(bson.M)
	if !ok {
		t.Fatalf("uploadDate constraint missing: %v", query)
	}
	lt, ok := dateRange["$lt"].(time.Time)
	if !ok {
		t.Fatalf("$lt missing: %v", dateRange)
	}
	if !lt.Equal(end.AddDate(0, 0, 1)) {
		t.Fatalf("$lt = %v, want the day after the inclusive end", lt)
	}
}

func TestItemQueryStartDate(t *testing.T) {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	query := itemQuery(ItemFilter{Start: &start})

	dateRange, ok := query["uploadDate"].(bson.M)
	if !ok {
		t.Fatalf("uploadDate constraint missing: %v", query)
	}
	gte, ok := dateRange["$gte"].(time.Time)
	if !ok || !gte.Equal(start) {
		t.Fatalf("$gte = %v, want %v", dateRange["$gte"], start)
	}
}
