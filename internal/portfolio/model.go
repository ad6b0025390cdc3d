package portfolio

import (
	"time"

	"github.com/base64pro/ratil-app/internal/models"
)

type CategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

// ItemUpsert carries the multipart form of a portfolio item create or
// update; FileURL is set by the handler after upload.
type ItemUpsert struct {
	Title       string `validate:"required"`
	Description string
	ClientID    string `validate:"required"`
	CategoryID  string `validate:"required"`
	FileURL     string
}

// ItemFilter composes every active browsing constraint. The zero value
// of each field means "no constraint on this dimension". End is
// inclusive; the query layer widens it to the end of that day.
type ItemFilter struct {
	Query      string
	ClientID   string
	CategoryID string
	Start      *time.Time
	End        *time.Time
}

// ItemView is the API shape of a portfolio item: the stored fields plus
// client and category name snapshots, which the gallery cards print.
type ItemView struct {
	models.PortfolioItem
	Client   NameRef `json:"client"`
	Category NameRef `json:"portfolio_category"`
}

type NameRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
