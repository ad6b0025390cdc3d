package content

// SubcategoryRequest covers create and update; a subcategory is just a
// named grouping inside one of the fixed categories.
type SubcategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

// ItemUpsert carries the multipart form fields of an item create or
// update. MediaURL is filled in by the handler after a successful
// upload; an empty value on update keeps the stored one.
type ItemUpsert struct {
	Title       string `validate:"required"`
	Description string `validate:"required"`
	MediaURL    string
}

// AdminItem is the flattened row the admin dashboard table lists:
// every content item with its category and subcategory names resolved.
type AdminItem struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	MediaURL        string `json:"imageUrl"`
	Category        string `json:"category"`
	SubcategoryID   string `json:"subcategory_id"`
	SubcategoryName string `json:"subcategory_name"`
}
