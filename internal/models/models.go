package models

import "time"

const (
	UserRoleAdmin  = "admin"
	UserRoleViewer = "viewer"

	CategoryPrintedMaterials = "printedMaterials"
	CategoryBillboards       = "billboards"
	CategoryEvents           = "events"
	CategoryExhibition       = "exhibition"
	CategoryPortfolio        = "portfolio"
)

// ContentCategories maps the fixed category keys to their Arabic display
// names. Portfolio is a routing key only and is backed by its own
// collections.
var ContentCategories = map[string]string{
	CategoryPrintedMaterials: "المواد المطبوعة",
	CategoryBillboards:       "تاجير لافتات طرقية عملاقة",
	CategoryEvents:           "تنظيم المؤتمرات والمناسبات",
	CategoryExhibition:       "معرض بيع الاجهزة والمعدات الطباعية",
}

func IsContentCategory(name string) bool {
	_, ok := ContentCategories[name]
	return ok
}

type User struct {
	ID                 string    `bson:"_id,omitempty" json:"id"`
	Username           string    `bson:"username" json:"username"`
	PasswordHash       string    `bson:"passwordHash" json:"-"`
	Role               string    `bson:"role" json:"role"`
	CanAccessPortfolio bool      `bson:"canAccessPortfolio" json:"can_access_portfolio"`
	CreatedAt          time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time `bson:"updatedAt" json:"updatedAt"`
}

type Category struct {
	ID          string `bson:"_id,omitempty" json:"id"`
	Name        string `bson:"name" json:"name"`
	DisplayName string `bson:"displayName" json:"display_name"`
}

type Subcategory struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Name         string    `bson:"name" json:"name"`
	CategoryName string    `bson:"categoryName" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"-"`
}

type ContentItem struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	Title         string    `bson:"title" json:"title"`
	Description   string    `bson:"description" json:"description"`
	MediaURL      string    `bson:"mediaUrl" json:"imageUrl"`
	SubcategoryID string    `bson:"subcategoryId" json:"-"`
	CreatedAt     time.Time `bson:"createdAt" json:"-"`
}

type Client struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	Name          string    `bson:"name" json:"name"`
	ContactPerson string    `bson:"contactPerson,omitempty" json:"contact_person,omitempty"`
	Phone         string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Email         string    `bson:"email,omitempty" json:"email,omitempty"`
	Address       string    `bson:"address,omitempty" json:"address,omitempty"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}

type PortfolioCategory struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	CreatedAt time.Time `bson:"createdAt" json:"-"`
}

type PortfolioItem struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	FileURL     string    `bson:"fileUrl" json:"file_url"`
	UploadDate  time.Time `bson:"uploadDate" json:"upload_date"`
	ClientID    string    `bson:"clientId" json:"client_id"`
	CategoryID  string    `bson:"categoryId" json:"category_id"`
}
