package domain

import (
	"time"

	"github.com/google/uuid"
)

// SEO holds the search-engine metadata shared by catalog entities
type SEO struct {
	MetaTitle       string `json:"seo_meta_title" db:"seo_meta_title"`
	MetaDescription string `json:"seo_meta_description" db:"seo_meta_description"`
	MetaKeywords    string `json:"seo_meta_keywords" db:"seo_meta_keywords"`
	AdditionalSEO   string `json:"additional_seo" db:"additional_seo"`
}

// Category is the top level of the catalog taxonomy
type Category struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description" db:"description"`
	Thumbnail   string    `json:"thumbnail" db:"thumbnail"`
	SEO
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Subcategory belongs to exactly one category
type Subcategory struct {
	ID          uuid.UUID `json:"id" db:"id"`
	CategoryID  uuid.UUID `json:"category_id" db:"category_id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description" db:"description"`
	SEO
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Product represents a product in the catalog
type Product struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	Name          string     `json:"name" db:"name"`
	Slug          string     `json:"slug" db:"slug"`
	SKU           string     `json:"sku" db:"sku"`
	Description   string     `json:"description" db:"description"`
	CategoryID    uuid.UUID  `json:"category_id" db:"category_id"`
	SubcategoryID *uuid.UUID `json:"subcategory_id" db:"subcategory_id"`
	StockQuantity int        `json:"stock_quantity" db:"stock_quantity"`
	Tax           float64    `json:"tax" db:"tax"`
	SEO
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// EnsureSlug fills an empty slug from the name.
func (c *Category) EnsureSlug() {
	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}
}

// EnsureSlug fills an empty slug from the name.
func (s *Subcategory) EnsureSlug() {
	if s.Slug == "" {
		s.Slug = Slugify(s.Name)
	}
}

// EnsureIdentifiers fills an empty slug from the name and an empty SKU with
// a generated one. Existing values are left alone.
func (p *Product) EnsureIdentifiers() {
	if p.Slug == "" {
		p.Slug = Slugify(p.Name)
	}
	if p.SKU == "" {
		p.SKU = GenerateSKU()
	}
}
