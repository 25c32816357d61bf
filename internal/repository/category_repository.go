package repository

import (
	"context"
	"fmt"

	"catalog-inventory/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var categoryList = listSpec{
	from:     "categories c",
	columns:  "c.*",
	idColumn: "c.id",
	search:   []string{"c.name", "c.slug", "c.description"},
	filters: map[string]filter{
		"created_at": {"c.created_at", FilterDate},
		"updated_at": {"c.updated_at", FilterDate},
	},
	sorts: map[string]string{
		"name":       "c.name",
		"slug":       "c.slug",
		"created_at": "c.created_at",
		"updated_at": "c.updated_at",
	},
	defaultSort: "c.created_at DESC",
}

var subcategoryList = listSpec{
	from:     "subcategories s",
	columns:  "s.*",
	idColumn: "s.id",
	search:   []string{"s.name", "s.slug", "s.description"},
	filters: map[string]filter{
		"category":   {"s.category_id", FilterUUID},
		"created_at": {"s.created_at", FilterDate},
		"updated_at": {"s.updated_at", FilterDate},
	},
	sorts: map[string]string{
		"name":       "s.name",
		"slug":       "s.slug",
		"created_at": "s.created_at",
		"updated_at": "s.updated_at",
	},
	defaultSort: "s.created_at DESC",
}

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	List(ctx context.Context, params ListParams) ([]domain.Category, int, error)
	// FileRefs lists the category thumbnail and every image its products own
	FileRefs(ctx context.Context, id uuid.UUID) ([]string, error)
}

type categoryRepository struct {
	db sqlx.ExtContext
}

// NewCategoryRepository creates a new instance of CategoryRepository
func NewCategoryRepository(db sqlx.ExtContext) CategoryRepository {
	return &categoryRepository{db: db}
}

// Create inserts a category; timestamps are filled from the database
func (r *categoryRepository) Create(ctx context.Context, c *domain.Category) error {
	query := `
		INSERT INTO categories (id, name, slug, description, thumbnail,
			seo_meta_title, seo_meta_description, seo_meta_keywords, additional_seo)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		c.ID, c.Name, c.Slug, c.Description, c.Thumbnail,
		c.MetaTitle, c.MetaDescription, c.MetaKeywords, c.AdditionalSEO,
	).Scan(&c.CreatedAt, &c.UpdatedAt)

	return mapError(err, "create category")
}

// Update writes every editable column of a category
func (r *categoryRepository) Update(ctx context.Context, c *domain.Category) error {
	query := `
		UPDATE categories
		SET name = $2, slug = $3, description = $4, thumbnail = $5,
		    seo_meta_title = $6, seo_meta_description = $7, seo_meta_keywords = $8, additional_seo = $9
		WHERE id = $1
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		c.ID, c.Name, c.Slug, c.Description, c.Thumbnail,
		c.MetaTitle, c.MetaDescription, c.MetaKeywords, c.AdditionalSEO,
	).Scan(&c.CreatedAt, &c.UpdatedAt)

	return mapError(err, "update category")
}

func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, "categories", id)
}

func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	return findByID[domain.Category](ctx, r.db, "categories", id)
}

func (r *categoryRepository) List(ctx context.Context, params ListParams) ([]domain.Category, int, error) {
	return list[domain.Category](ctx, r.db, &categoryList, params)
}

// SubcategoryRepository defines the interface for subcategory data access
type SubcategoryRepository interface {
	Create(ctx context.Context, subcategory *domain.Subcategory) error
	Update(ctx context.Context, subcategory *domain.Subcategory) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Subcategory, error)
	List(ctx context.Context, params ListParams) ([]domain.Subcategory, int, error)
	FileRefs(ctx context.Context, id uuid.UUID) ([]string, error)
}

type subcategoryRepository struct {
	db sqlx.ExtContext
}

// NewSubcategoryRepository creates a new instance of SubcategoryRepository
func NewSubcategoryRepository(db sqlx.ExtContext) SubcategoryRepository {
	return &subcategoryRepository{db: db}
}

func (r *subcategoryRepository) Create(ctx context.Context, s *domain.Subcategory) error {
	query := `
		INSERT INTO subcategories (id, category_id, name, slug, description,
			seo_meta_title, seo_meta_description, seo_meta_keywords, additional_seo)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		s.ID, s.CategoryID, s.Name, s.Slug, s.Description,
		s.MetaTitle, s.MetaDescription, s.MetaKeywords, s.AdditionalSEO,
	).Scan(&s.CreatedAt, &s.UpdatedAt)

	return mapError(err, "create subcategory")
}

func (r *subcategoryRepository) Update(ctx context.Context, s *domain.Subcategory) error {
	query := `
		UPDATE subcategories
		SET category_id = $2, name = $3, slug = $4, description = $5,
		    seo_meta_title = $6, seo_meta_description = $7, seo_meta_keywords = $8, additional_seo = $9
		WHERE id = $1
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		s.ID, s.CategoryID, s.Name, s.Slug, s.Description,
		s.MetaTitle, s.MetaDescription, s.MetaKeywords, s.AdditionalSEO,
	).Scan(&s.CreatedAt, &s.UpdatedAt)

	return mapError(err, "update subcategory")
}

func (r *subcategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, "subcategories", id)
}

func (r *subcategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Subcategory, error) {
	return findByID[domain.Subcategory](ctx, r.db, "subcategories", id)
}

func (r *subcategoryRepository) List(ctx context.Context, params ListParams) ([]domain.Subcategory, int, error) {
	return list[domain.Subcategory](ctx, r.db, &subcategoryList, params)
}

func (r *categoryRepository) FileRefs(ctx context.Context, id uuid.UUID) ([]string, error) {
	query := `SELECT thumbnail FROM categories WHERE id = $1 UNION ALL` +
		fmt.Sprintf(productFileRefs, "p.category_id = $1")
	return fileRefs(ctx, r.db, query, id)
}

func (r *subcategoryRepository) FileRefs(ctx context.Context, id uuid.UUID) ([]string, error) {
	return fileRefs(ctx, r.db, fmt.Sprintf(productFileRefs, "p.subcategory_id = $1"), id)
}
