package repository

import (
	"context"
	"fmt"

	"catalog-inventory/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var productList = listSpec{
	from:     "products p",
	columns:  "p.*",
	idColumn: "p.id",
	search:   []string{"p.name", "p.slug", "p.sku", "p.description"},
	filters: map[string]filter{
		"category":    {"p.category_id", FilterUUID},
		"subcategory": {"p.subcategory_id", FilterUUID},
		"created_at":  {"p.created_at", FilterDate},
		"updated_at":  {"p.updated_at", FilterDate},
	},
	sorts: map[string]string{
		"name":           "p.name",
		"sku":            "p.sku",
		"stock_quantity": "p.stock_quantity",
		"tax":            "p.tax",
		"created_at":     "p.created_at",
		"updated_at":     "p.updated_at",
	},
	defaultSort: "p.created_at DESC",
}

var shippingList = listSpec{
	from:     "product_shipping sh JOIN products p ON p.id = sh.product_id",
	columns:  "sh.*",
	idColumn: "sh.id",
	search:   []string{"p.name", "sh.shipping_method"},
	filters: map[string]filter{
		"product":    {"sh.product_id", FilterUUID},
		"created_at": {"sh.created_at", FilterDate},
		"updated_at": {"sh.updated_at", FilterDate},
	},
	sorts: map[string]string{
		"shipping_method":        "sh.shipping_method",
		"local_shipping_cost":    "sh.local_shipping_cost",
		"regional_shipping_cost": "sh.regional_shipping_cost",
		"national_shipping_cost": "sh.national_shipping_cost",
		"created_at":             "sh.created_at",
	},
	defaultSort: "sh.created_at DESC",
}

var productImageList = listSpec{
	from:     "product_images i JOIN products p ON p.id = i.product_id",
	columns:  "i.*",
	idColumn: "i.id",
	search:   []string{"p.name", "i.is_main"},
	filters: map[string]filter{
		"product":    {"i.product_id", FilterUUID},
		"is_main":    {"i.is_main", FilterBool},
		"created_at": {"i.created_at", FilterDate},
		"updated_at": {"i.updated_at", FilterDate},
	},
	sorts: map[string]string{
		"is_main":    "i.is_main",
		"created_at": "i.created_at",
	},
	defaultSort: "i.created_at DESC",
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, params ListParams) ([]domain.Product, int, error)
	// FileRefs lists the product's gallery images and its review photos
	FileRefs(ctx context.Context, id uuid.UUID) ([]string, error)
}

type productRepository struct {
	db sqlx.ExtContext
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db sqlx.ExtContext) ProductRepository {
	return &productRepository{db: db}
}

// Create inserts a new product using parameterized queries
func (r *productRepository) Create(ctx context.Context, p *domain.Product) error {
	query := `
		INSERT INTO products (id, name, slug, sku, description, category_id, subcategory_id,
			stock_quantity, tax, seo_meta_title, seo_meta_description, seo_meta_keywords, additional_seo)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		p.ID, p.Name, p.Slug, p.SKU, p.Description, p.CategoryID, p.SubcategoryID,
		p.StockQuantity, p.Tax, p.MetaTitle, p.MetaDescription, p.MetaKeywords, p.AdditionalSEO,
	).Scan(&p.CreatedAt, &p.UpdatedAt)

	return mapError(err, "create product")
}

// Update updates an existing product using parameterized queries
func (r *productRepository) Update(ctx context.Context, p *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, slug = $3, sku = $4, description = $5, category_id = $6, subcategory_id = $7,
		    stock_quantity = $8, tax = $9, seo_meta_title = $10, seo_meta_description = $11,
		    seo_meta_keywords = $12, additional_seo = $13
		WHERE id = $1
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		p.ID, p.Name, p.Slug, p.SKU, p.Description, p.CategoryID, p.SubcategoryID,
		p.StockQuantity, p.Tax, p.MetaTitle, p.MetaDescription, p.MetaKeywords, p.AdditionalSEO,
	).Scan(&p.CreatedAt, &p.UpdatedAt)

	return mapError(err, "update product")
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, "products", id)
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return findByID[domain.Product](ctx, r.db, "products", id)
}

// List retrieves products with search, filters, pagination and sorting
func (r *productRepository) List(ctx context.Context, params ListParams) ([]domain.Product, int, error) {
	return list[domain.Product](ctx, r.db, &productList, params)
}

// ShippingRepository defines the interface for product shipping data access
type ShippingRepository interface {
	Create(ctx context.Context, shipping *domain.ProductShipping) error
	Update(ctx context.Context, shipping *domain.ProductShipping) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.ProductShipping, error)
	List(ctx context.Context, params ListParams) ([]domain.ProductShipping, int, error)
}

type shippingRepository struct {
	db sqlx.ExtContext
}

// NewShippingRepository creates a new instance of ShippingRepository
func NewShippingRepository(db sqlx.ExtContext) ShippingRepository {
	return &shippingRepository{db: db}
}

func (r *shippingRepository) Create(ctx context.Context, s *domain.ProductShipping) error {
	query := `
		INSERT INTO product_shipping (id, product_id, shipping_method, local_shipping_cost,
			regional_shipping_cost, national_shipping_cost, shipping_cost_multiply_quantity,
			estimated_delivery_time, additional_shipping_info)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		s.ID, s.ProductID, s.ShippingMethod, s.LocalShippingCost,
		s.RegionalShippingCost, s.NationalShippingCost, s.ShippingCostMultiplyQuantity,
		s.EstimatedDeliveryTime, s.AdditionalShippingInfo,
	).Scan(&s.CreatedAt, &s.UpdatedAt)

	return mapError(err, "create product shipping")
}

func (r *shippingRepository) Update(ctx context.Context, s *domain.ProductShipping) error {
	query := `
		UPDATE product_shipping
		SET product_id = $2, shipping_method = $3, local_shipping_cost = $4,
		    regional_shipping_cost = $5, national_shipping_cost = $6,
		    shipping_cost_multiply_quantity = $7, estimated_delivery_time = $8,
		    additional_shipping_info = $9
		WHERE id = $1
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		s.ID, s.ProductID, s.ShippingMethod, s.LocalShippingCost,
		s.RegionalShippingCost, s.NationalShippingCost, s.ShippingCostMultiplyQuantity,
		s.EstimatedDeliveryTime, s.AdditionalShippingInfo,
	).Scan(&s.CreatedAt, &s.UpdatedAt)

	return mapError(err, "update product shipping")
}

func (r *shippingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, "product_shipping", id)
}

func (r *shippingRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ProductShipping, error) {
	return findByID[domain.ProductShipping](ctx, r.db, "product_shipping", id)
}

func (r *shippingRepository) List(ctx context.Context, params ListParams) ([]domain.ProductShipping, int, error) {
	return list[domain.ProductShipping](ctx, r.db, &shippingList, params)
}

// ProductImageRepository defines the interface for product gallery data access
type ProductImageRepository interface {
	Create(ctx context.Context, image *domain.ProductImage) error
	Update(ctx context.Context, image *domain.ProductImage) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.ProductImage, error)
	List(ctx context.Context, params ListParams) ([]domain.ProductImage, int, error)
	// ClearMain unsets is_main on every image of the product except keep
	ClearMain(ctx context.Context, productID, keep uuid.UUID) (int64, error)
}

type productImageRepository struct {
	db sqlx.ExtContext
}

// NewProductImageRepository creates a new instance of ProductImageRepository
func NewProductImageRepository(db sqlx.ExtContext) ProductImageRepository {
	return &productImageRepository{db: db}
}

func (r *productImageRepository) Create(ctx context.Context, img *domain.ProductImage) error {
	query := `
		INSERT INTO product_images (id, product_id, image, is_main)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query, img.ID, img.ProductID, img.Image, img.IsMain).
		Scan(&img.CreatedAt, &img.UpdatedAt)

	return mapError(err, "create product image")
}

func (r *productImageRepository) Update(ctx context.Context, img *domain.ProductImage) error {
	query := `
		UPDATE product_images
		SET product_id = $2, image = $3, is_main = $4
		WHERE id = $1
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query, img.ID, img.ProductID, img.Image, img.IsMain).
		Scan(&img.CreatedAt, &img.UpdatedAt)

	return mapError(err, "update product image")
}

func (r *productImageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, "product_images", id)
}

func (r *productImageRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ProductImage, error) {
	return findByID[domain.ProductImage](ctx, r.db, "product_images", id)
}

func (r *productImageRepository) List(ctx context.Context, params ListParams) ([]domain.ProductImage, int, error) {
	return list[domain.ProductImage](ctx, r.db, &productImageList, params)
}

func (r *productImageRepository) ClearMain(ctx context.Context, productID, keep uuid.UUID) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE product_images SET is_main = FALSE WHERE product_id = $1 AND id <> $2 AND is_main`,
		productID, keep)
	if err != nil {
		return 0, mapError(err, "clear main product image")
	}
	return result.RowsAffected()
}

func (r *productRepository) FileRefs(ctx context.Context, id uuid.UUID) ([]string, error) {
	return fileRefs(ctx, r.db, fmt.Sprintf(productFileRefs, "p.id = $1"), id)
}
