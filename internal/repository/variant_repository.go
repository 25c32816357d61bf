package repository

import (
	"context"

	"catalog-inventory/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

var variantList = listSpec{
	from:     "product_variants v JOIN products p ON p.id = v.product_id",
	columns:  "v.*",
	idColumn: "v.id",
	search:   []string{"p.name", "v.name", "v.sku"},
	filters: map[string]filter{
		"product":    {"v.product_id", FilterUUID},
		"created_at": {"v.created_at", FilterDate},
		"updated_at": {"v.updated_at", FilterDate},
	},
	sorts: map[string]string{
		"name":           "v.name",
		"sku":            "v.sku",
		"price":          "v.price",
		"stock_quantity": "v.stock_quantity",
		"created_at":     "v.created_at",
	},
	defaultSort: "v.created_at DESC",
}

var priceHistoryList = listSpec{
	from: "price_history ph JOIN product_variants v ON v.id = ph.product_variant_id " +
		"JOIN products p ON p.id = v.product_id",
	columns:  "ph.*",
	idColumn: "ph.id",
	search:   []string{"p.name", "ph.old_price", "ph.new_price"},
	filters: map[string]filter{
		"product_variant": {"ph.product_variant_id", FilterUUID},
		"changed_at":      {"ph.changed_at", FilterDate},
		"created_at":      {"ph.created_at", FilterDate},
		"updated_at":      {"ph.updated_at", FilterDate},
	},
	sorts: map[string]string{
		"old_price":  "ph.old_price",
		"new_price":  "ph.new_price",
		"changed_at": "ph.changed_at",
		"created_at": "ph.created_at",
	},
	defaultSort: "ph.changed_at DESC",
}

var transactionList = listSpec{
	from: "inventory_transactions t JOIN product_variants v ON v.id = t.product_variant_id " +
		"JOIN products p ON p.id = v.product_id",
	columns:  "t.*",
	idColumn: "t.id",
	search:   []string{"p.name", "t.transaction_type", "t.description"},
	filters: map[string]filter{
		"product_variant":  {"t.product_variant_id", FilterUUID},
		"transaction_type": {"t.transaction_type", FilterText},
		"transaction_date": {"t.transaction_date", FilterDate},
		"created_at":       {"t.created_at", FilterDate},
		"updated_at":       {"t.updated_at", FilterDate},
	},
	sorts: map[string]string{
		"transaction_type": "t.transaction_type",
		"quantity":         "t.quantity",
		"transaction_date": "t.transaction_date",
		"created_at":       "t.created_at",
	},
	defaultSort: "t.transaction_date DESC",
}

// VariantRepository defines the interface for product variant data access
type VariantRepository interface {
	Create(ctx context.Context, variant *domain.ProductVariant) error
	Update(ctx context.Context, variant *domain.ProductVariant) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.ProductVariant, error)
	// FindByIDForUpdate locks the variant row for the rest of the transaction
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.ProductVariant, error)
	List(ctx context.Context, params ListParams) ([]domain.ProductVariant, int, error)
	UpdatePrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) error
	// AdjustStock adds delta to the stock and returns the resulting quantity
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (int, error)
}

type variantRepository struct {
	db sqlx.ExtContext
}

// NewVariantRepository creates a new instance of VariantRepository
func NewVariantRepository(db sqlx.ExtContext) VariantRepository {
	return &variantRepository{db: db}
}

func (r *variantRepository) Create(ctx context.Context, v *domain.ProductVariant) error {
	query := `
		INSERT INTO product_variants (id, product_id, name, sku, price, stock_quantity)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query, v.ID, v.ProductID, v.Name, v.SKU, v.Price, v.StockQuantity).
		Scan(&v.CreatedAt, &v.UpdatedAt)

	return mapError(err, "create product variant")
}

func (r *variantRepository) Update(ctx context.Context, v *domain.ProductVariant) error {
	query := `
		UPDATE product_variants
		SET product_id = $2, name = $3, sku = $4, price = $5, stock_quantity = $6
		WHERE id = $1
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query, v.ID, v.ProductID, v.Name, v.SKU, v.Price, v.StockQuantity).
		Scan(&v.CreatedAt, &v.UpdatedAt)

	return mapError(err, "update product variant")
}

func (r *variantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, "product_variants", id)
}

func (r *variantRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ProductVariant, error) {
	return findByID[domain.ProductVariant](ctx, r.db, "product_variants", id)
}

func (r *variantRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.ProductVariant, error) {
	return findByIDForUpdate[domain.ProductVariant](ctx, r.db, "product_variants", id)
}

func (r *variantRepository) List(ctx context.Context, params ListParams) ([]domain.ProductVariant, int, error) {
	return list[domain.ProductVariant](ctx, r.db, &variantList, params)
}

func (r *variantRepository) UpdatePrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) error {
	var updated uuid.UUID
	err := r.db.QueryRowxContext(ctx,
		`UPDATE product_variants SET price = $2 WHERE id = $1 RETURNING id`, id, price).Scan(&updated)
	return mapError(err, "update variant price")
}

func (r *variantRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (int, error) {
	var stock int
	err := r.db.QueryRowxContext(ctx,
		`UPDATE product_variants SET stock_quantity = stock_quantity + $2 WHERE id = $1 RETURNING stock_quantity`,
		id, delta).Scan(&stock)
	if err != nil {
		return 0, mapError(err, "adjust variant stock")
	}
	return stock, nil
}

// PriceHistoryRepository defines the interface for price history data access.
// Rows are never updated.
type PriceHistoryRepository interface {
	Create(ctx context.Context, entry *domain.PriceHistory) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.PriceHistory, error)
	List(ctx context.Context, params ListParams) ([]domain.PriceHistory, int, error)
}

type priceHistoryRepository struct {
	db sqlx.ExtContext
}

// NewPriceHistoryRepository creates a new instance of PriceHistoryRepository
func NewPriceHistoryRepository(db sqlx.ExtContext) PriceHistoryRepository {
	return &priceHistoryRepository{db: db}
}

func (r *priceHistoryRepository) Create(ctx context.Context, h *domain.PriceHistory) error {
	query := `
		INSERT INTO price_history (id, product_variant_id, old_price, new_price)
		VALUES ($1, $2, $3, $4)
		RETURNING changed_at, created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query, h.ID, h.ProductVariantID, h.OldPrice, h.NewPrice).
		Scan(&h.ChangedAt, &h.CreatedAt, &h.UpdatedAt)

	return mapError(err, "create price history")
}

func (r *priceHistoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, "price_history", id)
}

func (r *priceHistoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.PriceHistory, error) {
	return findByID[domain.PriceHistory](ctx, r.db, "price_history", id)
}

func (r *priceHistoryRepository) List(ctx context.Context, params ListParams) ([]domain.PriceHistory, int, error) {
	return list[domain.PriceHistory](ctx, r.db, &priceHistoryList, params)
}

// InventoryTransactionRepository defines the interface for stock ledger data access
type InventoryTransactionRepository interface {
	Create(ctx context.Context, txn *domain.InventoryTransaction) error
	Update(ctx context.Context, txn *domain.InventoryTransaction) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.InventoryTransaction, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.InventoryTransaction, error)
	List(ctx context.Context, params ListParams) ([]domain.InventoryTransaction, int, error)
}

type inventoryTransactionRepository struct {
	db sqlx.ExtContext
}

// NewInventoryTransactionRepository creates a new instance of InventoryTransactionRepository
func NewInventoryTransactionRepository(db sqlx.ExtContext) InventoryTransactionRepository {
	return &inventoryTransactionRepository{db: db}
}

func (r *inventoryTransactionRepository) Create(ctx context.Context, t *domain.InventoryTransaction) error {
	query := `
		INSERT INTO inventory_transactions (id, product_variant_id, transaction_type, quantity, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING transaction_date, created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		t.ID, t.ProductVariantID, t.TransactionType, t.Quantity, t.Description,
	).Scan(&t.TransactionDate, &t.CreatedAt, &t.UpdatedAt)

	return mapError(err, "create inventory transaction")
}

func (r *inventoryTransactionRepository) Update(ctx context.Context, t *domain.InventoryTransaction) error {
	query := `
		UPDATE inventory_transactions
		SET product_variant_id = $2, transaction_type = $3, quantity = $4, description = $5
		WHERE id = $1
		RETURNING transaction_date, created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		t.ID, t.ProductVariantID, t.TransactionType, t.Quantity, t.Description,
	).Scan(&t.TransactionDate, &t.CreatedAt, &t.UpdatedAt)

	return mapError(err, "update inventory transaction")
}

func (r *inventoryTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, "inventory_transactions", id)
}

func (r *inventoryTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.InventoryTransaction, error) {
	return findByID[domain.InventoryTransaction](ctx, r.db, "inventory_transactions", id)
}

func (r *inventoryTransactionRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.InventoryTransaction, error) {
	return findByIDForUpdate[domain.InventoryTransaction](ctx, r.db, "inventory_transactions", id)
}

func (r *inventoryTransactionRepository) List(ctx context.Context, params ListParams) ([]domain.InventoryTransaction, int, error) {
	return list[domain.InventoryTransaction](ctx, r.db, &transactionList, params)
}
