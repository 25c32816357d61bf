package repository

import (
	"context"

	"catalog-inventory/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var discountList = listSpec{
	from:     "discounts d JOIN product_variants v ON v.id = d.product_variant_id",
	columns:  "d.*",
	idColumn: "d.id",
	search:   []string{"v.name", "d.discount_type", "d.discount_value"},
	filters: map[string]filter{
		"product_variant": {"d.product_variant_id", FilterUUID},
		"discount_type":   {"d.discount_type", FilterText},
		"start_date":      {"d.start_date", FilterDate},
		"end_date":        {"d.end_date", FilterDate},
		"created_at":      {"d.created_at", FilterDate},
		"updated_at":      {"d.updated_at", FilterDate},
	},
	sorts: map[string]string{
		"discount_type":  "d.discount_type",
		"discount_value": "d.discount_value",
		"start_date":     "d.start_date",
		"end_date":       "d.end_date",
		"created_at":     "d.created_at",
	},
	defaultSort: "d.created_at DESC",
}

var discountHistoryList = listSpec{
	from: "discount_history h JOIN discounts d ON d.id = h.discount_id " +
		"JOIN product_variants v ON v.id = d.product_variant_id",
	columns:  "h.*",
	idColumn: "h.id",
	search:   []string{"v.name", "h.old_discount_type", "h.new_discount_type"},
	filters: map[string]filter{
		"discount":   {"h.discount_id", FilterUUID},
		"applied_at": {"h.applied_at", FilterDate},
		"created_at": {"h.created_at", FilterDate},
		"updated_at": {"h.updated_at", FilterDate},
	},
	sorts: map[string]string{
		"applied_at": "h.applied_at",
		"created_at": "h.created_at",
		"updated_at": "h.updated_at",
	},
	defaultSort: "h.applied_at DESC",
}

// DiscountRepository defines the interface for discount data access
type DiscountRepository interface {
	Create(ctx context.Context, discount *domain.Discount) error
	Update(ctx context.Context, discount *domain.Discount) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Discount, error)
	// FindByIDForUpdate locks the discount row for the rest of the transaction
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Discount, error)
	List(ctx context.Context, params ListParams) ([]domain.Discount, int, error)
}

type discountRepository struct {
	db sqlx.ExtContext
}

// NewDiscountRepository creates a new instance of DiscountRepository
func NewDiscountRepository(db sqlx.ExtContext) DiscountRepository {
	return &discountRepository{db: db}
}

func (r *discountRepository) Create(ctx context.Context, d *domain.Discount) error {
	query := `
		INSERT INTO discounts (id, product_variant_id, discount_type, discount_value, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		d.ID, d.ProductVariantID, d.DiscountType, d.DiscountValue, d.StartDate, d.EndDate,
	).Scan(&d.CreatedAt, &d.UpdatedAt)

	return mapError(err, "create discount")
}

func (r *discountRepository) Update(ctx context.Context, d *domain.Discount) error {
	query := `
		UPDATE discounts
		SET product_variant_id = $2, discount_type = $3, discount_value = $4, start_date = $5, end_date = $6
		WHERE id = $1
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		d.ID, d.ProductVariantID, d.DiscountType, d.DiscountValue, d.StartDate, d.EndDate,
	).Scan(&d.CreatedAt, &d.UpdatedAt)

	return mapError(err, "update discount")
}

func (r *discountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, "discounts", id)
}

func (r *discountRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Discount, error) {
	return findByID[domain.Discount](ctx, r.db, "discounts", id)
}

func (r *discountRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Discount, error) {
	return findByIDForUpdate[domain.Discount](ctx, r.db, "discounts", id)
}

func (r *discountRepository) List(ctx context.Context, params ListParams) ([]domain.Discount, int, error) {
	return list[domain.Discount](ctx, r.db, &discountList, params)
}

// DiscountHistoryRepository defines the interface for discount audit data access
type DiscountHistoryRepository interface {
	Create(ctx context.Context, entry *domain.DiscountHistory) error
	Update(ctx context.Context, entry *domain.DiscountHistory) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteByDiscount removes every history row of a discount
	DeleteByDiscount(ctx context.Context, discountID uuid.UUID) (int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.DiscountHistory, error)
	List(ctx context.Context, params ListParams) ([]domain.DiscountHistory, int, error)
}

type discountHistoryRepository struct {
	db sqlx.ExtContext
}

// NewDiscountHistoryRepository creates a new instance of DiscountHistoryRepository
func NewDiscountHistoryRepository(db sqlx.ExtContext) DiscountHistoryRepository {
	return &discountHistoryRepository{db: db}
}

func (r *discountHistoryRepository) Create(ctx context.Context, h *domain.DiscountHistory) error {
	query := `
		INSERT INTO discount_history (id, discount_id, old_discount_type, old_discount_value,
			new_discount_type, new_discount_value)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING applied_at, created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		h.ID, h.DiscountID, h.OldDiscountType, h.OldDiscountValue, h.NewDiscountType, h.NewDiscountValue,
	).Scan(&h.AppliedAt, &h.CreatedAt, &h.UpdatedAt)

	return mapError(err, "create discount history")
}

func (r *discountHistoryRepository) Update(ctx context.Context, h *domain.DiscountHistory) error {
	query := `
		UPDATE discount_history
		SET discount_id = $2, old_discount_type = $3, old_discount_value = $4,
		    new_discount_type = $5, new_discount_value = $6
		WHERE id = $1
		RETURNING applied_at, created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		h.ID, h.DiscountID, h.OldDiscountType, h.OldDiscountValue, h.NewDiscountType, h.NewDiscountValue,
	).Scan(&h.AppliedAt, &h.CreatedAt, &h.UpdatedAt)

	return mapError(err, "update discount history")
}

func (r *discountHistoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, "discount_history", id)
}

func (r *discountHistoryRepository) DeleteByDiscount(ctx context.Context, discountID uuid.UUID) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM discount_history WHERE discount_id = $1`, discountID)
	if err != nil {
		return 0, mapError(err, "delete discount history")
	}
	return result.RowsAffected()
}

func (r *discountHistoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.DiscountHistory, error) {
	return findByID[domain.DiscountHistory](ctx, r.db, "discount_history", id)
}

func (r *discountHistoryRepository) List(ctx context.Context, params ListParams) ([]domain.DiscountHistory, int, error) {
	return list[domain.DiscountHistory](ctx, r.db, &discountHistoryList, params)
}
