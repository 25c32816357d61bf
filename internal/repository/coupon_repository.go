package repository

import (
	"context"
	"fmt"

	"catalog-inventory/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var couponList = listSpec{
	from:     "coupons c",
	columns:  "c.*",
	idColumn: "c.id",
	search:   []string{"c.code", "c.discount_type", "c.discount_value"},
	filters: map[string]filter{
		"discount_type": {"c.discount_type", FilterText},
		"valid_from":    {"c.valid_from", FilterDate},
		"valid_to":      {"c.valid_to", FilterDate},
		"active":        {"c.active", FilterBool},
		"created_at":    {"c.created_at", FilterDate},
		"updated_at":    {"c.updated_at", FilterDate},
	},
	sorts: map[string]string{
		"code":           "c.code",
		"discount_value": "c.discount_value",
		"valid_from":     "c.valid_from",
		"valid_to":       "c.valid_to",
		"created_at":     "c.created_at",
	},
	defaultSort: "c.created_at DESC",
}

var couponUsageList = listSpec{
	from: "coupon_usages cu JOIN coupons c ON c.id = cu.coupon_id " +
		"JOIN users u ON u.id = cu.user_id LEFT JOIN products p ON p.id = cu.product_id",
	columns:  "cu.*",
	idColumn: "cu.id",
	search:   []string{"c.code", "u.username", "p.name"},
	filters: map[string]filter{
		"coupon":  {"cu.coupon_id", FilterUUID},
		"user":    {"cu.user_id", FilterUUID},
		"product": {"cu.product_id", FilterUUID},
		"used_at": {"cu.used_at", FilterDate},
	},
	sorts: map[string]string{
		"used_at": "cu.used_at",
	},
	defaultSort: "cu.used_at DESC",
}

// CouponRepository defines the interface for coupon data access. The
// coupon's product set is written and loaded together with the coupon.
type CouponRepository interface {
	Create(ctx context.Context, coupon *domain.Coupon) error
	Update(ctx context.Context, coupon *domain.Coupon) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Coupon, error)
	List(ctx context.Context, params ListParams) ([]domain.Coupon, int, error)
}

type couponRepository struct {
	db sqlx.ExtContext
}

// NewCouponRepository creates a new instance of CouponRepository
func NewCouponRepository(db sqlx.ExtContext) CouponRepository {
	return &couponRepository{db: db}
}

func (r *couponRepository) Create(ctx context.Context, c *domain.Coupon) error {
	query := `
		INSERT INTO coupons (id, code, discount_type, discount_value, valid_from, valid_to, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		c.ID, c.Code, c.DiscountType, c.DiscountValue, c.ValidFrom, c.ValidTo, c.Active,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return mapError(err, "create coupon")
	}

	return r.setProducts(ctx, c)
}

func (r *couponRepository) Update(ctx context.Context, c *domain.Coupon) error {
	query := `
		UPDATE coupons
		SET code = $2, discount_type = $3, discount_value = $4, valid_from = $5, valid_to = $6, active = $7
		WHERE id = $1
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		c.ID, c.Code, c.DiscountType, c.DiscountValue, c.ValidFrom, c.ValidTo, c.Active,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return mapError(err, "update coupon")
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM coupon_products WHERE coupon_id = $1`, c.ID); err != nil {
		return mapError(err, "clear coupon products")
	}
	return r.setProducts(ctx, c)
}

// setProducts links the coupon to each of its products.
func (r *couponRepository) setProducts(ctx context.Context, c *domain.Coupon) error {
	if c.ProductIDs == nil {
		c.ProductIDs = []uuid.UUID{}
	}
	for _, productID := range c.ProductIDs {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO coupon_products (coupon_id, product_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			c.ID, productID)
		if err != nil {
			return mapError(err, "link coupon product")
		}
	}
	return nil
}

func (r *couponRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, "coupons", id)
}

func (r *couponRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Coupon, error) {
	coupon, err := findByID[domain.Coupon](ctx, r.db, "coupons", id)
	if err != nil {
		return nil, err
	}

	coupons := []domain.Coupon{*coupon}
	if err := r.loadProducts(ctx, coupons); err != nil {
		return nil, err
	}
	return &coupons[0], nil
}

func (r *couponRepository) List(ctx context.Context, params ListParams) ([]domain.Coupon, int, error) {
	coupons, total, err := list[domain.Coupon](ctx, r.db, &couponList, params)
	if err != nil {
		return nil, 0, err
	}
	if err := r.loadProducts(ctx, coupons); err != nil {
		return nil, 0, err
	}
	return coupons, total, nil
}

// loadProducts fills ProductIDs of every coupon with one query.
func (r *couponRepository) loadProducts(ctx context.Context, coupons []domain.Coupon) error {
	if len(coupons) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(coupons))
	index := make(map[uuid.UUID]int, len(coupons))
	for i := range coupons {
		ids[i] = coupons[i].ID
		index[coupons[i].ID] = i
		coupons[i].ProductIDs = []uuid.UUID{}
	}

	query, args, err := sqlx.In(
		`SELECT coupon_id, product_id FROM coupon_products WHERE coupon_id IN (?) ORDER BY product_id`, ids)
	if err != nil {
		return fmt.Errorf("failed to build coupon products query: %w", err)
	}

	var links []struct {
		CouponID  uuid.UUID `db:"coupon_id"`
		ProductID uuid.UUID `db:"product_id"`
	}
	if err := sqlx.SelectContext(ctx, r.db, &links, r.db.Rebind(query), args...); err != nil {
		return mapError(err, "load coupon products")
	}

	for _, link := range links {
		i := index[link.CouponID]
		coupons[i].ProductIDs = append(coupons[i].ProductIDs, link.ProductID)
	}
	return nil
}

// CouponUsageRepository defines the interface for coupon redemption data access
type CouponUsageRepository interface {
	Create(ctx context.Context, usage *domain.CouponUsage) error
	Update(ctx context.Context, usage *domain.CouponUsage) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.CouponUsage, error)
	List(ctx context.Context, params ListParams) ([]domain.CouponUsage, int, error)
}

type couponUsageRepository struct {
	db sqlx.ExtContext
}

// NewCouponUsageRepository creates a new instance of CouponUsageRepository
func NewCouponUsageRepository(db sqlx.ExtContext) CouponUsageRepository {
	return &couponUsageRepository{db: db}
}

func (r *couponUsageRepository) Create(ctx context.Context, u *domain.CouponUsage) error {
	query := `
		INSERT INTO coupon_usages (id, coupon_id, user_id, product_id)
		VALUES ($1, $2, $3, $4)
		RETURNING used_at
	`

	err := r.db.QueryRowxContext(ctx, query, u.ID, u.CouponID, u.UserID, u.ProductID).Scan(&u.UsedAt)
	return mapError(err, "create coupon usage")
}

func (r *couponUsageRepository) Update(ctx context.Context, u *domain.CouponUsage) error {
	query := `
		UPDATE coupon_usages SET coupon_id = $2, user_id = $3, product_id = $4
		WHERE id = $1
		RETURNING used_at
	`

	err := r.db.QueryRowxContext(ctx, query, u.ID, u.CouponID, u.UserID, u.ProductID).Scan(&u.UsedAt)
	return mapError(err, "update coupon usage")
}

func (r *couponUsageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, "coupon_usages", id)
}

func (r *couponUsageRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.CouponUsage, error) {
	return findByID[domain.CouponUsage](ctx, r.db, "coupon_usages", id)
}

func (r *couponUsageRepository) List(ctx context.Context, params ListParams) ([]domain.CouponUsage, int, error) {
	return list[domain.CouponUsage](ctx, r.db, &couponUsageList, params)
}
