package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Repositories groups every repository bound to one query handle, either the
// pool or an open transaction.
type Repositories struct {
	Categories      CategoryRepository
	Subcategories   SubcategoryRepository
	Products        ProductRepository
	Shipping        ShippingRepository
	ProductImages   ProductImageRepository
	Variants        VariantRepository
	PriceHistory    PriceHistoryRepository
	Transactions    InventoryTransactionRepository
	Reviews         ReviewRepository
	ReviewImages    ReviewImageRepository
	Discounts       DiscountRepository
	DiscountHistory DiscountHistoryRepository
	Coupons         CouponRepository
	CouponUsages    CouponUsageRepository
	Users           UserRepository
	RefreshTokens   RefreshTokenRepository
}

func newRepositories(q sqlx.ExtContext) *Repositories {
	return &Repositories{
		Categories:      NewCategoryRepository(q),
		Subcategories:   NewSubcategoryRepository(q),
		Products:        NewProductRepository(q),
		Shipping:        NewShippingRepository(q),
		ProductImages:   NewProductImageRepository(q),
		Variants:        NewVariantRepository(q),
		PriceHistory:    NewPriceHistoryRepository(q),
		Transactions:    NewInventoryTransactionRepository(q),
		Reviews:         NewReviewRepository(q),
		ReviewImages:    NewReviewImageRepository(q),
		Discounts:       NewDiscountRepository(q),
		DiscountHistory: NewDiscountHistoryRepository(q),
		Coupons:         NewCouponRepository(q),
		CouponUsages:    NewCouponUsageRepository(q),
		Users:           NewUserRepository(q),
		RefreshTokens:   NewRefreshTokenRepository(q),
	}
}

// Store hands out repositories and runs units of work in a transaction
type Store struct {
	db    *sqlx.DB
	repos *Repositories
}

// NewStore creates a Store over the connection pool
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db, repos: newRepositories(db)}
}

// Repos returns repositories that run each statement on the pool.
func (s *Store) Repos() *Repositories {
	return s.repos
}

// WithinTx runs fn with repositories bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) WithinTx(ctx context.Context, fn func(r *Repositories) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(newRepositories(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
