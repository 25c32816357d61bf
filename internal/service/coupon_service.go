package service

import (
	"context"
	"strings"

	"catalog-inventory/internal/domain"
	"catalog-inventory/internal/repository"

	"github.com/google/uuid"
)

// CouponService manages coupons, their product sets and redemptions
type CouponService interface {
	CreateCoupon(ctx context.Context, coupon *domain.Coupon) error
	UpdateCoupon(ctx context.Context, coupon *domain.Coupon) error
	DeleteCoupon(ctx context.Context, id uuid.UUID) error
	GetCoupon(ctx context.Context, id uuid.UUID) (*domain.Coupon, error)
	ListCoupons(ctx context.Context, params repository.ListParams) ([]domain.Coupon, int, error)

	CreateUsage(ctx context.Context, usage *domain.CouponUsage) error
	UpdateUsage(ctx context.Context, usage *domain.CouponUsage) error
	DeleteUsage(ctx context.Context, id uuid.UUID) error
	GetUsage(ctx context.Context, id uuid.UUID) (*domain.CouponUsage, error)
	ListUsages(ctx context.Context, params repository.ListParams) ([]domain.CouponUsage, int, error)
}

type couponService struct {
	Deps
}

// NewCouponService creates a new instance of CouponService
func NewCouponService(deps Deps) CouponService {
	return &couponService{Deps: deps}
}

func validateCoupon(c *domain.Coupon) error {
	c.Code = strings.TrimSpace(c.Code)
	c.DiscountValue = domain.RoundMoney(c.DiscountValue)
	if c.Code == "" {
		return invalidInput("code", "is required")
	}
	if !c.DiscountType.Valid() {
		return invalidInput("discount_type", "must be fixed or percent")
	}
	if c.DiscountValue.IsNegative() {
		return invalidInput("discount_value", "must not be negative")
	}
	if c.ValidTo.Before(c.ValidFrom) {
		return invalidInput("valid_to", "must not be before valid_from")
	}
	return nil
}

// CreateCoupon stores the coupon and its product links together.
func (s *couponService) CreateCoupon(ctx context.Context, c *domain.Coupon) error {
	if err := validateCoupon(c); err != nil {
		return err
	}
	c.ID = uuid.New()
	return s.Store.WithinTx(ctx, func(r *repository.Repositories) error {
		return r.Coupons.Create(ctx, c)
	})
}

// UpdateCoupon replaces the coupon's product set with the one given.
func (s *couponService) UpdateCoupon(ctx context.Context, c *domain.Coupon) error {
	if err := validateCoupon(c); err != nil {
		return err
	}
	return s.Store.WithinTx(ctx, func(r *repository.Repositories) error {
		return r.Coupons.Update(ctx, c)
	})
}

func (s *couponService) DeleteCoupon(ctx context.Context, id uuid.UUID) error {
	return s.Store.Repos().Coupons.Delete(ctx, id)
}

func (s *couponService) GetCoupon(ctx context.Context, id uuid.UUID) (*domain.Coupon, error) {
	return s.Store.Repos().Coupons.FindByID(ctx, id)
}

func (s *couponService) ListCoupons(ctx context.Context, params repository.ListParams) ([]domain.Coupon, int, error) {
	return s.Store.Repos().Coupons.List(ctx, params)
}

func (s *couponService) CreateUsage(ctx context.Context, u *domain.CouponUsage) error {
	u.ID = uuid.New()
	return s.Store.Repos().CouponUsages.Create(ctx, u)
}

func (s *couponService) UpdateUsage(ctx context.Context, u *domain.CouponUsage) error {
	return s.Store.Repos().CouponUsages.Update(ctx, u)
}

func (s *couponService) DeleteUsage(ctx context.Context, id uuid.UUID) error {
	return s.Store.Repos().CouponUsages.Delete(ctx, id)
}

func (s *couponService) GetUsage(ctx context.Context, id uuid.UUID) (*domain.CouponUsage, error) {
	return s.Store.Repos().CouponUsages.FindByID(ctx, id)
}

func (s *couponService) ListUsages(ctx context.Context, params repository.ListParams) ([]domain.CouponUsage, int, error) {
	return s.Store.Repos().CouponUsages.List(ctx, params)
}
