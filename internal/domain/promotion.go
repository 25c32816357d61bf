package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountType selects how a discount or coupon value is applied
type DiscountType string

const (
	DiscountFixed   DiscountType = "fixed"
	DiscountPercent DiscountType = "percent"
)

// Valid reports whether t is a known discount type.
func (t DiscountType) Valid() bool {
	return t == DiscountFixed || t == DiscountPercent
}

// Discount is a time-boxed price reduction on a variant
type Discount struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	ProductVariantID uuid.UUID       `json:"product_variant_id" db:"product_variant_id"`
	DiscountType     DiscountType    `json:"discount_type" db:"discount_type"`
	DiscountValue    decimal.Decimal `json:"discount_value" db:"discount_value"`
	StartDate        time.Time       `json:"start_date" db:"start_date"`
	EndDate          time.Time       `json:"end_date" db:"end_date"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}

// TermsChanged reports whether d applies a different type or value than prev.
func (d *Discount) TermsChanged(prev *Discount) bool {
	return d.DiscountType != prev.DiscountType || !d.DiscountValue.Equal(prev.DiscountValue)
}

// DiscountHistory snapshots one change of a discount's terms
type DiscountHistory struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	DiscountID       uuid.UUID       `json:"discount_id" db:"discount_id"`
	AppliedAt        time.Time       `json:"applied_at" db:"applied_at"`
	OldDiscountType  DiscountType    `json:"old_discount_type" db:"old_discount_type"`
	OldDiscountValue decimal.Decimal `json:"old_discount_value" db:"old_discount_value"`
	NewDiscountType  DiscountType    `json:"new_discount_type" db:"new_discount_type"`
	NewDiscountValue decimal.Decimal `json:"new_discount_value" db:"new_discount_value"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}

// Coupon is a redeemable code, optionally restricted to a set of products
type Coupon struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	Code          string          `json:"code" db:"code"`
	DiscountType  DiscountType    `json:"discount_type" db:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value" db:"discount_value"`
	ValidFrom     time.Time       `json:"valid_from" db:"valid_from"`
	ValidTo       time.Time       `json:"valid_to" db:"valid_to"`
	Active        bool            `json:"active" db:"active"`
	ProductIDs    []uuid.UUID     `json:"product_ids" db:"-"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// IsValidAt reports whether the coupon is active and inside its validity window at t.
func (c *Coupon) IsValidAt(t time.Time) bool {
	return c.Active && !t.Before(c.ValidFrom) && !t.After(c.ValidTo)
}

// CouponUsage records one redemption of a coupon by a user
type CouponUsage struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	CouponID  uuid.UUID  `json:"coupon_id" db:"coupon_id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	ProductID *uuid.UUID `json:"product_id" db:"product_id"`
	UsedAt    time.Time  `json:"used_at" db:"used_at"`
}
