package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MinRating = 1
	MaxRating = 5
)

// ProductReview is a customer's rating and comment on a product
type ProductReview struct {
	ID         uuid.UUID `json:"id" db:"id"`
	ProductID  uuid.UUID `json:"product_id" db:"product_id"`
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	Rating     int       `json:"rating" db:"rating"`
	IsVerified bool      `json:"is_verified" db:"is_verified"`
	Comment    string    `json:"comment" db:"comment"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// ReviewImage is a photo attached to a review
type ReviewImage struct {
	ID         uuid.UUID `json:"id" db:"id"`
	ReviewID   uuid.UUID `json:"review_id" db:"review_id"`
	Image      string    `json:"image" db:"image"`
	UploadedAt time.Time `json:"uploaded_at" db:"uploaded_at"`
}

// ProductImage is a gallery image of a product; at most one per product is main
type ProductImage struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Image     string    `json:"image" db:"image"`
	IsMain    bool      `json:"is_main" db:"is_main"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ProductShipping describes one shipping method offered for a product
type ProductShipping struct {
	ID                           uuid.UUID       `json:"id" db:"id"`
	ProductID                    uuid.UUID       `json:"product_id" db:"product_id"`
	ShippingMethod               string          `json:"shipping_method" db:"shipping_method"`
	LocalShippingCost            decimal.Decimal `json:"local_shipping_cost" db:"local_shipping_cost"`
	RegionalShippingCost         decimal.Decimal `json:"regional_shipping_cost" db:"regional_shipping_cost"`
	NationalShippingCost         decimal.Decimal `json:"national_shipping_cost" db:"national_shipping_cost"`
	ShippingCostMultiplyQuantity bool            `json:"shipping_cost_multiply_quantity" db:"shipping_cost_multiply_quantity"`
	EstimatedDeliveryTime        string          `json:"estimated_delivery_time" db:"estimated_delivery_time"`
	AdditionalShippingInfo       string          `json:"additional_shipping_info" db:"additional_shipping_info"`
	CreatedAt                    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt                    time.Time       `json:"updated_at" db:"updated_at"`
}
