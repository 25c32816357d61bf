package transport

import (
	"time"

	"catalog-inventory/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request bodies of the admin routes. Each carries exactly the editable
// fields of its entity; identifiers and timestamps come from the URL and the
// database.

type categoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Slug        string `json:"slug" validate:"max=100"`
	Description string `json:"description"`
	domain.SEO
}

func (req categoryRequest) model(id uuid.UUID) *domain.Category {
	return &domain.Category{
		ID:          id,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		SEO:         req.SEO,
	}
}

type subcategoryRequest struct {
	CategoryID  uuid.UUID `json:"category_id" validate:"required"`
	Name        string    `json:"name" validate:"required,max=100"`
	Slug        string    `json:"slug" validate:"max=100"`
	Description string    `json:"description"`
	domain.SEO
}

func (req subcategoryRequest) model(id uuid.UUID) *domain.Subcategory {
	return &domain.Subcategory{
		ID:          id,
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		SEO:         req.SEO,
	}
}

type productRequest struct {
	Name          string     `json:"name" validate:"required,max=255"`
	Slug          string     `json:"slug" validate:"max=255"`
	SKU           string     `json:"sku" validate:"max=100"`
	Description   string     `json:"description"`
	CategoryID    uuid.UUID  `json:"category_id" validate:"required"`
	SubcategoryID *uuid.UUID `json:"subcategory_id"`
	StockQuantity int        `json:"stock_quantity"`
	Tax           float64    `json:"tax" validate:"gte=0"`
	domain.SEO
}

func (req productRequest) model(id uuid.UUID) *domain.Product {
	return &domain.Product{
		ID:            id,
		Name:          req.Name,
		Slug:          req.Slug,
		SKU:           req.SKU,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		SubcategoryID: req.SubcategoryID,
		StockQuantity: req.StockQuantity,
		Tax:           req.Tax,
		SEO:           req.SEO,
	}
}

type variantRequest struct {
	ProductID     uuid.UUID       `json:"product_id" validate:"required"`
	Name          string          `json:"name" validate:"required,max=100"`
	SKU           string          `json:"sku" validate:"required,max=100"`
	Price         *decimal.Decimal `json:"price" validate:"required,gte=0,decimal2"`
	StockQuantity int             `json:"stock_quantity"`
}

func (req variantRequest) model(id uuid.UUID) *domain.ProductVariant {
	return &domain.ProductVariant{
		ID:            id,
		ProductID:     req.ProductID,
		Name:          req.Name,
		SKU:           req.SKU,
		Price:         *req.Price,
		StockQuantity: req.StockQuantity,
	}
}

type reviewRequest struct {
	ProductID  uuid.UUID `json:"product_id" validate:"required"`
	UserID     uuid.UUID `json:"user_id" validate:"required"`
	Rating     int       `json:"rating" validate:"gte=1,lte=5"`
	IsVerified bool      `json:"is_verified"`
	Comment    string    `json:"comment"`
}

func (req reviewRequest) model(id uuid.UUID) *domain.ProductReview {
	return &domain.ProductReview{
		ID:         id,
		ProductID:  req.ProductID,
		UserID:     req.UserID,
		Rating:     req.Rating,
		IsVerified: req.IsVerified,
		Comment:    req.Comment,
	}
}

type shippingRequest struct {
	ProductID                    uuid.UUID       `json:"product_id" validate:"required"`
	ShippingMethod               string          `json:"shipping_method" validate:"required,max=100"`
	LocalShippingCost            decimal.Decimal `json:"local_shipping_cost" validate:"gte=0,decimal2"`
	RegionalShippingCost         decimal.Decimal `json:"regional_shipping_cost" validate:"gte=0,decimal2"`
	NationalShippingCost         decimal.Decimal `json:"national_shipping_cost" validate:"gte=0,decimal2"`
	ShippingCostMultiplyQuantity bool            `json:"shipping_cost_multiply_quantity"`
	EstimatedDeliveryTime        string          `json:"estimated_delivery_time" validate:"max=100"`
	AdditionalShippingInfo       string          `json:"additional_shipping_info"`
}

func (req shippingRequest) model(id uuid.UUID) *domain.ProductShipping {
	return &domain.ProductShipping{
		ID:                           id,
		ProductID:                    req.ProductID,
		ShippingMethod:               req.ShippingMethod,
		LocalShippingCost:            req.LocalShippingCost,
		RegionalShippingCost:         req.RegionalShippingCost,
		NationalShippingCost:         req.NationalShippingCost,
		ShippingCostMultiplyQuantity: req.ShippingCostMultiplyQuantity,
		EstimatedDeliveryTime:        req.EstimatedDeliveryTime,
		AdditionalShippingInfo:       req.AdditionalShippingInfo,
	}
}

// productImageRequest edits an image's metadata; the file itself is only
// set by the multipart upload.
type productImageRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	IsMain    bool      `json:"is_main"`
}

func (req productImageRequest) model(id uuid.UUID) *domain.ProductImage {
	return &domain.ProductImage{ID: id, ProductID: req.ProductID, IsMain: req.IsMain}
}

type reviewImageRequest struct {
	ReviewID uuid.UUID `json:"review_id" validate:"required"`
}

func (req reviewImageRequest) model(id uuid.UUID) *domain.ReviewImage {
	return &domain.ReviewImage{ID: id, ReviewID: req.ReviewID}
}

type discountRequest struct {
	ProductVariantID uuid.UUID       `json:"product_variant_id" validate:"required"`
	DiscountType     string          `json:"discount_type" validate:"required,oneof=fixed percent"`
	DiscountValue    decimal.Decimal `json:"discount_value" validate:"gte=0,decimal2"`
	StartDate        time.Time       `json:"start_date" validate:"required"`
	EndDate          time.Time       `json:"end_date" validate:"required"`
}

func (req discountRequest) model(id uuid.UUID) *domain.Discount {
	return &domain.Discount{
		ID:               id,
		ProductVariantID: req.ProductVariantID,
		DiscountType:     domain.DiscountType(req.DiscountType),
		DiscountValue:    req.DiscountValue,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
	}
}

type discountHistoryRequest struct {
	DiscountID       uuid.UUID       `json:"discount_id" validate:"required"`
	OldDiscountType  string          `json:"old_discount_type" validate:"required,oneof=fixed percent"`
	OldDiscountValue decimal.Decimal `json:"old_discount_value" validate:"gte=0,decimal2"`
	NewDiscountType  string          `json:"new_discount_type" validate:"required,oneof=fixed percent"`
	NewDiscountValue decimal.Decimal `json:"new_discount_value" validate:"gte=0,decimal2"`
}

func (req discountHistoryRequest) model(id uuid.UUID) *domain.DiscountHistory {
	return &domain.DiscountHistory{
		ID:               id,
		DiscountID:       req.DiscountID,
		OldDiscountType:  domain.DiscountType(req.OldDiscountType),
		OldDiscountValue: req.OldDiscountValue,
		NewDiscountType:  domain.DiscountType(req.NewDiscountType),
		NewDiscountValue: req.NewDiscountValue,
	}
}

// priceHistoryRequest records a price change. Without old_price the
// variant's current price is used.
type priceHistoryRequest struct {
	ProductVariantID uuid.UUID        `json:"product_variant_id" validate:"required"`
	OldPrice         *decimal.Decimal `json:"old_price" validate:"omitempty,gte=0,decimal2"`
	NewPrice         decimal.Decimal  `json:"new_price" validate:"gte=0,decimal2"`
}

func (req priceHistoryRequest) model(id uuid.UUID) *domain.PriceHistory {
	entry := &domain.PriceHistory{ID: id, ProductVariantID: req.ProductVariantID, NewPrice: req.NewPrice}
	if req.OldPrice != nil {
		entry.OldPrice = *req.OldPrice
	}
	return entry
}

type transactionRequest struct {
	ProductVariantID uuid.UUID `json:"product_variant_id" validate:"required"`
	TransactionType  string    `json:"transaction_type" validate:"required,oneof=IN OUT"`
	Quantity         int       `json:"quantity" validate:"gte=0"`
	Description      string    `json:"description"`
}

func (req transactionRequest) model(id uuid.UUID) *domain.InventoryTransaction {
	return &domain.InventoryTransaction{
		ID:               id,
		ProductVariantID: req.ProductVariantID,
		TransactionType:  domain.TransactionType(req.TransactionType),
		Quantity:         req.Quantity,
		Description:      req.Description,
	}
}

type couponRequest struct {
	Code          string          `json:"code" validate:"required,max=50"`
	DiscountType  string          `json:"discount_type" validate:"required,oneof=fixed percent"`
	DiscountValue decimal.Decimal `json:"discount_value" validate:"gte=0,decimal2"`
	ValidFrom     time.Time       `json:"valid_from" validate:"required"`
	ValidTo       time.Time       `json:"valid_to" validate:"required,gtefield=ValidFrom"`
	Active        bool            `json:"active"`
	ProductIDs    []uuid.UUID     `json:"product_ids"`
}

func (req couponRequest) model(id uuid.UUID) *domain.Coupon {
	return &domain.Coupon{
		ID:            id,
		Code:          req.Code,
		DiscountType:  domain.DiscountType(req.DiscountType),
		DiscountValue: req.DiscountValue,
		ValidFrom:     req.ValidFrom,
		ValidTo:       req.ValidTo,
		Active:        req.Active,
		ProductIDs:    req.ProductIDs,
	}
}

type couponUsageRequest struct {
	CouponID  uuid.UUID  `json:"coupon_id" validate:"required"`
	UserID    uuid.UUID  `json:"user_id" validate:"required"`
	ProductID *uuid.UUID `json:"product_id"`
}

func (req couponUsageRequest) model(id uuid.UUID) *domain.CouponUsage {
	return &domain.CouponUsage{ID: id, CouponID: req.CouponID, UserID: req.UserID, ProductID: req.ProductID}
}
