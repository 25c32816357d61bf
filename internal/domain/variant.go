package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a stock movement
type TransactionType string

const (
	TransactionIn  TransactionType = "IN"
	TransactionOut TransactionType = "OUT"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TransactionIn || t == TransactionOut
}

// Delta returns the signed stock change for quantity units moved in direction t.
func (t TransactionType) Delta(quantity int) int {
	switch t {
	case TransactionIn:
		return quantity
	case TransactionOut:
		return -quantity
	default:
		return 0
	}
}

// MoneyPlaces is the scale of every monetary column
const MoneyPlaces = 2

// RoundMoney rounds d to the scale the database stores.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// ProductVariant is a sellable variation of a product with its own price and stock
type ProductVariant struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	ProductID     uuid.UUID       `json:"product_id" db:"product_id"`
	Name          string          `json:"name" db:"name"`
	SKU           string          `json:"sku" db:"sku"`
	Price         decimal.Decimal `json:"price" db:"price"`
	StockQuantity int             `json:"stock_quantity" db:"stock_quantity"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// PriceHistory is an immutable record of one variant price change
type PriceHistory struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	ProductVariantID uuid.UUID       `json:"product_variant_id" db:"product_variant_id"`
	OldPrice         decimal.Decimal `json:"old_price" db:"old_price"`
	NewPrice         decimal.Decimal `json:"new_price" db:"new_price"`
	ChangedAt        time.Time       `json:"changed_at" db:"changed_at"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}

// InventoryTransaction is one entry of a variant's stock ledger
type InventoryTransaction struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	ProductVariantID uuid.UUID       `json:"product_variant_id" db:"product_variant_id"`
	TransactionType  TransactionType `json:"transaction_type" db:"transaction_type"`
	Quantity         int             `json:"quantity" db:"quantity"`
	Description      string          `json:"description" db:"description"`
	TransactionDate  time.Time       `json:"transaction_date" db:"transaction_date"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}

// StockDelta returns the signed effect of the transaction on stock.
func (t *InventoryTransaction) StockDelta() int {
	return t.TransactionType.Delta(t.Quantity)
}
