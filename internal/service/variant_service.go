package service

import (
	"context"
	"fmt"

	"catalog-inventory/internal/domain"
	"catalog-inventory/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PriceChange is a manual entry in a variant's price history. A nil OldPrice
// means the variant's current price.
type PriceChange struct {
	ProductVariantID uuid.UUID
	OldPrice         *decimal.Decimal
	NewPrice         decimal.Decimal
}

// VariantService manages variants and their price audit trail
type VariantService interface {
	CreateVariant(ctx context.Context, variant *domain.ProductVariant) error
	UpdateVariant(ctx context.Context, variant *domain.ProductVariant) error
	DeleteVariant(ctx context.Context, id uuid.UUID) error
	GetVariant(ctx context.Context, id uuid.UUID) (*domain.ProductVariant, error)
	ListVariants(ctx context.Context, params repository.ListParams) ([]domain.ProductVariant, int, error)

	RecordPriceChange(ctx context.Context, change PriceChange) (*domain.PriceHistory, error)
	UpdatePriceHistory(ctx context.Context, entry *domain.PriceHistory) error
	DeletePriceHistory(ctx context.Context, id uuid.UUID) error
	GetPriceHistory(ctx context.Context, id uuid.UUID) (*domain.PriceHistory, error)
	ListPriceHistory(ctx context.Context, params repository.ListParams) ([]domain.PriceHistory, int, error)
}

type variantService struct {
	Deps
}

// NewVariantService creates a new instance of VariantService
func NewVariantService(deps Deps) VariantService {
	return &variantService{Deps: deps}
}

// CreateVariant never writes price history.
func (s *variantService) CreateVariant(ctx context.Context, v *domain.ProductVariant) error {
	v.Price = domain.RoundMoney(v.Price)
	v.ID = uuid.New()
	return s.Store.Repos().Variants.Create(ctx, v)
}

// UpdateVariant records a price history row when the requested price differs
// from the stored one at stored precision, then writes the remaining fields.
func (s *variantService) UpdateVariant(ctx context.Context, v *domain.ProductVariant) error {
	v.Price = domain.RoundMoney(v.Price)
	return s.Store.WithinTx(ctx, func(r *repository.Repositories) error {
		stored, err := r.Variants.FindByIDForUpdate(ctx, v.ID)
		if err != nil {
			return err
		}
		if !stored.Price.Equal(v.Price) {
			if _, err := s.applyPrice(ctx, r, stored, stored.Price, v.Price); err != nil {
				return err
			}
		}
		return r.Variants.Update(ctx, v)
	})
}

// applyPrice is the only writer of price history. The variant row must
// already be locked by the caller.
func (s *variantService) applyPrice(ctx context.Context, r *repository.Repositories, v *domain.ProductVariant, oldPrice, newPrice decimal.Decimal) (*domain.PriceHistory, error) {
	entry := &domain.PriceHistory{
		ID:               uuid.New(),
		ProductVariantID: v.ID,
		OldPrice:         oldPrice,
		NewPrice:         newPrice,
	}
	if err := r.PriceHistory.Create(ctx, entry); err != nil {
		return nil, err
	}
	if err := r.Variants.UpdatePrice(ctx, v.ID, newPrice); err != nil {
		return nil, fmt.Errorf("failed to apply price: %w", err)
	}
	v.Price = newPrice

	s.Metrics.RecordPriceChange()
	s.Logger.Info("Variant price changed",
		zap.String("variant_id", v.ID.String()),
		zap.String("old_price", oldPrice.StringFixed(2)),
		zap.String("new_price", newPrice.StringFixed(2)),
	)
	return entry, nil
}

func (s *variantService) DeleteVariant(ctx context.Context, id uuid.UUID) error {
	return s.Store.Repos().Variants.Delete(ctx, id)
}

func (s *variantService) GetVariant(ctx context.Context, id uuid.UUID) (*domain.ProductVariant, error) {
	return s.Store.Repos().Variants.FindByID(ctx, id)
}

func (s *variantService) ListVariants(ctx context.Context, params repository.ListParams) ([]domain.ProductVariant, int, error) {
	return s.Store.Repos().Variants.List(ctx, params)
}

// RecordPriceChange writes one history row and moves the variant to the new price.
func (s *variantService) RecordPriceChange(ctx context.Context, change PriceChange) (*domain.PriceHistory, error) {
	var entry *domain.PriceHistory
	err := s.Store.WithinTx(ctx, func(r *repository.Repositories) error {
		v, err := r.Variants.FindByIDForUpdate(ctx, change.ProductVariantID)
		if err != nil {
			return parentMissing(err, "product variant")
		}

		oldPrice := v.Price
		if change.OldPrice != nil {
			oldPrice = domain.RoundMoney(*change.OldPrice)
		}

		entry, err = s.applyPrice(ctx, r, v, oldPrice, domain.RoundMoney(change.NewPrice))
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// UpdatePriceHistory always fails: history rows are immutable.
func (s *variantService) UpdatePriceHistory(ctx context.Context, entry *domain.PriceHistory) error {
	if _, err := s.Store.Repos().PriceHistory.FindByID(ctx, entry.ID); err != nil {
		return err
	}
	return fmt.Errorf("%w: price history", ErrImmutable)
}

// DeletePriceHistory removes the row without touching the variant's price.
func (s *variantService) DeletePriceHistory(ctx context.Context, id uuid.UUID) error {
	return s.Store.Repos().PriceHistory.Delete(ctx, id)
}

func (s *variantService) GetPriceHistory(ctx context.Context, id uuid.UUID) (*domain.PriceHistory, error) {
	return s.Store.Repos().PriceHistory.FindByID(ctx, id)
}

func (s *variantService) ListPriceHistory(ctx context.Context, params repository.ListParams) ([]domain.PriceHistory, int, error) {
	return s.Store.Repos().PriceHistory.List(ctx, params)
}
