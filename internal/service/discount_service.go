package service

import (
	"context"

	"catalog-inventory/internal/domain"
	"catalog-inventory/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DiscountService manages discounts and their audit trail
type DiscountService interface {
	CreateDiscount(ctx context.Context, discount *domain.Discount) error
	UpdateDiscount(ctx context.Context, discount *domain.Discount) error
	DeleteDiscount(ctx context.Context, id uuid.UUID) error
	GetDiscount(ctx context.Context, id uuid.UUID) (*domain.Discount, error)
	ListDiscounts(ctx context.Context, params repository.ListParams) ([]domain.Discount, int, error)

	CreateHistory(ctx context.Context, entry *domain.DiscountHistory) error
	UpdateHistory(ctx context.Context, entry *domain.DiscountHistory) error
	DeleteHistory(ctx context.Context, id uuid.UUID) error
	GetHistory(ctx context.Context, id uuid.UUID) (*domain.DiscountHistory, error)
	ListHistory(ctx context.Context, params repository.ListParams) ([]domain.DiscountHistory, int, error)
}

type discountService struct {
	Deps
}

// NewDiscountService creates a new instance of DiscountService
func NewDiscountService(deps Deps) DiscountService {
	return &discountService{Deps: deps}
}

func validateDiscount(d *domain.Discount) error {
	d.DiscountValue = domain.RoundMoney(d.DiscountValue)
	if !d.DiscountType.Valid() {
		return invalidInput("discount_type", "must be fixed or percent")
	}
	if d.DiscountValue.IsNegative() {
		return invalidInput("discount_value", "must not be negative")
	}
	if d.EndDate.Before(d.StartDate) {
		return invalidInput("end_date", "must not be before start_date")
	}
	return nil
}

// CreateDiscount writes no history.
func (s *discountService) CreateDiscount(ctx context.Context, d *domain.Discount) error {
	if err := validateDiscount(d); err != nil {
		return err
	}
	d.ID = uuid.New()
	return s.Store.Repos().Discounts.Create(ctx, d)
}

// UpdateDiscount snapshots the old and new terms when type or value change.
func (s *discountService) UpdateDiscount(ctx context.Context, d *domain.Discount) error {
	if err := validateDiscount(d); err != nil {
		return err
	}

	return s.Store.WithinTx(ctx, func(r *repository.Repositories) error {
		stored, err := r.Discounts.FindByIDForUpdate(ctx, d.ID)
		if err != nil {
			return err
		}

		if d.TermsChanged(stored) {
			entry := &domain.DiscountHistory{
				ID:               uuid.New(),
				DiscountID:       d.ID,
				OldDiscountType:  stored.DiscountType,
				OldDiscountValue: stored.DiscountValue,
				NewDiscountType:  d.DiscountType,
				NewDiscountValue: d.DiscountValue,
			}
			if err := r.DiscountHistory.Create(ctx, entry); err != nil {
				return err
			}
			s.Metrics.RecordDiscountChange()
			s.Logger.Info("Discount terms changed",
				zap.String("discount_id", d.ID.String()),
				zap.String("old_type", string(stored.DiscountType)),
				zap.String("new_type", string(d.DiscountType)),
				zap.String("old_value", stored.DiscountValue.String()),
				zap.String("new_value", d.DiscountValue.String()),
			)
		}

		return r.Discounts.Update(ctx, d)
	})
}

// DeleteDiscount removes the discount's history rows, then the discount.
func (s *discountService) DeleteDiscount(ctx context.Context, id uuid.UUID) error {
	var removed int64
	err := s.Store.WithinTx(ctx, func(r *repository.Repositories) error {
		if _, err := r.Discounts.FindByIDForUpdate(ctx, id); err != nil {
			return err
		}
		n, err := r.DiscountHistory.DeleteByDiscount(ctx, id)
		if err != nil {
			return err
		}
		removed = n
		return r.Discounts.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.Metrics.RecordHistoryCleanup(removed)
	s.Logger.Info("Discount deleted",
		zap.String("discount_id", id.String()),
		zap.Int64("history_removed", removed),
	)
	return nil
}

func (s *discountService) GetDiscount(ctx context.Context, id uuid.UUID) (*domain.Discount, error) {
	return s.Store.Repos().Discounts.FindByID(ctx, id)
}

func (s *discountService) ListDiscounts(ctx context.Context, params repository.ListParams) ([]domain.Discount, int, error) {
	return s.Store.Repos().Discounts.List(ctx, params)
}

func (s *discountService) CreateHistory(ctx context.Context, h *domain.DiscountHistory) error {
	roundHistory(h)
	h.ID = uuid.New()
	return s.Store.Repos().DiscountHistory.Create(ctx, h)
}

func (s *discountService) UpdateHistory(ctx context.Context, h *domain.DiscountHistory) error {
	roundHistory(h)
	return s.Store.Repos().DiscountHistory.Update(ctx, h)
}

func roundHistory(h *domain.DiscountHistory) {
	h.OldDiscountValue = domain.RoundMoney(h.OldDiscountValue)
	h.NewDiscountValue = domain.RoundMoney(h.NewDiscountValue)
}

func (s *discountService) DeleteHistory(ctx context.Context, id uuid.UUID) error {
	return s.Store.Repos().DiscountHistory.Delete(ctx, id)
}

func (s *discountService) GetHistory(ctx context.Context, id uuid.UUID) (*domain.DiscountHistory, error) {
	return s.Store.Repos().DiscountHistory.FindByID(ctx, id)
}

func (s *discountService) ListHistory(ctx context.Context, params repository.ListParams) ([]domain.DiscountHistory, int, error) {
	return s.Store.Repos().DiscountHistory.List(ctx, params)
}
