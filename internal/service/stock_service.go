package service

import (
	"bytes"
	"context"
	"sort"

	"catalog-inventory/internal/domain"
	"catalog-inventory/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StockService keeps variant stock in step with the inventory ledger
type StockService interface {
	RecordTransaction(ctx context.Context, txn *domain.InventoryTransaction) error
	UpdateTransaction(ctx context.Context, txn *domain.InventoryTransaction) error
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*domain.InventoryTransaction, error)
	ListTransactions(ctx context.Context, params repository.ListParams) ([]domain.InventoryTransaction, int, error)
}

type stockService struct {
	Deps
}

// NewStockService creates a new instance of StockService
func NewStockService(deps Deps) StockService {
	return &stockService{Deps: deps}
}

func validateTransaction(txn *domain.InventoryTransaction) error {
	if !txn.TransactionType.Valid() {
		return invalidInput("transaction_type", "must be IN or OUT")
	}
	if txn.Quantity < 0 {
		return invalidInput("quantity", "must not be negative")
	}
	return nil
}

// RecordTransaction applies the movement to the variant's stock exactly once
// and stores the ledger entry.
func (s *stockService) RecordTransaction(ctx context.Context, txn *domain.InventoryTransaction) error {
	if err := validateTransaction(txn); err != nil {
		return err
	}

	txn.ID = uuid.New()
	return s.Store.WithinTx(ctx, func(r *repository.Repositories) error {
		if _, err := r.Variants.FindByIDForUpdate(ctx, txn.ProductVariantID); err != nil {
			return parentMissing(err, "product variant")
		}
		if err := s.adjust(ctx, r, txn.ProductVariantID, txn.TransactionType, txn.StockDelta()); err != nil {
			return err
		}
		return r.Transactions.Create(ctx, txn)
	})
}

// UpdateTransaction reverses the stored entry and applies the new one, which
// may point at a different variant.
func (s *stockService) UpdateTransaction(ctx context.Context, txn *domain.InventoryTransaction) error {
	if err := validateTransaction(txn); err != nil {
		return err
	}

	return s.Store.WithinTx(ctx, func(r *repository.Repositories) error {
		stored, err := r.Transactions.FindByIDForUpdate(ctx, txn.ID)
		if err != nil {
			return err
		}

		// lock both variants in a fixed order
		for _, id := range lockOrder(stored.ProductVariantID, txn.ProductVariantID) {
			if _, err := r.Variants.FindByIDForUpdate(ctx, id); err != nil {
				return parentMissing(err, "product variant")
			}
		}

		if err := s.adjust(ctx, r, stored.ProductVariantID, stored.TransactionType, -stored.StockDelta()); err != nil {
			return err
		}
		if err := s.adjust(ctx, r, txn.ProductVariantID, txn.TransactionType, txn.StockDelta()); err != nil {
			return err
		}
		return r.Transactions.Update(ctx, txn)
	})
}

// DeleteTransaction reverses the entry's effect before removing it.
func (s *stockService) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	return s.Store.WithinTx(ctx, func(r *repository.Repositories) error {
		stored, err := r.Transactions.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if _, err := r.Variants.FindByIDForUpdate(ctx, stored.ProductVariantID); err != nil {
			return err
		}
		if err := s.adjust(ctx, r, stored.ProductVariantID, stored.TransactionType, -stored.StockDelta()); err != nil {
			return err
		}
		return r.Transactions.Delete(ctx, id)
	})
}

func (s *stockService) adjust(ctx context.Context, r *repository.Repositories, variantID uuid.UUID, kind domain.TransactionType, delta int) error {
	if delta == 0 {
		return nil
	}
	stock, err := r.Variants.AdjustStock(ctx, variantID, delta)
	if err != nil {
		return err
	}

	s.Metrics.RecordStockAdjustment(string(kind))
	s.Logger.Info("Variant stock adjusted",
		zap.String("variant_id", variantID.String()),
		zap.String("transaction_type", string(kind)),
		zap.Int("delta", delta),
		zap.Int("stock_quantity", stock),
	)
	return nil
}

func lockOrder(a, b uuid.UUID) []uuid.UUID {
	if a == b {
		return []uuid.UUID{a}
	}
	ids := []uuid.UUID{a, b}
	sort.Slice(ids, func(i, j int) bool { return bytes.Compare(ids[i][:], ids[j][:]) < 0 })
	return ids
}

func (s *stockService) GetTransaction(ctx context.Context, id uuid.UUID) (*domain.InventoryTransaction, error) {
	return s.Store.Repos().Transactions.FindByID(ctx, id)
}

func (s *stockService) ListTransactions(ctx context.Context, params repository.ListParams) ([]domain.InventoryTransaction, int, error) {
	return s.Store.Repos().Transactions.List(ctx, params)
}
