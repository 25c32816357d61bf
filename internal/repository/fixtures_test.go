package repository

import (
	"context"
	"testing"

	"catalog-inventory/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func seedCategory(t *testing.T, name string) *domain.Category {
	t.Helper()
	c := &domain.Category{ID: uuid.New(), Name: name, Slug: domain.Slugify(name) + "-" + uuid.NewString()[:6]}
	if err := testStore.Repos().Categories.Create(context.Background(), c); err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}
	return c
}

func seedProduct(t *testing.T, name string) *domain.Product {
	t.Helper()
	category := seedCategory(t, name+" category")
	p := &domain.Product{ID: uuid.New(), Name: name, CategoryID: category.ID}
	p.EnsureIdentifiers()
	p.Slug += "-" + uuid.NewString()[:6]
	if err := testStore.Repos().Products.Create(context.Background(), p); err != nil {
		t.Fatalf("Failed to create product: %v", err)
	}
	return p
}

func seedVariant(t *testing.T, product *domain.Product, price string) *domain.ProductVariant {
	t.Helper()
	v := &domain.ProductVariant{
		ID:        uuid.New(),
		ProductID: product.ID,
		Name:      "Default",
		SKU:       domain.GenerateSKU(),
		Price:     decimal.RequireFromString(price),
	}
	if err := testStore.Repos().Variants.Create(context.Background(), v); err != nil {
		t.Fatalf("Failed to create variant: %v", err)
	}
	return v
}

func seedUser(t *testing.T) *domain.User {
	t.Helper()
	u := &domain.User{
		ID:           uuid.New(),
		Username:     "user-" + uuid.NewString()[:8],
		PasswordHash: "hash",
		Role:         domain.RoleCustomer,
	}
	u.Email = u.Username + "@example.com"
	if err := testStore.Repos().Users.Create(context.Background(), u); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return u
}
