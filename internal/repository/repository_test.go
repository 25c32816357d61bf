package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"catalog-inventory/internal/domain"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func TestCategory_TimestampsComeFromDatabase(t *testing.T) {
	ctx := context.Background()
	repo := testStore.Repos().Categories

	c := &domain.Category{ID: uuid.New(), Name: "Shoes", Slug: "shoes-" + uuid.NewString()[:6]}
	if err := repo.Create(ctx, c); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if c.CreatedAt.IsZero() || c.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be returned from insert")
	}

	created := c.CreatedAt
	c.Description = "All kinds of shoes"
	c.CreatedAt = time.Time{}
	if err := repo.Update(ctx, c); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !c.CreatedAt.Equal(created) {
		t.Errorf("created_at changed on update: %v -> %v", created, c.CreatedAt)
	}
	if c.UpdatedAt.Before(created) {
		t.Errorf("updated_at %v precedes created_at %v", c.UpdatedAt, created)
	}

	stored, err := repo.FindByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if stored.Description != "All kinds of shoes" || stored.Slug != c.Slug {
		t.Errorf("unexpected stored category %+v", stored)
	}
}

func TestRepository_ErrorTranslation(t *testing.T) {
	ctx := context.Background()
	repos := testStore.Repos()

	first := seedCategory(t, "Hats")
	dup := &domain.Category{ID: uuid.New(), Name: "Hats again", Slug: first.Slug}
	if err := repos.Categories.Create(ctx, dup); !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict for duplicate slug, got %v", err)
	}

	orphan := &domain.Subcategory{ID: uuid.New(), CategoryID: uuid.New(), Name: "Caps", Slug: "caps-" + uuid.NewString()[:6]}
	if err := repos.Subcategories.Create(ctx, orphan); !errors.Is(err, ErrInvalidReference) {
		t.Errorf("expected ErrInvalidReference for missing category, got %v", err)
	}

	if _, err := repos.Products.FindByID(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := repos.Products.Delete(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on delete, got %v", err)
	}
	if err := repos.Categories.Update(ctx, &domain.Category{ID: uuid.New(), Name: "x", Slug: "x-" + uuid.NewString()}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on update, got %v", err)
	}

	product := seedProduct(t, "Rated thing")
	user := seedUser(t)
	bad := &domain.ProductReview{ID: uuid.New(), ProductID: product.ID, UserID: user.ID, Rating: 6, Comment: "too good"}
	if err := repos.Reviews.Create(ctx, bad); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue for rating 6, got %v", err)
	}
}

func TestVariant_AdjustStockAndPrice(t *testing.T) {
	ctx := context.Background()
	repo := testStore.Repos().Variants
	v := seedVariant(t, seedProduct(t, "Lamp"), "10.00")

	stock, err := repo.AdjustStock(ctx, v.ID, 5)
	if err != nil || stock != 5 {
		t.Fatalf("expected stock 5, got %d err %v", stock, err)
	}
	stock, err = repo.AdjustStock(ctx, v.ID, -8)
	if err != nil || stock != -3 {
		t.Fatalf("expected stock -3, got %d err %v", stock, err)
	}

	if err := repo.UpdatePrice(ctx, v.ID, decimal.RequireFromString("12.50")); err != nil {
		t.Fatalf("update price failed: %v", err)
	}
	stored, err := repo.FindByID(ctx, v.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if !stored.Price.Equal(decimal.RequireFromString("12.50")) || stored.StockQuantity != -3 {
		t.Errorf("unexpected variant %+v", stored)
	}

	if _, err := repo.AdjustStock(ctx, uuid.New(), 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestList_SearchFilterAndPaging(t *testing.T) {
	ctx := context.Background()
	repo := testStore.Repos().Variants

	marker := "zebra" + uuid.NewString()[:6]
	product := seedProduct(t, "Striped "+marker)
	for i := 0; i < 5; i++ {
		seedVariant(t, product, "1.00")
	}
	seedVariant(t, seedProduct(t, "Plain thing"), "1.00")

	// search reaches through the join to the product name
	items, total, err := repo.List(ctx, ListParams{Search: marker, PageSize: 2, Page: 2})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 5 || len(items) != 2 {
		t.Errorf("expected total 5 and page of 2, got %d and %d", total, len(items))
	}

	items, total, err = repo.List(ctx, ListParams{Filters: map[string]string{"product": product.ID.String()}})
	if err != nil {
		t.Fatalf("filtered list failed: %v", err)
	}
	if total != 5 || len(items) != 5 {
		t.Errorf("expected 5 variants for the product, got %d/%d", total, len(items))
	}
	for _, v := range items {
		if v.ProductID != product.ID {
			t.Errorf("variant %s belongs to another product", v.ID)
		}
	}

	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	_, total, err = repo.List(ctx, ListParams{Filters: map[string]string{
		"product":         product.ID.String(),
		"created_at_from": tomorrow,
	}})
	if err != nil || total != 0 {
		t.Errorf("expected no variants created tomorrow, got %d err %v", total, err)
	}
}

func TestCascadeRemovesHistory(t *testing.T) {
	ctx := context.Background()
	repos := testStore.Repos()

	product := seedProduct(t, "Cascade")
	v := seedVariant(t, product, "3.00")
	entry := &domain.PriceHistory{ID: uuid.New(), ProductVariantID: v.ID, OldPrice: v.Price, NewPrice: decimal.RequireFromString("4.00")}
	if err := repos.PriceHistory.Create(ctx, entry); err != nil {
		t.Fatalf("create history failed: %v", err)
	}
	if entry.ChangedAt.IsZero() {
		t.Error("changed_at should be stamped by the database")
	}

	if err := repos.Products.Delete(ctx, product.ID); err != nil {
		t.Fatalf("delete product failed: %v", err)
	}
	if _, err := repos.Variants.FindByID(ctx, v.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("variant should be gone, got %v", err)
	}
	if _, err := repos.PriceHistory.FindByID(ctx, entry.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("price history should be gone, got %v", err)
	}
}

func TestDiscountHistory_DeleteByDiscount(t *testing.T) {
	ctx := context.Background()
	repos := testStore.Repos()

	v := seedVariant(t, seedProduct(t, "Discounted"), "20.00")
	d := &domain.Discount{
		ID: uuid.New(), ProductVariantID: v.ID, DiscountType: domain.DiscountFixed,
		DiscountValue: decimal.RequireFromString("2.00"), StartDate: time.Now(), EndDate: time.Now().Add(time.Hour),
	}
	if err := repos.Discounts.Create(ctx, d); err != nil {
		t.Fatalf("create discount failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		h := &domain.DiscountHistory{
			ID: uuid.New(), DiscountID: d.ID,
			OldDiscountType: domain.DiscountFixed, OldDiscountValue: decimal.NewFromInt(int64(i)),
			NewDiscountType: domain.DiscountPercent, NewDiscountValue: decimal.NewFromInt(int64(i + 1)),
		}
		if err := repos.DiscountHistory.Create(ctx, h); err != nil {
			t.Fatalf("create history failed: %v", err)
		}
	}

	removed, err := repos.DiscountHistory.DeleteByDiscount(ctx, d.ID)
	if err != nil || removed != 3 {
		t.Fatalf("expected 3 rows removed, got %d err %v", removed, err)
	}
	_, total, err := repos.DiscountHistory.List(ctx, ListParams{Filters: map[string]string{"discount": d.ID.String()}})
	if err != nil || total != 0 {
		t.Errorf("expected no history left, got %d err %v", total, err)
	}
}

func TestProductImage_ClearMain(t *testing.T) {
	ctx := context.Background()
	repo := testStore.Repos().ProductImages
	product := seedProduct(t, "Gallery")

	var images []*domain.ProductImage
	for i := 0; i < 3; i++ {
		img := &domain.ProductImage{ID: uuid.New(), ProductID: product.ID, Image: "product_images/x.png", IsMain: true}
		if err := repo.Create(ctx, img); err != nil {
			t.Fatalf("create image failed: %v", err)
		}
		images = append(images, img)
	}

	cleared, err := repo.ClearMain(ctx, product.ID, images[2].ID)
	if err != nil || cleared != 2 {
		t.Fatalf("expected 2 images demoted, got %d err %v", cleared, err)
	}

	_, total, err := repo.List(ctx, ListParams{Filters: map[string]string{"product": product.ID.String(), "is_main": "true"}})
	if err != nil || total != 1 {
		t.Errorf("expected a single main image, got %d err %v", total, err)
	}
}

func TestCoupon_ProductsRoundTrip(t *testing.T) {
	ctx := context.Background()
	p1 := seedProduct(t, "Coupon one")
	p2 := seedProduct(t, "Coupon two")

	coupon := &domain.Coupon{
		ID: uuid.New(), Code: "SAVE-" + uuid.NewString()[:6], DiscountType: domain.DiscountPercent,
		DiscountValue: decimal.NewFromInt(10), ValidFrom: time.Now(), ValidTo: time.Now().AddDate(0, 1, 0),
		Active: true, ProductIDs: []uuid.UUID{p1.ID, p2.ID},
	}

	err := testStore.WithinTx(ctx, func(r *Repositories) error {
		return r.Coupons.Create(ctx, coupon)
	})
	if err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	stored, err := testStore.Repos().Coupons.FindByID(ctx, coupon.ID)
	if err != nil {
		t.Fatalf("find coupon failed: %v", err)
	}
	if len(stored.ProductIDs) != 2 {
		t.Fatalf("expected 2 linked products, got %v", stored.ProductIDs)
	}

	stored.ProductIDs = []uuid.UUID{p2.ID}
	err = testStore.WithinTx(ctx, func(r *Repositories) error {
		return r.Coupons.Update(ctx, stored)
	})
	if err != nil {
		t.Fatalf("update coupon failed: %v", err)
	}

	items, _, err := testStore.Repos().Coupons.List(ctx, ListParams{Search: coupon.Code})
	if err != nil || len(items) != 1 {
		t.Fatalf("expected coupon in list, got %v err %v", items, err)
	}
	if len(items[0].ProductIDs) != 1 || items[0].ProductIDs[0] != p2.ID {
		t.Errorf("expected only the second product, got %v", items[0].ProductIDs)
	}
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	c := &domain.Category{ID: uuid.New(), Name: "Rolled back", Slug: "rolled-back-" + uuid.NewString()[:6]}
	boom := errors.New("boom")

	err := testStore.WithinTx(ctx, func(r *Repositories) error {
		if err := r.Categories.Create(ctx, c); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the callback error, got %v", err)
	}

	if _, err := testStore.Repos().Categories.FindByID(ctx, c.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected category to be rolled back, got %v", err)
	}
}

func TestRefreshToken_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := testStore.Repos().RefreshTokens
	user := seedUser(t)

	token := &domain.RefreshToken{ID: uuid.New(), UserID: user.ID, Token: uuid.NewString(), ExpiresAt: time.Now().Add(time.Hour)}
	if err := repo.Create(ctx, token); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := repo.FindByToken(ctx, token.Token); err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if err := repo.Revoke(ctx, token.Token); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if _, err := repo.FindByToken(ctx, token.Token); !errors.Is(err, ErrRefreshTokenRevoked) {
		t.Errorf("expected ErrRefreshTokenRevoked, got %v", err)
	}
	if err := repo.Revoke(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestProperty_StoredPasswordsStayHashed(t *testing.T) {
	repo := NewUserRepository(testDB)
	ctx := context.Background()

	properties := gopter.NewProperties(nil)
	properties.Property("users round trip with their bcrypt hash", prop.ForAll(
		func(username string, password string) bool {
			_, _ = testDB.Exec("DELETE FROM users WHERE username = $1", username)

			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
			if err != nil {
				return false
			}

			user := &domain.User{
				ID:           uuid.New(),
				Username:     username,
				Email:        username + "@example.com",
				PasswordHash: string(hashedPassword),
				Role:         domain.RoleStaff,
			}
			if err := repo.Create(ctx, user); err != nil {
				t.Logf("Failed to create user: %v", err)
				return false
			}

			retrieved, err := repo.FindByUsername(ctx, username)
			if err != nil {
				t.Logf("Failed to find user: %v", err)
				return false
			}

			if retrieved.PasswordHash == password {
				return false
			}
			if bcrypt.CompareHashAndPassword([]byte(retrieved.PasswordHash), []byte(password)) != nil {
				return false
			}

			dup := *user
			dup.ID = uuid.New()
			if err := repo.Create(ctx, &dup); !errors.Is(err, ErrConflict) {
				t.Logf("Expected conflict for duplicate user, got %v", err)
				return false
			}

			_, _ = testDB.Exec("DELETE FROM users WHERE username = $1", username)
			return true
		},
		gen.RegexMatch(`[a-z]{5,12}`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
