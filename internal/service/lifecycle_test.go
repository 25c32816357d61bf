package service

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"catalog-inventory/internal/domain"
	"catalog-inventory/internal/media"
	"catalog-inventory/internal/repository"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func pngUpload(name string, size int) Upload {
	data := make([]byte, size)
	copy(data, pngHeader)
	return Upload{Filename: name, Size: int64(size), Body: bytes.NewReader(data)}
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestPriceHistory_ManualEntryThenVariantUpdate(t *testing.T) {
	deps, _ := newTestDeps(t)
	catalog := NewCatalogService(deps)
	variants := NewVariantService(deps)
	ctx := context.Background()

	product := seedProduct(t, catalog, "Kettle")
	v := seedVariant(t, variants, product, "10.00")

	if rows := variantHistory(t, v.ID); len(rows) != 0 {
		t.Fatalf("creating a variant must not write history, got %d rows", len(rows))
	}

	entry, err := variants.RecordPriceChange(ctx, PriceChange{ProductVariantID: v.ID, NewPrice: price("12.00")})
	if err != nil {
		t.Fatalf("RecordPriceChange: %v", err)
	}
	if !entry.OldPrice.Equal(price("10.00")) {
		t.Errorf("omitted old price should default to the stored price, got %s", entry.OldPrice)
	}

	stored, err := variants.GetVariant(ctx, v.ID)
	if err != nil {
		t.Fatalf("GetVariant: %v", err)
	}
	if !stored.Price.Equal(price("12.00")) {
		t.Fatalf("expected variant price 12.00, got %s", stored.Price)
	}
	if rows := variantHistory(t, v.ID); len(rows) != 1 {
		t.Fatalf("expected exactly one history row, got %d", len(rows))
	}

	stored.Price = price("15.00")
	if err := variants.UpdateVariant(ctx, stored); err != nil {
		t.Fatalf("UpdateVariant: %v", err)
	}

	rows := variantHistory(t, v.ID)
	if len(rows) != 2 {
		t.Fatalf("expected two history rows, got %d", len(rows))
	}
	if !rows[1].OldPrice.Equal(price("12.00")) || !rows[1].NewPrice.Equal(price("15.00")) {
		t.Errorf("expected second row 12.00 -> 15.00, got %s -> %s", rows[1].OldPrice, rows[1].NewPrice)
	}
	if got := testutil.ToFloat64(deps.Metrics.PriceChanges); got != 2 {
		t.Errorf("expected 2 recorded price changes, got %v", got)
	}
}

func TestPriceHistory_UnchangedPriceWritesNothing(t *testing.T) {
	deps, _ := newTestDeps(t)
	catalog := NewCatalogService(deps)
	variants := NewVariantService(deps)
	ctx := context.Background()

	v := seedVariant(t, variants, seedProduct(t, catalog, "Lamp"), "9.99")

	v.Name = "Renamed"
	v.Price = price("9.990")
	if err := variants.UpdateVariant(ctx, v); err != nil {
		t.Fatalf("UpdateVariant: %v", err)
	}
	if rows := variantHistory(t, v.ID); len(rows) != 0 {
		t.Errorf("equal decimal prices must not write history, got %d rows", len(rows))
	}
}

func TestPriceHistory_ImmutableAndDeletable(t *testing.T) {
	deps, _ := newTestDeps(t)
	catalog := NewCatalogService(deps)
	variants := NewVariantService(deps)
	ctx := context.Background()

	v := seedVariant(t, variants, seedProduct(t, catalog, "Mug"), "4.00")
	old := price("3.50")
	entry, err := variants.RecordPriceChange(ctx, PriceChange{ProductVariantID: v.ID, OldPrice: &old, NewPrice: price("5.00")})
	if err != nil {
		t.Fatalf("RecordPriceChange: %v", err)
	}
	if !entry.OldPrice.Equal(old) {
		t.Errorf("explicit old price must be kept, got %s", entry.OldPrice)
	}

	entry.NewPrice = price("6.00")
	if err := variants.UpdatePriceHistory(ctx, entry); !errors.Is(err, ErrImmutable) {
		t.Errorf("expected ErrImmutable, got %v", err)
	}

	if err := variants.DeletePriceHistory(ctx, entry.ID); err != nil {
		t.Fatalf("DeletePriceHistory: %v", err)
	}
	stored, _ := variants.GetVariant(ctx, v.ID)
	if !stored.Price.Equal(price("5.00")) {
		t.Errorf("deleting history must not touch the price, got %s", stored.Price)
	}

	if _, err := variants.RecordPriceChange(ctx, PriceChange{ProductVariantID: uuid.New(), NewPrice: price("1")}); !errors.Is(err, repository.ErrInvalidReference) {
		t.Errorf("expected ErrInvalidReference for an unknown variant, got %v", err)
	}
}

func TestStock_TransactionArithmetic(t *testing.T) {
	deps, _ := newTestDeps(t)
	catalog := NewCatalogService(deps)
	variants := NewVariantService(deps)
	stock := NewStockService(deps)
	ctx := context.Background()

	v := seedVariant(t, variants, seedProduct(t, catalog, "Chair"), "50.00")
	v.StockQuantity = 10
	if err := variants.UpdateVariant(ctx, v); err != nil {
		t.Fatalf("UpdateVariant: %v", err)
	}

	stockOf := func() int {
		t.Helper()
		got, err := variants.GetVariant(ctx, v.ID)
		if err != nil {
			t.Fatalf("GetVariant: %v", err)
		}
		return got.StockQuantity
	}

	in := &domain.InventoryTransaction{ProductVariantID: v.ID, TransactionType: domain.TransactionIn, Quantity: 5}
	if err := stock.RecordTransaction(ctx, in); err != nil {
		t.Fatalf("record IN: %v", err)
	}
	if got := stockOf(); got != 15 {
		t.Fatalf("expected 15 after IN 5, got %d", got)
	}

	out := &domain.InventoryTransaction{ProductVariantID: v.ID, TransactionType: domain.TransactionOut, Quantity: 20}
	if err := stock.RecordTransaction(ctx, out); err != nil {
		t.Fatalf("record OUT: %v", err)
	}
	if got := stockOf(); got != -5 {
		t.Fatalf("expected -5 after OUT 20, got %d", got)
	}

	// editing the IN entry to 8 moves stock by the difference only
	in.Quantity = 8
	if err := stock.UpdateTransaction(ctx, in); err != nil {
		t.Fatalf("UpdateTransaction: %v", err)
	}
	if got := stockOf(); got != -2 {
		t.Errorf("expected -2 after editing IN to 8, got %d", got)
	}

	if err := stock.DeleteTransaction(ctx, out.ID); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	if got := stockOf(); got != 18 {
		t.Errorf("expected 18 after removing OUT 20, got %d", got)
	}

	if got := testutil.ToFloat64(deps.Metrics.StockAdjustments.WithLabelValues("IN")); got != 3 {
		t.Errorf("expected 3 IN adjustments, got %v", got)
	}
}

func TestStock_TransactionMovedToAnotherVariant(t *testing.T) {
	deps, _ := newTestDeps(t)
	catalog := NewCatalogService(deps)
	variants := NewVariantService(deps)
	stock := NewStockService(deps)
	ctx := context.Background()

	product := seedProduct(t, catalog, "Desk")
	a := seedVariant(t, variants, product, "1.00")
	b := seedVariant(t, variants, product, "1.00")

	txn := &domain.InventoryTransaction{ProductVariantID: a.ID, TransactionType: domain.TransactionIn, Quantity: 7}
	if err := stock.RecordTransaction(ctx, txn); err != nil {
		t.Fatalf("RecordTransaction: %v", err)
	}

	txn.ProductVariantID = b.ID
	if err := stock.UpdateTransaction(ctx, txn); err != nil {
		t.Fatalf("UpdateTransaction: %v", err)
	}

	gotA, _ := variants.GetVariant(ctx, a.ID)
	gotB, _ := variants.GetVariant(ctx, b.ID)
	if gotA.StockQuantity != 0 || gotB.StockQuantity != 7 {
		t.Errorf("expected stock 0/7, got %d/%d", gotA.StockQuantity, gotB.StockQuantity)
	}
}

func TestStock_RejectsBadTransactions(t *testing.T) {
	deps, _ := newTestDeps(t)
	stock := NewStockService(deps)
	ctx := context.Background()

	var inputErr *InputError
	err := stock.RecordTransaction(ctx, &domain.InventoryTransaction{ProductVariantID: uuid.New(), TransactionType: "MOVE", Quantity: 1})
	if !errors.As(err, &inputErr) || inputErr.Field != "transaction_type" {
		t.Errorf("expected transaction_type input error, got %v", err)
	}

	err = stock.RecordTransaction(ctx, &domain.InventoryTransaction{ProductVariantID: uuid.New(), TransactionType: domain.TransactionIn, Quantity: 1})
	if !errors.Is(err, repository.ErrInvalidReference) {
		t.Errorf("expected ErrInvalidReference, got %v", err)
	}
}

func TestDiscount_HistoryPerChange(t *testing.T) {
	deps, _ := newTestDeps(t)
	catalog := NewCatalogService(deps)
	variants := NewVariantService(deps)
	discounts := NewDiscountService(deps)
	ctx := context.Background()

	v := seedVariant(t, variants, seedProduct(t, catalog, "Sofa"), "300.00")
	d := &domain.Discount{
		ProductVariantID: v.ID,
		DiscountType:     domain.DiscountPercent,
		DiscountValue:    price("10"),
		StartDate:        time.Now(),
		EndDate:          time.Now().Add(24 * time.Hour),
	}
	if err := discounts.CreateDiscount(ctx, d); err != nil {
		t.Fatalf("CreateDiscount: %v", err)
	}

	historyCount := func() int {
		return countRows(t, `SELECT COUNT(*) FROM discount_history WHERE discount_id = $1`, d.ID)
	}
	if n := historyCount(); n != 0 {
		t.Fatalf("creation must not write history, got %d", n)
	}

	// only the end date moves
	d.EndDate = d.EndDate.Add(time.Hour)
	if err := discounts.UpdateDiscount(ctx, d); err != nil {
		t.Fatalf("UpdateDiscount: %v", err)
	}
	if n := historyCount(); n != 0 {
		t.Fatalf("unchanged terms must not write history, got %d", n)
	}

	d.DiscountValue = price("15")
	if err := discounts.UpdateDiscount(ctx, d); err != nil {
		t.Fatalf("UpdateDiscount: %v", err)
	}
	d.DiscountType = domain.DiscountFixed
	if err := discounts.UpdateDiscount(ctx, d); err != nil {
		t.Fatalf("UpdateDiscount: %v", err)
	}
	if n := historyCount(); n != 2 {
		t.Fatalf("expected one history row per change, got %d", n)
	}

	list, total, err := discounts.ListHistory(ctx, repository.ListParams{
		Filters: map[string]string{"discount": d.ID.String()},
		SortBy:  "applied_at",
	})
	if err != nil || total != 2 {
		t.Fatalf("ListHistory: %v total=%d", err, total)
	}
	first := list[0]
	if first.OldDiscountType != domain.DiscountPercent || !first.OldDiscountValue.Equal(price("10")) ||
		!first.NewDiscountValue.Equal(price("15")) {
		t.Errorf("unexpected first history row %+v", first)
	}
}

func TestDiscount_DeleteRemovesHistory(t *testing.T) {
	deps, _ := newTestDeps(t)
	catalog := NewCatalogService(deps)
	variants := NewVariantService(deps)
	discounts := NewDiscountService(deps)
	ctx := context.Background()

	v := seedVariant(t, variants, seedProduct(t, catalog, "Bed"), "200.00")
	d := &domain.Discount{
		ProductVariantID: v.ID,
		DiscountType:     domain.DiscountFixed,
		DiscountValue:    price("1"),
		StartDate:        time.Now(),
		EndDate:          time.Now().Add(time.Hour),
	}
	if err := discounts.CreateDiscount(ctx, d); err != nil {
		t.Fatalf("CreateDiscount: %v", err)
	}
	for _, value := range []string{"2", "3", "4"} {
		d.DiscountValue = price(value)
		if err := discounts.UpdateDiscount(ctx, d); err != nil {
			t.Fatalf("UpdateDiscount: %v", err)
		}
	}
	if n := countRows(t, `SELECT COUNT(*) FROM discount_history WHERE discount_id = $1`, d.ID); n != 3 {
		t.Fatalf("expected 3 history rows, got %d", n)
	}

	if err := discounts.DeleteDiscount(ctx, d.ID); err != nil {
		t.Fatalf("DeleteDiscount: %v", err)
	}
	if n := countRows(t, `SELECT COUNT(*) FROM discount_history WHERE discount_id = $1`, d.ID); n != 0 {
		t.Errorf("expected history to be removed, %d rows left", n)
	}
	if _, err := discounts.GetDiscount(ctx, d.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected the discount to be gone, got %v", err)
	}
	if got := testutil.ToFloat64(deps.Metrics.HistoryCleanups); got != 3 {
		t.Errorf("expected 3 cleaned rows recorded, got %v", got)
	}

	if err := discounts.DeleteDiscount(ctx, d.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestReviewImage_OversizedUploadWritesNothing(t *testing.T) {
	deps, fs := newTestDeps(t)
	catalog := NewCatalogService(deps)
	reviews := NewReviewService(deps)
	ctx := context.Background()

	product := seedProduct(t, catalog, "Camera")
	review := &domain.ProductReview{ProductID: product.ID, UserID: seedUser(t).ID, Rating: 4, Comment: "Sharp"}
	if err := reviews.CreateReview(ctx, review); err != nil {
		t.Fatalf("CreateReview: %v", err)
	}

	_, err := reviews.AddReviewImage(ctx, review.ID, pngUpload("huge.png", 3*1024*1024))
	if !errors.Is(err, media.ErrImageTooLarge) {
		t.Fatalf("expected ErrImageTooLarge, got %v", err)
	}
	if n := countRows(t, `SELECT COUNT(*) FROM review_images WHERE review_id = $1`, review.ID); n != 0 {
		t.Errorf("expected no review image rows, got %d", n)
	}
	if exists, _ := afero.DirExists(fs, media.DirReviewPhotos); exists {
		t.Error("expected nothing written to the file store")
	}
	if got := testutil.ToFloat64(deps.Metrics.ImagesRejected.WithLabelValues("review_photo")); got != 1 {
		t.Errorf("expected one rejected upload, got %v", got)
	}

	img, err := reviews.AddReviewImage(ctx, review.ID, pngUpload("ok.png", 1024))
	if err != nil {
		t.Fatalf("AddReviewImage: %v", err)
	}
	if exists, _ := afero.Exists(fs, img.Image); !exists {
		t.Errorf("expected stored file %s", img.Image)
	}

	if err := reviews.DeleteReviewImage(ctx, img.ID); err != nil {
		t.Fatalf("DeleteReviewImage: %v", err)
	}
	if exists, _ := afero.Exists(fs, img.Image); exists {
		t.Error("expected the file to be removed with its row")
	}
}

func TestReview_RejectsOutOfRangeRating(t *testing.T) {
	deps, _ := newTestDeps(t)
	reviews := NewReviewService(deps)

	var inputErr *InputError
	err := reviews.CreateReview(context.Background(), &domain.ProductReview{ProductID: uuid.New(), UserID: uuid.New(), Rating: 6})
	if !errors.As(err, &inputErr) || inputErr.Field != "rating" {
		t.Errorf("expected rating input error, got %v", err)
	}
}

func TestProductImage_MainIsExclusive(t *testing.T) {
	deps, _ := newTestDeps(t)
	catalog := NewCatalogService(deps)
	ctx := context.Background()

	product := seedProduct(t, catalog, "Table")
	first := &domain.ProductImage{ProductID: product.ID, IsMain: true}
	if err := catalog.AddProductImage(ctx, first, pngUpload("a.png", 512)); err != nil {
		t.Fatalf("AddProductImage: %v", err)
	}
	second := &domain.ProductImage{ProductID: product.ID, IsMain: true}
	if err := catalog.AddProductImage(ctx, second, pngUpload("b.png", 512)); err != nil {
		t.Fatalf("AddProductImage: %v", err)
	}

	mainCount := func() int {
		return countRows(t, `SELECT COUNT(*) FROM product_images WHERE product_id = $1 AND is_main`, product.ID)
	}
	if n := mainCount(); n != 1 {
		t.Fatalf("expected one main image, got %d", n)
	}
	got, _ := catalog.GetProductImage(ctx, first.ID)
	if got.IsMain {
		t.Error("expected the first image to be demoted")
	}

	first.IsMain = true
	if err := catalog.UpdateProductImage(ctx, first); err != nil {
		t.Fatalf("UpdateProductImage: %v", err)
	}
	if n := mainCount(); n != 1 {
		t.Errorf("expected one main image after update, got %d", n)
	}
	if first.Image == "" {
		t.Error("update must keep the stored file reference")
	}

	err := catalog.AddProductImage(ctx, &domain.ProductImage{ProductID: product.ID}, Upload{Filename: "x.txt", Size: 5, Body: bytes.NewReader([]byte("hello"))})
	if !errors.Is(err, media.ErrNotAnImage) {
		t.Errorf("expected ErrNotAnImage, got %v", err)
	}
}

func TestCatalog_IdentifiersAreNotRegenerated(t *testing.T) {
	deps, _ := newTestDeps(t)
	catalog := NewCatalogService(deps)
	ctx := context.Background()

	product := seedProduct(t, catalog, "Garden Hose")
	if !regexp.MustCompile(`^SKU-[0-9A-F]{8}$`).MatchString(product.SKU) {
		t.Errorf("unexpected generated SKU %q", product.SKU)
	}
	slug, sku := product.Slug, product.SKU

	product.Name = "Completely Different"
	product.Slug = ""
	product.SKU = ""
	if err := catalog.UpdateProduct(ctx, product); err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}

	stored, err := catalog.GetProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if stored.Slug != slug || stored.SKU != sku {
		t.Errorf("identifiers changed: %s/%s -> %s/%s", slug, sku, stored.Slug, stored.SKU)
	}
	if stored.Name != "Completely Different" {
		t.Errorf("expected the name to be updated, got %q", stored.Name)
	}

	var inputErr *InputError
	if err := catalog.CreateCategory(ctx, &domain.Category{Name: "日本"}); !errors.As(err, &inputErr) {
		t.Errorf("expected an input error for a name with no slug characters, got %v", err)
	}
}

func TestCatalog_CategoryThumbnail(t *testing.T) {
	deps, fs := newTestDeps(t)
	catalog := NewCatalogService(deps)
	ctx := context.Background()

	category := &domain.Category{Name: "Thumbs " + uuid.NewString()[:6]}
	if err := catalog.CreateCategory(ctx, category); err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	first, err := catalog.SetCategoryThumbnail(ctx, category.ID, pngUpload("t1.png", 256))
	if err != nil {
		t.Fatalf("SetCategoryThumbnail: %v", err)
	}
	second, err := catalog.SetCategoryThumbnail(ctx, category.ID, pngUpload("t2.png", 256))
	if err != nil {
		t.Fatalf("SetCategoryThumbnail: %v", err)
	}

	if exists, _ := afero.Exists(fs, first.Thumbnail); exists {
		t.Error("expected the replaced thumbnail to be removed")
	}
	if exists, _ := afero.Exists(fs, second.Thumbnail); !exists {
		t.Error("expected the new thumbnail to be stored")
	}

	// a plain update leaves the thumbnail alone
	second.Description = "updated"
	second.Thumbnail = ""
	if err := catalog.UpdateCategory(ctx, second); err != nil {
		t.Fatalf("UpdateCategory: %v", err)
	}
	stored, _ := catalog.GetCategory(ctx, category.ID)
	if stored.Thumbnail == "" {
		t.Error("update must not clear the thumbnail")
	}

	if _, err := catalog.SetCategoryThumbnail(ctx, uuid.New(), pngUpload("t3.png", 256)); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCoupon_ProductSetAndUsage(t *testing.T) {
	deps, _ := newTestDeps(t)
	catalog := NewCatalogService(deps)
	coupons := NewCouponService(deps)
	ctx := context.Background()

	p1 := seedProduct(t, catalog, "Scarf")
	p2 := seedProduct(t, catalog, "Gloves")

	c := &domain.Coupon{
		Code:          "WINTER-" + uuid.NewString()[:6],
		DiscountType:  domain.DiscountPercent,
		DiscountValue: price("20"),
		ValidFrom:     time.Now(),
		ValidTo:       time.Now().Add(48 * time.Hour),
		Active:        true,
		ProductIDs:    []uuid.UUID{p1.ID, p2.ID},
	}
	if err := coupons.CreateCoupon(ctx, c); err != nil {
		t.Fatalf("CreateCoupon: %v", err)
	}

	c.ProductIDs = []uuid.UUID{p2.ID}
	if err := coupons.UpdateCoupon(ctx, c); err != nil {
		t.Fatalf("UpdateCoupon: %v", err)
	}
	stored, err := coupons.GetCoupon(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCoupon: %v", err)
	}
	if len(stored.ProductIDs) != 1 || stored.ProductIDs[0] != p2.ID {
		t.Errorf("expected product set [%s], got %v", p2.ID, stored.ProductIDs)
	}

	usage := &domain.CouponUsage{CouponID: c.ID, UserID: seedUser(t).ID, ProductID: &p2.ID}
	if err := coupons.CreateUsage(ctx, usage); err != nil {
		t.Fatalf("CreateUsage: %v", err)
	}
	if usage.UsedAt.IsZero() {
		t.Error("expected used_at from the database")
	}

	dup := *c
	dup.ProductIDs = nil
	if err := coupons.CreateCoupon(ctx, &dup); !errors.Is(err, repository.ErrConflict) {
		t.Errorf("expected ErrConflict for a duplicate code, got %v", err)
	}

	c.ValidTo = c.ValidFrom.Add(-time.Hour)
	var inputErr *InputError
	if err := coupons.UpdateCoupon(ctx, c); !errors.As(err, &inputErr) {
		t.Errorf("expected an input error for an inverted window, got %v", err)
	}
}

func TestPriceHistory_ResavingSubCentPriceWritesOneRow(t *testing.T) {
	deps, _ := newTestDeps(t)
	catalog := NewCatalogService(deps)
	variants := NewVariantService(deps)
	ctx := context.Background()

	v := seedVariant(t, variants, seedProduct(t, catalog, "Pitcher"), "10.00")

	for i := 0; i < 2; i++ {
		v.Price = price("12.345")
		if err := variants.UpdateVariant(ctx, v); err != nil {
			t.Fatalf("UpdateVariant #%d: %v", i+1, err)
		}
	}

	rows := variantHistory(t, v.ID)
	if len(rows) != 1 {
		t.Fatalf("expected exactly one history row, got %d", len(rows))
	}
	if !rows[0].OldPrice.Equal(price("10.00")) || !rows[0].NewPrice.Equal(price("12.35")) {
		t.Errorf("expected 10.00 -> 12.35, got %s -> %s", rows[0].OldPrice, rows[0].NewPrice)
	}

	stored, err := variants.GetVariant(ctx, v.ID)
	if err != nil {
		t.Fatalf("GetVariant: %v", err)
	}
	if !stored.Price.Equal(price("12.35")) {
		t.Errorf("expected stored price 12.35, got %s", stored.Price)
	}

	entry, err := variants.RecordPriceChange(ctx, PriceChange{ProductVariantID: v.ID, NewPrice: price("13.999")})
	if err != nil {
		t.Fatalf("RecordPriceChange: %v", err)
	}
	if !entry.NewPrice.Equal(price("14.00")) {
		t.Errorf("expected manual entry rounded to 14.00, got %s", entry.NewPrice)
	}
}

func TestDiscount_ResavingSubCentValueWritesOneRow(t *testing.T) {
	deps, _ := newTestDeps(t)
	catalog := NewCatalogService(deps)
	variants := NewVariantService(deps)
	discounts := NewDiscountService(deps)
	ctx := context.Background()

	v := seedVariant(t, variants, seedProduct(t, catalog, "Rug"), "80.00")
	d := &domain.Discount{
		ProductVariantID: v.ID,
		DiscountType:     domain.DiscountFixed,
		DiscountValue:    price("5"),
		StartDate:        time.Now(),
		EndDate:          time.Now().Add(24 * time.Hour),
	}
	if err := discounts.CreateDiscount(ctx, d); err != nil {
		t.Fatalf("CreateDiscount: %v", err)
	}

	for i := 0; i < 2; i++ {
		d.DiscountValue = price("5.555")
		if err := discounts.UpdateDiscount(ctx, d); err != nil {
			t.Fatalf("UpdateDiscount #%d: %v", i+1, err)
		}
	}

	if n := countRows(t, `SELECT COUNT(*) FROM discount_history WHERE discount_id = $1`, d.ID); n != 1 {
		t.Fatalf("expected exactly one history row, got %d", n)
	}
	var newValue decimal.Decimal
	if err := testDB.Get(&newValue, `SELECT new_discount_value FROM discount_history WHERE discount_id = $1`, d.ID); err != nil {
		t.Fatalf("Failed to load history: %v", err)
	}
	if !newValue.Equal(price("5.56")) {
		t.Errorf("expected new value 5.56, got %s", newValue)
	}
}

func TestVariant_FailedUpdateLeavesNoPriceHistory(t *testing.T) {
	deps, _ := newTestDeps(t)
	catalog := NewCatalogService(deps)
	variants := NewVariantService(deps)
	ctx := context.Background()

	product := seedProduct(t, catalog, "Teapot")
	taken := seedVariant(t, variants, product, "20.00")
	v := seedVariant(t, variants, product, "10.00")

	update := *v
	update.Price = price("11.00")
	update.SKU = taken.SKU
	if err := variants.UpdateVariant(ctx, &update); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	if rows := variantHistory(t, v.ID); len(rows) != 0 {
		t.Errorf("a failed update must not leave history, got %d rows", len(rows))
	}
	stored, err := variants.GetVariant(ctx, v.ID)
	if err != nil {
		t.Fatalf("GetVariant: %v", err)
	}
	if !stored.Price.Equal(price("10.00")) || stored.SKU != v.SKU {
		t.Errorf("expected variant unchanged, got price %s sku %s", stored.Price, stored.SKU)
	}
}

func TestStock_FailedLedgerInsertLeavesStockUnchanged(t *testing.T) {
	deps, _ := newTestDeps(t)
	catalog := NewCatalogService(deps)
	variants := NewVariantService(deps)
	stock := NewStockService(deps)
	ctx := context.Background()

	v := seedVariant(t, variants, seedProduct(t, catalog, "Stool"), "30.00")
	if err := stock.RecordTransaction(ctx, &domain.InventoryTransaction{
		ProductVariantID: v.ID, TransactionType: domain.TransactionIn, Quantity: 4,
	}); err != nil {
		t.Fatalf("RecordTransaction: %v", err)
	}

	// text columns reject NUL bytes, so the insert fails after the stock update
	bad := &domain.InventoryTransaction{
		ProductVariantID: v.ID,
		TransactionType:  domain.TransactionIn,
		Quantity:         9,
		Description:      "pallet\x00",
	}
	if err := stock.RecordTransaction(ctx, bad); err == nil {
		t.Fatal("expected the ledger insert to fail")
	}

	stored, err := variants.GetVariant(ctx, v.ID)
	if err != nil {
		t.Fatalf("GetVariant: %v", err)
	}
	if stored.StockQuantity != 4 {
		t.Errorf("expected stock to stay at 4, got %d", stored.StockQuantity)
	}
	if n := countRows(t, `SELECT COUNT(*) FROM inventory_transactions WHERE product_variant_id = $1`, v.ID); n != 1 {
		t.Errorf("expected one ledger entry, got %d", n)
	}
}

func TestCatalog_DeleteRemovesCascadedFiles(t *testing.T) {
	deps, fs := newTestDeps(t)
	catalog := NewCatalogService(deps)
	reviews := NewReviewService(deps)
	ctx := context.Background()

	// stocks a product with gallery images and a reviewed photo
	stockProduct := func(p *domain.Product, images int) []string {
		t.Helper()
		var refs []string
		for i := 0; i < images; i++ {
			img := &domain.ProductImage{ProductID: p.ID, IsMain: i == 0}
			if err := catalog.AddProductImage(ctx, img, pngUpload("gallery.png", 512)); err != nil {
				t.Fatalf("AddProductImage: %v", err)
			}
			refs = append(refs, img.Image)
		}
		review := &domain.ProductReview{ProductID: p.ID, UserID: seedUser(t).ID, Rating: 5}
		if err := reviews.CreateReview(ctx, review); err != nil {
			t.Fatalf("CreateReview: %v", err)
		}
		photo, err := reviews.AddReviewImage(ctx, review.ID, pngUpload("photo.png", 512))
		if err != nil {
			t.Fatalf("AddReviewImage: %v", err)
		}
		return append(refs, photo.Image)
	}

	assertRemoved := func(refs []string) {
		t.Helper()
		for _, ref := range refs {
			if exists, _ := afero.Exists(fs, ref); exists {
				t.Errorf("expected %s to be removed", ref)
			}
		}
	}

	product := seedProduct(t, catalog, "Vase")
	productRefs := stockProduct(product, 3)
	if err := catalog.DeleteProduct(ctx, product.ID); err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}
	assertRemoved(productRefs)

	other := seedProduct(t, catalog, "Bowl")
	categoryRefs := stockProduct(other, 2)
	thumbed, err := catalog.SetCategoryThumbnail(ctx, other.CategoryID, pngUpload("thumb.png", 256))
	if err != nil {
		t.Fatalf("SetCategoryThumbnail: %v", err)
	}
	categoryRefs = append(categoryRefs, thumbed.Thumbnail)

	if err := catalog.DeleteCategory(ctx, other.CategoryID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	assertRemoved(categoryRefs)
	if n := countRows(t, `SELECT COUNT(*) FROM products WHERE id = $1`, other.ID); n != 0 {
		t.Errorf("expected the product to cascade, got %d rows", n)
	}

	if err := catalog.DeleteCategory(ctx, uuid.New()); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
