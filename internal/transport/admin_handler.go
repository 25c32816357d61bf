package transport

import (
	"net/http"

	"catalog-inventory/internal/admin"
	"catalog-inventory/internal/domain"
	"catalog-inventory/internal/middleware"
	"catalog-inventory/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Services groups the services behind the admin routes
type Services struct {
	Catalog   service.CatalogService
	Variants  service.VariantService
	Stock     service.StockService
	Discounts service.DiscountService
	Reviews   service.ReviewService
	Coupons   service.CouponService
}

// AdminHandler serves the schema and CRUD routes of every registered entity
type AdminHandler struct {
	services Services
	logger   *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(services Services, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{services: services, logger: logger}
}

// RegisterRoutes mounts the admin routes on r. Authentication is applied by
// the caller.
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Get("/schema", h.GetSchema)
	r.Get("/schema/{entity}", h.GetEntitySchema)

	for _, mount := range h.resources() {
		mount(r)
	}
}

func (h *AdminHandler) resources() []func(chi.Router) {
	catalog := h.services.Catalog
	variants := h.services.Variants
	stock := h.services.Stock
	discounts := h.services.Discounts
	reviews := h.services.Reviews
	coupons := h.services.Coupons

	return []func(chi.Router){
		(&resource[domain.Category, categoryRequest]{
			entity: "categories",
			list:   catalog.ListCategories,
			get:    catalog.GetCategory,
			create: catalog.CreateCategory,
			update: catalog.UpdateCategory,
			remove: catalog.DeleteCategory,
			extra: func(r chi.Router) {
				r.Put("/{id}/thumbnail", h.SetCategoryThumbnail)
			},
			logger: h.logger,
		}).mount,
		(&resource[domain.Subcategory, subcategoryRequest]{
			entity: "subcategories",
			list:   catalog.ListSubcategories,
			get:    catalog.GetSubcategory,
			create: catalog.CreateSubcategory,
			update: catalog.UpdateSubcategory,
			remove: catalog.DeleteSubcategory,
			logger: h.logger,
		}).mount,
		(&resource[domain.Product, productRequest]{
			entity: "products",
			list:   catalog.ListProducts,
			get:    catalog.GetProduct,
			create: catalog.CreateProduct,
			update: catalog.UpdateProduct,
			remove: catalog.DeleteProduct,
			logger: h.logger,
		}).mount,
		(&resource[domain.ProductVariant, variantRequest]{
			entity: "product-variants",
			list:   variants.ListVariants,
			get:    variants.GetVariant,
			create: variants.CreateVariant,
			update: variants.UpdateVariant,
			remove: variants.DeleteVariant,
			logger: h.logger,
		}).mount,
		(&resource[domain.ProductReview, reviewRequest]{
			entity: "product-reviews",
			list:   reviews.ListReviews,
			get:    reviews.GetReview,
			create: reviews.CreateReview,
			update: reviews.UpdateReview,
			remove: reviews.DeleteReview,
			logger: h.logger,
		}).mount,
		(&resource[domain.ProductShipping, shippingRequest]{
			entity: "product-shipping",
			list:   catalog.ListShipping,
			get:    catalog.GetShipping,
			create: catalog.CreateShipping,
			update: catalog.UpdateShipping,
			remove: catalog.DeleteShipping,
			logger: h.logger,
		}).mount,
		(&resource[domain.ProductImage, productImageRequest]{
			entity: "product-images",
			list:   catalog.ListProductImages,
			get:    catalog.GetProductImage,
			update: catalog.UpdateProductImage,
			remove: catalog.DeleteProductImage,
			extra: func(r chi.Router) {
				r.Post("/", h.AddProductImage)
			},
			logger: h.logger,
		}).mount,
		(&resource[domain.ReviewImage, reviewImageRequest]{
			entity: "review-images",
			list:   reviews.ListReviewImages,
			get:    reviews.GetReviewImage,
			update: reviews.UpdateReviewImage,
			remove: reviews.DeleteReviewImage,
			extra: func(r chi.Router) {
				r.Post("/", h.AddReviewImage)
			},
			logger: h.logger,
		}).mount,
		(&resource[domain.Discount, discountRequest]{
			entity: "discounts",
			list:   discounts.ListDiscounts,
			get:    discounts.GetDiscount,
			create: discounts.CreateDiscount,
			update: discounts.UpdateDiscount,
			remove: discounts.DeleteDiscount,
			logger: h.logger,
		}).mount,
		(&resource[domain.DiscountHistory, discountHistoryRequest]{
			entity: "discount-history",
			list:   discounts.ListHistory,
			get:    discounts.GetHistory,
			create: discounts.CreateHistory,
			update: discounts.UpdateHistory,
			remove: discounts.DeleteHistory,
			logger: h.logger,
		}).mount,
		(&resource[domain.PriceHistory, priceHistoryRequest]{
			entity: "price-history",
			list:   variants.ListPriceHistory,
			get:    variants.GetPriceHistory,
			update: variants.UpdatePriceHistory,
			remove: variants.DeletePriceHistory,
			extra: func(r chi.Router) {
				r.Post("/", h.RecordPriceChange)
			},
			logger: h.logger,
		}).mount,
		(&resource[domain.InventoryTransaction, transactionRequest]{
			entity: "inventory-transactions",
			list:   stock.ListTransactions,
			get:    stock.GetTransaction,
			create: stock.RecordTransaction,
			update: stock.UpdateTransaction,
			remove: stock.DeleteTransaction,
			logger: h.logger,
		}).mount,
		(&resource[domain.Coupon, couponRequest]{
			entity: "coupons",
			list:   coupons.ListCoupons,
			get:    coupons.GetCoupon,
			create: coupons.CreateCoupon,
			update: coupons.UpdateCoupon,
			remove: coupons.DeleteCoupon,
			logger: h.logger,
		}).mount,
		(&resource[domain.CouponUsage, couponUsageRequest]{
			entity: "coupon-usages",
			list:   coupons.ListUsages,
			get:    coupons.GetUsage,
			create: coupons.CreateUsage,
			update: coupons.UpdateUsage,
			remove: coupons.DeleteUsage,
			logger: h.logger,
		}).mount,
	}
}

// GetSchema returns the admin configuration of every entity
func (h *AdminHandler) GetSchema(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, admin.Registry())
}

// GetEntitySchema returns the admin configuration of one entity
func (h *AdminHandler) GetEntitySchema(w http.ResponseWriter, r *http.Request) {
	m, ok := admin.Lookup(chi.URLParam(r, "entity"))
	if !ok {
		middleware.RespondWithError(w, http.StatusNotFound, "unknown entity")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, m)
}

// SetCategoryThumbnail replaces a category's thumbnail with the uploaded image
func (h *AdminHandler) SetCategoryThumbnail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	upload, cleanup, err := readUpload(w, r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	defer cleanup()

	category, err := h.services.Catalog.SetCategoryThumbnail(r.Context(), id, upload)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, category)
}

// AddProductImage stores an uploaded product image
func (h *AdminHandler) AddProductImage(w http.ResponseWriter, r *http.Request) {
	upload, cleanup, err := readUpload(w, r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	defer cleanup()

	productID, err := formUUID(r, "product_id")
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	isMain, err := formBool(r, "is_main")
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	image := &domain.ProductImage{ProductID: productID, IsMain: isMain}
	if err := h.services.Catalog.AddProductImage(r.Context(), image, upload); err != nil {
		respondError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, image)
}

// AddReviewImage stores an uploaded review photo
func (h *AdminHandler) AddReviewImage(w http.ResponseWriter, r *http.Request) {
	upload, cleanup, err := readUpload(w, r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	defer cleanup()

	reviewID, err := formUUID(r, "review_id")
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	image, err := h.services.Reviews.AddReviewImage(r.Context(), reviewID, upload)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, image)
}

// RecordPriceChange applies a new price to a variant and returns the history row
func (h *AdminHandler) RecordPriceChange(w http.ResponseWriter, r *http.Request) {
	var req priceHistoryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	entry, err := h.services.Variants.RecordPriceChange(r.Context(), service.PriceChange{
		ProductVariantID: req.ProductVariantID,
		OldPrice:         req.OldPrice,
		NewPrice:         req.NewPrice,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, entry)
}
