// Package admin describes the administrative surface of each catalog entity:
// what a list shows, what it can be searched and filtered by, and how the
// edit form is laid out.
package admin

import "sort"

// Fieldset is one titled group of the edit form
type Fieldset struct {
	Title     string   `json:"title,omitempty"`
	Fields    []string `json:"fields"`
	Collapsed bool     `json:"collapsed,omitempty"`
}

// Inline lists child records on the parent's page, filtered by ForeignKey
type Inline struct {
	Entity     string `json:"entity"`
	ForeignKey string `json:"foreign_key"`
	Filter     string `json:"filter"`
	Extra      int    `json:"extra"`
}

// ModelAdmin is the admin configuration of one entity
type ModelAdmin struct {
	Entity         string              `json:"entity"`
	Name           string              `json:"name"`
	Table          string              `json:"-"`
	ListDisplay    []string            `json:"list_display"`
	SearchFields   []string            `json:"search_fields"`
	ListFilter     []string            `json:"list_filter"`
	Fieldsets      []Fieldset          `json:"fieldsets"`
	ReadonlyFields []string            `json:"readonly_fields"`
	Prepopulated   map[string][]string `json:"prepopulated_fields,omitempty"`
	Inlines        []Inline            `json:"inlines,omitempty"`
	UploadFields   []string            `json:"upload_fields,omitempty"`
}

var timestamps = []string{"created_at", "updated_at"}

func dates(fields ...string) Fieldset {
	return Fieldset{Title: "Dates", Fields: fields}
}

func seo() Fieldset {
	return Fieldset{Title: "SEO", Fields: []string{"seo_meta_title", "seo_meta_description", "seo_meta_keywords", "additional_seo"}}
}

func inline(entity, fk, filter string) Inline {
	return Inline{Entity: entity, ForeignKey: fk, Filter: filter, Extra: 1}
}

var registry = []ModelAdmin{
	{
		Entity:         "categories",
		Name:           "Category",
		Table:          "categories",
		ListDisplay:    []string{"name", "slug", "description", "seo_meta_title", "created_at"},
		SearchFields:   []string{"name", "slug", "description"},
		ListFilter:     timestamps,
		Fieldsets:      []Fieldset{{Fields: []string{"name", "slug", "description", "thumbnail"}}, seo(), dates("created_at", "updated_at")},
		ReadonlyFields: timestamps,
		Prepopulated:   map[string][]string{"slug": {"name"}},
		UploadFields:   []string{"thumbnail"},
	},
	{
		Entity:         "subcategories",
		Name:           "Subcategory",
		Table:          "subcategories",
		ListDisplay:    []string{"name", "category_id", "slug", "description", "seo_meta_title", "created_at"},
		SearchFields:   []string{"name", "slug", "description"},
		ListFilter:     []string{"category", "created_at", "updated_at"},
		Fieldsets:      []Fieldset{{Fields: []string{"category_id", "name", "slug", "description"}}, seo(), dates("created_at", "updated_at")},
		ReadonlyFields: timestamps,
		Prepopulated:   map[string][]string{"slug": {"name"}},
	},
	{
		Entity:       "products",
		Name:         "Product",
		Table:        "products",
		ListDisplay:  []string{"name", "slug", "sku", "category_id", "subcategory_id", "stock_quantity", "tax", "created_at"},
		SearchFields: []string{"name", "slug", "sku", "description"},
		ListFilter:   []string{"category", "subcategory", "created_at", "updated_at"},
		Fieldsets: []Fieldset{
			{Fields: []string{"name", "slug", "sku", "description", "category_id", "subcategory_id", "stock_quantity", "tax"}},
			seo(),
			dates("created_at", "updated_at"),
		},
		ReadonlyFields: timestamps,
		Prepopulated:   map[string][]string{"slug": {"name"}},
		Inlines: []Inline{
			inline("product-variants", "product_id", "product"),
			inline("product-reviews", "product_id", "product"),
			inline("product-images", "product_id", "product"),
		},
	},
	{
		Entity:         "product-variants",
		Name:           "Product variant",
		Table:          "product_variants",
		ListDisplay:    []string{"product_id", "name", "sku", "price", "stock_quantity", "created_at"},
		SearchFields:   []string{"product.name", "name", "sku"},
		ListFilter:     []string{"product", "created_at", "updated_at"},
		Fieldsets:      []Fieldset{{Fields: []string{"product_id", "name", "sku", "price", "stock_quantity"}}, dates("created_at", "updated_at")},
		ReadonlyFields: timestamps,
		Inlines: []Inline{
			inline("discounts", "product_variant_id", "product_variant"),
			inline("price-history", "product_variant_id", "product_variant"),
			inline("inventory-transactions", "product_variant_id", "product_variant"),
		},
	},
	{
		Entity:         "product-reviews",
		Name:           "Product review",
		Table:          "product_reviews",
		ListDisplay:    []string{"product_id", "user_id", "rating", "is_verified", "created_at"},
		SearchFields:   []string{"product.name", "user.username", "rating"},
		ListFilter:     []string{"product", "rating", "is_verified", "created_at", "updated_at"},
		Fieldsets:      []Fieldset{{Fields: []string{"product_id", "user_id", "rating", "is_verified", "comment"}}, dates("created_at", "updated_at")},
		ReadonlyFields: timestamps,
	},
	{
		Entity:       "product-shipping",
		Name:         "Product shipping",
		Table:        "product_shipping",
		ListDisplay:  []string{"product_id", "shipping_method", "local_shipping_cost", "regional_shipping_cost", "national_shipping_cost", "created_at"},
		SearchFields: []string{"product.name", "shipping_method"},
		ListFilter:   []string{"product", "created_at", "updated_at"},
		Fieldsets: []Fieldset{
			{Fields: []string{
				"product_id", "shipping_method", "local_shipping_cost", "regional_shipping_cost",
				"national_shipping_cost", "shipping_cost_multiply_quantity", "estimated_delivery_time",
				"additional_shipping_info",
			}},
			dates("created_at", "updated_at"),
		},
		ReadonlyFields: timestamps,
	},
	{
		Entity:         "product-images",
		Name:           "Product image",
		Table:          "product_images",
		ListDisplay:    []string{"product_id", "is_main", "created_at"},
		SearchFields:   []string{"product.name", "is_main"},
		ListFilter:     []string{"product", "is_main", "created_at", "updated_at"},
		Fieldsets:      []Fieldset{{Fields: []string{"product_id", "image", "is_main"}}, dates("created_at", "updated_at")},
		ReadonlyFields: timestamps,
		UploadFields:   []string{"image"},
	},
	{
		Entity:         "review-images",
		Name:           "Review image",
		Table:          "review_images",
		ListDisplay:    []string{"review_id", "uploaded_at"},
		SearchFields:   []string{"review.product.name", "review.user.username"},
		ListFilter:     []string{"review", "uploaded_at"},
		Fieldsets:      []Fieldset{{Fields: []string{"review_id", "image"}}, dates("uploaded_at")},
		ReadonlyFields: []string{"uploaded_at"},
		UploadFields:   []string{"image"},
	},
	{
		Entity:         "discounts",
		Name:           "Discount",
		Table:          "discounts",
		ListDisplay:    []string{"product_variant_id", "discount_type", "discount_value", "start_date", "end_date", "created_at"},
		SearchFields:   []string{"product_variant.name", "discount_type", "discount_value"},
		ListFilter:     []string{"product_variant", "discount_type", "start_date", "end_date", "created_at", "updated_at"},
		Fieldsets:      []Fieldset{{Fields: []string{"product_variant_id", "discount_type", "discount_value", "start_date", "end_date"}}, dates("created_at", "updated_at")},
		ReadonlyFields: timestamps,
	},
	{
		Entity:       "discount-history",
		Name:         "Discount history",
		Table:        "discount_history",
		ListDisplay:  []string{"discount_id", "old_discount_type", "old_discount_value", "new_discount_type", "new_discount_value", "created_at", "updated_at"},
		SearchFields: []string{"discount.product_variant.name", "old_discount_type", "new_discount_type"},
		ListFilter:   []string{"created_at", "updated_at"},
		Fieldsets: []Fieldset{
			{Fields: []string{"discount_id", "old_discount_type", "old_discount_value", "new_discount_type", "new_discount_value"}},
			{Title: "Dates", Fields: []string{"applied_at", "created_at", "updated_at"}, Collapsed: true},
		},
		ReadonlyFields: []string{"applied_at", "created_at", "updated_at"},
	},
	{
		Entity:       "price-history",
		Name:         "Price history",
		Table:        "price_history",
		ListDisplay:  []string{"product_variant_id", "old_price", "new_price", "changed_at", "created_at", "updated_at"},
		SearchFields: []string{"product_variant.product.name", "old_price", "new_price"},
		ListFilter:   []string{"changed_at", "created_at", "updated_at"},
		Fieldsets: []Fieldset{
			{Fields: []string{"product_variant_id", "old_price", "new_price"}},
			{Title: "Dates", Fields: []string{"changed_at", "created_at", "updated_at"}, Collapsed: true},
		},
		ReadonlyFields: []string{"changed_at", "created_at", "updated_at"},
	},
	{
		Entity:       "inventory-transactions",
		Name:         "Inventory transaction",
		Table:        "inventory_transactions",
		ListDisplay:  []string{"product_variant_id", "transaction_type", "quantity", "description", "created_at", "updated_at"},
		SearchFields: []string{"product_variant.product.name", "transaction_type", "description"},
		ListFilter:   []string{"transaction_type", "created_at", "updated_at"},
		Fieldsets: []Fieldset{
			{Fields: []string{"product_variant_id", "transaction_type", "quantity", "description"}},
			{Title: "Dates", Fields: []string{"transaction_date", "created_at", "updated_at"}, Collapsed: true},
		},
		ReadonlyFields: []string{"transaction_date", "created_at", "updated_at"},
	},
	{
		Entity:       "coupons",
		Name:         "Coupon",
		Table:        "coupons",
		ListDisplay:  []string{"code", "discount_type", "discount_value", "valid_from", "valid_to", "active", "created_at"},
		SearchFields: []string{"code", "discount_type", "discount_value"},
		ListFilter:   []string{"discount_type", "valid_from", "valid_to", "active", "created_at", "updated_at"},
		Fieldsets: []Fieldset{
			{Fields: []string{"code", "discount_type", "discount_value", "valid_from", "valid_to", "active"}},
			{Title: "Products", Fields: []string{"product_ids"}},
			dates("created_at", "updated_at"),
		},
		ReadonlyFields: timestamps,
	},
	{
		Entity:         "coupon-usages",
		Name:           "Coupon usage",
		Table:          "coupon_usages",
		ListDisplay:    []string{"coupon_id", "user_id", "product_id", "used_at"},
		SearchFields:   []string{"coupon.code", "user.username", "product.name"},
		ListFilter:     []string{"coupon", "user", "product", "used_at"},
		Fieldsets:      []Fieldset{{Fields: []string{"coupon_id", "user_id", "product_id"}}, dates("used_at")},
		ReadonlyFields: []string{"used_at"},
	},
}

// Registry returns the configuration of every registered entity in registration order.
func Registry() []ModelAdmin {
	out := make([]ModelAdmin, len(registry))
	copy(out, registry)
	return out
}

// Lookup finds the configuration of entity.
func Lookup(entity string) (ModelAdmin, bool) {
	for _, m := range registry {
		if m.Entity == entity {
			return m, true
		}
	}
	return ModelAdmin{}, false
}

// Entities returns the registered entity names, sorted.
func Entities() []string {
	names := make([]string, 0, len(registry))
	for _, m := range registry {
		names = append(names, m.Entity)
	}
	sort.Strings(names)
	return names
}

// IsReadOnly reports whether field is shown but never written.
func (m ModelAdmin) IsReadOnly(field string) bool {
	for _, f := range m.ReadonlyFields {
		if f == field {
			return true
		}
	}
	return false
}

// EditableFields lists the form fields a JSON request body may carry:
// every fieldset field that is neither read-only nor an upload.
func (m ModelAdmin) EditableFields() []string {
	uploads := make(map[string]bool, len(m.UploadFields))
	for _, f := range m.UploadFields {
		uploads[f] = true
	}

	var out []string
	for _, fs := range m.Fieldsets {
		for _, f := range fs.Fields {
			if !m.IsReadOnly(f) && !uploads[f] {
				out = append(out, f)
			}
		}
	}
	return out
}
