package domain

import (
	"regexp"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Kitchen Tools", "kitchen-tools"},
		{"punctuation dropped", "Men's T-Shirts & Tops", "mens-t-shirts-tops"},
		{"accents folded", "Crème Brûlée Sets", "creme-brulee-sets"},
		{"whitespace runs", "  Garden   and\tOutdoor  ", "garden-and-outdoor"},
		{"hyphen runs", "Sale -- Today", "sale-today"},
		{"underscores kept inside", "Big_Box Deals", "big_box-deals"},
		{"edges trimmed", "_-Promo-_", "promo"},
		{"digits", "Size 42 Shoes", "size-42-shoes"},
		{"nothing left", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

var slugPattern = regexp.MustCompile(`^([a-z0-9_]+(-[a-z0-9_]+)*)?$`)

func TestProperty_SlugifyIsDeterministicAndURLSafe(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("slugs are URL safe and stable", prop.ForAll(
		func(name string) bool {
			slug := Slugify(name)
			if !slugPattern.MatchString(slug) {
				t.Logf("FAIL: %q produced %q", name, slug)
				return false
			}
			return Slugify(name) == slug && Slugify(slug) == slug
		},
		gen.AnyString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

var skuPattern = regexp.MustCompile(`^SKU-[0-9A-F]{8}$`)

func TestProperty_GeneratedSKUMatchesPattern(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("generated SKUs match SKU-[0-9A-F]{8}", prop.ForAll(
		func(_ int) bool {
			sku := GenerateSKU()
			if !skuPattern.MatchString(sku) {
				t.Logf("FAIL: generated %q", sku)
				return false
			}
			return true
		},
		gen.Int(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProductEnsureIdentifiers(t *testing.T) {
	p := &Product{Name: "Steel Water Bottle"}
	p.EnsureIdentifiers()

	if p.Slug != "steel-water-bottle" {
		t.Errorf("expected slug from name, got %q", p.Slug)
	}
	if !skuPattern.MatchString(p.SKU) {
		t.Errorf("expected generated SKU, got %q", p.SKU)
	}

	slug, sku := p.Slug, p.SKU
	p.Name = "Renamed Bottle"
	p.EnsureIdentifiers()
	if p.Slug != slug || p.SKU != sku {
		t.Errorf("identifiers regenerated: %q/%q -> %q/%q", slug, sku, p.Slug, p.SKU)
	}
}

func TestCategoryAndSubcategoryEnsureSlug(t *testing.T) {
	c := &Category{Name: "Home Office"}
	c.EnsureSlug()
	if c.Slug != "home-office" {
		t.Errorf("expected home-office, got %q", c.Slug)
	}

	s := &Subcategory{Name: "Desks", Slug: "custom-desks"}
	s.EnsureSlug()
	if s.Slug != "custom-desks" {
		t.Errorf("explicit slug overwritten: %q", s.Slug)
	}
}
