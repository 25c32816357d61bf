package service

import (
	"context"
	"fmt"

	"catalog-inventory/internal/domain"
	"catalog-inventory/internal/media"
	"catalog-inventory/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogService manages the taxonomy, products and their satellite records
type CatalogService interface {
	CreateCategory(ctx context.Context, category *domain.Category) error
	UpdateCategory(ctx context.Context, category *domain.Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	ListCategories(ctx context.Context, params repository.ListParams) ([]domain.Category, int, error)
	SetCategoryThumbnail(ctx context.Context, id uuid.UUID, upload Upload) (*domain.Category, error)

	CreateSubcategory(ctx context.Context, subcategory *domain.Subcategory) error
	UpdateSubcategory(ctx context.Context, subcategory *domain.Subcategory) error
	DeleteSubcategory(ctx context.Context, id uuid.UUID) error
	GetSubcategory(ctx context.Context, id uuid.UUID) (*domain.Subcategory, error)
	ListSubcategories(ctx context.Context, params repository.ListParams) ([]domain.Subcategory, int, error)

	CreateProduct(ctx context.Context, product *domain.Product) error
	UpdateProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ListProducts(ctx context.Context, params repository.ListParams) ([]domain.Product, int, error)

	CreateShipping(ctx context.Context, shipping *domain.ProductShipping) error
	UpdateShipping(ctx context.Context, shipping *domain.ProductShipping) error
	DeleteShipping(ctx context.Context, id uuid.UUID) error
	GetShipping(ctx context.Context, id uuid.UUID) (*domain.ProductShipping, error)
	ListShipping(ctx context.Context, params repository.ListParams) ([]domain.ProductShipping, int, error)

	AddProductImage(ctx context.Context, image *domain.ProductImage, upload Upload) error
	UpdateProductImage(ctx context.Context, image *domain.ProductImage) error
	DeleteProductImage(ctx context.Context, id uuid.UUID) error
	GetProductImage(ctx context.Context, id uuid.UUID) (*domain.ProductImage, error)
	ListProductImages(ctx context.Context, params repository.ListParams) ([]domain.ProductImage, int, error)
}

type catalogService struct {
	Deps
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(deps Deps) CatalogService {
	return &catalogService{Deps: deps}
}

func requireSlug(slug string) error {
	if slug == "" {
		return invalidInput("slug", "could not derive a slug from the name")
	}
	return nil
}

func (s *catalogService) CreateCategory(ctx context.Context, c *domain.Category) error {
	c.ID = uuid.New()
	c.EnsureSlug()
	if err := requireSlug(c.Slug); err != nil {
		return err
	}
	// thumbnails only arrive through SetCategoryThumbnail
	c.Thumbnail = ""

	if err := s.Store.Repos().Categories.Create(ctx, c); err != nil {
		return err
	}
	s.Logger.Info("Category created", zap.String("category_id", c.ID.String()), zap.String("slug", c.Slug))
	return nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, c *domain.Category) error {
	return s.Store.WithinTx(ctx, func(r *repository.Repositories) error {
		stored, err := r.Categories.FindByID(ctx, c.ID)
		if err != nil {
			return err
		}
		if c.Slug == "" {
			c.Slug = stored.Slug
		}
		c.Thumbnail = stored.Thumbnail
		return r.Categories.Update(ctx, c)
	})
}

// DeleteCategory removes the category and, once committed, every stored
// file the cascade orphaned.
func (s *catalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	var refs []string
	err := s.Store.WithinTx(ctx, func(r *repository.Repositories) error {
		var err error
		if refs, err = r.Categories.FileRefs(ctx, id); err != nil {
			return err
		}
		return r.Categories.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.discardImages(refs)
	s.Logger.Info("Category deleted", zap.String("category_id", id.String()), zap.Int("files_removed", len(refs)))
	return nil
}

func (s *catalogService) GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	return s.Store.Repos().Categories.FindByID(ctx, id)
}

func (s *catalogService) ListCategories(ctx context.Context, params repository.ListParams) ([]domain.Category, int, error) {
	return s.Store.Repos().Categories.List(ctx, params)
}

// SetCategoryThumbnail validates and stores a new thumbnail, replacing the old file.
func (s *catalogService) SetCategoryThumbnail(ctx context.Context, id uuid.UUID, up Upload) (*domain.Category, error) {
	repos := s.Store.Repos()
	if _, err := repos.Categories.FindByID(ctx, id); err != nil {
		return nil, err
	}

	ref, err := s.storeImage("category_thumbnail", media.DirCategoryThumbnails, up)
	if err != nil {
		return nil, err
	}

	var previous string
	var category *domain.Category
	err = s.Store.WithinTx(ctx, func(r *repository.Repositories) error {
		stored, err := r.Categories.FindByID(ctx, id)
		if err != nil {
			return err
		}
		previous = stored.Thumbnail
		stored.Thumbnail = ref
		if err := r.Categories.Update(ctx, stored); err != nil {
			return err
		}
		category = stored
		return nil
	})
	if err != nil {
		s.discardImage(ref)
		return nil, err
	}

	s.discardImage(previous)
	return category, nil
}

func (s *catalogService) CreateSubcategory(ctx context.Context, sc *domain.Subcategory) error {
	sc.ID = uuid.New()
	sc.EnsureSlug()
	if err := requireSlug(sc.Slug); err != nil {
		return err
	}
	return s.Store.Repos().Subcategories.Create(ctx, sc)
}

func (s *catalogService) UpdateSubcategory(ctx context.Context, sc *domain.Subcategory) error {
	return s.Store.WithinTx(ctx, func(r *repository.Repositories) error {
		stored, err := r.Subcategories.FindByID(ctx, sc.ID)
		if err != nil {
			return err
		}
		if sc.Slug == "" {
			sc.Slug = stored.Slug
		}
		return r.Subcategories.Update(ctx, sc)
	})
}

func (s *catalogService) DeleteSubcategory(ctx context.Context, id uuid.UUID) error {
	var refs []string
	err := s.Store.WithinTx(ctx, func(r *repository.Repositories) error {
		var err error
		if refs, err = r.Subcategories.FileRefs(ctx, id); err != nil {
			return err
		}
		return r.Subcategories.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.discardImages(refs)
	return nil
}

func (s *catalogService) GetSubcategory(ctx context.Context, id uuid.UUID) (*domain.Subcategory, error) {
	return s.Store.Repos().Subcategories.FindByID(ctx, id)
}

func (s *catalogService) ListSubcategories(ctx context.Context, params repository.ListParams) ([]domain.Subcategory, int, error) {
	return s.Store.Repos().Subcategories.List(ctx, params)
}

// CreateProduct assigns the slug and SKU when the caller left them empty.
func (s *catalogService) CreateProduct(ctx context.Context, p *domain.Product) error {
	p.ID = uuid.New()
	p.EnsureIdentifiers()
	if err := requireSlug(p.Slug); err != nil {
		return err
	}

	if err := s.Store.Repos().Products.Create(ctx, p); err != nil {
		return err
	}
	s.Logger.Info("Product created",
		zap.String("product_id", p.ID.String()),
		zap.String("slug", p.Slug),
		zap.String("sku", p.SKU),
	)
	return nil
}

// UpdateProduct keeps the stored slug and SKU when the caller sends them empty.
func (s *catalogService) UpdateProduct(ctx context.Context, p *domain.Product) error {
	return s.Store.WithinTx(ctx, func(r *repository.Repositories) error {
		stored, err := r.Products.FindByID(ctx, p.ID)
		if err != nil {
			return err
		}
		if p.Slug == "" {
			p.Slug = stored.Slug
		}
		if p.SKU == "" {
			p.SKU = stored.SKU
		}
		return r.Products.Update(ctx, p)
	})
}

func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	var refs []string
	err := s.Store.WithinTx(ctx, func(r *repository.Repositories) error {
		var err error
		if refs, err = r.Products.FileRefs(ctx, id); err != nil {
			return err
		}
		return r.Products.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.discardImages(refs)
	s.Logger.Info("Product deleted", zap.String("product_id", id.String()), zap.Int("files_removed", len(refs)))
	return nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.Store.Repos().Products.FindByID(ctx, id)
}

func (s *catalogService) ListProducts(ctx context.Context, params repository.ListParams) ([]domain.Product, int, error) {
	return s.Store.Repos().Products.List(ctx, params)
}

func (s *catalogService) CreateShipping(ctx context.Context, sh *domain.ProductShipping) error {
	sh.ID = uuid.New()
	return s.Store.Repos().Shipping.Create(ctx, sh)
}

func (s *catalogService) UpdateShipping(ctx context.Context, sh *domain.ProductShipping) error {
	return s.Store.Repos().Shipping.Update(ctx, sh)
}

func (s *catalogService) DeleteShipping(ctx context.Context, id uuid.UUID) error {
	return s.Store.Repos().Shipping.Delete(ctx, id)
}

func (s *catalogService) GetShipping(ctx context.Context, id uuid.UUID) (*domain.ProductShipping, error) {
	return s.Store.Repos().Shipping.FindByID(ctx, id)
}

func (s *catalogService) ListShipping(ctx context.Context, params repository.ListParams) ([]domain.ProductShipping, int, error) {
	return s.Store.Repos().Shipping.List(ctx, params)
}

// AddProductImage validates the upload before anything is written. A main
// image demotes the product's other images in the same transaction.
func (s *catalogService) AddProductImage(ctx context.Context, img *domain.ProductImage, up Upload) error {
	ref, err := s.storeImage("product_image", media.DirProductImages, up)
	if err != nil {
		return err
	}

	img.ID = uuid.New()
	img.Image = ref
	err = s.Store.WithinTx(ctx, func(r *repository.Repositories) error {
		if err := r.ProductImages.Create(ctx, img); err != nil {
			return err
		}
		return s.demoteSiblings(ctx, r, img)
	})
	if err != nil {
		s.discardImage(ref)
		return err
	}
	return nil
}

func (s *catalogService) UpdateProductImage(ctx context.Context, img *domain.ProductImage) error {
	return s.Store.WithinTx(ctx, func(r *repository.Repositories) error {
		stored, err := r.ProductImages.FindByID(ctx, img.ID)
		if err != nil {
			return err
		}
		img.Image = stored.Image
		if err := r.ProductImages.Update(ctx, img); err != nil {
			return err
		}
		return s.demoteSiblings(ctx, r, img)
	})
}

func (s *catalogService) demoteSiblings(ctx context.Context, r *repository.Repositories, img *domain.ProductImage) error {
	if !img.IsMain {
		return nil
	}
	n, err := r.ProductImages.ClearMain(ctx, img.ProductID, img.ID)
	if err != nil {
		return fmt.Errorf("failed to demote product images: %w", err)
	}
	if n > 0 {
		s.Logger.Info("Main product image replaced",
			zap.String("product_id", img.ProductID.String()),
			zap.String("image_id", img.ID.String()),
			zap.Int64("demoted", n),
		)
	}
	return nil
}

func (s *catalogService) DeleteProductImage(ctx context.Context, id uuid.UUID) error {
	repos := s.Store.Repos()
	stored, err := repos.ProductImages.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := repos.ProductImages.Delete(ctx, id); err != nil {
		return err
	}
	s.discardImage(stored.Image)
	return nil
}

func (s *catalogService) GetProductImage(ctx context.Context, id uuid.UUID) (*domain.ProductImage, error) {
	return s.Store.Repos().ProductImages.FindByID(ctx, id)
}

func (s *catalogService) ListProductImages(ctx context.Context, params repository.ListParams) ([]domain.ProductImage, int, error) {
	return s.Store.Repos().ProductImages.List(ctx, params)
}
