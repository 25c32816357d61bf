package service

import (
	"context"

	"catalog-inventory/internal/domain"
	"catalog-inventory/internal/media"
	"catalog-inventory/internal/repository"

	"github.com/google/uuid"
)

// ReviewService manages product reviews and their photos
type ReviewService interface {
	CreateReview(ctx context.Context, review *domain.ProductReview) error
	UpdateReview(ctx context.Context, review *domain.ProductReview) error
	DeleteReview(ctx context.Context, id uuid.UUID) error
	GetReview(ctx context.Context, id uuid.UUID) (*domain.ProductReview, error)
	ListReviews(ctx context.Context, params repository.ListParams) ([]domain.ProductReview, int, error)

	AddReviewImage(ctx context.Context, reviewID uuid.UUID, upload Upload) (*domain.ReviewImage, error)
	UpdateReviewImage(ctx context.Context, image *domain.ReviewImage) error
	DeleteReviewImage(ctx context.Context, id uuid.UUID) error
	GetReviewImage(ctx context.Context, id uuid.UUID) (*domain.ReviewImage, error)
	ListReviewImages(ctx context.Context, params repository.ListParams) ([]domain.ReviewImage, int, error)
}

type reviewService struct {
	Deps
}

// NewReviewService creates a new instance of ReviewService
func NewReviewService(deps Deps) ReviewService {
	return &reviewService{Deps: deps}
}

func validateRating(rating int) error {
	if rating < domain.MinRating || rating > domain.MaxRating {
		return invalidInput("rating", "must be between 1 and 5")
	}
	return nil
}

func (s *reviewService) CreateReview(ctx context.Context, rv *domain.ProductReview) error {
	if err := validateRating(rv.Rating); err != nil {
		return err
	}
	rv.ID = uuid.New()
	return s.Store.Repos().Reviews.Create(ctx, rv)
}

func (s *reviewService) UpdateReview(ctx context.Context, rv *domain.ProductReview) error {
	if err := validateRating(rv.Rating); err != nil {
		return err
	}
	return s.Store.Repos().Reviews.Update(ctx, rv)
}

// DeleteReview removes the review; its photos go with it.
func (s *reviewService) DeleteReview(ctx context.Context, id uuid.UUID) error {
	var refs []string
	err := s.Store.WithinTx(ctx, func(r *repository.Repositories) error {
		var err error
		if refs, err = r.Reviews.FileRefs(ctx, id); err != nil {
			return err
		}
		return r.Reviews.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.discardImages(refs)
	return nil
}

func (s *reviewService) GetReview(ctx context.Context, id uuid.UUID) (*domain.ProductReview, error) {
	return s.Store.Repos().Reviews.FindByID(ctx, id)
}

func (s *reviewService) ListReviews(ctx context.Context, params repository.ListParams) ([]domain.ProductReview, int, error) {
	return s.Store.Repos().Reviews.List(ctx, params)
}

// AddReviewImage rejects an invalid upload before any file or row is written.
func (s *reviewService) AddReviewImage(ctx context.Context, reviewID uuid.UUID, up Upload) (*domain.ReviewImage, error) {
	ref, err := s.storeImage("review_photo", media.DirReviewPhotos, up)
	if err != nil {
		return nil, err
	}

	img := &domain.ReviewImage{ID: uuid.New(), ReviewID: reviewID, Image: ref}
	if err := s.Store.Repos().ReviewImages.Create(ctx, img); err != nil {
		s.discardImage(ref)
		return nil, err
	}
	return img, nil
}

// UpdateReviewImage can only move the photo to another review.
func (s *reviewService) UpdateReviewImage(ctx context.Context, img *domain.ReviewImage) error {
	return s.Store.WithinTx(ctx, func(r *repository.Repositories) error {
		stored, err := r.ReviewImages.FindByID(ctx, img.ID)
		if err != nil {
			return err
		}
		img.Image = stored.Image
		return r.ReviewImages.Update(ctx, img)
	})
}

func (s *reviewService) DeleteReviewImage(ctx context.Context, id uuid.UUID) error {
	repos := s.Store.Repos()
	stored, err := repos.ReviewImages.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := repos.ReviewImages.Delete(ctx, id); err != nil {
		return err
	}
	s.discardImage(stored.Image)
	return nil
}

func (s *reviewService) GetReviewImage(ctx context.Context, id uuid.UUID) (*domain.ReviewImage, error) {
	return s.Store.Repos().ReviewImages.FindByID(ctx, id)
}

func (s *reviewService) ListReviewImages(ctx context.Context, params repository.ListParams) ([]domain.ReviewImage, int, error) {
	return s.Store.Repos().ReviewImages.List(ctx, params)
}
