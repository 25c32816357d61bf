package repository

import (
	"context"

	"catalog-inventory/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var reviewList = listSpec{
	from: "product_reviews r JOIN products p ON p.id = r.product_id " +
		"JOIN users u ON u.id = r.user_id",
	columns:  "r.*",
	idColumn: "r.id",
	search:   []string{"p.name", "u.username", "r.rating"},
	filters: map[string]filter{
		"product":     {"r.product_id", FilterUUID},
		"user":        {"r.user_id", FilterUUID},
		"rating":      {"r.rating", FilterInt},
		"is_verified": {"r.is_verified", FilterBool},
		"created_at":  {"r.created_at", FilterDate},
		"updated_at":  {"r.updated_at", FilterDate},
	},
	sorts: map[string]string{
		"rating":      "r.rating",
		"is_verified": "r.is_verified",
		"created_at":  "r.created_at",
	},
	defaultSort: "r.created_at DESC",
}

var reviewImageList = listSpec{
	from: "review_images ri JOIN product_reviews r ON r.id = ri.review_id " +
		"JOIN products p ON p.id = r.product_id JOIN users u ON u.id = r.user_id",
	columns:  "ri.*",
	idColumn: "ri.id",
	search:   []string{"p.name", "u.username"},
	filters: map[string]filter{
		"review":      {"ri.review_id", FilterUUID},
		"uploaded_at": {"ri.uploaded_at", FilterDate},
	},
	sorts: map[string]string{
		"uploaded_at": "ri.uploaded_at",
	},
	defaultSort: "ri.uploaded_at DESC",
}

// ReviewRepository defines the interface for product review data access
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.ProductReview) error
	Update(ctx context.Context, review *domain.ProductReview) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.ProductReview, error)
	List(ctx context.Context, params ListParams) ([]domain.ProductReview, int, error)
	FileRefs(ctx context.Context, id uuid.UUID) ([]string, error)
}

type reviewRepository struct {
	db sqlx.ExtContext
}

// NewReviewRepository creates a new instance of ReviewRepository
func NewReviewRepository(db sqlx.ExtContext) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, rv *domain.ProductReview) error {
	query := `
		INSERT INTO product_reviews (id, product_id, user_id, rating, is_verified, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		rv.ID, rv.ProductID, rv.UserID, rv.Rating, rv.IsVerified, rv.Comment,
	).Scan(&rv.CreatedAt, &rv.UpdatedAt)

	return mapError(err, "create product review")
}

func (r *reviewRepository) Update(ctx context.Context, rv *domain.ProductReview) error {
	query := `
		UPDATE product_reviews
		SET product_id = $2, user_id = $3, rating = $4, is_verified = $5, comment = $6
		WHERE id = $1
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		rv.ID, rv.ProductID, rv.UserID, rv.Rating, rv.IsVerified, rv.Comment,
	).Scan(&rv.CreatedAt, &rv.UpdatedAt)

	return mapError(err, "update product review")
}

func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, "product_reviews", id)
}

func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ProductReview, error) {
	return findByID[domain.ProductReview](ctx, r.db, "product_reviews", id)
}

func (r *reviewRepository) List(ctx context.Context, params ListParams) ([]domain.ProductReview, int, error) {
	return list[domain.ProductReview](ctx, r.db, &reviewList, params)
}

// ReviewImageRepository defines the interface for review photo data access
type ReviewImageRepository interface {
	Create(ctx context.Context, image *domain.ReviewImage) error
	Update(ctx context.Context, image *domain.ReviewImage) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.ReviewImage, error)
	List(ctx context.Context, params ListParams) ([]domain.ReviewImage, int, error)
}

type reviewImageRepository struct {
	db sqlx.ExtContext
}

// NewReviewImageRepository creates a new instance of ReviewImageRepository
func NewReviewImageRepository(db sqlx.ExtContext) ReviewImageRepository {
	return &reviewImageRepository{db: db}
}

func (r *reviewImageRepository) Create(ctx context.Context, img *domain.ReviewImage) error {
	query := `
		INSERT INTO review_images (id, review_id, image)
		VALUES ($1, $2, $3)
		RETURNING uploaded_at
	`

	err := r.db.QueryRowxContext(ctx, query, img.ID, img.ReviewID, img.Image).Scan(&img.UploadedAt)
	return mapError(err, "create review image")
}

func (r *reviewImageRepository) Update(ctx context.Context, img *domain.ReviewImage) error {
	query := `
		UPDATE review_images SET review_id = $2, image = $3
		WHERE id = $1
		RETURNING uploaded_at
	`

	err := r.db.QueryRowxContext(ctx, query, img.ID, img.ReviewID, img.Image).Scan(&img.UploadedAt)
	return mapError(err, "update review image")
}

func (r *reviewImageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, "review_images", id)
}

func (r *reviewImageRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ReviewImage, error) {
	return findByID[domain.ReviewImage](ctx, r.db, "review_images", id)
}

func (r *reviewImageRepository) List(ctx context.Context, params ListParams) ([]domain.ReviewImage, int, error) {
	return list[domain.ReviewImage](ctx, r.db, &reviewImageList, params)
}

func (r *reviewRepository) FileRefs(ctx context.Context, id uuid.UUID) ([]string, error) {
	return fileRefs(ctx, r.db, `SELECT image FROM review_images WHERE review_id = $1`, id)
}
