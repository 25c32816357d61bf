package repository

import (
	"context"

	"catalog-inventory/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var userList = listSpec{
	from:     "users u",
	columns:  "u.*",
	idColumn: "u.id",
	search:   []string{"u.username", "u.email"},
	filters: map[string]filter{
		"role":       {"u.role", FilterText},
		"created_at": {"u.created_at", FilterDate},
	},
	sorts: map[string]string{
		"username":   "u.username",
		"email":      "u.email",
		"created_at": "u.created_at",
	},
	defaultSort: "u.username ASC",
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	CountByRole(ctx context.Context, role string) (int, error)
	List(ctx context.Context, params ListParams) ([]domain.User, int, error)
}

type userRepository struct {
	db sqlx.ExtContext
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db sqlx.ExtContext) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user; a duplicate username or email is ErrConflict
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.Role,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	return mapError(err, "create user")
}

// FindByEmail retrieves a user by email using parameterized queries
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user := &domain.User{}
	if err := sqlx.GetContext(ctx, r.db, user, `SELECT * FROM users WHERE email = $1`, email); err != nil {
		return nil, mapError(err, "find user by email")
	}
	return user, nil
}

// FindByUsername retrieves a user by username using parameterized queries
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	user := &domain.User{}
	if err := sqlx.GetContext(ctx, r.db, user, `SELECT * FROM users WHERE username = $1`, username); err != nil {
		return nil, mapError(err, "find user by username")
	}
	return user, nil
}

// FindByID retrieves a user by ID using parameterized queries
func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return findByID[domain.User](ctx, r.db, "users", id)
}

func (r *userRepository) CountByRole(ctx context.Context, role string) (int, error) {
	var count int
	if err := sqlx.GetContext(ctx, r.db, &count, `SELECT COUNT(*) FROM users WHERE role = $1`, role); err != nil {
		return 0, mapError(err, "count users")
	}
	return count, nil
}

func (r *userRepository) List(ctx context.Context, params ListParams) ([]domain.User, int, error) {
	return list[domain.User](ctx, r.db, &userList, params)
}
