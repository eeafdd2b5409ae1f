package user

import (
	"context"

	"github.com/google/uuid"

	domain "tandem-user-service/internal/domain/user"
)

// Repository defines the interface for user data access operations. It
// abstracts the data layer, allowing different implementations (e.g.
// PostgreSQL, in-memory) to be used interchangeably.
type Repository interface {
	// GetByID retrieves a user by identifier. Returns (nil, nil) when no
	// user matches.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	// GetByEmail retrieves a user by email address. Returns (nil, nil) when
	// no user matches, and an argument error when the email is blank.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// Add persists a new user and returns the stored entity. Email
	// uniqueness is enforced by the storage layer.
	Add(ctx context.Context, u *domain.User) (*domain.User, error)
	// Update persists changes to an existing user matched by identifier and
	// returns the stored entity.
	Update(ctx context.Context, u *domain.User) (*domain.User, error)
	// ExistsByEmail reports whether a user with the email exists. A blank
	// email yields (false, nil) rather than an error.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// Usecase defines the interface for user business logic operations.
type Usecase interface {
	CreateUser(ctx context.Context, in CreateUserRequest) (*UserResponse, error)
	GetUserByEmail(ctx context.Context, email string) (*UserResponse, error)
	UpdateUser(ctx context.Context, email string, in UpdateUserRequest) (*UserResponse, error)
}
