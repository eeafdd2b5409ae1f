package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	domain "tandem-user-service/internal/domain/user"
	apperrors "tandem-user-service/pkg/errors"
)

// UserRepoMemory implements the user Repository interface in process memory.
// It mirrors the durable backend's contract, including email uniqueness, and
// is intended for tests and local development.
type UserRepoMemory struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*domain.User
	byEmail map[string]*domain.User
}

// NewUserRepoMemory creates a new empty in-memory repository.
func NewUserRepoMemory() *UserRepoMemory {
	return &UserRepoMemory{
		byID:    make(map[uuid.UUID]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

// clone returns a detached copy so callers never share mutable state with
// the stored entity.
func clone(u *domain.User) *domain.User {
	c := *u
	if u.MiddleName != nil {
		m := *u.MiddleName
		c.MiddleName = &m
	}
	return &c
}

// Add stores a new user. The unique-email invariant is enforced here just
// as the durable backend's unique index does.
func (r *UserRepoMemory) Add(ctx context.Context, u *domain.User) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if u == nil {
		return nil, errors.New("user cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[u.EmailAddress]; ok {
		return nil, apperrors.NewAlreadyExistsError("user",
			fmt.Sprintf("User with email address '%s' already exists.", u.EmailAddress))
	}

	stored := clone(u)
	r.byID[stored.UserID] = stored
	r.byEmail[stored.EmailAddress] = stored
	return clone(stored), nil
}

// Update persists changes to an existing user matched by identifier.
func (r *UserRepoMemory) Update(ctx context.Context, u *domain.User) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if u == nil {
		return nil, errors.New("user cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[u.UserID]
	if !ok {
		return nil, fmt.Errorf("user not found: id=%s", u.UserID)
	}

	stored := clone(u)
	delete(r.byEmail, existing.EmailAddress)
	r.byID[stored.UserID] = stored
	r.byEmail[stored.EmailAddress] = stored
	return clone(stored), nil
}

// GetByID retrieves a user by identifier. Returns (nil, nil) when absent.
func (r *UserRepoMemory) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return clone(u), nil
}

// GetByEmail retrieves a user by email address. Returns (nil, nil) when
// absent, and an argument error when the email is blank. Whitespace-only
// emails count as blank.
func (r *UserRepoMemory) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(email) == "" {
		return nil, apperrors.NewInvalidArgumentError("email address cannot be blank")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	return clone(u), nil
}

// ExistsByEmail reports whether a user with the email exists. A blank
// (including whitespace-only) email yields (false, nil).
func (r *UserRepoMemory) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if strings.TrimSpace(email) == "" {
		return false, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byEmail[email]
	return ok, nil
}
