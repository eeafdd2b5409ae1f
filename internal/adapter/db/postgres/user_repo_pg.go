package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	domain "tandem-user-service/internal/domain/user"
	apperrors "tandem-user-service/pkg/errors"
)

// UserRepoPG implements the user Repository interface using PostgreSQL and GORM.
type UserRepoPG struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewUserRepoPG creates a new instance of UserRepoPG.
func NewUserRepoPG(db *gorm.DB, log *zap.Logger) *UserRepoPG {
	return &UserRepoPG{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	UserID       string  `gorm:"primaryKey;size:36"`
	FirstName    string  `gorm:"size:100;not null"`
	MiddleName   *string `gorm:"size:100"`
	LastName     string  `gorm:"size:100;not null"`
	PhoneNumber  string  `gorm:"size:20;not null"`
	EmailAddress string  `gorm:"size:255;not null;uniqueIndex"`
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

func toSchema(u *domain.User) *UserSchema {
	return &UserSchema{
		UserID:       u.UserID.String(),
		FirstName:    u.FirstName,
		MiddleName:   u.MiddleName,
		LastName:     u.LastName,
		PhoneNumber:  u.PhoneNumber,
		EmailAddress: u.EmailAddress,
	}
}

func toDomain(m *UserSchema) (*domain.User, error) {
	id, err := uuid.Parse(m.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q in storage: %w", m.UserID, err)
	}
	return &domain.User{
		UserID:       id,
		FirstName:    m.FirstName,
		MiddleName:   m.MiddleName,
		LastName:     m.LastName,
		PhoneNumber:  m.PhoneNumber,
		EmailAddress: m.EmailAddress,
	}, nil
}

// Add inserts a new user into the database. The caller is expected to have
// pre-checked email uniqueness; a concurrent insert that slips past that
// check is rejected by the unique index and reported as a conflict.
func (r *UserRepoPG) Add(ctx context.Context, u *domain.User) (*domain.User, error) {
	if u == nil {
		return nil, errors.New("user cannot be nil")
	}

	model := toSchema(u)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			r.log.Warn("duplicate email rejected by unique index", zap.String("email", u.EmailAddress))
			return nil, apperrors.NewAlreadyExistsError("user",
				fmt.Sprintf("User with email address '%s' already exists.", u.EmailAddress))
		}
		r.log.Error("failed to create user in db", zap.Error(err), zap.String("email", u.EmailAddress))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	r.log.Info("user created in db", zap.String("user_id", model.UserID))
	return toDomain(model)
}

// Update persists changes to an existing user, matched by identifier.
func (r *UserRepoPG) Update(ctx context.Context, u *domain.User) (*domain.User, error) {
	if u == nil {
		return nil, errors.New("user cannot be nil")
	}

	model := toSchema(u)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		r.log.Error("failed to update user in db", zap.Error(err), zap.String("user_id", model.UserID))
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	r.log.Info("user updated in db", zap.String("user_id", model.UserID))
	return toDomain(model)
}

// GetByID retrieves a user from the database by their unique identifier.
// Returns (nil, nil) when no user matches.
func (r *UserRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("user_id = ?", id.String()).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found", zap.String("user_id", id.String()))
			return nil, nil
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.String("user_id", id.String()))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return toDomain(&model)
}

// GetByEmail retrieves a user from the database by their email address.
// Returns (nil, nil) when no user matches, and an argument error when the
// email is blank. Whitespace-only emails count as blank.
func (r *UserRepoPG) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, apperrors.NewInvalidArgumentError("email address cannot be blank")
	}

	var model UserSchema
	if err := r.db.WithContext(ctx).Where("email_address = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found by email", zap.String("email", email))
			return nil, nil
		}
		r.log.Error("failed to get user by email from db", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return toDomain(&model)
}

// ExistsByEmail reports whether a user with the email address exists. A
// blank (including whitespace-only) email yields (false, nil) rather than
// an error.
func (r *UserRepoPG) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if strings.TrimSpace(email) == "" {
		return false, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&UserSchema{}).Where("email_address = ?", email).Count(&count).Error; err != nil {
		r.log.Error("failed to check email existence in db", zap.Error(err), zap.String("email", email))
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return count > 0, nil
}
