package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "tandem-user-service/internal/domain/user"
	apperrors "tandem-user-service/pkg/errors"
	"tandem-user-service/pkg/validation"
)

// Service implements the business logic for user management operations.
// It provides a clean separation between the transport layer and data layer.
type Service struct {
	repo     Repository          // Repository for data access
	log      *zap.Logger         // Logger for structured logging
	validate *validator.Validate // Validator for request validation
}

// New creates a new instance of Service with the provided repository and logger.
func New(r Repository, log *zap.Logger) *Service {
	return &Service{repo: r, log: log, validate: validation.New()}
}

// CreateUser creates a new user after validating the request and checking
// email uniqueness. A concurrent create with the same email may still pass
// the existence check here; the storage unique index resolves that race and
// the resulting conflict is surfaced unchanged.
func (s *Service) CreateUser(ctx context.Context, in CreateUserRequest) (*UserResponse, error) {
	s.log.Info("creating user", zap.String("email", in.EmailAddress))

	if err := validation.Check(s.validate, in); err != nil {
		s.log.Warn("create user validation failed", zap.Error(err))
		return nil, err
	}

	exists, err := s.repo.ExistsByEmail(ctx, in.EmailAddress)
	if err != nil {
		s.log.Error("failed to check existing email", zap.String("email", in.EmailAddress), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to validate email uniqueness", err)
	}
	if exists {
		s.log.Warn("email already exists", zap.String("email", in.EmailAddress))
		return nil, apperrors.NewAlreadyExistsError("user",
			fmt.Sprintf("User with email address '%s' already exists.", in.EmailAddress))
	}

	u := domain.New(in.FirstName, in.MiddleName, in.LastName, in.PhoneNumber, in.EmailAddress)

	stored, err := s.repo.Add(ctx, u)
	if err != nil {
		var conflict *apperrors.AlreadyExistsError
		if errors.As(err, &conflict) {
			s.log.Warn("email uniqueness lost to concurrent create", zap.String("email", in.EmailAddress))
			return nil, conflict
		}
		s.log.Error("failed to create user", zap.String("email", in.EmailAddress), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to create user", err)
	}

	s.log.Info("user created", zap.String("user_id", stored.UserID.String()))
	return toResponse(stored), nil
}

// GetUserByEmail retrieves a user by email address. An absent user yields
// (nil, nil) rather than an error; the transport layer decides how to report
// it. Blank emails are the caller's responsibility and are rejected at the
// boundary before this method is invoked.
func (s *Service) GetUserByEmail(ctx context.Context, email string) (*UserResponse, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		var argErr *apperrors.InvalidArgumentError
		if errors.As(err, &argErr) {
			return nil, argErr
		}
		s.log.Error("failed to get user by email", zap.String("email", email), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to get user", err)
	}
	if u == nil {
		return nil, nil
	}
	return toResponse(u), nil
}

// UpdateUser updates an existing user's names and phone number after
// validating the request. The email address is the lookup key and never
// changes.
func (s *Service) UpdateUser(ctx context.Context, email string, in UpdateUserRequest) (*UserResponse, error) {
	s.log.Info("updating user", zap.String("email", email))

	if err := validation.Check(s.validate, in); err != nil {
		s.log.Warn("update user validation failed", zap.Error(err))
		return nil, err
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		var argErr *apperrors.InvalidArgumentError
		if errors.As(err, &argErr) {
			return nil, argErr
		}
		s.log.Error("failed to get user for update", zap.String("email", email), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to get user", err)
	}
	if u == nil {
		s.log.Warn("user not found for update", zap.String("email", email))
		return nil, apperrors.NewNotFoundError("user",
			fmt.Sprintf("User with email address '%s' not found.", email))
	}

	u.Update(in.FirstName, in.MiddleName, in.LastName, in.PhoneNumber)

	stored, err := s.repo.Update(ctx, u)
	if err != nil {
		s.log.Error("failed to update user", zap.String("email", email), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to update user", err)
	}

	s.log.Info("user updated", zap.String("user_id", stored.UserID.String()))
	return toResponse(stored), nil
}

// toResponse maps a domain user to the shared response shape.
func toResponse(u *domain.User) *UserResponse {
	return &UserResponse{
		UserID:       u.UserID.String(),
		Name:         u.FullName(),
		PhoneNumber:  u.PhoneNumber,
		EmailAddress: u.EmailAddress,
	}
}
