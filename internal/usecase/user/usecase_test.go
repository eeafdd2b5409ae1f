package user

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zaptest"

	domain "tandem-user-service/internal/domain/user"
	apperrors "tandem-user-service/pkg/errors"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) Add(ctx context.Context, u *domain.User) (*domain.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, u *domain.User) (*domain.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func setupTestService(t *testing.T) (*Service, *MockRepository) {
	mockRepo := new(MockRepository)
	logger := zaptest.NewLogger(t)
	return New(mockRepo, logger), mockRepo
}

func strPtr(s string) *string {
	return &s
}

func validCreateRequest() CreateUserRequest {
	return CreateUserRequest{
		FirstName:    "Matthew",
		MiddleName:   strPtr("Decker"),
		LastName:     "Lund",
		PhoneNumber:  "555-555-5555",
		EmailAddress: "matt@example.com",
	}
}

// ==================== CREATE USER TESTS ====================

func TestCreateUser_Success(t *testing.T) {
	uc, mockRepo := setupTestService(t)
	ctx := context.Background()
	req := validCreateRequest()

	stored := domain.New(req.FirstName, req.MiddleName, req.LastName, req.PhoneNumber, req.EmailAddress)

	mockRepo.On("ExistsByEmail", ctx, req.EmailAddress).Return(false, nil)
	mockRepo.On("Add", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.UserID != uuid.Nil &&
			u.FirstName == req.FirstName &&
			u.EmailAddress == req.EmailAddress
	})).Return(stored, nil)

	resp, err := uc.CreateUser(ctx, req)

	assert.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, "Matthew Decker Lund", resp.Name)
	assert.Equal(t, "555-555-5555", resp.PhoneNumber)
	assert.Equal(t, "matt@example.com", resp.EmailAddress)
	assert.Equal(t, stored.UserID.String(), resp.UserID)

	mockRepo.AssertExpectations(t)
}

func TestCreateUser_FullName_NoMiddleName(t *testing.T) {
	uc, mockRepo := setupTestService(t)
	ctx := context.Background()
	req := validCreateRequest()
	req.MiddleName = nil

	stored := domain.New(req.FirstName, nil, req.LastName, req.PhoneNumber, req.EmailAddress)

	mockRepo.On("ExistsByEmail", ctx, req.EmailAddress).Return(false, nil)
	mockRepo.On("Add", ctx, mock.Anything).Return(stored, nil)

	resp, err := uc.CreateUser(ctx, req)

	assert.NoError(t, err)
	assert.Equal(t, "Matthew Lund", resp.Name)
}

func TestCreateUser_ValidationError_MissingRequiredFields(t *testing.T) {
	uc, _ := setupTestService(t)
	ctx := context.Background()

	resp, err := uc.CreateUser(ctx, CreateUserRequest{})

	assert.Error(t, err)
	assert.Nil(t, resp)

	var validationErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)

	fields := make([]string, 0, len(validationErr.Errors))
	for _, fe := range validationErr.Errors {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"firstName", "lastName", "phoneNumber", "emailAddress"}, fields)
}

func TestCreateUser_ValidationError_InvalidEmail(t *testing.T) {
	uc, _ := setupTestService(t)
	ctx := context.Background()
	req := validCreateRequest()
	req.EmailAddress = "invalid-email"

	resp, err := uc.CreateUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)

	var validationErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Len(t, validationErr.Errors, 1)
	assert.Equal(t, "emailAddress", validationErr.Errors[0].Field)
	assert.Equal(t, "emailAddress format is invalid.", validationErr.Errors[0].Message)
}

func TestCreateUser_ValidationError_PhoneCharset(t *testing.T) {
	uc, _ := setupTestService(t)
	ctx := context.Background()
	req := validCreateRequest()
	req.PhoneNumber = "555-ABC-5555"

	resp, err := uc.CreateUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)

	var validationErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "phoneNumber", validationErr.Errors[0].Field)
}

func TestCreateUser_ValidationError_FieldTooLong(t *testing.T) {
	uc, _ := setupTestService(t)
	ctx := context.Background()

	long := make([]byte, 101)
	for i := range long {
		long[i] = 'a'
	}

	req := validCreateRequest()
	req.FirstName = string(long)

	resp, err := uc.CreateUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)

	var validationErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "firstName", validationErr.Errors[0].Field)
	assert.Equal(t, "firstName must not exceed 100 characters.", validationErr.Errors[0].Message)
}

func TestCreateUser_EmailAlreadyExists(t *testing.T) {
	uc, mockRepo := setupTestService(t)
	ctx := context.Background()
	req := validCreateRequest()

	mockRepo.On("ExistsByEmail", ctx, req.EmailAddress).Return(true, nil)

	resp, err := uc.CreateUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)

	var conflict *apperrors.AlreadyExistsError
	assert.ErrorAs(t, err, &conflict)
	assert.Contains(t, err.Error(), "matt@example.com")

	mockRepo.AssertExpectations(t)
}

func TestCreateUser_ConcurrentCreateConflict(t *testing.T) {
	uc, mockRepo := setupTestService(t)
	ctx := context.Background()
	req := validCreateRequest()

	// Existence pre-check passes, but the storage unique index rejects the
	// insert because a concurrent create won the race
	mockRepo.On("ExistsByEmail", ctx, req.EmailAddress).Return(false, nil)
	mockRepo.On("Add", ctx, mock.Anything).
		Return(nil, apperrors.NewAlreadyExistsError("user", "User with email address 'matt@example.com' already exists."))

	resp, err := uc.CreateUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)

	var conflict *apperrors.AlreadyExistsError
	assert.ErrorAs(t, err, &conflict)
}

func TestCreateUser_StorageFailure(t *testing.T) {
	uc, mockRepo := setupTestService(t)
	ctx := context.Background()
	req := validCreateRequest()

	mockRepo.On("ExistsByEmail", ctx, req.EmailAddress).Return(false, errors.New("connection refused"))

	resp, err := uc.CreateUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)

	var internal *apperrors.InternalError
	assert.ErrorAs(t, err, &internal)
}

// ==================== GET USER TESTS ====================

func TestGetUserByEmail_Success(t *testing.T) {
	uc, mockRepo := setupTestService(t)
	ctx := context.Background()

	stored := domain.New("Matthew", strPtr("Decker"), "Lund", "555-555-5555", "matt@example.com")
	mockRepo.On("GetByEmail", ctx, "matt@example.com").Return(stored, nil)

	resp, err := uc.GetUserByEmail(ctx, "matt@example.com")

	assert.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, stored.UserID.String(), resp.UserID)
	assert.Equal(t, "Matthew Decker Lund", resp.Name)

	mockRepo.AssertExpectations(t)
}

func TestGetUserByEmail_Absent_NotAnError(t *testing.T) {
	uc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, nil)

	resp, err := uc.GetUserByEmail(ctx, "nobody@example.com")

	assert.NoError(t, err)
	assert.Nil(t, resp)
}

func TestGetUserByEmail_StorageFailure(t *testing.T) {
	uc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("GetByEmail", ctx, "matt@example.com").Return(nil, errors.New("connection refused"))

	resp, err := uc.GetUserByEmail(ctx, "matt@example.com")

	assert.Error(t, err)
	assert.Nil(t, resp)

	var internal *apperrors.InternalError
	assert.ErrorAs(t, err, &internal)
}

// ==================== UPDATE USER TESTS ====================

func TestUpdateUser_Success(t *testing.T) {
	uc, mockRepo := setupTestService(t)
	ctx := context.Background()

	stored := domain.New("Matthew", strPtr("Decker"), "Lund", "555-555-5555", "matt@example.com")
	id := stored.UserID

	req := UpdateUserRequest{
		FirstName:   "Updated",
		MiddleName:  strPtr("New"),
		LastName:    "Name",
		PhoneNumber: "555-999-9999",
	}

	mockRepo.On("GetByEmail", ctx, "matt@example.com").Return(stored, nil)
	mockRepo.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.UserID == id &&
			u.FirstName == "Updated" &&
			u.EmailAddress == "matt@example.com"
	})).Return(stored, nil)

	resp, err := uc.UpdateUser(ctx, "matt@example.com", req)

	assert.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, "Updated New Name", resp.Name)
	assert.Equal(t, "555-999-9999", resp.PhoneNumber)
	// Email is the lookup key and never changes
	assert.Equal(t, "matt@example.com", resp.EmailAddress)
	assert.Equal(t, id.String(), resp.UserID)

	mockRepo.AssertExpectations(t)
}

func TestUpdateUser_NotFound(t *testing.T) {
	uc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, nil)

	resp, err := uc.UpdateUser(ctx, "nobody@example.com", UpdateUserRequest{
		FirstName:   "Updated",
		LastName:    "Name",
		PhoneNumber: "555-999-9999",
	})

	assert.Error(t, err)
	assert.Nil(t, resp)

	var notFound *apperrors.NotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Contains(t, err.Error(), "nobody@example.com")
}

func TestUpdateUser_ValidationError(t *testing.T) {
	uc, _ := setupTestService(t)
	ctx := context.Background()

	resp, err := uc.UpdateUser(ctx, "matt@example.com", UpdateUserRequest{})

	assert.Error(t, err)
	assert.Nil(t, resp)

	var validationErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)

	fields := make([]string, 0, len(validationErr.Errors))
	for _, fe := range validationErr.Errors {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"firstName", "lastName", "phoneNumber"}, fields)
}

func TestUpdateUser_StorageFailureOnUpdate(t *testing.T) {
	uc, mockRepo := setupTestService(t)
	ctx := context.Background()

	stored := domain.New("Matthew", nil, "Lund", "555-555-5555", "matt@example.com")
	mockRepo.On("GetByEmail", ctx, "matt@example.com").Return(stored, nil)
	mockRepo.On("Update", ctx, mock.Anything).Return(nil, errors.New("connection refused"))

	resp, err := uc.UpdateUser(ctx, "matt@example.com", UpdateUserRequest{
		FirstName:   "Updated",
		LastName:    "Name",
		PhoneNumber: "555-999-9999",
	})

	assert.Error(t, err)
	assert.Nil(t, resp)

	var internal *apperrors.InternalError
	assert.ErrorAs(t, err, &internal)
}
