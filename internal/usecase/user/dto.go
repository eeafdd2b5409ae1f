package user

// CreateUserRequest represents the request payload for creating a new user.
type CreateUserRequest struct {
	FirstName    string  `json:"firstName" validate:"required,notblank,max=100"`
	MiddleName   *string `json:"middleName" validate:"omitempty,max=100"`
	LastName     string  `json:"lastName" validate:"required,notblank,max=100"`
	PhoneNumber  string  `json:"phoneNumber" validate:"required,notblank,max=20,phone"`
	EmailAddress string  `json:"emailAddress" validate:"required,notblank,email,max=255"`
}

// UpdateUserRequest represents the request payload for updating an existing
// user. The email address is the lookup key and is not part of the payload.
type UpdateUserRequest struct {
	FirstName   string  `json:"firstName" validate:"required,notblank,max=100"`
	MiddleName  *string `json:"middleName" validate:"omitempty,max=100"`
	LastName    string  `json:"lastName" validate:"required,notblank,max=100"`
	PhoneNumber string  `json:"phoneNumber" validate:"required,notblank,max=20,phone"`
}

// UserResponse represents the response payload for user details. The same
// mapping is used by every operation.
type UserResponse struct {
	UserID       string `json:"userId"`
	Name         string `json:"name"`
	PhoneNumber  string `json:"phoneNumber"`
	EmailAddress string `json:"emailAddress"`
}
