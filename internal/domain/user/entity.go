package user

import (
	"strings"

	"github.com/google/uuid"
)

// User represents a person with identity and contact attributes. The email
// address is the natural lookup key and is immutable after construction;
// UserID identifies the stored row.
type User struct {
	UserID       uuid.UUID
	FirstName    string
	MiddleName   *string
	LastName     string
	PhoneNumber  string
	EmailAddress string
}

// New constructs a user with a freshly generated identifier. Field content
// rules (non-empty, length, format) are a validation-layer concern and are
// not enforced here.
func New(firstName string, middleName *string, lastName, phoneNumber, emailAddress string) *User {
	return &User{
		UserID:       uuid.New(),
		FirstName:    firstName,
		MiddleName:   middleName,
		LastName:     lastName,
		PhoneNumber:  phoneNumber,
		EmailAddress: emailAddress,
	}
}

// Update mutates every field except the identifier and the email address.
func (u *User) Update(firstName string, middleName *string, lastName, phoneNumber string) {
	u.FirstName = firstName
	u.MiddleName = middleName
	u.LastName = lastName
	u.PhoneNumber = phoneNumber
}

// FullName returns the first, middle and last names joined by single spaces.
// A nil or blank middle name is omitted.
func (u *User) FullName() string {
	parts := []string{u.FirstName}
	if u.MiddleName != nil && strings.TrimSpace(*u.MiddleName) != "" {
		parts = append(parts, *u.MiddleName)
	}
	parts = append(parts, u.LastName)
	return strings.Join(parts, " ")
}
