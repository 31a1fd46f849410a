package models

import (
	"strings"
	"time"

	"github.com/asaskevich/govalidator"

	id "bloomit/pkg/domain"
	dErrors "bloomit/pkg/domain-errors"
)

// MinPasswordLength matches the hosted provider the app was built against.
const MinPasswordLength = 6

// User is the stored account record. PasswordHash never leaves the service.
type User struct {
	ID                id.UserID
	Email             string
	DisplayName       string
	PasswordHash      []byte
	CreatedAt         time.Time
	PasswordChangedAt time.Time
}

// Identity is the opaque handle the app holds for a signed-in user.
type Identity struct {
	UserID      id.UserID `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
}

func (u *User) Identity() *Identity {
	return &Identity{UserID: u.ID, Email: u.Email, DisplayName: u.DisplayName}
}

// Equal compares by value; a nil Identity equals only another nil.
func (i *Identity) Equal(other *Identity) bool {
	if i == nil || other == nil {
		return i == other
	}
	return *i == *other
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Normalize trims the email and lowercases it; passwords are left untouched.
func (c *Credentials) Normalize() {
	c.Email = NormalizeEmail(c.Email)
}

func (c *Credentials) Validate() error {
	if err := ValidateEmail(c.Email); err != nil {
		return err
	}
	return ValidatePassword(c.Password)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateEmail(email string) error {
	if email == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "email is required")
	}
	if !govalidator.StringLength(email, "3", "254") || !govalidator.IsEmail(email) {
		return dErrors.New(dErrors.CodeInvalidInput, "email is badly formatted")
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return dErrors.New(dErrors.CodeInvalidInput, "password should be at least 6 characters")
	}
	if len(password) > 72 {
		// bcrypt ignores bytes past 72
		return dErrors.New(dErrors.CodeInvalidInput, "password is too long")
	}
	return nil
}

// Tokens is the bearer credential handed to the app after register/login.
type Tokens struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type AuthResult struct {
	Identity *Identity `json:"identity"`
	Tokens   Tokens    `json:"tokens"`
}

// ResetToken is a single-use password reset code.
type ResetToken struct {
	Token     string
	UserID    id.UserID
	Email     string
	ExpiresAt time.Time
}

func (t *ResetToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

type ResetConfirmation struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func (r *ResetConfirmation) Validate() error {
	if strings.TrimSpace(r.Token) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "reset token is required")
	}
	return ValidatePassword(r.NewPassword)
}
