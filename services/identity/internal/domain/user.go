package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/voyago/travelbook/pkg/token"
)

// User is the persisted identity record. PasswordHash and ResetToken never
// leave the identity service.
type User struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"`
	Role          token.Role `json:"role"`
	ContactNumber string     `json:"contact_number"`
	ResetToken    *string    `json:"-"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	CreatedBy     string     `json:"-"`
	UpdatedBy     string     `json:"-"`
}

type RegisterRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	Role          string `json:"role"`
	ContactNumber string `json:"contactNumber"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse mirrors what the login endpoint hands back: the token plus
// enough identity for the client to route itself.
type LoginResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Token   string `json:"token"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	ResetToken      string `json:"resetToken"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

type ChangePasswordRequest struct {
	Email           string `json:"email"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

var contactRegex = regexp.MustCompile(`^\d{10}$`)

const passwordSpecials = "!@#$%^&*()_+={}[]|:;\"'<>,.?/~`-"

func isValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// isStrongPassword requires at least 8 characters with an upper-case
// letter, a lower-case letter, a digit, and a special character.
func isStrongPassword(p string) bool {
	if len(p) < 8 {
		return false
	}
	var lower, upper, digit, special bool
	for _, r := range p {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	return lower && upper && digit && special
}

func (r *RegisterRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Name = strings.TrimSpace(r.Name)
	r.ContactNumber = strings.TrimSpace(r.ContactNumber)
	// Role input is accepted case-insensitively and stored canonical.
	r.Role = strings.ToUpper(strings.TrimSpace(r.Role))
}

func (r *RegisterRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(r.Name) < 2 || len(r.Name) > 100 {
		return fmt.Errorf("name must be between 2 and 100 characters")
	}
	if r.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !isValidEmail(r.Email) {
		return fmt.Errorf("invalid email format")
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	if !isStrongPassword(r.Password) {
		return fmt.Errorf("password must be at least 8 characters with an uppercase letter, a lowercase letter, a digit, and a special character")
	}
	if _, err := token.ParseRole(r.Role); err != nil {
		return fmt.Errorf("invalid role: must be ADMIN, TRAVELER, HOTEL_MANAGER, or TRAVEL_AGENT")
	}
	if !contactRegex.MatchString(r.ContactNumber) {
		return fmt.Errorf("contact number must be exactly 10 digits")
	}
	return nil
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *LoginRequest) Validate() error {
	if r.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !isValidEmail(r.Email) {
		return fmt.Errorf("invalid email format")
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

func (r *ForgotPasswordRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *ForgotPasswordRequest) Validate() error {
	if r.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !isValidEmail(r.Email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

func (r *ResetPasswordRequest) Validate() error {
	if r.ResetToken == "" {
		return fmt.Errorf("reset token is required")
	}
	if !isStrongPassword(r.NewPassword) {
		return fmt.Errorf("password must be at least 8 characters with an uppercase letter, a lowercase letter, a digit, and a special character")
	}
	return nil
}

func (r *ChangePasswordRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *ChangePasswordRequest) Validate() error {
	if r.Email == "" {
		return fmt.Errorf("email is required")
	}
	if r.CurrentPassword == "" {
		return fmt.Errorf("current password is required")
	}
	if !isStrongPassword(r.NewPassword) {
		return fmt.Errorf("password must be at least 8 characters with an uppercase letter, a lowercase letter, a digit, and a special character")
	}
	return nil
}
