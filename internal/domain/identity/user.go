package identity

import (
	"net/mail"
	"strings"

	"github.com/school/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Role is a flat account role. Roles carry no rank; access is granted by
// explicit allow-lists.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleStaff      Role = "STAFF"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleStaff:
		return true
	}
	return false
}

// BcryptCost is the work factor for new password hashes.
// Tests lower it to bcrypt.MinCost.
var BcryptCost = bcrypt.DefaultCost

const (
	minPasswordLength = 8
	maxPasswordLength = 72 // bcrypt ignores anything beyond 72 bytes
	minNameLength     = 2
)

// User is a staff account able to sign in
type User struct {
	shared.BaseEntity
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
	IsActive     bool   `json:"isActive"`
}

// NewUser creates an active user with a hashed password
func NewUser(name, email, password string, role Role) (*User, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)

	var fields []shared.FieldError
	if len(name) < minNameLength {
		fields = append(fields, shared.FieldError{Field: "name", Message: "Name must be at least 2 characters"})
	}
	if !validEmail(email) {
		fields = append(fields, shared.FieldError{Field: "email", Message: "Invalid email address"})
	}
	if !role.IsValid() {
		fields = append(fields, shared.FieldError{Field: "role", Message: "Invalid role"})
	}
	if msg := passwordProblem(password); msg != "" {
		fields = append(fields, shared.FieldError{Field: "password", Message: msg})
	}
	if len(fields) > 0 {
		return nil, shared.NewValidationError(fields...)
	}

	u := &User{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Email:      email,
		Role:       role,
		IsActive:   true,
	}
	if err := u.setHash(password); err != nil {
		return nil, err
	}
	return u, nil
}

// SetPassword replaces the password hash after validating the new password
func (u *User) SetPassword(password string) error {
	if msg := passwordProblem(password); msg != "" {
		return shared.NewValidationError(shared.FieldError{Field: "password", Message: msg})
	}
	if err := u.setHash(password); err != nil {
		return err
	}
	u.Touch()
	return nil
}

// ChangePassword verifies the current password before replacing it
func (u *User) ChangePassword(current, next string) error {
	if !u.VerifyPassword(current) {
		return ErrInvalidCurrentPassword
	}
	return u.SetPassword(next)
}

// VerifyPassword reports whether password matches the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Deactivate disables sign-in. Authorization rules live in CanDeactivate.
func (u *User) Deactivate() {
	u.IsActive = false
	u.Touch()
}

// Reactivate re-enables sign-in
func (u *User) Reactivate() {
	u.IsActive = true
	u.Touch()
}

func (u *User) setHash(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = string(hash)
	return nil
}

// NormalizeEmail trims and lowercases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	if email == "" || len(email) > 254 {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func passwordProblem(password string) string {
	switch {
	case len(password) < minPasswordLength:
		return "Password must be at least 8 characters"
	case len(password) > maxPasswordLength:
		return "Password cannot exceed 72 characters"
	}
	return ""
}
