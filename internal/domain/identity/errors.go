package identity

import "github.com/school/backend/internal/domain/shared"

var (
	ErrInvalidCredentials     = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid credentials")
	ErrAccountDeactivated     = shared.NewDomainError("ACCOUNT_DEACTIVATED", "Your account has been deactivated")
	ErrUserNotFound           = shared.NewDomainError("USER_NOT_FOUND", "User not found")
	ErrDuplicateEmail         = shared.NewDomainError("DUPLICATE_EMAIL", "A user with this email already exists")
	ErrInvalidCurrentPassword = shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	ErrSelfDeactivation       = shared.NewDomainError("SELF_DEACTIVATION", "You cannot deactivate your own account")
)
