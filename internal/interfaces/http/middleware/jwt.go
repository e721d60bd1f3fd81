package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appaudit "github.com/school/backend/internal/application/audit"
	"github.com/school/backend/internal/domain/identity"
	"github.com/school/backend/internal/domain/shared"
	"github.com/school/backend/internal/infrastructure/auth"
	"github.com/school/backend/internal/infrastructure/logger"
	"github.com/school/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Context keys for authentication data
const (
	CurrentUserKey = "current_user"
	JWTClaimsKey   = "jwt_claims"
	UserRoleKey    = "user_role"
)

const bearerPrefix = "Bearer "

// AuthConfig wires the authentication middleware
type AuthConfig struct {
	JWT       *auth.JWTService
	Blacklist auth.TokenBlacklist // optional
	Users     identity.UserRepository
	Logger    *zap.Logger
}

// Authenticate validates the bearer token, rejects revoked tokens and
// re-reads the account so deactivation takes effect immediately. The
// user, claims and role are stored on the gin context; the user id also
// goes into the request context for audit entries and logs.
func Authenticate(cfg AuthConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) || strings.TrimSpace(header[len(bearerPrefix):]) == "" {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		token := strings.TrimSpace(header[len(bearerPrefix):])

		claims, err := cfg.JWT.ValidateToken(token)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				abortWithError(c, http.StatusUnauthorized, dto.ErrCodeTokenExpired, "Token has expired")
				return
			}
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeInvalidToken, "Invalid token")
			return
		}

		ctx := c.Request.Context()
		if cfg.Blacklist != nil && claims.ID != "" {
			revoked, err := cfg.Blacklist.IsBlacklisted(ctx, claims.ID)
			if err != nil {
				// Fail open: a blacklist outage must not lock everyone out.
				logger.L(ctx).Error("Token blacklist check failed", zap.Error(err))
			} else if revoked {
				abortWithError(c, http.StatusUnauthorized, dto.ErrCodeTokenRevoked, "Token has been revoked")
				return
			}
		}

		userID, err := claims.GetUserUUID()
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeInvalidToken, "Invalid token")
			return
		}

		user, err := cfg.Users.FindByID(ctx, userID)
		switch {
		case shared.IsNotFound(err):
			abortWithError(c, http.StatusUnauthorized, identity.ErrUserNotFound.Code, identity.ErrUserNotFound.Message)
			return
		case err != nil:
			logger.L(ctx).Error("Failed to load authenticated user", zap.Error(err), zap.String("user_id", userID.String()))
			abortWithError(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
			return
		case !user.IsActive:
			abortWithError(c, http.StatusUnauthorized, identity.ErrAccountDeactivated.Code, identity.ErrAccountDeactivated.Message)
			return
		}

		c.Set(CurrentUserKey, user)
		c.Set(JWTClaimsKey, claims)
		c.Set(UserRoleKey, string(user.Role))

		ctx = appaudit.WithActor(ctx, user.ID)
		ctx = logger.WithUserID(ctx, user.ID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil on public routes
func CurrentUser(c *gin.Context) *identity.User {
	if v, ok := c.Get(CurrentUserKey); ok {
		if u, ok := v.(*identity.User); ok {
			return u
		}
	}
	return nil
}

// CurrentUserID returns the authenticated user's id, or uuid.Nil
func CurrentUserID(c *gin.Context) uuid.UUID {
	if u := CurrentUser(c); u != nil {
		return u.ID
	}
	return uuid.Nil
}

// GetJWTClaims returns the validated token claims
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(JWTClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}
