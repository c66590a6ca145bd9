package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	appAuth "github.com/yigit/learnhub/internal/app/auth"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	"github.com/yigit/learnhub/internal/pkg/auth"
)

// Context keys set by the auth middleware.
const (
	ContextUserID   = "userID"
	ContextUsername = "username"
	ContextRole     = "role"
	ContextIsStaff  = "isStaff"
)

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// JWTAuth requires a valid access token.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, appAuth.MsgLoginRequired)
			errorDetail = errorDetail.WithDetails("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		if !m.authenticate(c, authHeader) {
			return
		}
		c.Next()
	}
}

// OptionalAuth lets anonymous requests through but still rejects a token that
// is present and invalid.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		if !m.authenticate(c, authHeader) {
			return
		}
		c.Next()
	}
}

// AdminRequired must run after JWTAuth.
func (m *AuthMiddleware) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := ActorFromContext(c)
		if actor == nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, appAuth.MsgLoginRequired)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		if !actor.IsAdmin() {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, appAuth.MsgAdminRequired)
			errorDetail = errorDetail.WithDetails("You don't have sufficient permissions for this operation")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}

// authenticate validates the token and stores the caller in the context.
// It writes the 401 response itself and returns false on failure.
func (m *AuthMiddleware) authenticate(c *gin.Context, authHeader string) bool {
	tokenString, err := auth.ExtractBearerToken(authHeader)
	if err == nil {
		var claims *auth.Claims
		claims, err = m.jwtService.ValidateToken(tokenString)
		if err == nil {
			c.Set(ContextUserID, claims.UserID)
			c.Set(ContextUsername, claims.Username)
			c.Set(ContextRole, claims.Role)
			c.Set(ContextIsStaff, claims.IsStaff)
			return true
		}
	}

	errorCode := dto.ErrorCodeInvalidToken
	errorDetails := "Invalid token"
	if errors.Is(err, apperrors.ErrTokenExpired) {
		errorCode = dto.ErrorCodeExpiredToken
		errorDetails = "Token has expired"
	} else if errors.Is(err, apperrors.ErrInvalidFormat) {
		errorDetails = "Invalid token format"
	}

	errorDetail := dto.NewErrorDetail(errorCode, "Token không hợp lệ hoặc đã hết hạn.").WithDetails(errorDetails)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
	return false
}

// ActorFromContext returns the authenticated caller, or nil for anonymous requests.
func ActorFromContext(c *gin.Context) *appAuth.Actor {
	userID := c.GetInt64(ContextUserID)
	if userID <= 0 {
		return nil
	}
	return &appAuth.Actor{
		UserID:   userID,
		Username: c.GetString(ContextUsername),
		Role:     c.GetString(ContextRole),
		IsStaff:  c.GetBool(ContextIsStaff),
	}
}
