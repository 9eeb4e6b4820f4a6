package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/casedesk/casedesk/internal/domain/entities"
	"github.com/casedesk/casedesk/internal/domain/repositories"
	"github.com/casedesk/casedesk/internal/domain/services"
	"github.com/casedesk/casedesk/internal/infrastructure/auth/supabase"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserContext holds the caller resolved from the Supabase session
type UserContext struct {
	UserID uuid.UUID         `json:"user_id"`
	Email  string            `json:"email"`
	Role   entities.UserRole `json:"role"`
}

// ProfileEnsurer returns the stored profile for a user, creating it on first
// sign-in.
type ProfileEnsurer interface {
	Ensure(ctx context.Context, input repositories.CreateProfileInput) (*entities.Profile, error)
}

// AuthMiddleware validates the bearer token with Supabase and loads the
// caller's profile. The role always comes from our profiles table.
func AuthMiddleware(authService services.SupabaseAuthService, profiles ProfileEnsurer) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Extract token from Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, "missing_authorization", "Authorization header is required")
			return
		}

		// Check Bearer token format
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			abort(c, http.StatusUnauthorized, "invalid_authorization_format", "Authorization header must be in format: Bearer <token>")
			return
		}
		accessToken := tokenParts[1]

		// Validate token with Supabase
		supabaseUser, err := authService.ValidateToken(accessToken)
		if err != nil || supabaseUser == nil {
			abort(c, http.StatusUnauthorized, "invalid_token", "Token validation failed")
			return
		}

		role, ok := entities.ParseEnum(entities.UserRoles, supabase.RoleFromMetadata(supabaseUser))
		if !ok {
			role = entities.RoleClient
		}
		fullName, _ := supabaseUser.UserMetadata["full_name"].(string)

		profile, err := profiles.Ensure(c.Request.Context(), repositories.CreateProfileInput{
			ID:       supabaseUser.ID,
			Email:    supabaseUser.Email,
			FullName: fullName,
			Role:     role,
		})
		if err != nil {
			abort(c, http.StatusInternalServerError, "profile_unavailable", "Failed to load user profile")
			return
		}

		// Store user context in gin context
		c.Set("user", &UserContext{
			UserID: profile.ID,
			Email:  profile.Email,
			Role:   profile.Role,
		})
		c.Set("user_id", profile.ID)
		c.Set("user_role", profile.Role)

		// services read the actor for notifications
		c.Request = c.Request.WithContext(services.WithActor(c.Request.Context(), profile.ID))

		c.Next()
	}
}

// RequireRole lets through only callers holding one of the given roles
func RequireRole(roles ...entities.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		userCtx := GetUserContext(c)
		if userCtx == nil {
			abort(c, http.StatusUnauthorized, "authentication_required", "User must be authenticated")
			return
		}

		for _, r := range roles {
			if userCtx.Role == r {
				c.Next()
				return
			}
		}
		abort(c, http.StatusForbidden, "insufficient_permissions", "Your role does not allow this action")
	}
}

// StaffOnly rejects portal clients
func StaffOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		userCtx := GetUserContext(c)
		if userCtx == nil {
			abort(c, http.StatusUnauthorized, "authentication_required", "User must be authenticated")
			return
		}
		if !userCtx.Role.IsStaff() {
			abort(c, http.StatusForbidden, "staff_required", "Staff privileges required")
			return
		}
		c.Next()
	}
}

// GetUserContext retrieves user context from gin context
func GetUserContext(c *gin.Context) *UserContext {
	if userCtx, exists := c.Get("user"); exists {
		if user, ok := userCtx.(*UserContext); ok {
			return user
		}
	}
	return nil
}

// GetUserID retrieves user ID from gin context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	if userID, exists := c.Get("user_id"); exists {
		if id, ok := userID.(uuid.UUID); ok {
			return id, true
		}
	}
	return uuid.Nil, false
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: code, Message: message})
}

// ErrorResponse represents API error response
type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Code    string      `json:"code,omitempty"`
}
