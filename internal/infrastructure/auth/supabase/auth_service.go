package supabase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/casedesk/casedesk/internal/domain/services"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	supabase "github.com/nedpals/supabase-go"
)

// AuthService validates portal sessions and performs the admin user
// operations. The client is created with the service role key.
type AuthService struct {
	client *supabase.Client
	admin  *resty.Client
}

type Config struct {
	URL        string
	APIKey     string
	ServiceKey string
	Timeout    time.Duration
}

func NewAuthService(config Config) (*AuthService, error) {
	key := config.ServiceKey
	if key == "" {
		key = config.APIKey
	}

	client := supabase.CreateClient(config.URL, key)
	if client == nil {
		return nil, fmt.Errorf("failed to create Supabase client")
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	// nedpals has no admin delete, so GoTrue is called directly for it
	admin := resty.New().
		SetBaseURL(strings.TrimRight(config.URL, "/")+"/auth/v1").
		SetTimeout(timeout).
		SetHeader("apikey", key).
		SetAuthToken(key)

	return &AuthService{client: client, admin: admin}, nil
}

func (s *AuthService) ValidateToken(accessToken string) (*services.SupabaseUser, error) {
	ctx := context.Background()

	user, err := s.client.Auth.User(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to validate token: %w", err)
	}

	converted := convertToSupabaseUser(user)
	if converted == nil {
		return nil, fmt.Errorf("failed to validate token: malformed user id")
	}
	return converted, nil
}

// AdminUpdateUser accepts "email", "user_metadata" and "app_metadata" keys.
func (s *AuthService) AdminUpdateUser(ctx context.Context, userID uuid.UUID, updates map[string]interface{}) (*services.SupabaseUser, error) {
	params := supabase.AdminUserParams{}

	if email, ok := updates["email"].(string); ok {
		params.Email = email
	}
	if userMeta, ok := updates["user_metadata"].(map[string]interface{}); ok {
		params.UserMetadata = userMeta
	}
	if appMeta, ok := updates["app_metadata"].(map[string]interface{}); ok {
		params.AppMetadata = appMeta
	}

	adminUser, err := s.client.Admin.UpdateUser(ctx, userID.String(), params)
	if err != nil {
		return nil, fmt.Errorf("failed to update user as admin: %w", err)
	}

	return convertAdminUserToSupabaseUser(adminUser), nil
}

func (s *AuthService) AdminDeleteUser(ctx context.Context, userID uuid.UUID) error {
	var apiErr struct {
		Message string `json:"msg"`
		Error   string `json:"error_description"`
	}

	resp, err := s.admin.R().
		SetContext(ctx).
		SetError(&apiErr).
		Delete("/admin/users/" + userID.String())
	if err != nil {
		return fmt.Errorf("failed to delete user as admin: %w", err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		// already gone from auth; the profile cleanup can still proceed
		return nil
	case resp.IsError():
		msg := apiErr.Message
		if msg == "" {
			msg = apiErr.Error
		}
		if msg == "" {
			msg = resp.Status()
		}
		return fmt.Errorf("failed to delete user as admin: %s", msg)
	}
	return nil
}

// Helper function to convert nedpals User to our domain model
func convertToSupabaseUser(user *supabase.User) *services.SupabaseUser {
	if user == nil {
		return nil
	}

	userID, err := uuid.Parse(user.ID)
	if err != nil {
		return nil
	}

	return &services.SupabaseUser{
		ID:           userID,
		Email:        user.Email,
		UserMetadata: user.UserMetadata,
		AppMetadata:  convertAppMetadata(user.AppMetadata),
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

func convertAdminUserToSupabaseUser(adminUser *supabase.AdminUser) *services.SupabaseUser {
	if adminUser == nil {
		return nil
	}

	userID, err := uuid.Parse(adminUser.ID)
	if err != nil {
		return nil
	}

	return &services.SupabaseUser{
		ID:           userID,
		Email:        adminUser.Email,
		UserMetadata: map[string]interface{}(adminUser.UserMetaData),
		AppMetadata:  map[string]interface{}(adminUser.AppMetaData),
		CreatedAt:    adminUser.CreatedAt,
		UpdatedAt:    adminUser.UpdatedAt,
		LastSignInAt: adminUser.LastSignInAt,
	}
}

func convertAppMetadata(appMeta interface{}) map[string]interface{} {
	if meta, ok := appMeta.(map[string]interface{}); ok {
		return meta
	}
	return make(map[string]interface{})
}

// RoleFromMetadata reads the role a user was given through app_metadata.
func RoleFromMetadata(user *services.SupabaseUser) string {
	if user == nil {
		return ""
	}
	role, _ := user.AppMetadata["role"].(string)
	return role
}
