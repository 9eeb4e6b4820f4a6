package services

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// External service interfaces that our domain services depend on

// StorageService interface for document file storage (Supabase Storage compatible)
type StorageService interface {
	Store(ctx context.Context, params StorageParams) (string, error)
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
	GeneratePresignedURL(ctx context.Context, path string, expiry time.Duration) (string, error)
}

// StorageParams contains parameters for storing files
type StorageParams struct {
	Folder      string // usually the owning company or case id
	FileReader  io.Reader
	Filename    string
	ContentType string
	Size        int64
}

// SupabaseAuthService is the subset of Supabase Auth the back end uses.
// Admin operations run with the service key.
type SupabaseAuthService interface {
	ValidateToken(accessToken string) (*SupabaseUser, error)
	AdminUpdateUser(ctx context.Context, userID uuid.UUID, updates map[string]interface{}) (*SupabaseUser, error)
	AdminDeleteUser(ctx context.Context, userID uuid.UUID) error
}

// SupabaseUser represents a user from Supabase Auth
type SupabaseUser struct {
	ID           uuid.UUID              `json:"id"`
	Email        string                 `json:"email"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	AppMetadata  map[string]interface{} `json:"app_metadata"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
	LastSignInAt *time.Time             `json:"last_sign_in_at"`
}
