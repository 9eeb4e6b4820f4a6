package supabase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/casedesk/casedesk/internal/domain/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminDeleteUser_SendsServiceKey(t *testing.T) {
	userID := uuid.New()
	var gotPath, gotAuth, gotKey string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get("apikey")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc, err := NewAuthService(Config{URL: server.URL, ServiceKey: "service-key"})
	require.NoError(t, err)

	require.NoError(t, svc.AdminDeleteUser(context.Background(), userID))
	assert.Equal(t, "DELETE /auth/v1/admin/users/"+userID.String(), gotPath)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, "service-key", gotKey)
}

func TestAdminDeleteUser_Errors(t *testing.T) {
	status := http.StatusForbidden
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"msg":"User not allowed"}`))
	}))
	defer server.Close()

	svc, err := NewAuthService(Config{URL: server.URL, ServiceKey: "k"})
	require.NoError(t, err)

	err = svc.AdminDeleteUser(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "User not allowed")

	status = http.StatusNotFound
	assert.NoError(t, svc.AdminDeleteUser(context.Background(), uuid.New()))
}

func TestRoleFromMetadata(t *testing.T) {
	assert.Equal(t, "ADMIN", RoleFromMetadata(&services.SupabaseUser{AppMetadata: map[string]interface{}{"role": "ADMIN"}}))
	assert.Equal(t, "", RoleFromMetadata(&services.SupabaseUser{}))
	assert.Equal(t, "", RoleFromMetadata(nil))
}
