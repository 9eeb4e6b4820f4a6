package services_test

import (
	"context"
	"testing"

	"github.com/casedesk/casedesk/internal/domain/entities"
	"github.com/casedesk/casedesk/internal/domain/repositories"
	"github.com/casedesk/casedesk/internal/domain/services"
	"github.com/casedesk/casedesk/internal/infrastructure/cache/cachetest"
	"github.com/casedesk/casedesk/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAdminService_RejectsNonAdminCaller(t *testing.T) {
	env := newTestEnv(t)
	profiles := new(MockProfileRepository)
	auth := new(MockAuthService)
	svc := services.NewAdminService(profiles, auth, env.deps)

	callerID, targetID := uuid.New(), uuid.New()
	profiles.On("GetByID", mock.Anything, callerID).Return(&entities.Profile{ID: callerID, Role: entities.RoleManager}, nil)

	err := svc.DeleteUser(context.Background(), callerID, targetID)
	assert.ErrorIs(t, err, services.ErrInsufficientPrivileges)

	_, err = svc.UpdateUserRole(context.Background(), callerID, targetID, "ADMIN")
	assert.ErrorIs(t, err, services.ErrInsufficientPrivileges)

	auth.AssertNotCalled(t, "AdminDeleteUser", mock.Anything, mock.Anything)
	profiles.AssertNotCalled(t, "UpdateRole", mock.Anything, mock.Anything, mock.Anything)
	assert.Len(t, env.notifier.failures, 2)
}

func TestAdminService_UnknownCallerIsRejected(t *testing.T) {
	env := newTestEnv(t)
	profiles := new(MockProfileRepository)
	svc := services.NewAdminService(profiles, new(MockAuthService), env.deps)

	callerID := uuid.New()
	profiles.On("GetByID", mock.Anything, callerID).Return(nil, nil)

	err := svc.DeleteUser(context.Background(), callerID, uuid.New())
	assert.ErrorIs(t, err, services.ErrInsufficientPrivileges)
}

func TestAdminService_DeleteUser(t *testing.T) {
	env := newTestEnv(t)
	profiles := new(MockProfileRepository)
	auth := new(MockAuthService)
	svc := services.NewAdminService(profiles, auth, env.deps)

	callerID, targetID := uuid.New(), uuid.New()
	profiles.On("GetByID", mock.Anything, callerID).Return(&entities.Profile{ID: callerID, Role: entities.RoleAdmin}, nil)
	auth.On("AdminDeleteUser", mock.Anything, targetID).Return(nil)
	profiles.On("Delete", mock.Anything, targetID).Return(nil)

	require.NoError(t, svc.DeleteUser(context.Background(), callerID, targetID))
	auth.AssertExpectations(t)
	profiles.AssertExpectations(t)
	assert.Equal(t, []string{"User deleted"}, env.notifier.success)

	err := svc.DeleteUser(context.Background(), callerID, callerID)
	assert.True(t, repositories.IsValidationError(err))
}

func TestAdminService_UpdateUserRole(t *testing.T) {
	env := newTestEnv(t)
	profiles := new(MockProfileRepository)
	auth := new(MockAuthService)
	svc := services.NewAdminService(profiles, auth, env.deps)

	callerID, targetID := uuid.New(), uuid.New()
	profiles.On("GetByID", mock.Anything, callerID).Return(&entities.Profile{ID: callerID, Role: entities.RoleAdmin}, nil)
	profiles.On("UpdateRole", mock.Anything, targetID, entities.RoleFinanceOfficer).
		Return(&entities.Profile{ID: targetID, Role: entities.RoleFinanceOfficer}, nil)
	auth.On("AdminUpdateUser", mock.Anything, targetID, map[string]interface{}{
		"app_metadata": map[string]interface{}{"role": "FINANCE_OFFICER"},
	}).Return(&services.SupabaseUser{ID: targetID}, nil)

	got, err := svc.UpdateUserRole(context.Background(), callerID, targetID, "FINANCE_OFFICER")
	require.NoError(t, err)
	assert.Equal(t, entities.RoleFinanceOfficer, got.Role)
	auth.AssertExpectations(t)

	_, err = svc.UpdateUserRole(context.Background(), callerID, targetID, "SUPERUSER")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid role "SUPERUSER"`)
}

func TestQueueNotifier_DrainsOldestFirst(t *testing.T) {
	c, _ := cachetest.NewRedis(t)
	n := services.NewQueueNotifier(c, logger.NewForTesting())

	userID := uuid.New()
	ctx := services.WithActor(context.Background(), userID)
	n.Success(ctx, "Case created", "")
	n.Failure(ctx, "Failed to update case", assert.AnError)
	// no actor: logged only
	n.Success(context.Background(), "Ignored", "")

	notes, err := n.Drain(context.Background(), userID, 0)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, services.NotificationSuccess, notes[0].Kind)
	assert.Equal(t, "Case created", notes[0].Title)
	assert.Equal(t, services.NotificationFailure, notes[1].Kind)
	assert.Equal(t, assert.AnError.Error(), notes[1].Message)

	notes, err = n.Drain(context.Background(), userID, 0)
	require.NoError(t, err)
	assert.Empty(t, notes)
}
