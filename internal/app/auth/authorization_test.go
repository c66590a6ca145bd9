package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
)

func TestRequireAdmin(t *testing.T) {
	svc := NewAuthorizationService()

	err := svc.RequireAdmin(nil)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))

	err = svc.RequireAdmin(&Actor{UserID: 2, Role: models.RoleUser})
	assert.True(t, errors.Is(err, apperrors.ErrPermissionDenied))

	assert.NoError(t, svc.RequireAdmin(&Actor{UserID: 1, Role: models.RoleAdmin}))
	assert.NoError(t, svc.RequireAdmin(&Actor{UserID: 1, IsStaff: true}))
}

func TestValidateOwnership(t *testing.T) {
	svc := NewAuthorizationService()

	assert.NoError(t, svc.ValidateOwnership(&Actor{UserID: 5}, 5))
	assert.NoError(t, svc.ValidateOwnership(&Actor{UserID: 1, IsStaff: true}, 5))
	assert.True(t, errors.Is(svc.ValidateOwnership(&Actor{UserID: 6}, 5), apperrors.ErrPermissionDenied))
	assert.True(t, errors.Is(svc.ValidateOwnership(nil, 5), apperrors.ErrUnauthorized))
}

func TestListScope(t *testing.T) {
	svc := NewAuthorizationService()

	assert.Nil(t, svc.ListScope(nil))
	scope := svc.ListScope(&Actor{UserID: 9})
	if assert.NotNil(t, scope) {
		assert.Equal(t, int64(9), *scope)
	}
}
