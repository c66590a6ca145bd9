package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/learnhub/internal/app/auth"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
)

func newRegisterFixture() (EventRegisterService, *fakeEventRegisterRepo) {
	events := newFakeEventRepo(models.Event{ID: 3, Title: "Go Workshop", Category: models.CategoryWorkshop})
	regs := &fakeEventRegisterRepo{events: events}
	return NewEventRegisterService(regs, events, auth.NewAuthorizationService(), testLogger), regs
}

func TestRegisterForEvent(t *testing.T) {
	svc, _ := newRegisterFixture()

	reg, err := svc.Register(context.Background(), alice, &dto.CreateEventRegisterRequest{EventID: 3})
	require.NoError(t, err)
	assert.Equal(t, "Go Workshop", reg.Event)
	assert.Equal(t, int64(3), reg.EventID)
}

func TestRegisterMissingEvent(t *testing.T) {
	svc, regs := newRegisterFixture()

	_, err := svc.Register(context.Background(), alice, &dto.CreateEventRegisterRequest{EventID: 42})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrEventNotFound))

	msg, _ := apperrors.UserMessage(err)
	assert.Equal(t, "Sự kiện không tồn tại.", msg)
	assert.Empty(t, regs.rows)
}

func TestRegisterTwice(t *testing.T) {
	svc, regs := newRegisterFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, alice, &dto.CreateEventRegisterRequest{EventID: 3})
	require.NoError(t, err)

	_, err = svc.Register(ctx, alice, &dto.CreateEventRegisterRequest{EventID: 3})
	assert.True(t, errors.Is(err, apperrors.ErrBadRequest))
	msg, _ := apperrors.UserMessage(err)
	assert.Equal(t, "Bạn đã đăng ký sự kiện này rồi.", msg)
	assert.Len(t, regs.rows, 1)
}

func TestRegisterDuplicateCaughtByInsert(t *testing.T) {
	svc, regs := newRegisterFixture()
	regs.stalePrecheck = true
	ctx := context.Background()

	_, err := svc.Register(ctx, alice, &dto.CreateEventRegisterRequest{EventID: 3})
	require.NoError(t, err)

	_, err = svc.Register(ctx, alice, &dto.CreateEventRegisterRequest{EventID: 3})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyRegistered))
	assert.True(t, errors.Is(err, apperrors.ErrBadRequest))

	msg, ok := apperrors.UserMessage(err)
	require.True(t, ok)
	assert.Equal(t, "Bạn đã đăng ký sự kiện này rồi.", msg)
	assert.Len(t, regs.rows, 1)
}

func TestCancelRegistration(t *testing.T) {
	svc, _ := newRegisterFixture()
	ctx := context.Background()

	err := svc.Cancel(ctx, alice, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))
	msg, _ := apperrors.UserMessage(err)
	assert.Equal(t, "Bạn chưa đăng ký sự kiện này.", msg)

	_, err = svc.Register(ctx, alice, &dto.CreateEventRegisterRequest{EventID: 3})
	require.NoError(t, err)

	registered, err := svc.IsRegistered(ctx, alice, 3)
	require.NoError(t, err)
	assert.True(t, registered)

	require.NoError(t, svc.Cancel(ctx, alice, 3))

	registered, err = svc.IsRegistered(ctx, alice, 3)
	require.NoError(t, err)
	assert.False(t, registered)
}

func TestRegistrationRequiresLogin(t *testing.T) {
	svc, _ := newRegisterFixture()

	_, err := svc.Register(context.Background(), anonymous, &dto.CreateEventRegisterRequest{EventID: 3})
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))

	_, err = svc.IsRegistered(context.Background(), anonymous, 3)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
}
