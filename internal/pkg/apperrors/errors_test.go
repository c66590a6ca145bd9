package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainErrorsWrapGenericKinds(t *testing.T) {
	assert.True(t, errors.Is(ErrAlreadyEnrolled, ErrBadRequest))
	assert.True(t, errors.Is(ErrAlreadyRegistered, ErrBadRequest))
	assert.True(t, errors.Is(ErrEventNotFound, ErrResourceNotFound))
	assert.True(t, errors.Is(ErrNotRegistered, ErrResourceNotFound))
	assert.True(t, errors.Is(ErrInvalidPrice, ErrValidationFailed))
	assert.False(t, errors.Is(ErrCourseNotFound, ErrBadRequest))
}

func TestCustomErrorMessageAndUnwrap(t *testing.T) {
	err := NewCustomError(ErrAlreadyEnrolled, "Bạn đã đăng ký khóa học này rồi.")
	wrapped := fmt.Errorf("enroll: %w", err)

	assert.Equal(t, "Bạn đã đăng ký khóa học này rồi.", err.Error())
	assert.True(t, errors.Is(wrapped, ErrAlreadyEnrolled))
	assert.True(t, errors.Is(wrapped, ErrBadRequest))

	msg, ok := UserMessage(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "Bạn đã đăng ký khóa học này rồi.", msg)

	_, ok = UserMessage(ErrCourseNotFound)
	assert.False(t, ok)
}

func TestIsMatchesAnyTarget(t *testing.T) {
	assert.True(t, Is(ErrTokenExpired, ErrTokenInvalid, ErrTokenExpired))
	assert.False(t, Is(ErrBadRequest, ErrTokenInvalid, ErrTokenExpired))
}
