package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf_WrappedAppError(t *testing.T) {
	err := fmt.Errorf("service: could not trigger: %w", ErrNoRecipients)

	assert.Equal(t, CodeFailedPrecondition, CodeOf(err))
	assert.Equal(t, "No Contacts Selected", MessageOf(err))
	assert.True(t, stderrors.Is(err, ErrNoRecipients))
}

func TestCodeOf_PlainError(t *testing.T) {
	err := stderrors.New("boom")

	assert.Equal(t, CodeUnknown, CodeOf(err))
	assert.Empty(t, MessageOf(err))
}

func TestErrPushFailed_KeepsCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := ErrPushFailed(cause)

	assert.Equal(t, CodeUnavailable, CodeOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestIs_DistinguishesMessages(t *testing.T) {
	assert.False(t, stderrors.Is(ErrInvalidTransition, ErrStatusChanged))
	assert.True(t, stderrors.Is(Conflict("sos event status can only move forward"), ErrInvalidTransition))
}
