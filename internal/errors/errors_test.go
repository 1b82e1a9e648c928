package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/karrito/internal/errors"
)

func TestAppError_IsMatchesSentinelByCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"not found", errors.NewNotFoundError("profile", 7), errors.ErrNotFound},
		{"validation", errors.NewValidationError("name", "cannot be empty"), errors.ErrValidation},
		{"constraint", errors.NewConstraintViolation("duplicate"), errors.ErrConstraintViolation},
		{"storage", errors.NewStorageError("open", stderrors.New("disk")), errors.ErrStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.sentinel))
			assert.True(t, errors.Is(fmt.Errorf("outer: %w", tt.err), tt.sentinel))
			assert.False(t, errors.Is(tt.err, stderrors.New("unrelated")))
		})
	}
}

func TestWithOp_PreservesCodeAndAddsContext(t *testing.T) {
	base := errors.NewConstraintViolation("profile already exists: alice")

	err := errors.WithOp("create profile", base)

	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeConstraintViolation, appErr.Code)
	assert.Equal(t, 409, appErr.Status)
	assert.Contains(t, err.Error(), "create profile: CONSTRAINT_VIOLATION")
	assert.Empty(t, base.Op, "original error must not be mutated")
}

func TestWithOp_WrapsPlainErrorsAsStorage(t *testing.T) {
	cause := stderrors.New("database is locked")

	err := errors.WithOp("set active profile", cause)

	assert.True(t, errors.Is(err, errors.ErrStorage))
	assert.True(t, errors.Is(err, cause))
}

func TestWithOp_Nil(t *testing.T) {
	assert.NoError(t, errors.WithOp("noop", nil))
}
