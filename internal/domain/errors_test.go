package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"validation", &ValidationError{Field: "name", Reason: "required"}, ErrValidation},
		{"not found", &NotFoundError{EntityID: "e1", Branch: MainBranch}, ErrNotFound},
		{"already exists", &AlreadyExistsError{EntityID: "e1", Branch: MainBranch}, ErrAlreadyExists},
		{"conflict", &ConflictError{EntityID: "e1", Branch: MainBranch, VersionID: "v1"}, ErrConflict},
		{"branch locked", &BranchLockedError{EntityID: "e1", Branch: MainBranch}, ErrBranchLocked},
		{"timeout", &TimeoutError{Op: "insert"}, ErrTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.sentinel)

			// 包装后分类不丢失
			wrapped := fmt.Errorf("outer: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.sentinel)

			// 不与其他哨兵混淆
			for _, other := range tests {
				if other.sentinel != tt.sentinel {
					assert.False(t, errors.Is(tt.err, other.sentinel))
				}
			}
		})
	}
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&ConflictError{}))
	assert.True(t, IsRetryable(&TimeoutError{}))

	assert.False(t, IsRetryable(&ValidationError{}))
	assert.False(t, IsRetryable(&NotFoundError{}))
	assert.False(t, IsRetryable(&AlreadyExistsError{}))
	assert.False(t, IsRetryable(&BranchLockedError{}))
	assert.False(t, IsRetryable(errors.New("unclassified")))
	assert.False(t, IsRetryable(nil))
}

func TestValidationErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &ValidationError{Reason: "bad payload", Cause: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "bad payload")

	withField := &ValidationError{Field: "email", Reason: "format"}
	assert.Contains(t, withField.Error(), `"email"`)
}
