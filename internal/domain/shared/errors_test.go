package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Is(t *testing.T) {
	specific := ErrNotFound.WithMessage("notification 42 not found")

	assert.True(t, errors.Is(specific, ErrNotFound))
	assert.True(t, errors.Is(fmt.Errorf("lookup: %w", specific), ErrNotFound))
	assert.False(t, errors.Is(specific, ErrInvalidInput))
	assert.Equal(t, "notification 42 not found", specific.Error())
	assert.Equal(t, "NOT_FOUND", specific.Code)
}

func TestDomainError_WithMessageDoesNotMutateSentinel(t *testing.T) {
	_ = ErrInvalidInput.WithMessage("changed")
	assert.Equal(t, "Invalid input provided", ErrInvalidInput.Message)
}
