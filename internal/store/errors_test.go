package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "generic error", err: errors.New("some error"), expected: false},
		{name: "ErrNotFound", err: ErrNotFound, expected: true},
		{
			name:     "wrapped ErrNotFound",
			err:      fmt.Errorf("failed to do something: %w", ErrNotFound),
			expected: true,
		},
		{name: "ErrSourceTextNotFound", err: ErrSourceTextNotFound, expected: true},
		{
			name:     "wrapped ErrTranslationNotFound",
			err:      fmt.Errorf("delete: %w", ErrTranslationNotFound),
			expected: true,
		},
		{name: "ErrSourceTextExists", err: ErrSourceTextExists, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNotFoundError(tt.err))
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "ErrDuplicate", err: ErrDuplicate, expected: true},
		{name: "ErrSourceTextExists", err: ErrSourceTextExists, expected: true},
		{
			name:     "wrapped ErrSourceTextExists",
			err:      fmt.Errorf("%w: sid %q", ErrSourceTextExists, "k"),
			expected: true,
		},
		{name: "ErrNotFound", err: ErrNotFound, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsDuplicateError(tt.err))
		})
	}
}

func TestSpecificErrorsAreDistinct(t *testing.T) {
	assert.False(t, errors.Is(ErrSourceTextNotFound, ErrTranslationNotFound))
	assert.False(t, errors.Is(ErrTranslationNotFound, ErrSourceTextNotFound))
}

func TestStoreError(t *testing.T) {
	cause := errors.New("disk full")

	err := NewStoreError("translation", "upsert", "write failed", cause)
	assert.Equal(t, "upsert operation on translation failed: write failed: disk full", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := NewStoreError("source_text", "create", "rejected", nil)
	assert.Equal(t, "create operation on source_text failed: rejected", bare.Error())
	assert.Nil(t, bare.Unwrap())
}
