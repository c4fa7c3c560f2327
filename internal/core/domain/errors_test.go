package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrNotImplemented", ErrNotImplemented},
		{"ErrUnknownField", ErrUnknownField},
		{"ErrIndexOutOfRange", ErrIndexOutOfRange},
		{"ErrNoDocument", ErrNoDocument},
		{"ErrSelectionInFlight", ErrSelectionInFlight},
		{"ErrStaleSelection", ErrStaleSelection},
		{"ErrPageOutOfRange", ErrPageOutOfRange},
		{"ErrHighlightNotFound", ErrHighlightNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

// TestErrors_Distinct tests that no two sentinel errors match each other
func TestErrors_Distinct(t *testing.T) {
	all := []error{
		ErrNotFound, ErrInvalidInput, ErrNotImplemented, ErrUnknownField,
		ErrIndexOutOfRange, ErrNoDocument, ErrSelectionInFlight, ErrStaleSelection,
		ErrPageOutOfRange, ErrHighlightNotFound,
	}

	for i := range all {
		for j := range all {
			if i == j {
				continue
			}
			assert.False(t, errors.Is(all[i], all[j]), "%v should not match %v", all[i], all[j])
		}
	}
}

// TestErrors_Wrapping tests that wrapped sentinels are still detectable
func TestErrors_Wrapping(t *testing.T) {
	wrapped := fmt.Errorf("deleting annotation 7: %w", ErrNotFound)
	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.NotErrorIs(t, wrapped, ErrInvalidInput)
}
