package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewType_String(t *testing.T) {
	tests := []struct {
		view     ViewType
		expected string
	}{
		{ViewMenu, "menu"},
		{ViewAnnotations, "annotations"},
		{ViewAnnotate, "annotate"},
		{ViewFiles, "files"},
		{ViewGrouped, "grouped"},
		{ViewHelp, "help"},
		{ViewSettings, "settings"},
		{ViewType(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.view.String())
		})
	}
}

func TestSelectionResolved_CancelledHasNoAnnotations(t *testing.T) {
	msg := SelectionResolved{}
	assert.Empty(t, msg.Added)
	assert.NoError(t, msg.Err)
}
