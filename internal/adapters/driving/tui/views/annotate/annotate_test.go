package annotate

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfmark/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfmark/internal/adapters/driving/tui/tuitest"
	"github.com/custodia-labs/pdfmark/internal/core/domain"
	"github.com/custodia-labs/pdfmark/internal/core/ports/driving"
)

func newTestView() (*View, *tuitest.AnnotationService) {
	svc := &tuitest.AnnotationService{}
	v := NewView(nil, svc)
	v.SetDimensions(100, 30)
	return v, svc
}

func pendingSelection(last string) *driving.PendingSelection {
	return &driving.PendingSelection{
		Request: domain.ClassificationRequest{
			FileName:           "rfq.pdf",
			Page:               1,
			Text:               "Bolt M8 x 40",
			Fragments:          1,
			LastLineItemNumber: last,
		},
		Fragments: []domain.Annotation{{Page: 1, Text: "Bolt M8 x 40"}},
	}
}

func TestNewView_Defaults(t *testing.T) {
	v, _ := newTestView()

	assert.Equal(t, StepSelection, v.Step())
	assert.Equal(t, domain.AnnotationMeta, v.Mode())
	assert.Nil(t, v.Pending())
	assert.Equal(t, "1", v.inputs[fieldPage].Value())
	assert.True(t, v.inputs[fieldPage].Focused())
}

func TestView_Selection_SinglePage(t *testing.T) {
	v, _ := newTestView()
	v.inputs[fieldPage].SetValue("2")
	v.inputs[fieldRect].SetValue("10,20,110,40")

	sel, err := v.selection()

	require.NoError(t, err)
	assert.Equal(t, domain.SinglePage(1, domain.Rect{X0: 10, Y0: 20, X1: 110, Y1: 40}), sel)
}

func TestView_Selection_Multipage(t *testing.T) {
	v, _ := newTestView()
	v.inputs[fieldPage].SetValue("1")
	v.inputs[fieldRect].SetValue("300,700,400,780")
	v.inputs[fieldEndPage].SetValue("3")
	v.inputs[fieldEndPoint].SetValue("50,80")

	sel, err := v.selection()

	require.NoError(t, err)
	assert.True(t, sel.IsMultipage())
	assert.Equal(t, 0, sel.StartPage)
	assert.Equal(t, 2, sel.EndPage)
	assert.Equal(t, domain.Rect{X1: 50, Y1: 80}, sel.EndRect)
}

func TestView_Selection_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		page    string
		rect    string
		endPage string
	}{
		{"zero page", "0", "0,0,10,10", ""},
		{"bad rect", "1", "0,0,10", ""},
		{"end before start", "3", "0,0,10,10", "2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, _ := newTestView()
			v.inputs[fieldPage].SetValue(tt.page)
			v.inputs[fieldRect].SetValue(tt.rect)
			v.inputs[fieldEndPage].SetValue(tt.endPage)

			_, err := v.selection()
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestView_Enter_BeginsSelection(t *testing.T) {
	v, svc := newTestView()
	var got domain.Selection
	svc.BeginFunc = func(_ context.Context, sel domain.Selection) (*driving.PendingSelection, error) {
		got = sel
		return pendingSelection(""), nil
	}
	v.inputs[fieldRect].SetValue("10,10,60,40")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, StepWaiting, v.Step())
	require.NotNil(t, cmd)
	msg := cmd()
	begun, ok := msg.(messages.SelectionBegun)
	require.True(t, ok)
	assert.Equal(t, 0, got.StartPage)

	v.Update(begun)
	assert.Equal(t, StepClassify, v.Step())
	assert.NotNil(t, v.Pending())
	assert.Contains(t, v.View(), "Bolt M8 x 40")
}

func TestView_Enter_InvalidFormStays(t *testing.T) {
	v, _ := newTestView()

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Equal(t, StepSelection, v.Step())
	assert.ErrorIs(t, v.Err(), domain.ErrInvalidInput)
}

func TestView_SelectionBegun_Error(t *testing.T) {
	v, _ := newTestView()
	v.step = StepWaiting

	v.Update(messages.SelectionBegun{Err: domain.ErrSelectionInFlight})

	assert.Equal(t, StepSelection, v.Step())
	assert.ErrorIs(t, v.Err(), domain.ErrSelectionInFlight)
}

func TestView_TabCyclesFocus(t *testing.T) {
	v, _ := newTestView()

	v.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.True(t, v.inputs[fieldRect].Focused())
	assert.False(t, v.inputs[fieldPage].Focused())

	v.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	v.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.True(t, v.inputs[fieldEndPoint].Focused())
}

func TestView_EscFromSelection_GoesBack(t *testing.T) {
	v, _ := newTestView()

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewAnnotations}, cmd())
}

func TestView_Classify_AcceptMeta(t *testing.T) {
	v, svc := newTestView()
	var got domain.ClassificationResult
	svc.ResolveFunc = func(
		_ context.Context, _ *driving.PendingSelection, r domain.ClassificationResult,
	) ([]domain.Annotation, error) {
		got = r
		return []domain.Annotation{{Field: r.Classification.Field}}, nil
	}
	v.Update(messages.SelectionBegun{Pending: pendingSelection("")})

	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	resolved, ok := cmd().(messages.SelectionResolved)
	require.True(t, ok)
	assert.Len(t, resolved.Added, 1)
	assert.True(t, got.Accepted)
	assert.Equal(t, domain.AnnotationMeta, got.Classification.Type)
	assert.Equal(t, domain.MetaFields[1], got.Classification.Field)
	assert.Empty(t, got.Classification.LineItemNumber)
}

func TestView_Classify_LineItemPrefilled(t *testing.T) {
	v, _ := newTestView()
	v.Update(messages.SelectionBegun{Pending: pendingSelection("7")})

	v.Update(tea.KeyMsg{Type: tea.KeyTab})

	assert.Equal(t, domain.AnnotationLineItem, v.Mode())
	c := v.Classification()
	assert.Equal(t, domain.LineItemFields[0], c.Field)
	assert.Equal(t, "7", c.LineItemNumber)
	assert.NoError(t, c.Validate())

	v.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, domain.AnnotationMeta, v.Mode())
	assert.Empty(t, v.Classification().LineItemNumber)
}

func TestView_Classify_EscCancels(t *testing.T) {
	v, svc := newTestView()
	var got *domain.ClassificationResult
	svc.ResolveFunc = func(
		_ context.Context, _ *driving.PendingSelection, r domain.ClassificationResult,
	) ([]domain.Annotation, error) {
		got = &r
		return nil, nil
	}
	v.Update(messages.SelectionBegun{Pending: pendingSelection("")})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	resolved, ok := cmd().(messages.SelectionResolved)
	require.True(t, ok)
	assert.Empty(t, resolved.Added)
	require.NotNil(t, got)
	assert.False(t, got.Accepted)
}

func TestView_SelectionResolved_ErrorReturnsToForm(t *testing.T) {
	v, _ := newTestView()
	v.Update(messages.SelectionBegun{Pending: pendingSelection("")})

	v.Update(messages.SelectionResolved{Err: domain.ErrStaleSelection})

	assert.Equal(t, StepSelection, v.Step())
	assert.Nil(t, v.Pending())
	assert.ErrorIs(t, v.Err(), domain.ErrStaleSelection)
}

func TestView_Reset(t *testing.T) {
	v, _ := newTestView()
	v.Update(messages.SelectionBegun{Pending: pendingSelection("3")})
	v.Update(tea.KeyMsg{Type: tea.KeyTab})

	v.Reset()

	assert.Equal(t, StepSelection, v.Step())
	assert.Equal(t, domain.AnnotationMeta, v.Mode())
	assert.Nil(t, v.Pending())
	assert.Empty(t, v.lineItem.Value())
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "(no text under selection)", preview("  "))
	assert.Equal(t, "EUR", preview(" EUR "))

	long := make([]rune, previewRunes+10)
	for i := range long {
		long[i] = 'x'
	}
	got := preview(string(long))
	assert.Len(t, []rune(got), previewRunes+3)
}

func TestView_View_Steps(t *testing.T) {
	v, _ := newTestView()
	assert.Contains(t, v.View(), "New selection")

	v.step = StepWaiting
	assert.Contains(t, v.View(), "Working...")

	v.Update(messages.SelectionBegun{Pending: pendingSelection("")})
	out := v.View()
	assert.Contains(t, out, "Classify selection")
	assert.Contains(t, out, "Page 2")
	assert.Contains(t, out, domain.MetaFields[0])
}
