// Package annotate provides the selection and classification view for the TUI.
package annotate

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pdfmark/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/pdfmark/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfmark/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfmark/internal/core/domain"
	"github.com/custodia-labs/pdfmark/internal/core/ports/driving"
)

// Step tracks where the view is in capturing one annotation.
type Step int

const (
	// StepSelection collects the page and rectangle of the selection.
	StepSelection Step = iota
	// StepClassify shows the extracted text and collects the field.
	StepClassify
	// StepWaiting is shown while the session works.
	StepWaiting
)

// Selection form field indexes.
const (
	fieldPage = iota
	fieldRect
	fieldEndPage
	fieldEndPoint
	fieldCount
)

// previewRunes caps the selected text shown while classifying.
const previewRunes = 400

// View captures a selection, begins it on the session and resolves it
// with the chosen classification.
type View struct {
	styles            *styles.Styles
	annotationService driving.AnnotationService

	step    Step
	inputs  []*input.FieldInput
	focused int

	pending    *driving.PendingSelection
	mode       domain.AnnotationType
	fieldIndex int
	lineItem   *input.FieldInput

	err    error
	width  int
	height int
	ready  bool
}

// NewView creates a new annotate view.
func NewView(s *styles.Styles, annotationService driving.AnnotationService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	v := &View{
		styles:            s,
		annotationService: annotationService,
		inputs: []*input.FieldInput{
			fieldPage:     input.NewFieldInput(s, "Page", "1"),
			fieldRect:     input.NewFieldInput(s, "Rect", "x0,y0,x1,y1"),
			fieldEndPage:  input.NewFieldInput(s, "End page", "same page"),
			fieldEndPoint: input.NewFieldInput(s, "End point", "x,y"),
		},
		lineItem: input.NewFieldInput(s, "Line item", "number"),
	}
	v.Reset()
	return v
}

// Reset clears the form and any pending state.
func (v *View) Reset() {
	for _, in := range v.inputs {
		in.Reset()
		in.Blur()
	}
	v.inputs[fieldPage].SetValue("1")
	v.focused = fieldPage
	v.inputs[fieldPage].Focus()
	v.step = StepSelection
	v.pending = nil
	v.mode = domain.AnnotationMeta
	v.fieldIndex = 0
	v.lineItem.Reset()
	v.err = nil
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.inputs[v.focused].Init()
}

// Update handles messages for the annotate view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		switch v.step {
		case StepSelection:
			return v.handleSelectionKeys(msg)
		case StepClassify:
			return v.handleClassifyKeys(msg)
		case StepWaiting:
			return v, nil
		}

	case messages.SelectionBegun:
		if msg.Err != nil {
			v.err = msg.Err
			v.step = StepSelection
			return v, nil
		}
		v.err = nil
		v.beginClassify(msg.Pending)
		return v, nil

	case messages.SelectionResolved:
		if msg.Err != nil {
			v.err = msg.Err
			v.step = StepSelection
			v.pending = nil
		}
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// handleSelectionKeys edits the selection form.
//
//nolint:exhaustive // only navigation keys are intercepted
func (v *View) handleSelectionKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewAnnotations}
		}
	case tea.KeyTab, tea.KeyDown:
		return v, v.focus((v.focused + 1) % fieldCount)
	case tea.KeyShiftTab, tea.KeyUp:
		return v, v.focus((v.focused + fieldCount - 1) % fieldCount)
	case tea.KeyEnter:
		sel, err := v.selection()
		if err != nil {
			v.err = err
			return v, nil
		}
		v.err = nil
		v.step = StepWaiting
		return v, v.begin(sel)
	}

	var cmd tea.Cmd
	v.inputs[v.focused], cmd = v.inputs[v.focused].Update(msg)
	return v, cmd
}

// handleClassifyKeys picks the type, field and line item number.
//
//nolint:exhaustive // only navigation keys are intercepted
func (v *View) handleClassifyKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	fields := domain.FieldsFor(v.mode)

	switch msg.Type {
	case tea.KeyEsc:
		v.step = StepWaiting
		return v, v.resolve(domain.Cancel())
	case tea.KeyTab:
		v.toggleMode()
		return v, nil
	case tea.KeyUp:
		if v.fieldIndex > 0 {
			v.fieldIndex--
		}
		return v, nil
	case tea.KeyDown:
		if v.fieldIndex < len(fields)-1 {
			v.fieldIndex++
		}
		return v, nil
	case tea.KeyEnter:
		c := v.Classification()
		if err := c.Validate(); err != nil {
			v.err = err
			return v, nil
		}
		v.err = nil
		v.step = StepWaiting
		return v, v.resolve(domain.Accept(c))
	}

	if v.mode == domain.AnnotationLineItem {
		var cmd tea.Cmd
		v.lineItem, cmd = v.lineItem.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) focus(index int) tea.Cmd {
	v.inputs[v.focused].Blur()
	v.focused = index
	return v.inputs[v.focused].Focus()
}

func (v *View) toggleMode() {
	if v.mode == domain.AnnotationMeta {
		v.mode = domain.AnnotationLineItem
		v.lineItem.Focus()
	} else {
		v.mode = domain.AnnotationMeta
		v.lineItem.Blur()
	}
	v.fieldIndex = 0
}

func (v *View) beginClassify(pending *driving.PendingSelection) {
	v.pending = pending
	v.step = StepClassify
	v.mode = domain.AnnotationMeta
	v.fieldIndex = 0
	v.lineItem.Reset()
	v.lineItem.Blur()
	if pending != nil {
		v.lineItem.SetValue(pending.Request.LastLineItemNumber)
	}
}

// selection parses the form into a 0-based selection.
func (v *View) selection() (domain.Selection, error) {
	page, err := strconv.Atoi(strings.TrimSpace(v.inputs[fieldPage].Value()))
	if err != nil || page < 1 {
		return domain.Selection{}, fmt.Errorf("%w: page must be 1 or greater", domain.ErrInvalidInput)
	}
	rect, err := domain.ParseRect(v.inputs[fieldRect].Value())
	if err != nil {
		return domain.Selection{}, err
	}

	endText := strings.TrimSpace(v.inputs[fieldEndPage].Value())
	if endText == "" {
		return domain.SinglePage(page-1, rect), nil
	}
	endPage, err := strconv.Atoi(endText)
	if err != nil || endPage < page {
		return domain.Selection{}, fmt.Errorf("%w: end page must be %d or greater", domain.ErrInvalidInput, page)
	}
	if endPage == page {
		return domain.SinglePage(page-1, rect), nil
	}

	x, y, err := domain.ParsePoint(v.inputs[fieldEndPoint].Value())
	if err != nil {
		return domain.Selection{}, err
	}
	return domain.Selection{
		StartPage: page - 1,
		StartRect: rect,
		EndPage:   endPage - 1,
		EndRect:   domain.Rect{X1: x, Y1: y},
	}, nil
}

// begin returns a command that extracts and highlights the selection.
func (v *View) begin(sel domain.Selection) tea.Cmd {
	return func() tea.Msg {
		if v.annotationService == nil {
			return messages.SelectionBegun{Err: fmt.Errorf("annotation service not available")}
		}
		pending, err := v.annotationService.Begin(context.Background(), sel)
		return messages.SelectionBegun{Pending: pending, Err: err}
	}
}

// resolve returns a command that commits or unwinds the pending selection.
func (v *View) resolve(result domain.ClassificationResult) tea.Cmd {
	pending := v.pending
	return func() tea.Msg {
		added, err := v.annotationService.Resolve(context.Background(), pending, result)
		return messages.SelectionResolved{Added: added, Err: err}
	}
}

// Classification returns the classification currently chosen.
func (v *View) Classification() domain.Classification {
	fields := domain.FieldsFor(v.mode)
	c := domain.Classification{Type: v.mode}
	if v.fieldIndex < len(fields) {
		c.Field = fields[v.fieldIndex]
	}
	if v.mode == domain.AnnotationLineItem {
		c.LineItemNumber = strings.TrimSpace(v.lineItem.Value())
	}
	return c
}

// View renders the annotate view.
func (v *View) View() string {
	var b strings.Builder

	switch v.step {
	case StepSelection:
		b.WriteString(v.styles.Title.Render("New selection"))
		b.WriteString("\n\n")
		for _, in := range v.inputs {
			b.WriteString(in.View())
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render("Coordinates are PDF points from the top-left corner of the page."))
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render("For multi-page selections give the end page and its bottom-right point."))
		b.WriteString("\n\n")
		v.renderErr(&b)
		b.WriteString(v.styles.Help.Render("[tab/↑/↓] field  [enter] highlight  [esc] back"))

	case StepClassify:
		b.WriteString(v.renderClassify())

	case StepWaiting:
		b.WriteString(v.styles.Muted.Render("Working..."))
	}

	return b.String()
}

func (v *View) renderClassify() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Classify selection"))
	b.WriteString("\n\n")

	if v.pending != nil {
		req := v.pending.Request
		where := fmt.Sprintf("Page %d", req.Page+1)
		if req.Fragments > 1 {
			where = fmt.Sprintf("Pages %d-%d", req.Page+1, req.Page+req.Fragments)
		}
		b.WriteString(v.styles.Subtitle.Render(where))
		b.WriteString("\n")
		b.WriteString(v.styles.Mark.Render(preview(req.Text)))
		b.WriteString("\n\n")
	}

	meta, item := "  meta  ", "  line item  "
	if v.mode == domain.AnnotationMeta {
		meta = v.styles.Selected.Render(meta)
		item = v.styles.Muted.Render(item)
	} else {
		meta = v.styles.Muted.Render(meta)
		item = v.styles.Selected.Render(item)
	}
	b.WriteString(meta + " " + item)
	b.WriteString("\n\n")

	for i, f := range domain.FieldsFor(v.mode) {
		label := f
		if domain.IsDateField(f) {
			label += " (date)"
		}
		if i == v.fieldIndex {
			b.WriteString(v.styles.Selected.Render("> " + label))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + label))
		}
		b.WriteString("\n")
	}

	if v.mode == domain.AnnotationLineItem {
		b.WriteString("\n")
		b.WriteString(v.lineItem.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	v.renderErr(&b)
	b.WriteString(v.styles.Help.Render("[tab] meta/line item  [↑/↓] field  [enter] save  [esc] discard"))
	return b.String()
}

func (v *View) renderErr(b *strings.Builder) {
	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}
}

func preview(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return "(no text under selection)"
	}
	runes := []rune(text)
	if len(runes) > previewRunes {
		return string(runes[:previewRunes]) + "..."
	}
	return text
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	for _, in := range v.inputs {
		in.SetWidth(width)
	}
	v.lineItem.SetWidth(width)
}

// Step returns the current step.
func (v *View) Step() Step {
	return v.step
}

// Mode returns the annotation type being chosen.
func (v *View) Mode() domain.AnnotationType {
	return v.mode
}

// Pending returns the selection awaiting classification, or nil.
func (v *View) Pending() *driving.PendingSelection {
	return v.pending
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
