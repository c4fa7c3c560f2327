package classifier

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/custodia-labs/pdfmark/internal/core/domain"
	"github.com/custodia-labs/pdfmark/internal/core/ports/driven"
)

// Ensure Prompt implements the interface.
var _ driven.Classifier = (*Prompt)(nil)

// previewWidth limits the selected text echoed back to the user.
const previewWidth = 200

// Prompt asks for a classification line by line. An empty answer to the
// type question, or end of input, cancels.
type Prompt struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompt creates a prompt reading answers from in and writing
// questions to out.
func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{in: bufio.NewReader(in), out: out}
}

// IsInteractive reports whether f is a terminal a user can answer on.
func IsInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Classify runs the dialog for one selection.
func (p *Prompt) Classify(ctx context.Context, req domain.ClassificationRequest) (domain.ClassificationResult, error) {
	p.printf("\nSelected text (page %d", req.Page+1)
	if req.Fragments > 1 {
		p.printf(", %d pages", req.Fragments)
	}
	p.printf("):\n  %s\n\n", preview(req.Text))

	for {
		if err := ctx.Err(); err != nil {
			return domain.ClassificationResult{}, err
		}

		p.printf("Type: 1. meta  2. line item  [enter to cancel]: ")
		answer, ok := p.readLine()
		if !ok || answer == "" {
			return domain.Cancel(), nil
		}

		var typ domain.AnnotationType
		switch strings.ToLower(answer) {
		case "1", "m", "meta":
			typ = domain.AnnotationMeta
		case "2", "l", "line", "line_item":
			typ = domain.AnnotationLineItem
		default:
			p.printf("Unknown type %q\n", answer)
			continue
		}

		fields := domain.FieldsFor(typ)
		for i, f := range fields {
			p.printf("  %d. %s\n", i+1, f)
		}
		p.printf("Field: ")
		answer, ok = p.readLine()
		if !ok {
			return domain.Cancel(), nil
		}
		field := pick(answer, fields)
		if field == "" {
			p.printf("Unknown field %q\n", answer)
			continue
		}

		c := domain.Classification{Type: typ, Field: field}
		if typ == domain.AnnotationLineItem {
			p.printf("Line item number [%s]: ", req.LastLineItemNumber)
			answer, ok = p.readLine()
			if !ok {
				return domain.Cancel(), nil
			}
			if answer == "" {
				answer = req.LastLineItemNumber
			}
			c.LineItemNumber = answer
		}

		if err := c.Validate(); err != nil {
			p.printf("%v\n", err)
			continue
		}
		return domain.Accept(c), nil
	}
}

func (p *Prompt) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

// readLine returns the trimmed next line. ok is false at end of input
// with nothing read.
func (p *Prompt) readLine() (string, bool) {
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}

// pick resolves a 1-based choice or a field name.
func pick(answer string, fields []string) string {
	if n, err := strconv.Atoi(answer); err == nil {
		if n >= 1 && n <= len(fields) {
			return fields[n-1]
		}
		return ""
	}
	for _, f := range fields {
		if f == answer {
			return f
		}
	}
	return ""
}

func preview(text string) string {
	text = strings.ReplaceAll(text, "\n", "\n  ")
	runes := []rune(text)
	if len(runes) > previewWidth {
		return string(runes[:previewWidth-3]) + "..."
	}
	return text
}
