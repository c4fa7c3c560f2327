// Package date normalises free-form date text to the canonical YYYY-MM-DD form.
package date

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/custodia-labs/pdfmark/internal/core/ports/driven"
)

// Layout is the canonical output format.
const Layout = "2006-01-02"

// Ensure Normaliser implements the interface.
var _ driven.DateNormaliser = (*Normaliser)(nil)

// ErrEmpty is wrapped by ParseError when nothing is left after cleaning.
var ErrEmpty = errors.New("empty date text")

// ParseError reports text that could not be read as a date.
// Callers choose the log severity.
type ParseError struct {
	// Input is the text as received.
	Input string

	// Cleaned is the text after bracket and whitespace stripping.
	Cleaned string

	// Err is the underlying parser error, or ErrEmpty.
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing date %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Normaliser parses dates with a permissive, month-first parser.
// Parsing is evaluated in UTC and never consults the current date.
type Normaliser struct{}

// New creates a new date normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Clean strips bracket characters and surrounding whitespace.
func (n *Normaliser) Clean(text string) string {
	return Clean(text)
}

// Normalise returns the canonical form of text or a *ParseError.
func (n *Normaliser) Normalise(text string) (string, error) {
	return Normalise(text)
}

// Clean strips bracket characters and surrounding whitespace.
func Clean(text string) string {
	text = strings.ReplaceAll(text, "[", "")
	text = strings.ReplaceAll(text, "]", "")
	return strings.TrimSpace(text)
}

// Normalise returns the canonical form of text or a *ParseError.
func Normalise(text string) (string, error) {
	cleaned := Clean(text)
	if cleaned == "" {
		return "", &ParseError{Input: text, Cleaned: cleaned, Err: ErrEmpty}
	}

	// Selections often span several lines of extracted text.
	cleaned = strings.Join(strings.Fields(cleaned), " ")

	t, err := dateparse.ParseIn(cleaned, time.UTC)
	if err != nil {
		return "", &ParseError{Input: text, Cleaned: cleaned, Err: err}
	}
	return t.Format(Layout), nil
}
