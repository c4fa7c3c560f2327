package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfmark/internal/adapters/driven/classifier"
	"github.com/custodia-labs/pdfmark/internal/core/domain"
	"github.com/custodia-labs/pdfmark/internal/core/ports/driven"
)

var annotateCmd = &cobra.Command{
	Use:   "annotate [pdf]",
	Short: "Highlight a region and tag it with a field",
	Long: `Highlight a rectangle of a page, extract its text and store it as an
annotation of the chosen field.

Coordinates are in PDF points with the origin at the top-left corner of the
page. Pages are numbered from 1.

A selection that continues on later pages takes --end-page and --end-point:
the start page is covered from the top-left corner of --rect to the bottom of
the page, pages in between are covered whole, and the end page is covered
from its top-left corner to --end-point.

Without --field the classification is asked for interactively.

Examples:
  pdfmark annotate rfq.pdf --page 1 --rect 72,90,300,110 --type meta --field rfq_date
  pdfmark annotate rfq.pdf --page 2 --rect 40,600,560,792 --end-page 3 --end-point 560,120 \
      --type line_item --field description --line-item 10`,
	Args: cobra.ExactArgs(1),
	RunE: runAnnotate,
}

// Annotate flags.
var (
	annotatePage     int
	annotateRect     string
	annotateEndPage  int
	annotateEndPoint string
	annotateType     string
	annotateField    string
	annotateLineItem string
)

// annotateClassifier overrides the terminal prompt in tests.
var annotateClassifier driven.Classifier

func init() {
	flags := annotateCmd.Flags()
	flags.IntVarP(&annotatePage, "page", "p", 1, "Page of the selection start (1-based)")
	flags.StringVarP(&annotateRect, "rect", "r", "", "Selection rectangle x0,y0,x1,y1 on the start page")
	flags.IntVar(&annotateEndPage, "end-page", 0, "Last page of a multi-page selection (1-based)")
	flags.StringVar(&annotateEndPoint, "end-point", "", "Bottom-right corner x,y on the end page")
	flags.StringVarP(&annotateType, "type", "t", "", "Annotation type: meta or line_item")
	flags.StringVarP(&annotateField, "field", "f", "", "Field name (see 'pdfmark fields')")
	flags.StringVarP(&annotateLineItem, "line-item", "l", "", "Line item number for line_item fields")
	_ = annotateCmd.MarkFlagRequired("rect")

	rootCmd.AddCommand(annotateCmd)
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	if annotationService == nil {
		return errors.New("annotation service not configured")
	}

	sel, err := selectionFromFlags()
	if err != nil {
		return err
	}
	cls, err := annotateClassifierFor(cmd)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	info, err := annotationService.Open(ctx, args[0])
	if err != nil {
		return err
	}
	defer annotationService.Close()

	annotations, err := annotationService.Annotate(ctx, sel, cls)
	if err != nil {
		return fmt.Errorf("failed to annotate %s: %w", info.FileName, err)
	}
	if annotations == nil {
		cmd.Println("Selection cancelled; nothing was stored.")
		return nil
	}

	cmd.Printf("Stored %d annotation(s) in %s:\n", len(annotations), info.FileName)
	for i := range annotations {
		printAnnotation(cmd, annotations[i])
	}
	return nil
}

// annotateClassifierFor picks the classification source: flags, an
// injected classifier, or a terminal prompt.
func annotateClassifierFor(cmd *cobra.Command) (driven.Classifier, error) {
	if annotateField != "" {
		typ := domain.AnnotationType(annotateType)
		if typ == "" {
			typ = inferType(annotateField)
		}
		return classifier.NewStatic(domain.Classification{
			Type:           typ,
			Field:          annotateField,
			LineItemNumber: annotateLineItem,
		})
	}
	if annotateClassifier != nil {
		return annotateClassifier, nil
	}
	if !classifier.IsInteractive(os.Stdin) {
		return nil, errors.New("--field is required when stdin is not a terminal")
	}
	return classifier.NewPrompt(cmd.InOrStdin(), cmd.OutOrStdout()), nil
}

// inferType resolves the type of a field that belongs to one enumeration.
func inferType(field string) domain.AnnotationType {
	switch {
	case domain.IsMetaField(field):
		return domain.AnnotationMeta
	case domain.IsLineItemField(field):
		return domain.AnnotationLineItem
	default:
		return ""
	}
}

func selectionFromFlags() (domain.Selection, error) {
	rect, err := domain.ParseRect(annotateRect)
	if err != nil {
		return domain.Selection{}, err
	}
	start := annotatePage - 1

	if annotateEndPage == 0 || annotateEndPage == annotatePage {
		return domain.SinglePage(start, rect), nil
	}

	x, y, err := domain.ParsePoint(annotateEndPoint)
	if err != nil {
		return domain.Selection{}, fmt.Errorf("--end-point: %w", err)
	}
	return domain.Selection{
		StartPage: start,
		StartRect: rect,
		EndPage:   annotateEndPage - 1,
		EndRect:   domain.Rect{X1: x, Y1: y},
	}, nil
}

func printAnnotation(cmd *cobra.Command, a domain.Annotation) {
	id := "-"
	if a.ID != nil {
		id = strconv.FormatInt(*a.ID, 10)
	}
	label := a.Field
	if a.LineItemNumber != "" {
		label = fmt.Sprintf("%s #%s", a.Field, a.LineItemNumber)
	}
	if label == "" {
		label = string(domain.AnnotationSelection)
	}
	cmd.Printf("  [%s] page %d  %-28s %s\n", id, a.Page+1, label, quoteText(a))
	if a.Multipage != nil {
		cmd.Printf("        fragment %d (%s) of group %s\n", a.Multipage.Position, a.Multipage.Type, a.Multipage.GroupID)
	}
}

func quoteText(a domain.Annotation) string {
	text := strings.ReplaceAll(a.Text, "\n", " / ")
	if a.StandardizedDate != nil {
		return fmt.Sprintf("%q → %s", text, *a.StandardizedDate)
	}
	return fmt.Sprintf("%q", text)
}
