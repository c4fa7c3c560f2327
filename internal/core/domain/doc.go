// Package domain defines the core business entities for pdfmark.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Annotation: A tagged highlight region on a PDF page
//   - Selection: A finalised rectangle selection over one or more pages
//   - Classification: The field assignment for a new annotation
//   - AppSettings: User-configurable settings
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
