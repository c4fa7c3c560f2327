// Package export holds the row layout shared by the tabular exporters.
//
// Subpackages implement driven.Exporter for one format each:
//
//   - csv: comma separated values with a header row
//   - xlsx: an Excel workbook with one sheet
//   - yaml: the structured record of meta fields and line items
package export
