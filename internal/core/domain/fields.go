package domain

import "slices"

// MetaFields are document-level attributes.
var MetaFields = []string{
	"document_name",
	"customer_name",
	"buyer_name",
	"currency",
	"rfq_date",
	"due_date",
}

// LineItemFields are attributes repeated per line item.
var LineItemFields = []string{
	"material_number",
	"part_number",
	"description",
	"full_description",
	"quantity",
	"unit_of_measure",
	"requested_delivery_date",
	"delivery_point",
	"manufacturer_name",
}

// DateFields require normalisation to a canonical date.
var DateFields = []string{
	"rfq_date",
	"due_date",
	"requested_delivery_date",
}

// IsMetaField reports whether field is a META field.
func IsMetaField(field string) bool {
	return slices.Contains(MetaFields, field)
}

// IsLineItemField reports whether field is a LINE-ITEM field.
func IsLineItemField(field string) bool {
	return slices.Contains(LineItemFields, field)
}

// IsDateField reports whether field is date-bearing.
func IsDateField(field string) bool {
	return slices.Contains(DateFields, field)
}

// FieldsFor returns the field enumeration for an annotation type.
// Returns nil for types without an enumeration.
func FieldsFor(t AnnotationType) []string {
	switch t {
	case AnnotationMeta:
		return MetaFields
	case AnnotationLineItem:
		return LineItemFields
	default:
		return nil
	}
}
