// Package ids mints multi-page group tokens.
package ids

import (
	"github.com/google/uuid"

	"github.com/custodia-labs/pdfmark/internal/core/ports/driven"
)

// Ensure UUIDGenerator implements the interface.
var _ driven.GroupIDGenerator = (*UUIDGenerator)(nil)

// UUIDGenerator returns time-ordered UUIDv7 strings, so groups created
// later sort after earlier ones.
type UUIDGenerator struct{}

// NewUUIDGenerator creates a generator.
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// NewGroupID returns a new token.
func (g *UUIDGenerator) NewGroupID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source does.
		return uuid.New().String()
	}
	return id.String()
}
