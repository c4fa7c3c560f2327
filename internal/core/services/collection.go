package services

import (
	"fmt"
	"math"

	"github.com/custodia-labs/pdfmark/internal/core/domain"
)

// Collection is the ordered, in-memory list of annotations shown for the
// open document. Order is insertion order; removals never reorder the
// survivors. Collection is not safe for concurrent use; the session guards it.
type Collection struct {
	items []domain.Annotation
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{}
}

// Append adds annotations at the end.
func (c *Collection) Append(a ...domain.Annotation) {
	c.items = append(c.items, a...)
}

// Len returns the number of annotations.
func (c *Collection) Len() int {
	return len(c.items)
}

// At returns the annotation at index.
func (c *Collection) At(index int) (domain.Annotation, error) {
	if err := c.check(index); err != nil {
		return domain.Annotation{}, err
	}
	return c.items[index], nil
}

// Set replaces the annotation at index.
func (c *Collection) Set(index int, a domain.Annotation) error {
	if err := c.check(index); err != nil {
		return err
	}
	c.items[index] = a
	return nil
}

// RemoveAt deletes and returns the annotation at index.
func (c *Collection) RemoveAt(index int) (domain.Annotation, error) {
	if err := c.check(index); err != nil {
		return domain.Annotation{}, err
	}
	removed := c.items[index]
	c.items = append(c.items[:index], c.items[index+1:]...)
	return removed, nil
}

// RemoveLast deletes and returns the last annotation in collection order.
func (c *Collection) RemoveLast() (domain.Annotation, error) {
	return c.RemoveAt(len(c.items) - 1)
}

// Clear empties the collection.
func (c *Collection) Clear() {
	c.items = nil
}

// All returns a copy of the annotations in insertion order.
func (c *Collection) All() []domain.Annotation {
	out := make([]domain.Annotation, len(c.items))
	copy(out, c.items)
	return out
}

// PageOrdinal returns the position of the annotation's highlight among the
// marks of its page: the number of earlier annotations on the same page.
// Highlights are drawn in collection order, so this is the ordinal the
// document uses to address the mark.
func (c *Collection) PageOrdinal(index int) (int, error) {
	if err := c.check(index); err != nil {
		return 0, err
	}
	page := c.items[index].Page
	ordinal := 0
	for i := 0; i < index; i++ {
		if c.items[i].Page == page {
			ordinal++
		}
	}
	return ordinal, nil
}

// CountOnPage returns how many annotations sit on page.
func (c *Collection) CountOnPage(page int) int {
	n := 0
	for i := range c.items {
		if c.items[i].Page == page {
			n++
		}
	}
	return n
}

// IndexOfID returns the index of the annotation with the durable id, or -1.
func (c *Collection) IndexOfID(id int64) int {
	for i := range c.items {
		if c.items[i].ID != nil && *c.items[i].ID == id {
			return i
		}
	}
	return -1
}

// Newest returns the index of the annotation with the largest durable id.
// Unpersisted annotations are newer than any stored one, so the last of
// them wins when present. It returns -1 for an empty collection.
func (c *Collection) Newest() int {
	newest := -1
	var maxID int64
	for i := range c.items {
		id := c.items[i].ID
		switch {
		case id == nil:
			newest, maxID = i, math.MaxInt64
		case newest < 0 || *id > maxID:
			newest, maxID = i, *id
		}
	}
	return newest
}

// GroupClassification returns the classification already carried by a
// multi-page group, if any member is classified.
func (c *Collection) GroupClassification(groupID string) (domain.Classification, bool) {
	if groupID == "" {
		return domain.Classification{}, false
	}
	for i := range c.items {
		if c.items[i].GroupID() == groupID && c.items[i].IsClassified() {
			return c.items[i].Classification(), true
		}
	}
	return domain.Classification{}, false
}

func (c *Collection) check(index int) error {
	if index < 0 || index >= len(c.items) {
		return fmt.Errorf("%w: %d (have %d)", domain.ErrIndexOutOfRange, index, len(c.items))
	}
	return nil
}
