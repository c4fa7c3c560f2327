package driven

// DateNormaliser turns free-form date text into YYYY-MM-DD.
type DateNormaliser interface {
	// Clean strips bracket characters and surrounding whitespace.
	Clean(text string) string

	// Normalise returns the canonical date or a typed parse failure.
	Normalise(text string) (string, error)
}
