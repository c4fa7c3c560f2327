package driven

// GroupIDGenerator mints the token shared by fragments of one multi-page
// selection. Tokens must be unique for the lifetime of a document.
type GroupIDGenerator interface {
	NewGroupID() string
}
