// Package classifier provides the field classification dialogs used
// outside the TUI.
//
// Static answers every request with one fixed classification, for
// scripted use through command flags. Prompt asks on a terminal, showing
// the selected text and numbered field lists.
package classifier
