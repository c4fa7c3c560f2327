// Package normalisers holds the text normalisers applied to extracted
// field text before it is stored or exported.
package normalisers
