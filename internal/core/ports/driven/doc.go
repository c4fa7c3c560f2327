// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - AnnotationStore: Annotation persistence (SQLite or PostgreSQL)
//   - DocumentOpener: Opens PDFs and exposes text and highlight marks
//   - DateNormaliser: Canonical date parsing
//   - GroupIDGenerator: Tokens for multi-page groups
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Classifier: Only needed by synchronous front ends
//   - PageRenderer: Page previews
//   - PageInvalidator: Render cache invalidation
//   - Exporter: One per export format
//   - FileWatcher: Reload on document change
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
