// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// AnnotationSession owns the open document and the in-memory annotation
// collection; Reconciler turns one selection into its linked per-page
// fragments. Catalog and export read the store directly; preview renders
// pages of the session's open document.
package services
