// Package core defines the shared language of the wildstat system.
//
// This package contains:
//   - Domain entities (Animal, Guest, Guider)
//   - The immutable Snapshot that every report is computed from
//   - Domain parsing rules (visit dates)
//
// The Golden Rule: pkg/core imports ONLY the standard library and google/uuid.
// All other packages depend on core, not the reverse.
package core
