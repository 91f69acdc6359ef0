// Package domain defines the core business entities for daisytext.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - UnicodeForm: A canonical Unicode normalisation form selector
//   - Strategy: A segmentation strategy selector
//   - AppSettings: The validated configuration surface of a pipeline run
//   - PageImage / PageText: Per-page artefacts of the external collaborators
//   - Run: An archived pipeline run and its segments
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
