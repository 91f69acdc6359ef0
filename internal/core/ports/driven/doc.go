// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ConfigStore: Application configuration
//   - TextStore: Raw text, clean text and segment files
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Rasteriser: Page rendering (pdftoppm). Without it, runs must reuse existing page images.
//   - RecognitionEngine: OCR (Tesseract). Without it, runs must reuse existing raw text.
//   - RunStore: Run archive (SQLite). Without it, runs are not archived.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
