// Package normaliser reduces OCR noise in raw text and canonicalises it.
//
// Cleaning is an ordered chain of independent stages, each a pure
// string-to-string transform:
//
//  1. line_filter: drop header, footer and page-number lines
//  2. artifacts:   strip BOM and form-feed characters and URL tokens
//  3. unicode:     canonicalise to the configured Unicode form
//  4. whitespace:  collapse spaces, trim lines, bound blank-line runs
//
// The order is part of the contract: lines must be filtered before
// whitespace collapsing merges them, and canonicalisation runs after
// stripping and before whitespace collapsing.
//
// A Config is compiled once from domain.CleaningSettings and is the only
// place configuration can fail. Cleaning itself never fails.
package normaliser
