// Package segmenter partitions clean text into an ordered sequence of
// sentences or paragraphs and drops units shorter than a minimum length.
//
// Sentence boundaries are a heuristic: any of . ! ? ; followed by
// whitespace ends a sentence. Abbreviations and decimal points are not
// recognised, so "Dr. Smith" yields two units.
package segmenter
