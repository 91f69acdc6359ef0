package domain

import "strings"

const unknownDescription = "Unknown"

// UnicodeForm selects one of the four canonical Unicode normalisation forms.
type UnicodeForm string

// Available Unicode forms.
const (
	// UnicodeFormNFC is canonical composition (required by DAISY).
	UnicodeFormNFC UnicodeForm = "NFC"

	// UnicodeFormNFD is canonical decomposition.
	UnicodeFormNFD UnicodeForm = "NFD"

	// UnicodeFormNFKC is compatibility decomposition followed by composition.
	UnicodeFormNFKC UnicodeForm = "NFKC"

	// UnicodeFormNFKD is compatibility decomposition.
	UnicodeFormNFKD UnicodeForm = "NFKD"
)

// IsValid returns true if the form is recognised.
func (f UnicodeForm) IsValid() bool {
	switch f {
	case UnicodeFormNFC, UnicodeFormNFD, UnicodeFormNFKC, UnicodeFormNFKD:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (f UnicodeForm) String() string {
	return string(f)
}

// Description returns a human-readable description of the form.
func (f UnicodeForm) Description() string {
	switch f {
	case UnicodeFormNFC:
		return "NFC (canonical composition)"
	case UnicodeFormNFD:
		return "NFD (canonical decomposition)"
	case UnicodeFormNFKC:
		return "NFKC (compatibility composition)"
	case UnicodeFormNFKD:
		return "NFKD (compatibility decomposition)"
	default:
		return unknownDescription
	}
}

// ParseUnicodeForm parses a form name. Surrounding whitespace is ignored
// but case is significant, so "nfc" is not a valid form.
// The returned form must still be checked with IsValid.
func ParseUnicodeForm(s string) UnicodeForm {
	return UnicodeForm(strings.TrimSpace(s))
}

// ParseStrategy parses a strategy name. Surrounding whitespace is ignored
// but case is significant; an unrecognised name resolves to sentence.
func ParseStrategy(s string) Strategy {
	return Strategy(strings.TrimSpace(s))
}

// AllUnicodeForms returns all available Unicode forms.
func AllUnicodeForms() []UnicodeForm {
	return []UnicodeForm{
		UnicodeFormNFC,
		UnicodeFormNFD,
		UnicodeFormNFKC,
		UnicodeFormNFKD,
	}
}

// Strategy selects how clean text is partitioned into segments.
type Strategy string

// Available segmentation strategies.
const (
	// StrategySentence splits at sentence terminators followed by whitespace.
	StrategySentence Strategy = "sentence"

	// StrategyParagraph splits at blank-line boundaries.
	StrategyParagraph Strategy = "paragraph"
)

// IsValid returns true if the strategy is recognised.
func (s Strategy) IsValid() bool {
	switch s {
	case StrategySentence, StrategyParagraph:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s Strategy) String() string {
	return string(s)
}

// Description returns a human-readable description of the strategy.
func (s Strategy) Description() string {
	switch s {
	case StrategySentence:
		return "Sentence (split at . ! ? ; followed by whitespace)"
	case StrategyParagraph:
		return "Paragraph (split at blank lines)"
	default:
		return unknownDescription
	}
}

// Resolve returns the strategy actually used for segmentation.
// Unrecognised strategies fall back to StrategySentence; the second
// return value reports whether a fallback happened so callers can warn.
func (s Strategy) Resolve() (Strategy, bool) {
	if s.IsValid() {
		return s, false
	}
	return StrategySentence, true
}

// AllStrategies returns all available segmentation strategies.
func AllStrategies() []Strategy {
	return []Strategy{
		StrategySentence,
		StrategyParagraph,
	}
}
