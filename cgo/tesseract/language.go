package tesseract

import "strings"

// Languages splits a Tesseract language setting such as "vie+eng".
func Languages(value string) []string {
	var langs []string
	for _, l := range strings.Split(value, "+") {
		if l = strings.TrimSpace(l); l != "" {
			langs = append(langs, l)
		}
	}
	return langs
}

// missingLanguages returns the requested languages absent from installed.
func missingLanguages(requested, installed []string) []string {
	have := make(map[string]bool, len(installed))
	for _, l := range installed {
		have[l] = true
	}
	var missing []string
	for _, l := range requested {
		if !have[l] {
			missing = append(missing, l)
		}
	}
	return missing
}
