package domain

// PathSettings holds the input and output locations of a pipeline run.
type PathSettings struct {
	// InputPDF is the scanned source document.
	InputPDF string `toml:"input_pdf" validate:"required"`

	// ImagesDir receives one PNG per rasterised page.
	ImagesDir string `toml:"images_dir" validate:"required"`

	// RawText is the concatenated recognition output.
	RawText string `toml:"raw_text" validate:"required"`

	// CleanText is the normalised text.
	CleanText string `toml:"clean_text" validate:"required"`

	// Segments is the segment list, one segment per line.
	Segments string `toml:"segments" validate:"required"`
}

// OCRSettings holds rasterisation and recognition configuration.
type OCRSettings struct {
	// Language is the Tesseract language, "+" separated for several (e.g. "vie+eng").
	Language string `toml:"language" validate:"required"`

	// PageSegMode is the Tesseract page segmentation mode (0-13).
	PageSegMode int `toml:"page_seg_mode" validate:"gte=0,lte=13"`

	// DPI is the rasterisation resolution.
	DPI int `toml:"dpi" validate:"gte=72,lte=1200"`

	// Workers is the number of pages recognised concurrently.
	Workers int `toml:"workers" validate:"gte=1,lte=64"`

	// PagesPerSecond throttles recognition; zero disables throttling.
	PagesPerSecond float64 `toml:"pages_per_second" validate:"gte=0"`
}

// CleaningSettings configures the normaliser.
type CleaningSettings struct {
	// RemovePatterns are case-insensitive regular expressions.
	// A line matching any of them is dropped.
	RemovePatterns []string `toml:"remove_patterns"`

	// UnicodeForm is the canonical form applied to the whole text.
	UnicodeForm UnicodeForm `toml:"unicode_form" validate:"unicodeform"`

	// MaxConsecutiveNewlines bounds collapsed blank-line runs.
	MaxConsecutiveNewlines int `toml:"max_consecutive_newlines" validate:"gte=0"`
}

// SegmentationSettings configures the segmenter.
type SegmentationSettings struct {
	// Strategy selects sentence or paragraph segmentation.
	// Unrecognised values fall back to sentence segmentation.
	Strategy Strategy `toml:"strategy"`

	// MinLength is the minimum trimmed segment length in code points.
	MinLength int `toml:"min_length" validate:"gte=0"`
}

// ExecutionSettings allows individual pipeline steps to be skipped
// when their output already exists from an earlier run.
type ExecutionSettings struct {
	SkipRasterise    bool `toml:"skip_rasterise"`
	SkipOCR          bool `toml:"skip_ocr"`
	SkipCleaning     bool `toml:"skip_cleaning"`
	SkipSegmentation bool `toml:"skip_segmentation"`
}

// ArchiveSettings controls the run archive.
type ArchiveSettings struct {
	// Enabled stores every completed run in the archive database.
	Enabled bool `toml:"enabled"`

	// Dir is the directory holding the archive database.
	// Empty means the default data directory.
	Dir string `toml:"dir"`
}

// AppSettings holds all application settings.
type AppSettings struct {
	Paths        PathSettings         `toml:"paths"`
	OCR          OCRSettings          `toml:"ocr"`
	Cleaning     CleaningSettings     `toml:"cleaning"`
	Segmentation SegmentationSettings `toml:"segmentation"`
	Execution    ExecutionSettings    `toml:"execution"`
	Archive      ArchiveSettings      `toml:"archive"`
}

// DefaultRemovePatterns returns the built-in header/footer patterns:
// bare page numbers and "Page n of m" / "Trang n" running footers.
func DefaultRemovePatterns() []string {
	return []string{
		`^\s*\d+\s*$`,
		`^\s*Page \d+ of \d+\s*$`,
		`^\s*Trang \d+\s*$`,
	}
}

// DefaultAppSettings returns settings with sensible defaults.
// OCR defaults target Vietnamese scans at 300 DPI, the resolution
// Tesseract recommends for printed text.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Paths: PathSettings{
			InputPDF:  "input/document.pdf",
			ImagesDir: "output/images",
			RawText:   "output/text/raw_text.txt",
			CleanText: "output/text/clean_text.txt",
			Segments:  "output/text/segments.txt",
		},
		OCR: OCRSettings{
			Language:    "vie",
			PageSegMode: 6, // single uniform block of text
			DPI:         300,
			Workers:     1,
		},
		Cleaning: CleaningSettings{
			RemovePatterns:         DefaultRemovePatterns(),
			UnicodeForm:            UnicodeFormNFC,
			MaxConsecutiveNewlines: 2,
		},
		Segmentation: SegmentationSettings{
			Strategy:  StrategySentence,
			MinLength: 10,
		},
		Archive: ArchiveSettings{
			Enabled: true,
		},
	}
}
