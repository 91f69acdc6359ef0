package normaliser

// Normaliser cleans raw OCR text with a fixed chain of stages.
// It is immutable after construction and safe for concurrent use.
type Normaliser struct {
	config   *Config
	pipeline *Pipeline
}

// New creates a Normaliser running the built-in stages in contract order.
func New(cfg *Config) *Normaliser {
	return &Normaliser{
		config: cfg,
		pipeline: NewPipeline(
			LineFilter(cfg),
			ArtifactStripper(),
			UnicodeCanonicaliser(cfg),
			WhitespaceRegulariser(cfg),
		),
	}
}

// Clean runs text through every stage. It never fails.
func (n *Normaliser) Clean(text string) string {
	if text == "" {
		return ""
	}
	return n.pipeline.Run(text)
}

// Config returns the compiled configuration.
func (n *Normaliser) Config() *Config {
	return n.config
}

// Stages returns the stage names in execution order.
func (n *Normaliser) Stages() []string {
	return n.pipeline.Names()
}

// Clean is a convenience wrapper that cleans text with cfg.
func Clean(text string, cfg *Config) string {
	return New(cfg).Clean(text)
}
