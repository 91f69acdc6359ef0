package normaliser

// DefaultStageOrder returns the contract order of the built-in stages.
func DefaultStageOrder() []string {
	return []string{StageLineFilter, StageArtifacts, StageUnicode, StageWhitespace}
}

// RegisterDefaults registers all built-in stages with the registry.
func RegisterDefaults(r *Registry) {
	r.Register(StageLineFilter, func(cfg *Config) (Stage, error) {
		return LineFilter(cfg), nil
	})
	r.Register(StageArtifacts, func(_ *Config) (Stage, error) {
		return ArtifactStripper(), nil
	})
	r.Register(StageUnicode, func(cfg *Config) (Stage, error) {
		return UnicodeCanonicaliser(cfg), nil
	})
	r.Register(StageWhitespace, func(cfg *Config) (Stage, error) {
		return WhitespaceRegulariser(cfg), nil
	})
}

// DefaultRegistry returns a registry populated with the built-in stages.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}
