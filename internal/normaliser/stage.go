package normaliser

// Stage is one step of the cleaning chain.
// Apply must be total: it never fails and never returns an error.
type Stage interface {
	// Name returns the registry name of the stage.
	Name() string

	// Apply transforms text and returns the result.
	Apply(text string) string
}

// StageFunc adapts a plain function to the Stage interface.
type StageFunc struct {
	name string
	fn   func(string) string
}

// NewStage wraps fn as a named Stage.
func NewStage(name string, fn func(string) string) *StageFunc {
	return &StageFunc{name: name, fn: fn}
}

// Name returns the stage name.
func (s *StageFunc) Name() string {
	return s.name
}

// Apply runs the wrapped function.
func (s *StageFunc) Apply(text string) string {
	return s.fn(text)
}
