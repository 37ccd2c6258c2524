package solver

import "github.com/rs/zerolog"

// An Option configures a Solver at construction time.
type Option func(*Solver)

// WithLogger sets the logger used for debug traces. The default is the
// module-wide logger from the logger package.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Solver) {
		s.log = l
	}
}
