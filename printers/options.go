package printers

import "io"

// options contains common display options shared by all printers
type options struct {
	Verbose bool
	Out     io.Writer
	ErrOut  io.Writer
}

type hasOptions interface {
	options() *options
}

// WithVerbose makes printers announce every successful probe on its own
// line before the RTT line.
func WithVerbose[T hasOptions]() func(T) {
	return func(p T) {
		p.options().Verbose = true
	}
}

// WithOutput sets where probe results are written. Defaults to stdout.
func WithOutput[T hasOptions](w io.Writer) func(T) {
	return func(p T) {
		p.options().Out = w
	}
}

// WithErrorOutput sets where errors are written. Defaults to stderr.
func WithErrorOutput[T hasOptions](w io.Writer) func(T) {
	return func(p T) {
		p.options().ErrOut = w
	}
}
