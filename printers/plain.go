package printers

import (
	"fmt"

	"github.com/pouriyajamshidi/hostping/result"
)

// PlainPrinter prints probe results as plain text.
type PlainPrinter struct {
	opts options
}

type PlainPrinterOption = func(*PlainPrinter)

// NewPlainPrinter creates a new PlainPrinter instance.
func NewPlainPrinter(opts ...PlainPrinterOption) *PlainPrinter {
	p := &PlainPrinter{opts: defaultOptions()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *PlainPrinter) options() *options {
	return &p.opts
}

// PrintProbeSuccess prints the RTT of a successful probe, preceded by a
// success line in verbose mode.
func (p *PlainPrinter) PrintProbeSuccess(r *result.Result) {
	for _, line := range successLines(r, p.opts.Verbose) {
		fmt.Fprintln(p.opts.Out, line)
	}
}

// PrintProbeFailure prints a failure message for a probe.
func (p *PlainPrinter) PrintProbeFailure(r *result.Result) {
	fmt.Fprintln(p.opts.Out, failureLine(r))
}

// PrintError prints error messages to the error output.
func (p *PlainPrinter) PrintError(format string, args ...any) {
	fmt.Fprintln(p.opts.ErrOut, errorLine(format, args...))
}
