package printers

import (
	"fmt"

	"github.com/gookit/color"
	"github.com/pouriyajamshidi/hostping/result"
)

// Color styles used when printing information
var (
	colorSuccess = color.LightGreen
	colorVerbose = color.Green
	colorFailure = color.Red
	colorError   = color.LightRed
)

// ColorPrinter prints the same lines as PlainPrinter, colorized.
type ColorPrinter struct {
	opts options
}

type ColorPrinterOption = func(*ColorPrinter)

// NewColorPrinter creates a new ColorPrinter instance.
func NewColorPrinter(opts ...ColorPrinterOption) *ColorPrinter {
	p := &ColorPrinter{opts: defaultOptions()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *ColorPrinter) options() *options {
	return &p.opts
}

// PrintProbeSuccess prints the RTT of a successful probe in light green.
// In verbose mode the success announcement comes first, in green.
func (p *ColorPrinter) PrintProbeSuccess(r *result.Result) {
	lines := successLines(r, p.opts.Verbose)
	for i, line := range lines {
		style := colorSuccess
		if len(lines) > 1 && i == 0 {
			style = colorVerbose
		}
		fmt.Fprintln(p.opts.Out, style.Sprint(line))
	}
}

// PrintProbeFailure prints a failure message for a probe in red.
func (p *ColorPrinter) PrintProbeFailure(r *result.Result) {
	fmt.Fprintln(p.opts.Out, colorFailure.Sprint(failureLine(r)))
}

// PrintError prints error messages to the error output in light red.
func (p *ColorPrinter) PrintError(format string, args ...any) {
	fmt.Fprintln(p.opts.ErrOut, colorError.Sprint(errorLine(format, args...)))
}
