package hostping

import (
	"io"
	"os"

	"github.com/pouriyajamshidi/hostping/printers"
	"github.com/pouriyajamshidi/hostping/result"
	"golang.org/x/term"
)

var (
	_ Printer = (*printers.ColorPrinter)(nil)
	_ Printer = (*printers.PlainPrinter)(nil)
)

// Printer defines a set of methods that any printer implementation must provide.
// Printers are responsible for outputting information, but should not modify data or perform calculations.
type Printer interface {
	// PrintProbeSuccess prints the outcome of a probe the target answered.
	PrintProbeSuccess(r *result.Result)

	// PrintProbeFailure prints the outcome of a probe that got no answer.
	PrintProbeFailure(r *result.Result)

	// PrintError prints an error message to the error output.
	// Printer should also apply \n to the given string, if needed.
	PrintError(format string, args ...any)
}

// PrinterConfig holds all configuration options for Printer creation
type PrinterConfig struct {
	NoColor bool
	Verbose bool
	// Out and ErrOut default to stdout and stderr.
	Out    io.Writer
	ErrOut io.Writer
}

// NewPrinter returns a colored printer when the output is a terminal and
// colors were not disabled, a plain one otherwise.
func NewPrinter(cfg PrinterConfig) Printer {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.ErrOut == nil {
		cfg.ErrOut = os.Stderr
	}

	if !cfg.NoColor && isTerminal(cfg.Out) {
		opts := []printers.ColorPrinterOption{
			printers.WithOutput[*printers.ColorPrinter](cfg.Out),
			printers.WithErrorOutput[*printers.ColorPrinter](cfg.ErrOut),
		}
		if cfg.Verbose {
			opts = append(opts, printers.WithVerbose[*printers.ColorPrinter]())
		}
		return printers.NewColorPrinter(opts...)
	}

	opts := []printers.PlainPrinterOption{
		printers.WithOutput[*printers.PlainPrinter](cfg.Out),
		printers.WithErrorOutput[*printers.PlainPrinter](cfg.ErrOut),
	}
	if cfg.Verbose {
		opts = append(opts, printers.WithVerbose[*printers.PlainPrinter]())
	}
	return printers.NewPlainPrinter(opts...)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
