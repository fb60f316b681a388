package printers_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/gookit/color"
	"github.com/pouriyajamshidi/hostping/printers"
	"github.com/stretchr/testify/assert"
)

func TestColorPrinter_PlainTextMatchesPlainPrinter(t *testing.T) {
	color.Disable()
	t.Cleanup(func() { color.Enable = true })

	var colored, plain bytes.Buffer
	cp := printers.NewColorPrinter(
		printers.WithOutput[*printers.ColorPrinter](&colored),
		printers.WithVerbose[*printers.ColorPrinter](),
	)
	pp := printers.NewPlainPrinter(
		printers.WithOutput[*printers.PlainPrinter](&plain),
		printers.WithVerbose[*printers.PlainPrinter](),
	)

	r := newResult(true, 3*time.Millisecond)
	cp.PrintProbeSuccess(r)
	pp.PrintProbeSuccess(r)

	f := newResult(false, 0)
	cp.PrintProbeFailure(f)
	pp.PrintProbeFailure(f)

	assert.Equal(t, plain.String(), colored.String())
	assert.Equal(t, []string{"Ping to example.com succeeded.", "RTT: 3 ms", "Ping to example.com failed."}, lines(colored.String()))
}

func TestColorPrinter_Colorizes(t *testing.T) {
	color.ForceColor()
	t.Cleanup(func() { color.Enable = true })

	var out bytes.Buffer
	p := printers.NewColorPrinter(printers.WithOutput[*printers.ColorPrinter](&out))

	p.PrintProbeSuccess(newResult(true, 5*time.Millisecond))

	assert.Contains(t, out.String(), "RTT to example.com: 5 ms")
	assert.Contains(t, out.String(), "\x1b[", "expected ANSI escape codes")
}

func TestColorPrinter_PrintError(t *testing.T) {
	var out, errOut bytes.Buffer
	p := printers.NewColorPrinter(
		printers.WithOutput[*printers.ColorPrinter](&out),
		printers.WithErrorOutput[*printers.ColorPrinter](&errOut),
	)

	p.PrintError("%v", "connection reset")

	assert.Contains(t, errOut.String(), "Error: connection reset")
	assert.Empty(t, out.String())
}
