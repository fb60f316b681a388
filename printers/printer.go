// Package printers contains the logic for printing information
package printers

import (
	"fmt"
	"os"

	"github.com/pouriyajamshidi/hostping/result"
)

func defaultOptions() options {
	return options{
		Out:    os.Stdout,
		ErrOut: os.Stderr,
	}
}

// successLines returns the lines announcing a successful probe.
func successLines(r *result.Result, verbose bool) []string {
	if verbose {
		return []string{
			fmt.Sprintf("Ping to %s succeeded.", r.Hostname),
			fmt.Sprintf("RTT: %s ms", r.RTTStr()),
		}
	}
	return []string{fmt.Sprintf("RTT to %s: %s ms", r.Hostname, r.RTTStr())}
}

func failureLine(r *result.Result) string {
	return fmt.Sprintf("Ping to %s failed.", r.Hostname)
}

func errorLine(format string, args ...any) string {
	return "Error: " + fmt.Sprintf(format, args...)
}
