// Package result holds the per-probe outcome handed from the prober to the printers.
package result

import (
	"fmt"
	"net/netip"
	"time"
)

// Result is the outcome of a single probe. It lives for one loop
// iteration and is never retained by the prober.
type Result struct {
	// Hostname is the target exactly as the user typed it.
	Hostname string
	// IP is the address the hostname resolved to.
	IP netip.Addr

	// Seq is the zero-based index of the probe within the run.
	Seq uint

	Reachable bool
	RTT       time.Duration
}

// RTTMillis returns the round-trip time in whole milliseconds, truncated.
func (r *Result) RTTMillis() int64 {
	return r.RTT.Milliseconds()
}

// RTTStr returns the round-trip time formatted for output.
func (r *Result) RTTStr() string {
	return fmt.Sprintf("%d", r.RTTMillis())
}

// SecondsToDuration returns the corresponding duration from seconds expressed
// with a float. Sub-millisecond fractions are dropped.
func SecondsToDuration(seconds float64) time.Duration {
	return time.Duration(1000*seconds) * time.Millisecond
}
