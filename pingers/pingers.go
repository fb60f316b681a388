// Package pingers implements the reachability checks used by the prober.
//
// Every pinger answers one question per call: did the target respond within
// the timeout? A negative answer is a normal outcome and is reported as
// (false, nil). Only failures of the local network stack surface as errors.
package pingers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"
)

// ErrICMPUnavailable is returned when no ICMP socket can be opened, typically
// because the process lacks CAP_NET_RAW and unprivileged ICMP is disabled.
var ErrICMPUnavailable = errors.New("icmp not available")

// Mode selects the reachability check.
type Mode string

const (
	// ModeAuto uses ICMP echo and falls back to TCP when ICMP is unavailable.
	ModeAuto Mode = "auto"
	// ModeICMP uses ICMP echo only.
	ModeICMP Mode = "icmp"
	// ModeTCP uses a TCP handshake only.
	ModeTCP Mode = "tcp"
)

// DefaultTCPPort is the echo service port, probed by the TCP check.
const DefaultTCPPort uint16 = 7

// ParseMode converts s to a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeAuto, ModeICMP, ModeTCP:
		return m, nil
	}
	return "", fmt.Errorf("unknown mode %q, expected one of auto, icmp, tcp", s)
}

// classify turns the error of a send/receive or dial into a reachability
// verdict. A timeout or an unreachable route means no answer. A refused or
// reset connection means the host answered. Anything else is an I/O error.
func classify(err error) (bool, error) {
	if err == nil {
		return true, nil
	}

	if isTimeout(err) {
		return false, nil
	}

	if isRefused(err) {
		return true, nil
	}

	if isUnreachable(err) {
		return false, nil
	}

	return false, err
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}

	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// withTimeout bounds ctx by timeout. A non-positive timeout leaves ctx as is.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
