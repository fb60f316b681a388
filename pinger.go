// Package hostping measures reachability and round-trip time of a remote
// host with a fixed number of sequential probes.
package hostping

import (
	"context"
	"net/netip"
	"time"

	"github.com/pouriyajamshidi/hostping/pingers"
)

var (
	// List of compile time checks for all pingers
	_ Pinger = (*pingers.AutoPinger)(nil)
	_ Pinger = (*pingers.ICMPPinger)(nil)
	_ Pinger = (*pingers.TCPPinger)(nil)
)

// Pinger is a reachability check against one resolved address.
//
// Ping reports whether the target answered within timeout. An unanswered
// probe is (false, nil); a non-nil error means the check itself could not
// be carried out.
type Pinger interface {
	Ping(ctx context.Context, timeout time.Duration) (bool, error)
	IP() netip.Addr
}
