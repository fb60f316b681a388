package pingers

import (
	"context"
	"errors"
	"net/netip"
	"time"

	"github.com/pouriyajamshidi/hostping/internal/logger"
)

type checker interface {
	Ping(ctx context.Context, timeout time.Duration) (bool, error)
}

// AutoPinger uses ICMP echo and switches to the TCP check for the rest of
// the run once ICMP turns out to be unavailable.
type AutoPinger struct {
	ip     netip.Addr
	icmp   checker
	tcp    checker
	useTCP bool
}

// NewAutoPinger creates a pinger trying ICMP first and TCP on port second.
// opts configure the ICMP check.
func NewAutoPinger(ip netip.Addr, port uint16, opts ...ICMPOptions) *AutoPinger {
	return &AutoPinger{
		ip:   ip,
		icmp: NewICMPPinger(ip, opts...),
		tcp:  NewTCPPinger(ip, port),
	}
}

// IP implements Pinger.
func (a *AutoPinger) IP() netip.Addr {
	return a.ip
}

// Ping implements Pinger.
func (a *AutoPinger) Ping(ctx context.Context, timeout time.Duration) (bool, error) {
	if !a.useTCP {
		reachable, err := a.icmp.Ping(ctx, timeout)
		if !errors.Is(err, ErrICMPUnavailable) {
			return reachable, err
		}

		logger.FromContext(ctx).InfoContext(ctx, "ICMP unavailable, falling back to TCP", "error", err)
		a.useTCP = true
	}

	return a.tcp.Ping(ctx, timeout)
}
