package pingers

import (
	"context"
	"net"
	"net/netip"
	"strconv"
	"time"

	"github.com/pouriyajamshidi/hostping/internal/logger"
)

// TCPPinger checks reachability with a TCP handshake. Any answer from the
// target, a completed handshake or a refusal, proves the host is up.
type TCPPinger struct {
	dialer *net.Dialer
	ip     netip.Addr
	port   uint16
}

const tcp = "tcp"

// IP implements Pinger.
func (t *TCPPinger) IP() netip.Addr {
	return t.ip
}

// Port returns the probed TCP port.
func (t *TCPPinger) Port() uint16 {
	return t.port
}

func (t *TCPPinger) address() string {
	return net.JoinHostPort(t.ip.String(), strconv.Itoa(int(t.port)))
}

// Ping implements Pinger.
func (t *TCPPinger) Ping(ctx context.Context, timeout time.Duration) (bool, error) {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	conn, err := t.dialer.DialContext(ctx, tcp, t.address())
	if err != nil {
		reachable, err := classify(err)
		logger.FromContext(ctx).DebugContext(ctx, "TCP dial failed",
			"address", t.address(), "reachable", reachable, "error", err)
		return reachable, err
	}
	defer conn.Close()

	return true, nil
}

// NewTCPPinger creates a new TCP pinger for the specified IP address and port.
func NewTCPPinger(ip netip.Addr, port uint16) *TCPPinger {
	return &TCPPinger{
		ip:     ip,
		port:   port,
		dialer: &net.Dialer{},
	}
}
