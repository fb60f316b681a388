package pingers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"os"
	"time"

	"github.com/pouriyajamshidi/hostping/internal/logger"
	"github.com/pouriyajamshidi/hostping/option"
	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

const (
	protocolICMP     = 1
	protocolIPv6ICMP = 58

	maxPacketSize = 1500
)

var payload = []byte("hostping")

// ICMPPinger checks reachability with a single ICMP echo request per call.
//
// It prefers a raw socket and falls back to the unprivileged datagram ICMP
// socket. The socket kind that worked first is remembered for later calls.
type ICMPPinger struct {
	ip  netip.Addr
	id  int
	seq int

	// networks lists the socket kinds to try, in order.
	networks []string
	// network is the socket kind that opened successfully.
	network string
}

type ICMPOptions = option.Option[ICMPPinger]

// NewICMPPinger creates an ICMP pinger for ip.
func NewICMPPinger(ip netip.Addr, opts ...ICMPOptions) *ICMPPinger {
	ip = ip.Unmap()
	p := &ICMPPinger{
		ip: ip,
		id: os.Getpid() & 0xffff,
	}

	if ip.Is4() {
		p.networks = []string{"ip4:icmp", "udp4"}
	} else {
		p.networks = []string{"ip6:ipv6-icmp", "udp6"}
	}

	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WithUnprivileged restricts the pinger to the datagram ICMP socket.
func WithUnprivileged() ICMPOptions {
	return func(p *ICMPPinger) {
		p.networks = p.networks[len(p.networks)-1:]
	}
}

// IP implements Pinger.
func (p *ICMPPinger) IP() netip.Addr {
	return p.ip
}

// Ping implements Pinger.
func (p *ICMPPinger) Ping(ctx context.Context, timeout time.Duration) (bool, error) {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	log := logger.FromContext(ctx)

	conn, err := p.listen(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return false, fmt.Errorf("icmp set deadline: %w", err)
		}
	}

	p.seq = (p.seq + 1) & 0xffff
	seq := p.seq

	req, err := p.echoRequest(seq)
	if err != nil {
		return false, err
	}

	if _, err := conn.WriteTo(req, p.destination()); err != nil {
		log.DebugContext(ctx, "ICMP echo request not sent", "ip", p.ip, "seq", seq, "error", err)
		return classify(err)
	}

	buf := make([]byte, maxPacketSize)
	for {
		n, peer, err := conn.ReadFrom(buf)
		if err != nil {
			return classify(err)
		}

		if p.isReply(buf[:n], peer, seq) {
			return true, nil
		}
	}
}

// listen opens an ICMP socket. The first socket kind that opens is kept for
// subsequent calls.
func (p *ICMPPinger) listen(ctx context.Context) (*icmp.PacketConn, error) {
	if p.network != "" {
		conn, err := icmp.ListenPacket(p.network, p.listenAddress())
		if err != nil {
			return nil, fmt.Errorf("icmp listen %s: %w", p.network, err)
		}
		return conn, nil
	}

	var errs []error
	denied := true
	for _, network := range p.networks {
		conn, err := icmp.ListenPacket(network, p.listenAddress())
		if err == nil {
			p.network = network
			logger.FromContext(ctx).DebugContext(ctx, "ICMP socket opened", "network", network)
			return conn, nil
		}

		errs = append(errs, fmt.Errorf("%s: %w", network, err))
		denied = denied && isICMPDenied(err)
	}

	if denied {
		return nil, fmt.Errorf("%w: %w", ErrICMPUnavailable, errors.Join(errs...))
	}
	return nil, fmt.Errorf("icmp listen: %w", errors.Join(errs...))
}

func (p *ICMPPinger) privileged() bool {
	return p.network == "ip4:icmp" || p.network == "ip6:ipv6-icmp"
}

func (p *ICMPPinger) listenAddress() string {
	if p.ip.Is4() {
		return "0.0.0.0"
	}
	return "::"
}

func (p *ICMPPinger) destination() net.Addr {
	if p.privileged() {
		return &net.IPAddr{IP: p.ip.AsSlice(), Zone: p.ip.Zone()}
	}
	return &net.UDPAddr{IP: p.ip.AsSlice(), Zone: p.ip.Zone()}
}

func (p *ICMPPinger) echoRequest(seq int) ([]byte, error) {
	var typ icmp.Type = ipv4.ICMPTypeEcho
	if p.ip.Is6() {
		typ = ipv6.ICMPTypeEchoRequest
	}

	msg := icmp.Message{
		Type: typ,
		Code: 0,
		Body: &icmp.Echo{
			ID:   p.id,
			Seq:  seq,
			Data: payload,
		},
	}

	b, err := msg.Marshal(nil)
	if err != nil {
		return nil, fmt.Errorf("icmp marshal: %w", err)
	}
	return b, nil
}

// isReply reports whether data is the echo reply to request seq sent by the
// target. Datagram sockets get their identifier rewritten by the kernel, so
// it is only compared on raw sockets.
func (p *ICMPPinger) isReply(data []byte, peer net.Addr, seq int) bool {
	proto := protocolICMP
	var want icmp.Type = ipv4.ICMPTypeEchoReply
	if p.ip.Is6() {
		proto = protocolIPv6ICMP
		want = ipv6.ICMPTypeEchoReply
	}

	msg, err := icmp.ParseMessage(proto, data)
	if err != nil || msg.Type != want {
		return false
	}

	echo, ok := msg.Body.(*icmp.Echo)
	if !ok || echo.Seq != seq {
		return false
	}

	if p.privileged() && echo.ID != p.id {
		return false
	}

	return sameHost(peer, p.ip)
}

func sameHost(peer net.Addr, ip netip.Addr) bool {
	var raw net.IP
	switch a := peer.(type) {
	case *net.IPAddr:
		raw = a.IP
	case *net.UDPAddr:
		raw = a.IP
	default:
		return false
	}

	addr, ok := netip.AddrFromSlice(raw)
	if !ok {
		return false
	}
	return addr.Unmap() == ip.WithZone("")
}
