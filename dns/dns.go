// Package dns handles all hostname resolution logic
package dns

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"time"

	miekg "github.com/miekg/dns"
	"github.com/pouriyajamshidi/hostping/internal/logger"
	"github.com/pouriyajamshidi/hostping/option"
)

var (
	ErrNoIPv4Address = errors.New("no ipv4 address found")
	ErrNoIPv6Address = errors.New("no ipv6 address found")
	ErrNoIPAddresses = errors.New("no ip addresses")
	ErrResolve       = errors.New("resolve hostname")
)

// Resolver handles hostname resolution with configurable options
type Resolver struct {
	timeout time.Duration
	useIPv4 bool
	useIPv6 bool
	// server is the DNS server queried directly, host:port.
	// The system resolver is used when empty.
	server string
}

type ResolverOption = option.Option[Resolver]

// WithTimeout sets the DNS resolution timeout
func WithTimeout(timeout time.Duration) ResolverOption {
	return func(r *Resolver) {
		r.timeout = timeout
	}
}

// WithIPv4Only configures the resolver to only return IPv4 addresses
func WithIPv4Only() ResolverOption {
	return func(r *Resolver) {
		r.useIPv4 = true
		r.useIPv6 = false
	}
}

// WithIPv6Only configures the resolver to only return IPv6 addresses
func WithIPv6Only() ResolverOption {
	return func(r *Resolver) {
		r.useIPv4 = false
		r.useIPv6 = true
	}
}

// WithServer sends queries straight to the given DNS server instead of
// going through the system resolver. Port 53 is assumed when omitted.
func WithServer(server string) ResolverOption {
	return func(r *Resolver) {
		r.server = withDefaultPort(server)
	}
}

const (
	defaultTimeout = 2 * time.Second
	ipv4OrIPv6     = "ip" // allows LookupNetIP to use both IPv4 and IPv6
	dnsPort        = "53"
)

// NewResolver creates a new DNS resolver with optional configuration
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveHostname resolves a hostname to a single IP address respecting the
// context deadline. IP literals are returned as is.
func (r *Resolver) ResolveHostname(ctx context.Context, hostname string) (netip.Addr, error) {
	ip, err := netip.ParseAddr(hostname)
	if err == nil {
		return ip.Unmap(), nil
	}

	lctx := ctx
	var cancel context.CancelFunc
	if _, ok := ctx.Deadline(); !ok {
		lctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var ipAddrs []netip.Addr
	if r.server == "" {
		ipAddrs, err = net.DefaultResolver.LookupNetIP(lctx, ipv4OrIPv6, hostname)
	} else {
		ipAddrs, err = r.exchange(lctx, hostname)
	}
	if err != nil {
		return netip.Addr{}, fmt.Errorf("%w: %s: %w", ErrResolve, hostname, err)
	}

	var filtered []netip.Addr
	switch {
	case r.useIPv4:
		filtered = filterIPv4(ipAddrs)
		if len(filtered) == 0 {
			return netip.Addr{}, fmt.Errorf("%w: %w: %s", ErrResolve, ErrNoIPv4Address, hostname)
		}
	case r.useIPv6:
		filtered = filterIPv6(ipAddrs)
		if len(filtered) == 0 {
			return netip.Addr{}, fmt.Errorf("%w: %w: %s", ErrResolve, ErrNoIPv6Address, hostname)
		}
	default:
		filtered = unmapAddresses(ipAddrs)
	}

	ip, err = selectIP(filtered)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("%w: %s: %w", ErrResolve, hostname, err)
	}

	logger.FromContext(ctx).DebugContext(ctx, "Hostname resolved",
		"hostname", hostname, "ip", ip, "candidates", len(filtered), "server", r.server)

	return ip, nil
}

// exchange queries the configured server for the address records of hostname.
func (r *Resolver) exchange(ctx context.Context, hostname string) ([]netip.Addr, error) {
	client := &miekg.Client{Timeout: r.timeout}

	var qtypes []uint16
	switch {
	case r.useIPv4:
		qtypes = []uint16{miekg.TypeA}
	case r.useIPv6:
		qtypes = []uint16{miekg.TypeAAAA}
	default:
		qtypes = []uint16{miekg.TypeA, miekg.TypeAAAA}
	}

	var (
		ipAddrs []netip.Addr
		errs    []error
	)

	for _, qtype := range qtypes {
		msg := new(miekg.Msg)
		msg.SetQuestion(miekg.Fqdn(hostname), qtype)

		resp, _, err := client.ExchangeContext(ctx, msg, r.server)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s query: %w", miekg.TypeToString[qtype], err))
			continue
		}

		if resp.Rcode != miekg.RcodeSuccess {
			errs = append(errs, fmt.Errorf("%s query: %s", miekg.TypeToString[qtype], miekg.RcodeToString[resp.Rcode]))
			continue
		}

		ipAddrs = append(ipAddrs, answerAddresses(resp.Answer)...)
	}

	if len(ipAddrs) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return ipAddrs, nil
}

// answerAddresses extracts the A and AAAA records of an answer section.
// CNAME records are skipped, the records they point to follow them.
func answerAddresses(answer []miekg.RR) []netip.Addr {
	var ipAddrs []netip.Addr
	for _, rr := range answer {
		var raw net.IP
		switch v := rr.(type) {
		case *miekg.A:
			raw = v.A
		case *miekg.AAAA:
			raw = v.AAAA
		default:
			continue
		}

		if ip, ok := netip.AddrFromSlice(raw); ok {
			ipAddrs = append(ipAddrs, ip)
		}
	}
	return ipAddrs
}

func withDefaultPort(server string) string {
	if _, _, err := net.SplitHostPort(server); err == nil {
		return server
	}
	return net.JoinHostPort(server, dnsPort)
}

// selectIP picks the first address, the resolver already orders them by preference.
func selectIP(ipAddrs []netip.Addr) (netip.Addr, error) {
	if len(ipAddrs) == 0 {
		return netip.Addr{}, ErrNoIPAddresses
	}
	return ipAddrs[0], nil
}

func filterIPv4(ipAddrs []netip.Addr) []netip.Addr {
	var ipList []netip.Addr
	for _, ip := range ipAddrs {
		// static builds (CGO=0) return IPv4-mapped IPv6 addresses
		if ip.Is4() || ip.Is4In6() {
			ipList = append(ipList, ip.Unmap())
		}
	}
	return ipList
}

func filterIPv6(ipAddrs []netip.Addr) []netip.Addr {
	var ipList []netip.Addr
	for _, ip := range ipAddrs {
		if ip.Is6() && !ip.Is4In6() {
			ipList = append(ipList, ip)
		}
	}
	return ipList
}

func unmapAddresses(ipAddrs []netip.Addr) []netip.Addr {
	ipList := make([]netip.Addr, len(ipAddrs))
	for i, ip := range ipAddrs {
		ipList[i] = ip.Unmap()
	}
	return ipList
}
