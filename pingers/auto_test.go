package pingers

import (
	"context"
	"errors"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChecker struct {
	reachable bool
	err       error
	calls     int
}

func (f *fakeChecker) Ping(_ context.Context, _ time.Duration) (bool, error) {
	f.calls++
	return f.reachable, f.err
}

func TestAutoPinger_UsesICMPWhenAvailable(t *testing.T) {
	icmp := &fakeChecker{reachable: true}
	tcp := &fakeChecker{}
	a := &AutoPinger{ip: netip.MustParseAddr("192.0.2.1"), icmp: icmp, tcp: tcp}

	for range 3 {
		reachable, err := a.Ping(t.Context(), time.Second)
		require.NoError(t, err)
		assert.True(t, reachable)
	}

	assert.Equal(t, 3, icmp.calls)
	assert.Zero(t, tcp.calls)
}

func TestAutoPinger_FallsBackOnce(t *testing.T) {
	icmp := &fakeChecker{err: ErrICMPUnavailable}
	tcp := &fakeChecker{reachable: true}
	a := &AutoPinger{ip: netip.MustParseAddr("192.0.2.1"), icmp: icmp, tcp: tcp}

	for range 3 {
		reachable, err := a.Ping(t.Context(), time.Second)
		require.NoError(t, err)
		assert.True(t, reachable)
	}

	assert.Equal(t, 1, icmp.calls, "ICMP is not retried after it proved unavailable")
	assert.Equal(t, 3, tcp.calls)
}

func TestAutoPinger_PropagatesIOErrors(t *testing.T) {
	ioErr := errors.New("icmp listen: too many open files")
	icmp := &fakeChecker{err: ioErr}
	tcp := &fakeChecker{reachable: true}
	a := &AutoPinger{ip: netip.MustParseAddr("192.0.2.1"), icmp: icmp, tcp: tcp}

	reachable, err := a.Ping(t.Context(), time.Second)

	assert.False(t, reachable)
	assert.ErrorIs(t, err, ioErr)
	assert.Zero(t, tcp.calls)
}

func TestNewAutoPinger(t *testing.T) {
	ip := netip.MustParseAddr("127.0.0.1")
	a := NewAutoPinger(ip, DefaultTCPPort)

	assert.Equal(t, ip, a.IP())
	assert.IsType(t, &ICMPPinger{}, a.icmp)
	assert.IsType(t, &TCPPinger{}, a.tcp)
}

func TestNewAutoPinger_Unprivileged(t *testing.T) {
	a := NewAutoPinger(netip.MustParseAddr("192.0.2.1"), DefaultTCPPort, WithUnprivileged())

	icmpPinger, ok := a.icmp.(*ICMPPinger)
	require.True(t, ok)
	assert.Equal(t, []string{"udp4"}, icmpPinger.networks)
}
