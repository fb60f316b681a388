package hostping

import (
	"context"
	"time"

	"github.com/pouriyajamshidi/hostping/internal/logger"
	"github.com/pouriyajamshidi/hostping/option"
	"github.com/pouriyajamshidi/hostping/printers"
	"github.com/pouriyajamshidi/hostping/result"
)

// Prober runs a fixed number of sequential probes against one target.
type Prober struct {
	pinger  Pinger
	printer Printer
	sleep   func(time.Duration)

	Hostname string
	Timeout  time.Duration
	Interval time.Duration
	Count    uint
}

type ProberOption = option.Option[Prober]

// WithInterval configures the pause between two probes.
func WithInterval(interval time.Duration) ProberOption {
	return func(p *Prober) {
		p.Interval = interval
	}
}

// WithTimeout configures how long a single probe waits for an answer.
func WithTimeout(timeout time.Duration) ProberOption {
	return func(p *Prober) {
		p.Timeout = timeout
	}
}

// WithPrinter configures the printer for probe output formatting.
func WithPrinter(printer Printer) ProberOption {
	return func(p *Prober) {
		p.printer = printer
	}
}

// WithProbeCount configures the number of probes to send.
func WithProbeCount(count uint) ProberOption {
	return func(p *Prober) {
		p.Count = count
	}
}

// WithHostname configures the name the target is reported as.
// Defaults to the pinger's IP address.
func WithHostname(hostname string) ProberOption {
	return func(p *Prober) {
		p.Hostname = hostname
	}
}

// WithSleep replaces the function used to pause between probes.
func WithSleep(sleep func(time.Duration)) ProberOption {
	return func(p *Prober) {
		p.sleep = sleep
	}
}

const (
	DefaultCount    uint = 4
	DefaultInterval      = 1 * time.Second
	DefaultTimeout       = 2 * time.Second
)

// NewProber creates a new prober with the given pinger and optional configuration.
func NewProber(p Pinger, opts ...ProberOption) *Prober {
	pr := Prober{
		pinger:   p,
		printer:  printers.NewPlainPrinter(),
		sleep:    time.Sleep,
		Hostname: p.IP().String(),
		Timeout:  DefaultTimeout,
		Interval: DefaultInterval,
		Count:    DefaultCount,
	}

	for _, opt := range opts {
		opt(&pr)
	}
	return &pr
}

// Probe sends Count probes one after the other and prints each outcome.
//
// An unanswered probe is printed and probing goes on. An error from the
// pinger ends the run immediately and is returned. The pause between probes
// always runs to completion.
func (p *Prober) Probe(ctx context.Context) error {
	log := logger.FromContext(ctx)

	for seq := uint(0); seq < p.Count; seq++ {
		start := time.Now()
		reachable, err := p.pinger.Ping(ctx, p.Timeout)
		rtt := time.Since(start)
		if err != nil {
			log.ErrorContext(ctx, "Probe aborted", "seq", seq, "error", err)
			return err
		}

		r := result.Result{
			Hostname:  p.Hostname,
			IP:        p.pinger.IP(),
			Seq:       seq,
			Reachable: reachable,
			RTT:       rtt,
		}

		log.DebugContext(ctx, "Probe finished",
			"seq", seq, "ip", r.IP, "reachable", reachable, "rtt_ms", r.RTTMillis())

		if reachable {
			p.printer.PrintProbeSuccess(&r)
		} else {
			p.printer.PrintProbeFailure(&r)
		}

		if seq < p.Count-1 {
			p.sleep(p.Interval)
		}
	}

	return nil
}
