package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/netip"
	"os"
	"path/filepath"

	"github.com/pouriyajamshidi/hostping"
	"github.com/pouriyajamshidi/hostping/dns"
	"github.com/pouriyajamshidi/hostping/internal/logger"
	"github.com/pouriyajamshidi/hostping/pingers"
)

// Run executes the hostping application and returns an exit code
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	config, err := ProcessUserInput(args)
	if err != nil {
		return handleError(ctx, err, stdout, stderr)
	}

	log, closer, err := logger.New(config.LogConfig)
	if err != nil {
		return handleError(ctx, err, stdout, stderr)
	}
	defer closer.Close()
	ctx = logger.IntoContext(ctx, log)

	config.PrinterConfig.Out = stdout
	config.PrinterConfig.ErrOut = stderr
	printer := hostping.NewPrinter(config.PrinterConfig)

	ip, err := resolveTarget(ctx, config)
	if err != nil {
		log.ErrorContext(ctx, "Resolution failed", "hostname", config.Hostname, "error", err)
		printer.PrintError("Unknown host %s", config.Hostname)
		return 1
	}
	log.InfoContext(ctx, "Resolved target",
		"hostname", config.Hostname, "ip", ip, "mode", config.Mode)

	prober := buildProber(buildPinger(ctx, ip, config), printer, config)

	if err := prober.Probe(ctx); err != nil {
		printer.PrintError("%v", err)
		return 1
	}

	return 0
}

func resolveTarget(ctx context.Context, config ProberConfig) (netip.Addr, error) {
	var opts []dns.ResolverOption

	switch {
	case config.UseIPv4:
		opts = append(opts, dns.WithIPv4Only())
	case config.UseIPv6:
		opts = append(opts, dns.WithIPv6Only())
	}

	if config.DNSServer != "" {
		opts = append(opts, dns.WithServer(config.DNSServer))
	}

	return dns.NewResolver(opts...).ResolveHostname(ctx, config.Hostname)
}

func buildPinger(ctx context.Context, ip netip.Addr, config ProberConfig) hostping.Pinger {
	var icmpOpts []pingers.ICMPOptions
	if config.Unprivileged {
		icmpOpts = append(icmpOpts, pingers.WithUnprivileged())
	}

	switch config.Mode {
	case pingers.ModeICMP:
		return pingers.NewICMPPinger(ip, icmpOpts...)
	case pingers.ModeTCP:
		p := pingers.NewTCPPinger(ip, config.Port)
		logger.FromContext(ctx).DebugContext(ctx, "Using TCP check", "ip", ip, "port", p.Port())
		return p
	default:
		return pingers.NewAutoPinger(ip, config.Port, icmpOpts...)
	}
}

func buildProber(pinger hostping.Pinger, printer hostping.Printer, config ProberConfig) *hostping.Prober {
	return hostping.NewProber(pinger,
		hostping.WithPrinter(printer),
		hostping.WithHostname(config.Hostname),
		hostping.WithInterval(config.Interval),
		hostping.WithTimeout(config.Timeout),
		hostping.WithProbeCount(config.Count),
	)
}

func handleError(ctx context.Context, err error, stdout, stderr io.Writer) int {
	if err == nil {
		return 0
	}

	executableName := filepath.Base(os.Args[0])

	if errors.Is(err, ErrUsageRequested) {
		PrintUsage(stderr, executableName)
		return 1
	}

	if errors.Is(err, ErrInvalidInput) {
		printError(stderr, err)
		PrintUsage(stderr, executableName)
		return 1
	}

	if errors.Is(err, ErrVersionRequested) {
		PrintVersion(stdout)
		return 0
	}

	if errors.Is(err, ErrUpdateCheckRequested) {
		msg, checkErr := CheckForUpdates(ctx)
		if checkErr != nil {
			printError(stderr, checkErr)
			return 1
		}
		fmt.Fprintln(stdout, msg)
		return 0
	}

	printError(stderr, err)
	return 1
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
}
