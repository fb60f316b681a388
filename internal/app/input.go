package app

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"slices"
	"time"

	"github.com/pouriyajamshidi/hostping"
	"github.com/pouriyajamshidi/hostping/internal/config"
	"github.com/pouriyajamshidi/hostping/internal/logger"
	"github.com/pouriyajamshidi/hostping/pingers"
	"github.com/pouriyajamshidi/hostping/result"
)

var (
	// ErrUsageRequested indicates usage help was requested
	ErrUsageRequested = errors.New("usage requested")

	// ErrVersionRequested indicates version display was requested
	ErrVersionRequested = errors.New("version requested")

	// ErrUpdateCheckRequested indicates update check was requested
	ErrUpdateCheckRequested = errors.New("update check requested")

	// ErrInvalidInput wraps flag values that failed to parse or validate.
	// Usage is printed after the error.
	ErrInvalidInput = errors.New("invalid input")
)

// invalidInputError reports a rejected flag value. Its message is the
// underlying one, unprefixed, and it matches ErrInvalidInput.
type invalidInputError struct {
	err error
}

func (e *invalidInputError) Error() string { return e.err.Error() }

func (e *invalidInputError) Unwrap() []error { return []error{ErrInvalidInput, e.err} }

func invalidInputf(format string, args ...any) error {
	return &invalidInputError{err: fmt.Errorf(format, args...)}
}

// ProberConfig contains all configuration needed to create and run a prober.
type ProberConfig struct {
	Hostname string

	// Timing options
	Timeout  time.Duration
	Interval time.Duration

	// Probe control
	Count uint
	Mode  pingers.Mode
	Port  uint16

	// Unprivileged skips the raw ICMP socket.
	Unprivileged bool

	// DNS options
	UseIPv4   bool
	UseIPv6   bool
	DNSServer string

	PrinterConfig hostping.PrinterConfig
	LogConfig     logger.Config
}

type options struct {
	count      *int
	timeout    *float64
	interval   *float64
	verbose    *bool
	useIPv4    *bool
	useIPv6    *bool
	mode       *string
	port       *uint
	server     *string
	noColor    *bool
	configPath *string
	logFile    *string
	logLevel   *string
	showVer    *bool
	checkUpd   *bool

	unprivileged *bool
}

// flagsWithValue lists the flags that consume the following argument.
var flagsWithValue = []string{
	"c", "count", "t", "timeout", "i", "interval",
	"m", "p", "s", "config", "log-file", "log-level",
}

// longNames maps the long spelling of a flag to its short one.
var longNames = map[string]string{
	"count":    "c",
	"timeout":  "t",
	"interval": "i",
	"verbose":  "v",
}

// maxSeconds is the largest number of seconds a time.Duration can hold.
var maxSeconds = float64(math.MaxInt64 / int64(time.Second))

func newFlagSet() (*flag.FlagSet, options) {
	fs := flag.NewFlagSet("hostping", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {
		// no-op, we'll handle usage in app package
	}

	opts := options{
		count: fs.Int("c", int(hostping.DefaultCount), "send <n> probes and stop."),
		timeout: fs.Float64("t",
			hostping.DefaultTimeout.Seconds(),
			"time to wait for each response, in seconds. Real number allowed with dot as a decimal separator."),
		interval: fs.Float64("i",
			hostping.DefaultInterval.Seconds(),
			"interval between sending probes, in seconds. Real number allowed. 0 sends probes back to back."),
		verbose: fs.Bool("v", false, "print a success line and the RTT on separate lines."),
		useIPv4: fs.Bool("4", false, "only use IPv4 to initiate probes."),
		useIPv6: fs.Bool("6", false, "only use IPv6 to initiate probes."),
		mode: fs.String("m",
			string(pingers.ModeAuto),
			"reachability check: auto (ICMP, falling back to TCP), icmp or tcp."),
		port: fs.Uint("p",
			uint(pingers.DefaultTCPPort),
			"TCP port used by the tcp check and the auto fallback."),
		server:     fs.String("s", "", "query this DNS server (host[:port]) instead of the system resolver."),
		noColor:    fs.Bool("no-color", false, "do not colorize output."),
		configPath: fs.String("config", "", "path to a TOML file with default settings."),
		logFile:    fs.String("log-file", "", "write a diagnostic JSON log to this file."),
		logLevel:   fs.String("log-level", "INFO", "diagnostic log level: DEBUG, INFO, WARN or ERROR."),
		showVer:    fs.Bool("version", false, "show version and exit."),
		checkUpd:   fs.Bool("u", false, "check for updates and exit."),
		unprivileged: fs.Bool("unprivileged",
			false,
			"only use the unprivileged datagram ICMP socket, never a raw one."),
	}

	fs.IntVar(opts.count, "count", *opts.count, "same as -c.")
	fs.Float64Var(opts.timeout, "timeout", *opts.timeout, "same as -t.")
	fs.Float64Var(opts.interval, "interval", *opts.interval, "same as -i.")
	fs.BoolVar(opts.verbose, "verbose", *opts.verbose, "same as -v.")

	return fs, opts
}

// permuteArgs permute args for flag parsing stops just before the first non-flag argument.
// see: https://pkg.go.dev/flag
func permuteArgs(args []string) error {
	var flagArgs []string
	var nonFlagArgs []string

	for i := 0; i < len(args); i++ {
		v := args[i]
		if len(v) < 2 || v[0] != '-' {
			nonFlagArgs = append(nonFlagArgs, v)
			continue
		}

		optionName := v[1:]
		if optionName[0] == '-' {
			optionName = optionName[1:]
		}

		if !slices.Contains(flagsWithValue, optionName) {
			flagArgs = append(flagArgs, v)
			continue
		}

		// out of index
		if len(args) <= i+1 {
			return invalidInputf("missing value for %s", v)
		}
		// the next flag has come
		optionVal := args[i+1]
		if len(optionVal) > 0 && optionVal[0] == '-' {
			return invalidInputf("missing value for %s, got %s", v, optionVal)
		}
		flagArgs = append(flagArgs, args[i:i+2]...)
		i++
	}
	permutedArgs := slices.Concat(flagArgs, nonFlagArgs)

	// replace args in place
	copy(args, permutedArgs)

	return nil
}

// applyConfigFile fills every option that was not given on the command line
// with the value from the defaults file, when the file defines it.
func applyConfigFile(cfg config.Config, set map[string]bool, opts options) {
	apply := func(flagName, key string, fn func()) {
		if !set[flagName] && cfg.IsSet(key) {
			fn()
		}
	}

	apply("c", "probe.count", func() { *opts.count = cfg.Probe.Count })
	apply("t", "probe.timeout", func() { *opts.timeout = cfg.Probe.Timeout })
	apply("i", "probe.interval", func() { *opts.interval = cfg.Probe.Interval })
	apply("v", "probe.verbose", func() { *opts.verbose = cfg.Probe.Verbose })
	apply("m", "probe.mode", func() { *opts.mode = cfg.Probe.Mode })
	apply("p", "probe.port", func() { *opts.port = uint(cfg.Probe.Port) })
	apply("unprivileged", "probe.unprivileged", func() { *opts.unprivileged = cfg.Probe.Unprivileged })
	apply("s", "dns.server", func() { *opts.server = cfg.DNS.Server })
	apply("no-color", "output.no_color", func() { *opts.noColor = cfg.Output.NoColor })
	apply("log-file", "log.file", func() { *opts.logFile = cfg.Log.File })
	apply("log-level", "log.level", func() { *opts.logLevel = cfg.Log.Level })

	// an address family forced on the command line wins over the file
	if !set["4"] && !set["6"] {
		*opts.useIPv4 = cfg.DNS.IPv4
		*opts.useIPv6 = cfg.DNS.IPv6
	}
}

// validate performs the sanity checks on the parsed flags.
func validate(opts options) error {
	if *opts.count < 1 {
		return invalidInputf("count must be >= 1")
	}

	if *opts.timeout <= 0 || math.IsNaN(*opts.timeout) || math.IsInf(*opts.timeout, 0) {
		return invalidInputf("timeout must be a positive number of seconds")
	}

	if *opts.timeout > maxSeconds {
		return invalidInputf("timeout must not exceed %.0f seconds", maxSeconds)
	}

	if *opts.interval < 0 || math.IsNaN(*opts.interval) || math.IsInf(*opts.interval, 0) {
		return invalidInputf("interval must be a non-negative number of seconds")
	}

	if *opts.interval > maxSeconds {
		return invalidInputf("interval must not exceed %.0f seconds", maxSeconds)
	}

	if *opts.port < 1 || *opts.port > math.MaxUint16 {
		return invalidInputf("port should be in 1..65535 range")
	}

	if _, err := pingers.ParseMode(*opts.mode); err != nil {
		return invalidInputf("%w", err)
	}

	if err := logger.ValidLevel(*opts.logLevel); err != nil {
		return invalidInputf("%w", err)
	}

	return nil
}

// ProcessUserInput parses command-line flags. Returns ErrUsageRequested,
// ErrVersionRequested, or ErrUpdateCheckRequested for special control flow.
func ProcessUserInput(args []string) (ProberConfig, error) {
	fs, opts := newFlagSet()

	args = slices.Clone(args)
	if err := permuteArgs(args); err != nil {
		return ProberConfig{}, err
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ProberConfig{}, ErrUsageRequested
		}
		return ProberConfig{}, invalidInputf("%w", err)
	}

	if *opts.showVer {
		return ProberConfig{}, ErrVersionRequested
	}

	if *opts.checkUpd {
		return ProberConfig{}, ErrUpdateCheckRequested
	}

	if fs.NArg() != 1 {
		return ProberConfig{}, ErrUsageRequested
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		name := f.Name
		if short, ok := longNames[name]; ok {
			name = short
		}
		set[name] = true
	})

	if *opts.useIPv4 && *opts.useIPv6 {
		return ProberConfig{}, invalidInputf("only one IP version can be specified")
	}

	var fileConfig config.Config
	if *opts.configPath != "" {
		var err error
		fileConfig, err = config.Load(*opts.configPath)
		if err != nil {
			return ProberConfig{}, fmt.Errorf("load config %s: %w", *opts.configPath, err)
		}
		applyConfigFile(fileConfig, set, opts)
	}

	if err := validate(opts); err != nil {
		return ProberConfig{}, err
	}

	mode, _ := pingers.ParseMode(*opts.mode)

	proberConfig := ProberConfig{
		Hostname:  fs.Arg(0),
		Timeout:   result.SecondsToDuration(*opts.timeout),
		Interval:  result.SecondsToDuration(*opts.interval),
		Count:     uint(*opts.count),
		Mode:      mode,
		Port:      uint16(*opts.port),

		Unprivileged: *opts.unprivileged,
		UseIPv4:   *opts.useIPv4,
		UseIPv6:   *opts.useIPv6,
		DNSServer: *opts.server,
		PrinterConfig: hostping.PrinterConfig{
			NoColor: *opts.noColor,
			Verbose: *opts.verbose,
		},
		// rotation limits are only configurable through the file
		LogConfig: logger.Config{
			File:     *opts.logFile,
			Level:    *opts.logLevel,
			MaxMB:    fileConfig.Log.MaxMB,
			MaxFiles: fileConfig.Log.MaxFiles,
		},
	}

	if proberConfig.Timeout < time.Millisecond {
		return ProberConfig{}, invalidInputf("timeout should be at least 1 ms")
	}

	return proberConfig, nil
}
