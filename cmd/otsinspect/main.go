// Command otsinspect decodes and checks raw timestamp proof records.
//
// Usage:
//
//	otsinspect [flags] <command> [command flags] <file>
//
// Examples:
//
//	# Decode a hex dump of attestation records
//	otsinspect attest attestations.hex
//
//	# Abort on the first attestation with invalid content
//	otsinspect attest -strict attestations.hex
//
//	# List operation records from a binary file as JSON
//	otsinspect -input binary -format json ops ops.bin
//
//	# Apply an operation chain to a file's contents
//	otsinspect -input binary digest -chain sha256,ripemd160 document.pdf
//
// Use "-" as the file to read standard input.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"otsproof/internal/config"
	"otsproof/internal/inspect"
	"otsproof/internal/logging"
	"otsproof/internal/metrics"
	"otsproof/pkg/op"
)

var (
	// Version information (set at build time)
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

var (
	configPath  = flag.String("config", "", "path to config file (default: platform config dir)")
	formatStr   = flag.String("format", "text", "output format: text, json")
	inputFormat = flag.String("input", "", "input format: hex, binary (default from config)")
	verbose     = flag.Bool("verbose", false, "debug logging")
	showMetrics = flag.Bool("metrics", false, "write record metrics to stderr in Prometheus text format")
	versionFlag = flag.Bool("version", false, "print version and exit")
)

// usageError marks failures caused by the command line rather than the input.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func main() {
	flag.Usage = usage
	flag.Parse()

	if *versionFlag {
		fmt.Printf("otsinspect %s (commit: %s, built: %s)\n", version, commit, buildTime)
		os.Exit(0)
	}

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	err := run(flag.Arg(0), flag.Args()[1:], os.Stdout)
	if err == nil {
		os.Exit(0)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	var uerr *usageError
	if errors.As(err, &uerr) {
		os.Exit(2)
	}
	os.Exit(1)
}

func usage() {
	fmt.Fprintln(os.Stderr, `otsinspect - Inspect timestamp proof records

Usage: otsinspect [options] <command> [command options] <file>

Commands:
  attest [-strict] <file>        Decode attestation records
  ops <file>                     Decode operation records
  digest [-chain ops] <file>     Apply an operation chain to the file contents
  help                           Show this help message

Options:`)
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr, `
Exit codes:
  0  success
  1  decode or verification failure
  2  usage error`)
}

func run(cmd string, args []string, stdout io.Writer) error {
	if cmd == "help" {
		usage()
		return nil
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *inputFormat != "" {
		cfg.Inspect.InputFormat = *inputFormat
	}
	if *verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return &usageError{msg: err.Error()}
	}

	format, err := inspect.ParseFormat(*formatStr)
	if err != nil {
		return &usageError{msg: err.Error()}
	}

	logger, err := newLogger(cfg, cmd)
	if err != nil {
		return err
	}

	registry := metrics.NewRegistry("otsinspect")
	opts := inspect.Options{Logger: logger, Metrics: metrics.NewInspect(registry)}
	if *showMetrics {
		defer registry.WritePrometheus(os.Stderr)
	}

	switch cmd {
	case "attest":
		return cmdAttest(cfg, opts, format, args, stdout)
	case "ops":
		return cmdOps(cfg, opts, format, args, stdout)
	case "digest":
		return cmdDigest(cfg, opts, format, args, stdout)
	default:
		return &usageError{msg: fmt.Sprintf("unknown command: %s", cmd)}
	}
}

func newLogger(cfg *config.Config, component string) (*logging.Logger, error) {
	lc, err := cfg.LoggerConfig(component)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(lc)
	if err != nil {
		return nil, err
	}
	logging.SetDefault(logger)
	return logger, nil
}

func cmdAttest(cfg *config.Config, opts inspect.Options, format inspect.Format, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("attest", flag.ContinueOnError)
	strict := fs.Bool("strict", cfg.Inspect.Strict, "abort on the first attestation with invalid content")
	if err := fs.Parse(args); err != nil {
		return &usageError{msg: err.Error()}
	}

	data, err := readFile(cfg, fs)
	if err != nil {
		return err
	}

	opts.Strict = *strict
	report, err := inspect.Attestations(data, opts)
	if report != nil {
		if werr := inspect.Write(stdout, report, format); werr != nil {
			return werr
		}
	}
	return err
}

func cmdOps(cfg *config.Config, opts inspect.Options, format inspect.Format, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("ops", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return &usageError{msg: err.Error()}
	}

	data, err := readFile(cfg, fs)
	if err != nil {
		return err
	}

	report, err := inspect.Operations(data, opts)
	if report != nil {
		if werr := inspect.Write(stdout, report, format); werr != nil {
			return werr
		}
	}
	return err
}

func cmdDigest(cfg *config.Config, opts inspect.Options, format inspect.Format, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("digest", flag.ContinueOnError)
	chainStr := fs.String("chain", strings.Join(cfg.Inspect.DefaultChain, ","), "comma separated operations, e.g. sha256,append:00ff,ripemd160")
	if err := fs.Parse(args); err != nil {
		return &usageError{msg: err.Error()}
	}

	chain, err := op.ParseChain(*chainStr)
	if err != nil {
		return &usageError{msg: err.Error()}
	}

	data, err := readFile(cfg, fs)
	if err != nil {
		return err
	}

	report, err := inspect.Digest(data, chain, opts)
	if err != nil {
		return err
	}
	return inspect.Write(stdout, report, format)
}

// readFile reads the single positional argument of fs, or stdin for "-".
func readFile(cfg *config.Config, fs *flag.FlagSet) ([]byte, error) {
	if fs.NArg() != 1 {
		return nil, &usageError{msg: fmt.Sprintf("%s: exactly one input file required", fs.Name())}
	}

	path := fs.Arg(0)
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	return inspect.ReadInput(r, cfg.Inspect.InputFormat, cfg.Inspect.MaxInputSize)
}
