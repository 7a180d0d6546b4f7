// Command draogmims2caom2 maps one DRAO GMIMS FITS file to a CAOM2 observation
// and writes it to the configured sinks.
//
// Usage:
//
//	draogmims2caom2 --local data/Drao_60Rad.mod.fits
//	draogmims2caom2 --observation DRAO Drao_60Rad.mod
//	draogmims2caom2 --lineage Drao_60Rad.mod/ad:DRAO/Drao_60Rad.mod.fits
//	draogmims2caom2 --dump-blueprint --local data/Drao_60Rad.mod.fits
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/pkg/errors"

	fitsadapter "github.com/couchcryptid/draogmims2caom2/internal/adapter/fits"
	fileadapter "github.com/couchcryptid/draogmims2caom2/internal/adapter/file"
	kafkaadapter "github.com/couchcryptid/draogmims2caom2/internal/adapter/kafka"
	"github.com/couchcryptid/draogmims2caom2/internal/config"
	"github.com/couchcryptid/draogmims2caom2/internal/domain"
	"github.com/couchcryptid/draogmims2caom2/internal/observability"
	"github.com/couchcryptid/draogmims2caom2/internal/pipeline"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const exitFailure = -1

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// options is the parsed command line.
type options struct {
	args          domain.Args
	dumpBlueprint bool
	version       bool
}

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// parseArgs reads the command line. --observation takes two values, which the
// flag package cannot express, so it is pulled out before flag parsing.
func parseArgs(argv []string) (options, error) {
	var opts options
	rest := make([]string, 0, len(argv))
	for i := 0; i < len(argv); i++ {
		switch argv[i] {
		case "--observation", "-observation":
			if i+2 >= len(argv) {
				return opts, errors.Wrapf(domain.ErrConfiguration, "%s needs a collection and an observation ID", argv[i])
			}
			opts.args.Observation = []string{argv[i+1], argv[i+2]}
			i += 2
		default:
			rest = append(rest, argv[i])
		}
	}

	fs := flag.NewFlagSet("draogmims2caom2", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var local, lineage stringList
	fs.Var(&local, "local", "path of a file on disk (repeatable)")
	fs.Var(&lineage, "lineage", "<product ID>/<URI> (repeatable)")
	fs.BoolVar(&opts.dumpBlueprint, "dump-blueprint", false, "print the blueprint as YAML and exit")
	fs.BoolVar(&opts.version, "version", false, "print the version and exit")
	if err := fs.Parse(rest); err != nil {
		return opts, errors.WithStack(err)
	}
	if fs.NArg() > 0 {
		return opts, errors.Wrapf(domain.ErrConfiguration, "unexpected arguments: %v", fs.Args())
	}
	opts.args.Local = local
	opts.args.Lineage = lineage
	return opts, nil
}

func run(argv []string, stdout io.Writer) (code int) {
	opts, err := parseArgs(argv)
	if errors.Is(err, flag.ErrHelp) {
		fmt.Fprintln(stdout, "usage: draogmims2caom2 [--observation <collection> <id>] [--local <path>] [--lineage <product ID>/<URI>] [--dump-blueprint] [--version]")
		return 0
	}
	if err != nil {
		logFailure(slog.Default(), argv, err)
		return exitFailure
	}
	if opts.version {
		fmt.Fprintf(stdout, "%s %s\n", domain.Application, version)
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		logFailure(slog.Default(), opts.args, errors.Wrap(err, "load config"))
		return exitFailure
	}
	logger := observability.NewLogger(cfg)

	defer func() {
		if r := recover(); r != nil {
			logger.Error(fmt.Sprintf("Failed %s execution for %s", domain.Application, opts.args), "panic", r)
			logger.Error(string(debug.Stack()))
			code = exitFailure
		}
	}()

	if opts.dumpBlueprint {
		if err := dumpBlueprint(stdout, opts.args); err != nil {
			logFailure(logger, opts.args, err)
			return exitFailure
		}
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics()
	loaders := []pipeline.Loader{fileadapter.NewWriter(cfg.OutputDir, logger)}
	if cfg.KafkaEnabled() {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		loaders = append(loaders, writer)
		logger.Info("kafka sink enabled", "topic", cfg.KafkaTopic)
	}

	runner := pipeline.New(domain.GMIMS{}, fitsadapter.NewReader(logger), logger, metrics, loaders...)
	_, err = runner.Run(ctx, opts.args)

	if cfg.MetricsFile != "" {
		if werr := metrics.WriteTextfile(cfg.MetricsFile); werr != nil {
			logger.Error("metrics textfile write error", "error", werr, "path", cfg.MetricsFile)
		}
	}

	if err != nil {
		logFailure(logger, opts.args, err)
		return exitFailure
	}
	return 0
}

func dumpBlueprint(w io.Writer, args domain.Args) error {
	uri, err := domain.SelectURI(args)
	if err != nil {
		return err
	}
	blueprints, err := domain.BuildBlueprints(uri)
	if err != nil {
		return err
	}
	bp, ok := blueprints[uri]
	if !ok {
		return errors.New("no blueprint for " + uri)
	}
	_, err = fmt.Fprintf(w, "# %s\n%s", uri, bp)
	return err
}

// logFailure logs the failed run and, separately, the error with its stack.
func logFailure(logger *slog.Logger, args any, err error) {
	logger.Error(fmt.Sprintf("Failed %s execution for %s", domain.Application, args), "error", err.Error())
	logger.Error("stack trace", "trace", fmt.Sprintf("%+v", err))
}
