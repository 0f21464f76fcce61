// Command dnacalib edits and converts rig documents in batches.
//
// Usage:
//
//	dnacalib -config jobs.yaml [-workers N] [-log-level debug] [-log-format json]
//	dnacalib -in head.dna -out head.json -format json
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/cockroachdb/errors"

	"github.com/hupe1980/terse"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "dnacalib:", err)
		os.Exit(1)
	}
}

type config struct {
	jobFile     string
	in          string
	out         string
	format      string
	compression string
	workers     int
	rateLimit   int
	logLevel    string
	logFormat   string
	version     bool
}

func parseFlags(args []string, stderr io.Writer) (*config, error) {
	var c config
	fs := flag.NewFlagSet("dnacalib", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&c.jobFile, "config", "", "job file (YAML or JSON)")
	fs.StringVar(&c.in, "in", "", "input document for a single conversion")
	fs.StringVar(&c.out, "out", "", "output document for a single conversion")
	fs.StringVar(&c.format, "format", "", "output format: binary or json")
	fs.StringVar(&c.compression, "compression", "", "output compression: none, zstd or lz4 (default: from extension)")
	fs.IntVar(&c.workers, "workers", 0, "concurrent jobs (default: job file or GOMAXPROCS)")
	fs.IntVar(&c.rateLimit, "rate-limit", 0, "transfer limit in bytes per second per store")
	fs.StringVar(&c.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	fs.StringVar(&c.logFormat, "log-format", "text", "log format: text or json")
	fs.BoolVar(&c.version, "version", false, "print the version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return &c, nil
}

func newLogger(level, format string, w io.Writer) (*terse.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, errors.Wrapf(err, "log level %q", level)
	}
	opts := &slog.HandlerOptions{Level: l}
	switch strings.ToLower(format) {
	case "text":
		return terse.NewLogger(slog.NewTextHandler(w, opts)), nil
	case "json":
		return terse.NewLogger(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, errors.Newf("log format %q", format)
}

// jobs returns the jobs to run and the settings of the job file, if any.
func (c *config) jobs() (*terse.JobFile, error) {
	switch {
	case c.jobFile != "" && (c.in != "" || c.out != ""):
		return nil, errors.New("-config cannot be combined with -in/-out")
	case c.jobFile != "":
		return terse.LoadJobFile(c.jobFile)
	case c.in != "" && c.out != "":
		return &terse.JobFile{Jobs: []terse.Job{{
			Input:       c.in,
			Output:      c.out,
			Format:      c.format,
			Compression: c.compression,
		}}}, nil
	}
	return nil, errors.New("either -config or -in and -out are required")
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	c, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if c.version {
		fmt.Fprintln(stderr, "dnacalib", terse.Version)
		return nil
	}

	logger, err := newLogger(c.logLevel, c.logFormat, stderr)
	if err != nil {
		return err
	}

	f, err := c.jobs()
	if err != nil {
		return err
	}

	workers := f.Workers
	if c.workers > 0 {
		workers = c.workers
	}
	rateLimit := f.RateLimit
	if c.rateLimit > 0 {
		rateLimit = c.rateLimit
	}

	mc := &terse.BasicMetricsCollector{}
	r := terse.NewRunner(
		terse.WithWorkers(workers),
		terse.WithLogger(logger),
		terse.WithMetricsCollector(mc),
		terse.WithRateLimit(rateLimit),
		terse.WithMinIO(f.MinIO),
	)
	err = r.Run(ctx, f.Jobs)

	stats := mc.GetStats()
	logger.InfoContext(ctx, "done",
		"jobs", stats.JobCount,
		"failed", stats.JobErrors,
		"commands", stats.CommandCount,
		"bytesIn", stats.LoadBytes,
		"bytesOut", stats.SaveBytes,
	)
	return err
}
