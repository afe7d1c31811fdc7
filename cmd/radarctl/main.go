// Package main provides radarctl, which resolves a request file locally or
// against a running radar server over gRPC.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/cory-johannsen/radar/internal/config"
	"github.com/cory-johannsen/radar/internal/observability"
	"github.com/cory-johannsen/radar/internal/radar"
	"github.com/cory-johannsen/radar/internal/radarserver"
)

func main() {
	requestPath := flag.String("request", "", "path to a JSON or YAML request file; \"-\" reads JSON from stdin")
	format := flag.String("format", "json", "output format: json or text")
	trace := flag.Bool("trace", false, "print every applied protocol stage (local resolution only)")
	addr := flag.String("addr", "", "gRPC address of a running radar server; empty = resolve locally")
	timeout := flag.Duration("timeout", 5*time.Second, "gRPC call timeout")
	logLevel := flag.String("log-level", "warn", "log level: debug, info, warn, error")
	flag.Parse()

	if err := run(os.Stdout, options{
		requestPath: *requestPath,
		format:      *format,
		trace:       *trace,
		addr:        *addr,
		timeout:     *timeout,
		logLevel:    *logLevel,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "radarctl: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	requestPath string
	format      string
	trace       bool
	addr        string
	timeout     time.Duration
	logLevel    string
}

func run(w io.Writer, opts options) error {
	if opts.requestPath == "" {
		return fmt.Errorf("-request is required")
	}
	if opts.format != "json" && opts.format != "text" {
		return fmt.Errorf("-format must be json or text, got %q", opts.format)
	}

	logger, err := observability.NewLogger(config.LoggingConfig{Level: opts.logLevel, Format: "console"})
	if err != nil {
		return err
	}
	defer logger.Sync()

	req, err := readRequest(opts.requestPath)
	if err != nil {
		return err
	}

	if opts.addr != "" {
		target, err := resolveRemote(opts.addr, opts.timeout, req)
		if err != nil {
			return err
		}
		return printResult(w, opts.format, radar.Resolution{Target: target}, false)
	}

	svc := radarserver.NewService(logger, nil)
	res, err := svc.Resolve(context.Background(), "cli", req)
	if err != nil {
		return err
	}
	logger.Debug("resolved locally", zap.Int("stages", len(res.Stages)))
	return printResult(w, opts.format, res, opts.trace)
}

func readRequest(path string) (radarserver.Request, error) {
	if path == "-" {
		return radarserver.DecodeRequest(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return radarserver.Request{}, fmt.Errorf("opening request file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return radarserver.DecodeRequestYAML(f)
	default:
		return radarserver.DecodeRequest(f)
	}
}

func resolveRemote(addr string, timeout time.Duration, req radarserver.Request) (radar.Coordinate, error) {
	in, err := radarserver.RequestStruct(req)
	if err != nil {
		return radar.Coordinate{}, fmt.Errorf("encoding request: %w", err)
	}
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return radar.Coordinate{}, fmt.Errorf("connecting to %s: %w", addr, err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	out, err := radarserver.NewRadarClient(conn).Resolve(ctx, in)
	if err != nil {
		return radar.Coordinate{}, err
	}
	return radarserver.StructCoordinate(out)
}

func printResult(w io.Writer, format string, res radar.Resolution, trace bool) error {
	if format == "text" {
		if trace {
			for _, st := range res.Stages {
				fmt.Fprintf(w, "%-9s %-16s -> (%g, %g) remaining=%d\n",
					st.Stage, st.Protocol, st.Candidate.X, st.Candidate.Y, st.Remaining)
			}
		}
		_, err := fmt.Fprintf(w, "%g %g\n", res.Target.X, res.Target.Y)
		return err
	}

	enc := json.NewEncoder(w)
	if !trace {
		return enc.Encode(res.Target)
	}
	return enc.Encode(struct {
		radar.Coordinate
		Stages []radar.StageResult `json:"stages"`
	}{res.Target, res.Stages})
}
