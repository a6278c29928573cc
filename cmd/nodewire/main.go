// Package main implements the nodewire command line tool, a thin
// operator console over the node/edge/point protocol client: inspect
// the node tree, send points, and tail live telemetry streams.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/c360/nodewire/client"
	"github.com/c360/nodewire/config"
	"github.com/c360/nodewire/metric"
	"github.com/c360/nodewire/natsclient"
)

const (
	// Version is the build version
	Version = "0.1.0"
	appName = "nodewire"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

type cliConfig struct {
	configPath  string
	natsURL     string
	token       string
	timeout     time.Duration
	metricsAddr string
	logLevel    string
	showVersion bool
}

func parseFlags() (*cliConfig, []string) {
	cli := &cliConfig{}

	flag.StringVar(&cli.configPath, "config", "", "path to YAML config file")
	flag.StringVar(&cli.natsURL, "nats", "", "NATS server URL (overrides config)")
	flag.StringVar(&cli.token, "token", "", "auth token (overrides config)")
	flag.DurationVar(&cli.timeout, "timeout", 0, "request timeout (overrides config)")
	flag.StringVar(&cli.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	flag.StringVar(&cli.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flag.BoolVar(&cli.showVersion, "version", false, "print version and exit")
	flag.Usage = printHelp
	flag.Parse()

	return cli, flag.Args()
}

func printHelp() {
	fmt.Fprintf(os.Stderr, `%s - node/edge/point protocol client

Usage:
  %s [flags] <command> [args]

Commands:
  tree <node-id>                 print the node tree rooted at node-id
  get <node-id>                  fetch one node and print it as JSON
  user <user-id>                 fetch the nodes a user is attached to
  send <node-id> <points.json>   send node points (use - for stdin)
  send-edge <node-id> <parent-id> <points.json>
                                 send edge points
  delete <node-id> <parent-id>   tombstone the edge to parent-id
  listen <node-id>               stream live points for node-id
  msgs <node-id>                 stream user messages for node-id
  notifications <node-id>        stream notifications for node-id

Flags:
`, appName, appName)
	flag.PrintDefaults()
}

func setupLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func run() error {
	cli, args := parseFlags()

	if cli.showVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil
	}
	if len(args) == 0 {
		printHelp()
		return fmt.Errorf("no command given")
	}

	logger := setupLogger(cli.logLevel)
	slog.SetDefault(logger)

	cfg, err := config.Load(cli.configPath)
	if err != nil {
		return err
	}
	if cli.natsURL != "" {
		cfg.NATS.URL = cli.natsURL
	}
	if cli.token != "" {
		cfg.NATS.Token = cli.token
	}
	if cli.timeout > 0 {
		cfg.Timeouts.Request = cli.timeout
	}
	if cli.metricsAddr != "" {
		cfg.MetricsAddr = cli.metricsAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := metric.NewClientMetrics()
	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr, metrics)
	}

	c, nc, err := connect(ctx, cfg, metrics)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = nc.Close(closeCtx)
	}()

	return dispatch(ctx, c, args[0], args[1:])
}

func connect(ctx context.Context, cfg *config.Config, metrics *metric.ClientMetrics) (*client.Client, *natsclient.Client, error) {
	opts := []natsclient.ClientOption{
		natsclient.WithName(cfg.NATS.Name),
		natsclient.WithTimeout(cfg.Timeouts.Connect),
	}
	if cfg.NATS.Token != "" {
		opts = append(opts, natsclient.WithToken(cfg.NATS.Token))
	}
	if cfg.NATS.Username != "" {
		opts = append(opts, natsclient.WithCredentials(cfg.NATS.Username, cfg.NATS.Password))
	}
	if cfg.NATS.TLSCert != "" || cfg.NATS.TLSCA != "" {
		opts = append(opts, natsclient.WithTLS(cfg.NATS.TLSCert, cfg.NATS.TLSKey, cfg.NATS.TLSCA))
	}

	nc, err := natsclient.NewClient(cfg.NATS.URL, opts...)
	if err != nil {
		return nil, nil, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Timeouts.Connect)
	defer cancel()
	if err := nc.Connect(connectCtx); err != nil {
		return nil, nil, err
	}

	c, err := client.NewClient(nc,
		client.WithRequestTimeout(cfg.Timeouts.Request),
		client.WithMetrics(metrics),
	)
	if err != nil {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = nc.Close(closeCtx)
		return nil, nil, err
	}

	return c, nc, nil
}

func serveMetrics(addr string, metrics *metric.ClientMetrics) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	slog.Info("Serving metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("Metrics server failed", "error", err)
	}
}
