// Package main provides the StartASM compile service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tebeka/atexit"

	"github.com/startasm-lang/startasm/internal/cli"
	"github.com/startasm-lang/startasm/internal/server"
)

const toolName = "startasm-server"

func main() {
	var (
		configPath  = flag.String("config", "startasm.json", "configuration file")
		envFile     = flag.String("env", ".env", "environment overlay file")
		addr        = flag.String("addr", "", "listen address (overrides config)")
		http3       = flag.Bool("http3", false, "also serve HTTP/3 (needs cert and key)")
		certFile    = flag.String("cert", "", "TLS certificate file")
		keyFile     = flag.String("key", "", "TLS key file")
		verbose     = flag.Bool("verbose", false, "log requests")
		debug       = flag.Bool("debug", false, "log debug records")
		showVersion = flag.Bool("version", false, "show version information")
		jsonOutput  = flag.Bool("json", false, "print version as JSON")
	)
	flag.Usage = func() {
		cli.PrintUsage(os.Stderr, cli.CommandInfo{
			Name:        toolName,
			Usage:       "startasm-server [OPTIONS]",
			Description: "StartASM compile service",
			Examples: []string{
				"startasm-server -addr :7878",
				"startasm-server -http3 -cert cert.pem -key key.pem",
			},
		})
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		cli.PrintVersion(os.Stdout, toolName, *jsonOutput)
		return
	}

	cfg, err := cli.LoadConfig(*configPath, *envFile)
	if err != nil {
		cli.ExitWithError("%v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *http3 {
		cfg.Server.HTTP3 = true
	}
	if *certFile != "" {
		cfg.Server.CertFile = *certFile
	}
	if *keyFile != "" {
		cfg.Server.KeyFile = *keyFile
	}

	logger := cli.NewLogger(os.Stderr, *verbose || cfg.Verbose, *debug || cfg.Debug)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	atexit.Register(stop)

	fmt.Fprintf(os.Stderr, "%s v%s listening on %s\n", toolName, cli.Version, cfg.Server.Addr)
	srv := server.New(cfg.Server, logger.Slog())
	cli.HandleError(srv.ListenAndServe(ctx), logger)
	atexit.Exit(0)
}
