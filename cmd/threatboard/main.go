package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"threatboard/config"
	"threatboard/internal/api"
	"threatboard/internal/logger"
	"threatboard/internal/metrics"
	"threatboard/internal/pipeline"
)

func findConfigFile(configArg string) string {
	if configArg != "" {
		path := configArg
		if _, err := os.Stat(path); err == nil {
			return path
		}
		log.Printf("Warning: config file not found at %s, trying default locations", path)
	}

	if _, err := os.Stat("threatboard.yml"); err == nil {
		return "threatboard.yml"
	}

	exePath, err := os.Executable()
	if err == nil {
		exeDir := filepath.Dir(exePath)
		path := filepath.Join(exeDir, "threatboard.yml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return "threatboard.yml"
}

func initLogger(cfg *config.Config) error {
	l := cfg.ThreatBoard.Logging
	return logger.Init(l.Enabled, l.Level, l.File, l.Console, l.JSON)
}

func runServer(args []string) {
	configArg := ""
	if len(args) > 0 {
		configArg = args[0]
	}

	configPath := findConfigFile(configArg)

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := initLogger(cfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	logger.Infof("ThreatBoard starting")
	logger.Infof("Config loaded from: %s", configPath)

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		log.Fatalf("Failed to register metrics: %v", err)
	}

	builder, err := newBuilder(cfg)
	if err != nil {
		logger.Errorf("Failed to create dashboard builder: %v", err)
		log.Fatalf("Failed to create dashboard builder: %v", err)
	}

	source, err := newSource(cfg.ThreatBoard.Source)
	if err != nil {
		logger.Errorf("Failed to create snapshot source: %v", err)
		log.Fatalf("Failed to create snapshot source: %v", err)
	}

	writer, err := newWriter(cfg.ThreatBoard.Output)
	if err != nil {
		logger.Errorf("Failed to create dashboard writer: %v", err)
		log.Fatalf("Failed to create dashboard writer: %v", err)
	}

	latest := &pipeline.Latest{}
	poller := pipeline.NewPoller(source, builder, writer, latest, cfg.ThreatBoard.Poll.Interval, cfg.ThreatBoard.Poll.Timeout)

	srv := &http.Server{
		Addr:    cfg.ThreatBoard.Server.Address,
		Handler: api.NewServer(latest, builder, prometheus.DefaultGatherer).Handler(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pollerDone := make(chan struct{})
	go func() {
		defer close(pollerDone)
		if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Errorf("Poller error: %v", err)
		}
	}()

	go func() {
		logger.Infof("API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("API server exited: %v", err)
			cancel()
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case <-ctx.Done():
	}

	logger.Infof("Shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ThreatBoard.Server.GracefulTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("API shutdown: %v", err)
	}

	select {
	case <-pollerDone:
	case <-shutdownCtx.Done():
		logger.Warnf("Poller did not stop before graceful timeout")
	}

	if err := poller.Close(); err != nil {
		logger.Errorf("Error closing poller: %v", err)
	}

	logger.Infof("ThreatBoard stopped")
}

func runDerive(args []string, stdin io.Reader, stdout io.Writer) int {
	fs := flag.NewFlagSet("derive", flag.ContinueOnError)
	input := fs.String("input", "-", "Snapshot JSON input path (- for stdin)")
	output := fs.String("output", "-", "Dashboard JSON output path (- for stdout)")
	configArg := fs.String("config", "", "Optional config file for layout and catalog settings")
	width := fs.Float64("width", 0, "Layout width override")
	height := fs.Float64("height", 0, "Layout height override")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := config.Default()
	if *configArg != "" {
		loaded, err := config.LoadFile(*configArg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			return 1
		}
		cfg = loaded
	}
	cfg.ThreatBoard.Logging.Console = false
	if err := logger.Init(cfg.ThreatBoard.Logging.Enabled && cfg.ThreatBoard.Logging.File != "", cfg.ThreatBoard.Logging.Level, cfg.ThreatBoard.Logging.File, false, cfg.ThreatBoard.Logging.JSON); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		return 1
	}
	defer logger.Close()

	payload, err := readInput(*input, stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read snapshot: %v\n", err)
		return 1
	}

	builder, err := newBuilder(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create dashboard builder: %v\n", err)
		return 1
	}

	region := builder.Region()
	if *width > 0 {
		region.Width = *width
	}
	if *height > 0 {
		region.Height = *height
	}

	d, err := builder.DeriveIn(payload, region)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to derive dashboard: %v\n", err)
		return 1
	}

	if err := writeOutput(*output, stdout, d); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write dashboard: %v\n", err)
		return 1
	}
	return 0
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, stdout io.Writer, v any) error {
	out := stdout
	if path != "" && path != "-" {
		dir := filepath.Dir(path)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
		}
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "serve":
			runServer(os.Args[2:])
			return
		case "derive":
			os.Exit(runDerive(os.Args[2:], os.Stdin, os.Stdout))
		default:
			// First arg is a config path.
			runServer(os.Args[1:])
			return
		}
	}

	runServer(nil)
}
