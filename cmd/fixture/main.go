package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/tailored-agentic-units/fixture/builder"
	"github.com/tailored-agentic-units/fixture/catalog"
	"github.com/tailored-agentic-units/fixture/config"
	"github.com/tailored-agentic-units/fixture/observability"
)

func main() {
	var (
		configFile  = flag.String("config", "", "Path to fixture config JSON file")
		catalogFile = flag.String("catalog", "", "Path to HCL or JSON state catalog (overrides config)")
		states      = flag.String("states", "", "Comma-separated states applied after the catalog defaults (overrides config)")
		count       = flag.Int("count", -1, "Number of fixtures to build (overrides config)")
		observer    = flag.String("observer", "", "Observer name: noop, slog (overrides config)")
		serveAddr   = flag.String("serve", "", "Serve the fixture RPC service on this address instead of printing fixtures")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging to stderr")
	)
	flag.Parse()

	cfg := config.DefaultConfig()
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = *loaded
	}

	if *catalogFile != "" {
		cfg.Catalog = *catalogFile
	}
	if names := splitStates(*states); len(names) > 0 {
		cfg.States = names
	}
	if *count >= 0 {
		cfg.Count = *count
	}
	if *observer != "" {
		cfg.Builder.Observer = *observer
	}
	if *serveAddr != "" {
		cfg.Server.Addr = *serveAddr
	}

	if cfg.Catalog == "" {
		fmt.Fprintln(os.Stderr, "Usage: fixture -catalog <file> [-states a,b] [-count n] [-serve addr]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	var logger *slog.Logger
	if *verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}
	observability.RegisterObserver("slog", observability.NewSlogObserver(logger))

	cat, err := catalog.Load(cfg.Catalog)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *serveAddr != "" {
		if err := serve(ctx, cfg, cat, logger); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
		return
	}

	b, err := cat.Builder(builder.WithConfig(cfg.Builder))
	if err != nil {
		log.Fatalf("Failed to create builder: %v", err)
	}
	for _, name := range cfg.States {
		if _, err := b.State(name); err != nil {
			log.Fatalf("Failed to apply state: %v", err)
		}
	}

	records, err := b.Many(ctx, cfg.Count)
	if err != nil {
		log.Fatalf("Build failed: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		log.Fatalf("Failed to write fixtures: %v", err)
	}
}

func splitStates(s string) []string {
	var names []string
	for name := range strings.SplitSeq(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}
