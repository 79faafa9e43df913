package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"inscope/internal/core/app"
	"inscope/internal/core/config"
	"inscope/internal/shared/observability"
	"inscope/internal/ui/cli"
)

var (
	configPath = flag.String("config", "./inscope.toml", "Path to config file")
	once       = flag.Bool("once", false, "Run single scan and exit")
	ui         = flag.Bool("ui", false, "Enable terminal UI mode")
	unresolved = flag.Bool("unresolved", false, "Print only imports whose target could not be resolved")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "0.3.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("inscope v%s\n", VERSION)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}

	output := os.Stdout
	if *ui {
		// In UI mode, avoid stdout logs corrupting the TUI.
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else {
			f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
			if err == nil {
				output = f
			} else {
				fmt.Fprintf(os.Stderr, "warning: failed to open log file %s: %v\n", logPath, err)
			}
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		if *configPath == "./inscope.toml" && os.IsNotExist(err) {
			cfg = config.Default()
		} else {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}

	if flag.NArg() > 0 {
		cfg.WatchPaths = flag.Args()
	}

	ctx := context.Background()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Observability.OTLPEndpoint)
	if err != nil {
		slog.Warn("tracing disabled", "error", err)
	} else {
		defer func() { _ = shutdownTracing(ctx) }()
	}

	service, err := app.New(cfg, logger)
	if err != nil {
		slog.Error("failed to initialize service", "error", err)
		os.Exit(1)
	}
	defer func() { _ = service.Close(ctx) }()

	if err := service.InitialScan(ctx); err != nil {
		slog.Error("initial scan failed", "error", err)
		os.Exit(1)
	}

	if cfg.Observability.MetricsAddr != "" {
		server := cli.NewObservabilityServer(cfg.Observability.MetricsAddr, service)
		if err := server.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "error", err)
			os.Exit(1)
		}
		defer func() { _ = server.Stop(ctx) }()
	}

	if !*ui {
		if err := printReports(ctx, service, *unresolved); err != nil {
			slog.Error("failed to evaluate imports", "error", err)
			os.Exit(1)
		}
	}

	if *once {
		return
	}

	// Watch mode
	go func() {
		if err := service.Watch(ctx); err != nil && err != context.Canceled {
			slog.Error("watch mode failed", "error", err)
			os.Exit(1)
		}
	}()

	if *ui {
		if err := runUI(ctx, service); err != nil {
			slog.Error("failed to run UI", "error", err)
			os.Exit(1)
		}
		return
	}

	select {}
}

func printReports(ctx context.Context, service *app.Service, unresolvedOnly bool) error {
	reports, err := service.Reports(ctx)
	if err != nil {
		return err
	}

	shown := 0
	for _, rep := range reports {
		if unresolvedOnly && rep.Resolved {
			continue
		}
		shown++
		if rep.Resolved {
			fmt.Printf("%s:%d  %s\n", rep.File, rep.Line, rep.Text)
			fmt.Printf("    -> %s brings %d clause(s) into scope\n", rep.Target, len(rep.Clauses))
			for _, cl := range rep.Clauses {
				fmt.Printf("       %s\n", cl)
			}
		} else {
			fmt.Printf("%s:%d  %s\n", rep.File, rep.Line, rep.Text)
			fmt.Printf("    -> target not found in the analyzed sources\n")
		}
	}
	if shown == 0 {
		if unresolvedOnly {
			fmt.Println("All imports resolve.")
		} else {
			fmt.Println("No import directives found.")
		}
	}
	return nil
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "inscope", "inscope.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "inscope", "inscope.log")
	}

	return "inscope.log"
}
