package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"printer-dashboard-go/internal/config"
	"printer-dashboard-go/internal/ui"
)

// Version information - set by linker flags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GoVersion = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	configPath := flag.String("config", "", "Path to config.yaml (default: ./config.yaml or $"+config.EnvConfigPath+")")
	flag.Parse()

	if *showVersion {
		fmt.Printf("Printer Dashboard %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Go version: %s\n", GoVersion)
		fmt.Printf("  Platform:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("[Main] WARNING: Config load error: %v (using defaults)", err)
		cfg = config.DefaultConfig()
	}

	logCleanup, err := config.ConfigureLogging(cfg.Logging)
	if err != nil {
		log.Printf("[Main] WARNING: Logging setup error: %v", err)
	}
	if logCleanup != nil {
		defer logCleanup()
	}

	log.Printf("[Main] Printer Dashboard %s starting...", Version)
	log.Printf("[Main] Config: backend=%s status=%v camera=%v timeout=%v",
		cfg.API.BaseURL, cfg.Polling.StatusInterval, cfg.Polling.CameraInterval, cfg.API.Timeout)

	ok, warnings := cfg.Validate()
	if !ok {
		log.Printf("[Main] WARNING: Config validation failed!")
	}
	for _, w := range warnings {
		log.Printf("[Main] WARNING: %s", w)
	}

	app, err := ui.NewApp(cfg)
	if err != nil {
		log.Printf("[Main] ERROR: %v", err)
		os.Exit(1)
	}

	// Clean shutdown on SIGINT/SIGTERM; Start returns once the app quits.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("[Main] Received signal %v, cleaning up...", sig)
		app.Cleanup()
	}()

	app.Start()
	log.Println("[Main] Exited")
}
