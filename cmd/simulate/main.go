package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/emochain/internal/simulate"
	"github.com/okian/emochain/pkg/logger"
)

// Default configuration constants.
const (
	defaultValidators = 200
	defaultSnapshots  = 5
	defaultSpoofRatio = 0.1
	defaultTopN       = 50
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultTimeout    = 30 * time.Second
	defaultSettle     = 30 * time.Second
	defaultSeed       = 42
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		validators = flag.Int("validators", defaultValidators, "Number of simulated validators")
		snapshots  = flag.Int("snapshots", defaultSnapshots, "Snapshots submitted per validator")
		spoof      = flag.Float64("spoof", defaultSpoofRatio, "Share of validators emitting spoofed readings")
		topN       = flag.Int("top", defaultTopN, "Number of entries fetched from the ready listing")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent submitters")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		settle     = flag.Duration("settle", defaultSettle, "Maximum wait for the queue to drain")
		seed       = flag.Uint64("seed", defaultSeed, "Generator seed")
		outputFile = flag.String("output", "", "Write the generated submissions to this JSON file")
		logFile    = flag.String("log", "", "Log file (default: simulate_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		simulate.ShowHelp(os.Stdout)
		return
	}

	cfg := &simulate.Config{
		BaseURL:    *baseURL,
		Validators: *validators,
		Snapshots:  *snapshots,
		SpoofRatio: *spoof,
		Workers:    *workers,
		Timeout:    *timeout,
		Settle:     *settle,
		TopN:       *topN,
		Seed:       *seed,
		OutputFile: *outputFile,
		Verbose:    *verbose,
	}
	if err := run(cfg, *logFile); err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run(cfg *simulate.Config, logFile string) error {
	closer, err := simulate.SetupLogging(logFile, logger.FormatText)
	if err != nil {
		return err
	}
	defer closer.Close()
	if cfg.Verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	_, err = simulate.Run(ctx, cfg)
	return err
}
