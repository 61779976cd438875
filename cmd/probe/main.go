package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/devscore/internal/probe"
)

// Default configuration constants.
const (
	defaultNumDaily        = 5000
	defaultNumTasks        = 2000
	defaultTeamSize        = 5
	defaultUnknownTierRate = 0.05
	defaultWorkers         = 2 // multiplier for runtime.NumCPU()
	defaultTimeout         = 30 * time.Second
	defaultProbeTimeout    = 10 * time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numDaily    = flag.Int("daily", defaultNumDaily, "Number of daily score requests")
		numTasks    = flag.Int("tasks", defaultNumTasks, "Number of rating update requests")
		teamSize    = flag.Int("team", defaultTeamSize, "Largest generated team")
		unknownRate = flag.Float64("unknown", defaultUnknownTierRate, "Share of requests with an unrecognized tier")
		seed        = flag.Uint64("seed", 0, "Generator seed; 0 uses the clock")
		workers     = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile  = flag.String("output", "", "Write generated cases to this JSON file")
		logFile     = flag.String("log", "", "Also write log output to this file")
		logFormat   = flag.String("log-format", "text", "Log format: text or json")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		probe.ShowHelp()
		return
	}

	if err := probe.SetupLogging(*logFile, *logFormat, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultProbeTimeout)
	defer cancel()

	config := &probe.Config{
		BaseURL:         *baseURL,
		NumDaily:        *numDaily,
		NumTasks:        *numTasks,
		MaxTeamSize:     *teamSize,
		UnknownTierRate: *unknownRate,
		Seed:            *seed,
		Workers:         *workers,
		Timeout:         *timeout,
		OutputFile:      *outputFile,
		Verbose:         *verbose,
	}

	if _, err := probe.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Probe failed: " + err.Error() + "\n")
		cancel()
		stop()
		os.Exit(1)
	}
}
