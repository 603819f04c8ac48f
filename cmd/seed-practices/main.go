package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/GTTribe/tribe-ratings/internal/sampledata"
	"github.com/GTTribe/tribe-ratings/pkg/logger"
)

const defaultRunTimeout = 2 * time.Minute

func main() {
	var (
		outDir    = flag.String("out", "", "Directory to write the season to (default: season_TIMESTAMP)")
		manifest  = flag.String("manifest", "", "Manifest filename (default \"manifest.json\")")
		practices = flag.Int("practices", sampledata.DefaultPractices, "Number of practices")
		players   = flag.Int("players", sampledata.DefaultPlayers, "Size of the player pool")
		teams     = flag.Int("teams", sampledata.DefaultTeamsPerPractice, "Teams per practice")
		start     = flag.String("start", sampledata.DefaultStartDate, "Date of the first practice")
		seed      = flag.Uint64("seed", 1, "Random seed")
		baseURL   = flag.String("url", "", "Service to verify against; empty skips verification")
		reload    = flag.Bool("reload", false, "POST /reload before verifying")
		timeout   = flag.Duration("timeout", sampledata.DefaultTimeout, "HTTP request timeout")
		logFormat = flag.String("log-format", "text", "Log format: text or json")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		sampledata.ShowHelp()
		return
	}

	if err := logger.Init(logger.WithFormat(*logFormat)); err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &sampledata.Config{
		OutDir:           *outDir,
		Manifest:         *manifest,
		Practices:        *practices,
		Players:          *players,
		TeamsPerPractice: *teams,
		StartDate:        *start,
		Seed:             *seed,
		BaseURL:          *baseURL,
		Reload:           *reload,
		Timeout:          *timeout,
	}

	if _, err := sampledata.Run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "seed run failed", logger.Error(err))
		cancel()
		os.Exit(1)
	}
}
