package sampledata

import "os"

// ShowHelp prints usage information for the seed tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Tribe Practice Seeder
=====================

Generates a synthetic season of practice records and a manifest, and
optionally checks a running ratings service against it.

Usage:
  go run ./cmd/seed-practices [options]

Options:
  -out string
        Directory to write the season to (default: season_TIMESTAMP)
  -manifest string
        Manifest filename (default "manifest.json")
  -practices int
        Number of practices (default 24)
  -players int
        Size of the player pool (default 18)
  -teams int
        Teams per practice (default 3)
  -start string
        Date of the first practice (default "2025-09-01")
  -seed uint
        Random seed; the same seed writes the same season (default 1)
  -url string
        Service to verify against; empty skips verification
  -reload
        POST /reload before verifying
  -timeout duration
        HTTP request timeout (default 10s)
  -help
        Show this help message

Examples:
  # Write a season for a local service watching ./data
  go run ./cmd/seed-practices -out ./data

  # Write, reload and verify
  go run ./cmd/seed-practices -out ./data -url http://localhost:9080 -reload
`)
}
