package sampledata

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/GTTribe/tribe-ratings/internal/adapters/records"
	"github.com/GTTribe/tribe-ratings/pkg/logger"
)

// WriteSeason writes every record plus a manifest listing them in order.
// It returns the manifest path.
func WriteSeason(ctx context.Context, dir, manifest string, recs []NamedRecord) (string, error) {
	if len(recs) == 0 {
		return "", fmt.Errorf("no practices to write")
	}
	if manifest == "" {
		manifest = records.DefaultManifest
	}

	names := make([]string, 0, len(recs))
	for _, nr := range recs {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if err := writeJSON(filepath.Join(dir, filepath.FromSlash(nr.Name)), nr.Record); err != nil {
			return "", fmt.Errorf("failed to write %s: %w", nr.Name, err)
		}
		names = append(names, nr.Name)
	}

	manifestPath := filepath.Join(dir, manifest)
	if err := writeJSON(manifestPath, names); err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}

	logger.Get().Info(ctx, "season written",
		logger.String("dir", dir),
		logger.Int("practices", len(names)))
	return manifestPath, nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), directoryPermission); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), filePermission)
}
