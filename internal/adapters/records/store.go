// Package records loads practice records and their manifest from a data source.
package records

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/GTTribe/tribe-ratings/internal/domain/model"
)

// DefaultManifest is the manifest filename used when none is configured.
const DefaultManifest = "manifest.json"

// Store defines how practice records are discovered and read.
type Store interface {
	// Manifest lists record names in manifest order.
	Manifest(ctx context.Context) ([]string, error)
	// Record reads and decodes one practice record by manifest name.
	Record(ctx context.Context, name string) (model.PracticeRecord, error)
}

func decodeManifest(r io.Reader) ([]string, error) {
	var names []string
	if err := json.NewDecoder(r).Decode(&names); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrManifest, err)
	}
	return names, nil
}

func decodeRecord(name string, r io.Reader) (model.PracticeRecord, error) {
	var rec model.PracticeRecord
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return model.PracticeRecord{}, fmt.Errorf("%w: %s: %w", ErrDecode, name, err)
	}
	return rec, nil
}
