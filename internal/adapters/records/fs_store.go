package records

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/GTTribe/tribe-ratings/internal/domain/model"
)

// FSStore loads the manifest and practice records from a directory.
type FSStore struct {
	basePath string
	manifest string
}

// NewFSStore constructs a filesystem store rooted at basePath. An empty
// manifest name falls back to DefaultManifest.
func NewFSStore(basePath, manifest string) *FSStore {
	if manifest == "" {
		manifest = DefaultManifest
	}
	return &FSStore{basePath: basePath, manifest: manifest}
}

// Root returns the directory the store reads from.
func (s *FSStore) Root() string {
	if s == nil {
		return ""
	}
	return s.basePath
}

// Manifest reads {basePath}/{manifest} as a JSON array of filenames.
func (s *FSStore) Manifest(ctx context.Context) ([]string, error) {
	if s == nil {
		return nil, ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.resolve(s.manifest)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrManifest, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrManifest, err)
	}
	defer f.Close()
	return decodeManifest(f)
}

// Record reads a single practice file named relative to basePath.
func (s *FSStore) Record(ctx context.Context, name string) (model.PracticeRecord, error) {
	if s == nil {
		return model.PracticeRecord{}, ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return model.PracticeRecord{}, err
	}
	path, err := s.resolve(name)
	if err != nil {
		return model.PracticeRecord{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return model.PracticeRecord{}, fmt.Errorf("%w: %s: %w", ErrRecord, name, err)
	}
	defer f.Close()
	return decodeRecord(name, f)
}

// resolve joins name onto the base path and refuses anything that escapes it.
func (s *FSStore) resolve(name string) (string, error) {
	if strings.TrimSpace(name) == "" || filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: %q", ErrOutsideRoot, name)
	}
	rel := filepath.Clean(filepath.FromSlash(name))
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrOutsideRoot, name)
	}
	return filepath.Join(s.basePath, rel), nil
}
