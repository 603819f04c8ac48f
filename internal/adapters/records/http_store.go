package records

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/GTTribe/tribe-ratings/internal/domain/model"
)

const (
	defaultFetchTimeout = 10 * time.Second
	maxBodyBytes        = 4 << 20
)

// HTTPStore fetches the manifest and practice records relative to a base URL.
type HTTPStore struct {
	base     *url.URL
	manifest string
	client   *http.Client
}

// HTTPOption configures an HTTPStore.
type HTTPOption func(*HTTPStore)

// WithHTTPClient overrides the client used for fetches.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPStore) {
		if c != nil {
			s.client = c
		}
	}
}

// WithFetchTimeout bounds each request.
func WithFetchTimeout(d time.Duration) HTTPOption {
	return func(s *HTTPStore) {
		if d > 0 {
			s.client = &http.Client{Timeout: d, Transport: s.client.Transport}
		}
	}
}

// NewHTTPStore constructs a store rooted at baseURL. The base is treated as a
// directory, so "https://host/data" and "https://host/data/" are equivalent.
func NewHTTPStore(baseURL, manifest string, opts ...HTTPOption) (*HTTPStore, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse data url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("data url must be http or https: %q", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if manifest == "" {
		manifest = DefaultManifest
	}
	s := &HTTPStore{
		base:     u,
		manifest: manifest,
		client:   &http.Client{Timeout: defaultFetchTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Manifest fetches the manifest JSON array.
func (s *HTTPStore) Manifest(ctx context.Context) ([]string, error) {
	if s == nil {
		return nil, ErrNotConfigured
	}
	body, err := s.get(ctx, s.manifest)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrManifest, err)
	}
	defer body.Close()
	return decodeManifest(body)
}

// Record fetches and decodes one practice record.
func (s *HTTPStore) Record(ctx context.Context, name string) (model.PracticeRecord, error) {
	if s == nil {
		return model.PracticeRecord{}, ErrNotConfigured
	}
	body, err := s.get(ctx, name)
	if err != nil {
		return model.PracticeRecord{}, fmt.Errorf("%w: %s: %w", ErrRecord, name, err)
	}
	defer body.Close()
	return decodeRecord(name, body)
}

func (s *HTTPStore) get(ctx context.Context, name string) (io.ReadCloser, error) {
	ref, err := url.Parse(name)
	if err != nil {
		return nil, err
	}
	if ref.IsAbs() || ref.Host != "" || strings.HasPrefix(ref.Path, "/") {
		return nil, fmt.Errorf("%w: %q", ErrOutsideRoot, name)
	}
	target := s.base.ResolveReference(ref)
	if !strings.HasPrefix(target.Path, s.base.Path) {
		return nil, fmt.Errorf("%w: %q", ErrOutsideRoot, name)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: status %d", target.Redacted(), resp.StatusCode)
	}
	return struct {
		io.Reader
		io.Closer
	}{io.LimitReader(resp.Body, maxBodyBytes), resp.Body}, nil
}
