package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/GTTribe/tribe-ratings/internal/adapters/loader"
	"github.com/GTTribe/tribe-ratings/internal/adapters/repository"
)

// ReloadDependencies defines the interface for rebuilding the snapshot.
type ReloadDependencies interface {
	Reload(ctx context.Context) (*repository.Snapshot, error)
}

// ReloadHandler handles manual pipeline reruns.
type ReloadHandler struct {
	deps ReloadDependencies
}

// NewReloadHandler creates a new reload handler.
func NewReloadHandler(deps ReloadDependencies) *ReloadHandler {
	return &ReloadHandler{deps: deps}
}

type reloadResponse struct {
	Snapshot  string `json:"snapshot"`
	BuiltAt   string `json:"built_at"`
	Players   int    `json:"players"`
	Practices int    `json:"practices"`
}

// HandleReload handles POST /reload requests.
func (h *ReloadHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	const op = "api.reload"
	snap, err := h.deps.Reload(r.Context())
	if err != nil {
		if errors.Is(err, loader.ErrManifestUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "manifest_unavailable", WrapKind(op, ErrUnavailable, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, reloadResponse{
		Snapshot:  snap.ID.String(),
		BuiltAt:   snap.BuiltAt.UTC().Format(time.RFC3339),
		Players:   len(snap.Rows),
		Practices: len(snap.Records),
	})
}
