package api

import (
	"context"
	"net/http"

	"github.com/GTTribe/tribe-ratings/internal/domain/rating"
	"github.com/GTTribe/tribe-ratings/internal/domain/types"
)

// PracticeDependencies defines the interface for practice views.
type PracticeDependencies interface {
	Practices(ctx context.Context) ([]types.PracticeSummary, error)
	Practice(ctx context.Context, date string) ([]types.PracticeDetail, error)
}

// PracticeHandler handles practice index and detail requests.
type PracticeHandler struct {
	deps PracticeDependencies
}

// NewPracticeHandler creates a new practice handler.
func NewPracticeHandler(deps PracticeDependencies) *PracticeHandler {
	return &PracticeHandler{deps: deps}
}

// HandleListPractices handles GET /practices requests.
func (h *PracticeHandler) HandleListPractices(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_practices"
	list, err := h.deps.Practices(r.Context())
	if err != nil {
		writeLookupError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleGetPractice handles GET /practices/{date} requests.
func (h *PracticeHandler) HandleGetPractice(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_practice"
	date := r.PathValue("date")
	if _, ok := rating.ParseDate(date); !ok {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errInvalidDate(date)))
		return
	}
	details, err := h.deps.Practice(r.Context(), date)
	if err != nil {
		writeLookupError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

type errInvalidDate string

func (e errInvalidDate) Error() string {
	return "invalid date " + string(e) + "; want YYYY-MM-DD"
}
