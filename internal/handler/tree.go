package handler

import (
	"log/slog"
	"net/http"

	"treesync/internal/httputil"
	"treesync/internal/service"
)

// TreeHandler serves the hierarchy read path.
type TreeHandler struct {
	treeService *service.TreeService
	logger      *slog.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(treeService *service.TreeService, logger *slog.Logger) *TreeHandler {
	return &TreeHandler{
		treeService: treeService,
		logger:      logger,
	}
}

// GetTree returns the caller's assembled hierarchy as a flat JSON array of
// mixed folder and item nodes. The contract is deliberately coarse: 200 with
// the array, or 500 with {"error": "Internal Server Error"} on any failure.
func (h *TreeHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		h.logger.Warn("tree request without user_id")
		httputil.RespondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	tree, err := h.treeService.Assemble(r.Context(), userID)
	if err != nil {
		h.logger.Error("tree assembly failed", "user_id", userID, "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tree)
}

// HealthCheck reports process liveness.
func (h *TreeHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
