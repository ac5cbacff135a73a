package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"simplefit/internal/async"
	"simplefit/internal/service"
)

// FollowUpMonitor exposes the state of the secondary-write queue.
type FollowUpMonitor interface {
	Snapshot() service.FollowUpSnapshot
}

type DiagnosticsHandler struct {
	followUps FollowUpMonitor
}

func NewDiagnosticsHandler(followUps FollowUpMonitor) *DiagnosticsHandler {
	return &DiagnosticsHandler{followUps: followUps}
}

type FollowUpStatusResponse struct {
	Name       string      `json:"name"`
	State      async.State `json:"state"`
	Error      string      `json:"error,omitempty"`
	EnqueuedAt time.Time   `json:"enqueuedAt"`
}

type FollowUpFailureResponse struct {
	Name     string    `json:"name"`
	Error    string    `json:"error"`
	Attempts int       `json:"attempts"`
	At       time.Time `json:"at"`
}

type FollowUpsResponse struct {
	Queued   int                       `json:"queued"`
	Recent   []FollowUpStatusResponse  `json:"recent"`
	Failures []FollowUpFailureResponse `json:"failures"`
}

// GetFollowUps godoc
// @Summary Show recent background writes and permanent failures
// @Tags Diagnostics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} FollowUpsResponse
// @Router /diagnostics/follow-ups [get]
func (h *DiagnosticsHandler) GetFollowUps(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}
	snap := h.followUps.Snapshot()

	resp := FollowUpsResponse{
		Queued:   snap.Queued,
		Recent:   make([]FollowUpStatusResponse, len(snap.Recent)),
		Failures: make([]FollowUpFailureResponse, len(snap.Failures)),
	}
	for i, r := range snap.Recent {
		resp.Recent[i] = FollowUpStatusResponse{Name: r.Name, State: r.State, EnqueuedAt: r.EnqueuedAt}
		if r.Err != nil {
			resp.Recent[i].Error = r.Err.Error()
		}
	}
	for i, f := range snap.Failures {
		resp.Failures[i] = FollowUpFailureResponse{Name: f.Name, Attempts: f.Attempts, At: f.At}
		if f.Err != nil {
			resp.Failures[i].Error = f.Err.Error()
		}
	}
	c.JSON(http.StatusOK, resp)
}
