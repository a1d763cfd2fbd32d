package handler

import (
	"io"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/invoicedesk/backend/internal/application/reporting"
)

// streamHeartbeat keeps idle SSE connections alive through proxies.
const streamHeartbeat = 30 * time.Second

// DashboardHandler handles dashboard and rollup endpoints
type DashboardHandler struct {
	BaseHandler
	dashboardService *reporting.DashboardService
	streamHub        *reporting.StreamHub
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *reporting.DashboardService, streamHub *reporting.StreamHub) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, streamHub: streamHub}
}

// RegisterRoutes registers dashboard routes on an authenticated group
func (h *DashboardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	dashboard := rg.Group("/dashboard")
	{
		dashboard.GET("", h.GetDashboard)
		dashboard.GET("/clients", h.ClientRollups)
		dashboard.GET("/projects", h.ProjectRollups)
		dashboard.GET("/stream", h.Stream)
	}
}

// GetDashboard returns the summary, monthly revenue buckets, and recent
// activity for the owner. The months query parameter controls the bucket
// window; out-of-range values are clamped by the aggregation.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	months := 0
	if raw := c.Query("months"); raw != "" {
		months, err = strconv.Atoi(raw)
		if err != nil {
			h.BadRequest(c, "Invalid months parameter")
			return
		}
	}

	dashboard, err := h.dashboardService.GetDashboard(c.Request.Context(), ownerID, months)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dashboard)
}

// Stream pushes refreshed dashboard metrics over server-sent events
// whenever one of the owner's invoices changes. Each push carries the full
// recomputed dashboard; ticks are coalesced, so a burst of changes may
// produce a single refresh.
func (h *DashboardHandler) Stream(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	months := 0
	if raw := c.Query("months"); raw != "" {
		months, err = strconv.Atoi(raw)
		if err != nil {
			h.BadRequest(c, "Invalid months parameter")
			return
		}
	}

	ticks, cancel := h.streamHub.Subscribe(ownerID)
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	send := func() bool {
		dashboard, err := h.dashboardService.GetDashboard(c.Request.Context(), ownerID, months)
		if err != nil {
			return false
		}
		c.SSEvent("dashboard", dashboard)
		c.Writer.Flush()
		return true
	}

	// Initial snapshot so the client does not wait for the first change.
	if !send() {
		return
	}

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()

	done := c.Request.Context().Done()
	for {
		select {
		case <-done:
			return
		case <-ticks:
			if !send() {
				return
			}
		case <-heartbeat.C:
			if _, err := io.WriteString(c.Writer, ": ping\n\n"); err != nil {
				return
			}
			c.Writer.Flush()
		}
	}
}

// ClientRollups returns per-client billing totals
func (h *DashboardHandler) ClientRollups(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	rollups, err := h.dashboardService.ClientRollups(c.Request.Context(), ownerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rollups)
}

// ProjectRollups returns per-project billing totals
func (h *DashboardHandler) ProjectRollups(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	rollups, err := h.dashboardService.ProjectRollups(c.Request.Context(), ownerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rollups)
}
