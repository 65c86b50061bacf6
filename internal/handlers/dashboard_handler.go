package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dealdesk/internal/services"
)

type DashboardHandler struct {
	Service *services.DashboardService
}

func NewDashboardHandler(service *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{Service: service}
}

// @Summary      Priority actions
// @Description  Ordered worklist of at most ten deals that need the caller's action
// @Tags         Dashboard
// @Produce      json
// @Success      200  {array}  lifecycle.PriorityItem
// @Router       /dashboard/priority-actions [get]
func (h *DashboardHandler) PriorityActions(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	items, err := h.Service.PriorityActions(userID, roleID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build priority actions"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// @Summary      Email my worklist
// @Description  Sends the caller an email digest of deals waiting on them
// @Tags         Dashboard
// @Produce      json
// @Success      200  {object}  map[string]int
// @Router       /dashboard/digest [post]
func (h *DashboardHandler) EmailDigest(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	sent, err := h.Service.EmailDigest(userID, roleID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send digest"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items_sent": sent})
}

// @Summary      Flow board
// @Description  Flow classification badges for every deal visible to the caller
// @Tags         Dashboard
// @Produce      json
// @Success      200  {array}  services.FlowBadge
// @Router       /dashboard/flow [get]
func (h *DashboardHandler) FlowBoard(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	badges, err := h.Service.FlowBoard(userID, roleID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to classify deals"})
		return
	}
	c.JSON(http.StatusOK, badges)
}
