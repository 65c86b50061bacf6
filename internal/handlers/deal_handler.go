package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"dealdesk/internal/authz"
	"dealdesk/internal/lifecycle"
	"dealdesk/internal/models"
	"dealdesk/internal/pdf"
	"dealdesk/internal/repositories"
	"dealdesk/internal/services"
)

type DealHandler struct {
	Service   *services.DealService
	Clients   *services.ClientService
	Engine    *lifecycle.Engine
	Summaries pdf.Generator // may be nil
}

func NewDealHandler(service *services.DealService, clients *services.ClientService, engine *lifecycle.Engine, summaries pdf.Generator) *DealHandler {
	return &DealHandler{Service: service, Clients: clients, Engine: engine, Summaries: summaries}
}

func (h *DealHandler) Create(c *gin.Context) {
	var deal models.Deal
	if err := c.ShouldBindJSON(&deal); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := getUserAndRole(c)
	deal.OwnerID = userID

	id, err := h.Service.Create(&deal)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	deal.ID = int(id)
	c.JSON(http.StatusCreated, deal)
}

func (h *DealHandler) GetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	userID, roleID := getUserAndRole(c)
	deal, err := h.Service.GetByID(id)
	if err != nil || deal == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "deal not found"})
		return
	}
	if deal.OwnerID != userID && !authz.IsElevated(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	c.JSON(http.StatusOK, deal)
}

func (h *DealHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	userID, roleID := getUserAndRole(c)
	current, err := h.Service.GetByID(id)
	if err != nil || current == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "deal not found"})
		return
	}
	if current.OwnerID != userID && !authz.IsElevated(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	var body models.Deal
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	body.ID = id
	if !authz.IsElevated(roleID) {
		body.OwnerID = current.OwnerID
	}

	if err := h.Service.Update(&body); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	updated, _ := h.Service.GetByID(id)
	c.JSON(http.StatusOK, updated)
}

func (h *DealHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	userID, roleID := getUserAndRole(c)

	deal, err := h.Service.GetByID(id)
	if err != nil || deal == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "deal not found"})
		return
	}
	if deal.OwnerID != userID && !authz.IsElevated(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	if err := h.Service.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *DealHandler) List(c *gin.Context) {
	pageStr := c.DefaultQuery("page", "1")
	sizeStr := c.DefaultQuery("size", "100")

	page, _ := strconv.Atoi(pageStr)
	size, _ := strconv.Atoi(sizeStr)
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 100
	}
	offset := (page - 1) * size

	userID, roleID := getUserAndRole(c)
	var deals []*models.Deal
	var err error

	if authz.IsElevated(roleID) {
		deals, err = h.Service.ListPaginated(size, offset)
	} else {
		deals, err = h.Service.ListMy(userID, size, offset)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve deals"})
		return
	}
	c.JSON(http.StatusOK, deals)
}

// --- UpdateStatus ---
type updateDealStatusRequest struct {
	To      string `json:"to" binding:"required"`
	Comment string `json:"comment"`
}

// @Summary      Change deal status
// @Description  Validates the transition against the lifecycle guard and applies it atomically
// @Tags         Deals
// @Accept       json
// @Produce      json
// @Param        id    path      int                      true  "Deal ID"
// @Param        body  body      updateDealStatusRequest  true  "Target status"
// @Success      200   {object}  models.Deal
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  lifecycle.TransitionDecision
// @Router       /deals/{id}/status [post]
func (h *DealHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req updateDealStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, roleID := getUserAndRole(c)
	role := authz.LifecycleRole(roleID)

	current, err := h.Service.GetByID(id)
	if err != nil || current == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "deal not found"})
		return
	}
	if current.OwnerID != userID && !authz.IsElevated(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	updated, decision, err := h.Service.ChangeStatus(id, lifecycle.Status(req.To), userID, role, req.Comment)
	if err != nil {
		if errors.Is(err, repositories.ErrStatusConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "deal status changed concurrently, reload and retry"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !decision.Allowed {
		// отказ — это данные, а не ошибка сервера
		c.JSON(http.StatusUnprocessableEntity, decision)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Transitions feeds the "change status" dropdown for the caller's role.
func (h *DealHandler) Transitions(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	_, roleID := getUserAndRole(c)

	transitions, err := h.Service.AvailableTransitions(id, authz.LifecycleRole(roleID))
	if err != nil {
		if errors.Is(err, services.ErrDealNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "deal not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transitions": transitions})
}

func (h *DealHandler) History(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	entries, err := h.Service.StatusHistory(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// SummaryPDF renders the one-page deal summary used during contract drafting.
func (h *DealHandler) SummaryPDF(c *gin.Context) {
	if h.Summaries == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "pdf generation disabled"})
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	userID, roleID := getUserAndRole(c)
	deal, err := h.Service.GetByID(id)
	if err != nil || deal == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "deal not found"})
		return
	}
	if deal.OwnerID != userID && !authz.IsElevated(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	clientName := ""
	if client, err := h.Clients.GetByID(deal.ClientID); err == nil && client != nil {
		clientName = client.Name
	}

	var history []pdf.HistoryLine
	if entries, err := h.Service.StatusHistory(id); err == nil {
		for _, e := range entries {
			history = append(history, pdf.HistoryLine{From: e.FromStatus, To: e.ToStatus, ChangedAt: e.ChangedAt})
		}
	}

	path, err := h.Summaries.GenerateDealSummary(pdf.SummaryData{
		DealID:         deal.ID,
		Title:          deal.Title,
		ClientName:     clientName,
		Status:         deal.Status,
		Priority:       deal.Priority,
		AnnualRevenue:  deal.AnnualRevenue,
		GrowthAmbition: deal.GrowthAmbition,
		CreatedAt:      deal.CreatedAt,
		Flow:           h.Engine.Classify(deal.Record(), time.Now()),
		History:        history,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.FileAttachment(path, "deal_summary.pdf")
}
