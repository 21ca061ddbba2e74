package picklist

import (
	"errors"
	"net/http"
	"strconv"

	"picking/internal/repository"
	"picking/pkg/auditlog"
	custom_error "picking/pkg/errors"
	"picking/pkg/models"

	"github.com/gin-gonic/gin"
)

// ResourceLogReader reads the persisted audit trail for one resource.
type ResourceLogReader interface {
	GetResourceLog(id int, resourceType string) (*[]models.AuditLog, error)
}

type PickListHandler struct {
	Service  *PickListService
	AuditLog *auditlog.Auditlog
	Logs     ResourceLogReader
}

func RegisterRoutes(router *gin.Engine, service *PickListService, a *auditlog.Auditlog, logs ResourceLogReader) {
	handler := PickListHandler{
		Service:  service,
		AuditLog: a,
		Logs:     logs,
	}

	router.GET("/pick-lists", handler.GetPickLists)
	router.GET("/pick-lists/:id", handler.GetPickList)
	router.GET("/pick-lists/:id/audit-log", handler.GetAuditLog)
	router.POST("/pick-lists", handler.CreatePickList)
	router.POST("/pick-lists/:id/locations", handler.RecomputeLocations)
	router.PATCH("/pick-lists/:id/submit", handler.Submit)
	router.PATCH("/pick-lists/:id/cancel", handler.Cancel)
}

func (h *PickListHandler) CreatePickList(c *gin.Context) {
	var request CreatePickListRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	pickList, diagnostics, err := h.Service.CreatePickList(request)
	if err != nil {
		abortWithError(c, "Unable to create pick list", err)
		return
	}

	go h.AuditLog.Log("created", gin.H{"msg": "Pick list created"}, pickList)

	c.JSON(http.StatusCreated, gin.H{"pick_list": pickList, "diagnostics": diagnostics})
}

func (h *PickListHandler) GetPickList(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid pick list ID"})
		return
	}

	pickList, err := h.Service.GetPickList(id)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Unable to get pick list", "details": err.Error()})
		return
	}

	if c.Query("group_similar_items") == "true" {
		pickList.Locations = GroupSimilarItems(pickList.Locations)
	}

	c.JSON(http.StatusOK, pickList)
}

func (h *PickListHandler) GetPickLists(c *gin.Context) {
	var query struct {
		Status  string `form:"status"`
		Company string `form:"company"`
		Purpose string `form:"purpose"`
	}

	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	conditions := repository.NewQueryBuilder()

	if query.Status != "" {
		conditions.AddCondition("status", query.Status)
	}
	if query.Company != "" {
		conditions.AddCondition("company", query.Company)
	}
	if query.Purpose != "" {
		conditions.AddCondition("purpose", query.Purpose)
	}

	pickLists, err := h.Service.GetPickListsBy(conditions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pick lists"})
		return
	}

	c.JSON(http.StatusOK, pickLists)
}

func (h *PickListHandler) GetAuditLog(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid pick list ID"})
		return
	}

	entries, err := h.Logs.GetResourceLog(id, "pick_list")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get audit log", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, entries)
}

func (h *PickListHandler) RecomputeLocations(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid pick list ID"})
		return
	}

	pickList, diagnostics, err := h.Service.RecomputeLocations(id)
	if err != nil {
		abortWithError(c, "Unable to recompute pick list locations", err)
		return
	}

	go h.AuditLog.Log("reallocated", gin.H{"msg": "Pick list locations recomputed"}, pickList)

	c.JSON(http.StatusOK, gin.H{"pick_list": pickList, "diagnostics": diagnostics})
}

func (h *PickListHandler) Submit(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid pick list ID"})
		return
	}

	pickList, err := h.Service.Submit(id)
	if err != nil {
		abortWithError(c, "Unable to submit pick list", err)
		return
	}

	go h.AuditLog.Log("submitted", gin.H{"msg": "Pick list submitted"}, pickList)

	c.JSON(http.StatusOK, pickList)
}

func (h *PickListHandler) Cancel(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid pick list ID"})
		return
	}

	pickList, err := h.Service.Cancel(id)
	if err != nil {
		abortWithError(c, "Unable to cancel pick list", err)
		return
	}

	go h.AuditLog.Log("cancelled", gin.H{"msg": "Pick list cancelled"}, pickList)

	c.JSON(http.StatusOK, pickList)
}

func abortWithError(c *gin.Context, message string, err error) {
	var validationErr *custom_error.ValidationError
	var overAllocationErr *custom_error.OverAllocationError

	switch {
	case errors.As(err, &validationErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": message, "details": err.Error()})
	case errors.As(err, &overAllocationErr):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": message, "details": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": message, "details": err.Error()})
	}
}
