// File: handlers/slot.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"barberbook/middleware"
	"barberbook/models"
	"barberbook/services/slot"
	"barberbook/utils"
)

// SlotHandler serves slot creation, browsing, and deletion endpoints.
type SlotHandler struct {
	Slots slot.SlotService
}

func (h *SlotHandler) Create(c *gin.Context) {
	var req models.CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	identity, _ := middleware.IdentityFrom(c)
	created, err := h.Slots.CreateSlot(c.Request.Context(), identity, req)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *SlotHandler) CreateBulk(c *gin.Context) {
	var req models.CreateSlotsBulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	identity, _ := middleware.IdentityFrom(c)
	created, err := h.Slots.CreateSlotsBulk(c.Request.Context(), identity, req)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"slotsCreated": len(created), "slots": created})
}

func (h *SlotHandler) CreateFromTemplate(c *gin.Context) {
	var req models.SlotTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	identity, _ := middleware.IdentityFrom(c)
	result, err := h.Slots.CreateSlotsFromTemplate(c.Request.Context(), identity, req)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *SlotHandler) MySlots(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)
	slots, err := h.Slots.MySlots(c.Request.Context(), identity, c.Query("date"))
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// Available is the customer-facing browse endpoint.
func (h *SlotHandler) Available(c *gin.Context) {
	slots, err := h.Slots.AvailableSlots(c.Request.Context(), c.Query("barberId"), c.Query("fromDate"), c.Query("toDate"))
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

func (h *SlotHandler) Availability(c *gin.Context) {
	buckets, err := h.Slots.AvailabilityByStart(c.Request.Context(), c.Param("barberId"), c.Query("date"))
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"availability": buckets})
}

func (h *SlotHandler) Delete(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)
	if err := h.Slots.DeleteSlot(c.Request.Context(), identity, c.Param("slotId")); err != nil {
		utils.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "slot deleted"})
}

func (h *SlotHandler) DeleteBulk(c *gin.Context) {
	var req models.BulkDeleteSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	identity, _ := middleware.IdentityFrom(c)
	deleted, err := h.Slots.DeleteSlotsBulk(c.Request.Context(), identity, req)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slotsDeleted": deleted})
}
