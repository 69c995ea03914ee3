// File: handlers/device.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"barberbook/middleware"
	"barberbook/models"
	"barberbook/services/device"
	"barberbook/utils"
)

// DeviceHandler serves push device registration endpoints.
type DeviceHandler struct {
	Devices device.DeviceService
}

func (h *DeviceHandler) Register(c *gin.Context) {
	var req models.RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	identity, _ := middleware.IdentityFrom(c)
	registered, created, err := h.Devices.Register(c.Request.Context(), identity, req)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, registered)
}

func (h *DeviceHandler) List(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)
	devices, err := h.Devices.List(c.Request.Context(), identity)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"devices": devices})
}

func (h *DeviceHandler) Deactivate(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)
	if err := h.Devices.SetActive(c.Request.Context(), identity, c.Param("deviceId"), false); err != nil {
		utils.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "device deactivated"})
}

func (h *DeviceHandler) Activate(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)
	if err := h.Devices.SetActive(c.Request.Context(), identity, c.Param("deviceId"), true); err != nil {
		utils.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "device activated"})
}

func (h *DeviceHandler) Remove(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)
	if err := h.Devices.Remove(c.Request.Context(), identity, c.Param("deviceId")); err != nil {
		utils.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "device removed"})
}

func (h *DeviceHandler) UpdateToken(c *gin.Context) {
	var req models.UpdateDeviceTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	identity, _ := middleware.IdentityFrom(c)
	if err := h.Devices.UpdateToken(c.Request.Context(), identity, req.DeviceID, req); err != nil {
		utils.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "token updated"})
}
