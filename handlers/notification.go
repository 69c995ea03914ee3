// File: handlers/notification.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"barberbook/middleware"
	"barberbook/models"
	"barberbook/services/notification"
	"barberbook/utils"
)

// NotificationHandler serves the notification inbox endpoints.
type NotificationHandler struct {
	Notifications notification.NotificationService
}

func (h *NotificationHandler) List(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)
	unreadOnly := c.Query("unreadOnly") == "true"
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	offset, _ := strconv.ParseInt(c.DefaultQuery("offset", "0"), 10, 64)

	notifications, err := h.Notifications.List(c.Request.Context(), identity.ID, unreadOnly, limit, offset)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)
	if err := h.Notifications.MarkRead(c.Request.Context(), identity.ID, c.Param("notificationId")); err != nil {
		utils.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "marked read"})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)
	marked, err := h.Notifications.MarkAllRead(c.Request.Context(), identity.ID)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"markedRead": marked})
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)
	count, err := h.Notifications.UnreadCount(c.Request.Context(), identity.ID)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unreadCount": count})
}

func (h *NotificationHandler) Stats(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)
	stats, err := h.Notifications.Stats(c.Request.Context(), identity.ID)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *NotificationHandler) SetEnabled(c *gin.Context) {
	var req struct {
		Enabled *bool `json:"enabled" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	identity, _ := middleware.IdentityFrom(c)
	if err := h.Notifications.SetEnabled(c.Request.Context(), identity.ID, *req.Enabled); err != nil {
		utils.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notificationsEnabled": *req.Enabled})
}

func (h *NotificationHandler) SendTest(c *gin.Context) {
	var req models.TestNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	identity, _ := middleware.IdentityFrom(c)
	n, err := h.Notifications.SendTest(c.Request.Context(), identity, req)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"notification": n,
		"pushSuccess":  n.PushSuccessCount,
		"pushFailure":  n.PushFailureCount,
	})
}
