// File: handlers/auth.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"barberbook/middleware"
	"barberbook/models"
	"barberbook/services/account"
	"barberbook/services/session"
	"barberbook/utils"
)

// AuthHandler serves registration, login, and session management endpoints.
type AuthHandler struct {
	Accounts account.AccountService
	Sessions session.SessionService
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	resp, err := h.Accounts.Register(c.Request.Context(), req, c.GetHeader("User-Agent"), middleware.GetClientIP(c))
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	resp, err := h.Accounts.Login(c.Request.Context(), req, c.GetHeader("User-Agent"), middleware.GetClientIP(c))
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	credential := middleware.CredentialFrom(c)
	if err := h.Sessions.Invalidate(c.Request.Context(), credential); err != nil {
		utils.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *AuthHandler) LogoutOthers(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)
	revoked, err := h.Sessions.InvalidateOthers(c.Request.Context(), identity.ID, middleware.CredentialFrom(c))
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"revokedSessions": revoked})
}

func (h *AuthHandler) ListSessions(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)
	sessions, err := h.Sessions.ListSessions(c.Request.Context(), identity.ID)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (h *AuthHandler) RevokeSession(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)
	if err := h.Sessions.RevokeSession(c.Request.Context(), identity.ID, c.Param("sessionId")); err != nil {
		utils.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "session revoked"})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	identity, _ := middleware.IdentityFrom(c)
	if err := h.Accounts.ChangePassword(c.Request.Context(), identity.ID, middleware.CredentialFrom(c), req); err != nil {
		utils.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password changed"})
}

func (h *AuthHandler) Profile(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)
	user, err := h.Accounts.Profile(c.Request.Context(), identity.ID)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
