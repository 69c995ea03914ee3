// File: handlers/booking.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"barberbook/middleware"
	"barberbook/models"
	"barberbook/services/booking"
	"barberbook/utils"
)

// BookingHandler serves the booking lifecycle endpoints.
type BookingHandler struct {
	Bookings booking.BookingService
}

func (h *BookingHandler) Book(c *gin.Context) {
	var req models.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	identity, _ := middleware.IdentityFrom(c)
	details, err := h.Bookings.Book(c.Request.Context(), identity, req)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	c.JSON(http.StatusCreated, details)
}

func (h *BookingHandler) Get(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)
	details, err := h.Bookings.GetBooking(c.Request.Context(), identity, c.Param("bookingId"))
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *BookingHandler) MyBookings(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)
	includeHistory := c.Query("includeHistory") == "true"
	details, err := h.Bookings.MyBookings(c.Request.Context(), identity, includeHistory)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": details})
}

func (h *BookingHandler) Upcoming(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)
	details, err := h.Bookings.Upcoming(c.Request.Context(), identity)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": details})
}

func (h *BookingHandler) Reschedule(c *gin.Context) {
	var req models.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	identity, _ := middleware.IdentityFrom(c)
	details, err := h.Bookings.Reschedule(c.Request.Context(), identity, c.Param("bookingId"), req)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	var req models.CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	identity, _ := middleware.IdentityFrom(c)
	if err := h.Bookings.Cancel(c.Request.Context(), identity, c.Param("bookingId"), req); err != nil {
		utils.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking cancelled"})
}

func (h *BookingHandler) SetStatus(c *gin.Context) {
	var req models.SetBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	identity, _ := middleware.IdentityFrom(c)
	updated, err := h.Bookings.SetStatus(c.Request.Context(), identity, req)
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *BookingHandler) Rate(c *gin.Context) {
	var req models.RateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	identity, _ := middleware.IdentityFrom(c)
	if err := h.Bookings.Rate(c.Request.Context(), identity, c.Param("bookingId"), req); err != nil {
		utils.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "rating saved"})
}

func (h *BookingHandler) Schedule(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)
	details, err := h.Bookings.BarberSchedule(c.Request.Context(), identity, c.Query("date"))
	if err != nil {
		utils.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": details})
}
