package api

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/MarianRusoiu99/auction-scraper/internal/service"
)

// SubscriptionRequest represents the subscription creation payload
type SubscriptionRequest struct {
	Email   string         `json:"email" binding:"required,email"`
	Filters datatypes.JSON `json:"filters"`
}

// CreateSubscriptionHandler handles subscription creation
func CreateSubscriptionHandler(dbConn *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SubscriptionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Printf("Subscription validation error: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid subscription format",
				"details": err.Error(),
			})
			return
		}

		subscription, err := service.CreateSubscription(dbConn, strings.TrimSpace(req.Email), req.Filters)
		if err != nil {
			log.Printf("Failed to create subscription: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save subscription"})
			return
		}

		log.Printf("Created subscription for %s (ID: %d)", subscription.Email, subscription.ID)
		c.JSON(http.StatusCreated, subscription)
	}
}

// ListSubscriptionsHandler handles subscription listing, optionally filtered
// by email
func ListSubscriptionsHandler(dbConn *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		subscriptions, err := service.ListSubscriptions(dbConn, strings.TrimSpace(c.Query("email")))
		if err != nil {
			log.Printf("Failed to fetch subscriptions: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		c.JSON(http.StatusOK, subscriptions)
	}
}

// DeleteSubscriptionHandler handles subscription deletion
func DeleteSubscriptionHandler(dbConn *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription ID"})
			return
		}

		if err := service.DeleteSubscription(dbConn, uint(id)); err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Subscription not found"})
				return
			}
			log.Printf("Failed to delete subscription %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Subscription deleted"})
	}
}
