package api

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/MarianRusoiu99/auction-scraper/internal/scraper"
	"github.com/MarianRusoiu99/auction-scraper/internal/service"
)

// PaginatedResponse represents a paginated response
type PaginatedResponse struct {
	Data  interface{} `json:"data"`
	Page  int         `json:"page"`
	Size  int         `json:"size"`
	Total int64       `json:"total"`
	Pages int         `json:"pages"`
}

// ListListingsHandler handles listing search with filters and pagination
func ListListingsHandler(dbConn *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
		if err != nil || page < 1 {
			page = 1
		}
		pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
		if err != nil || pageSize < 1 || pageSize > 100 {
			pageSize = 20
		}

		filter := service.ListingFilter{
			Category:      strings.TrimSpace(c.Query("category")),
			Status:        strings.TrimSpace(c.Query("status")),
			AuctionStatus: strings.TrimSpace(c.Query("auction_status")),
			County:        strings.TrimSpace(c.Query("county")),
			City:          strings.TrimSpace(c.Query("city")),
			Search:        strings.TrimSpace(c.Query("search")),
			Page:          page,
			PageSize:      pageSize,
		}
		filter.IsActive = parseBoolQuery(c, "is_active")
		filter.IsSold = parseBoolQuery(c, "is_sold")

		listings, total, err := service.SearchListings(dbConn, filter)
		if err != nil {
			log.Printf("Failed to fetch listings: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		pages := int((total + int64(pageSize) - 1) / int64(pageSize))
		c.JSON(http.StatusOK, PaginatedResponse{
			Data:  listings,
			Page:  page,
			Size:  pageSize,
			Total: total,
			Pages: pages,
		})
	}
}

// GetListingHandler handles retrieving a single listing
func GetListingHandler(dbConn *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing ID"})
			return
		}

		listing, err := service.GetListingByID(dbConn, uint(id))
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
				return
			}
			log.Printf("Failed to fetch listing %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.JSON(http.StatusOK, listing)
	}
}

// TriggerScrapeHandler starts a scrape run in the background. Overlapping
// runs are allowed; they race benignly on rows keyed by detail URL.
func TriggerScrapeHandler(dbConn *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		config := scraper.NewConfig()
		orchestrator := scraper.NewOrchestrator(config, service.NewListingStore(dbConn))

		go orchestrator.Run(context.Background())

		c.JSON(http.StatusAccepted, gin.H{"message": "Scraping started in background"})
	}
}

// parseBoolQuery reads an optional boolean query parameter, nil when absent
// or malformed.
func parseBoolQuery(c *gin.Context, name string) *bool {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &value
}
