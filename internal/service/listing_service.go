package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/MarianRusoiu99/auction-scraper/internal/db"
	"github.com/MarianRusoiu99/auction-scraper/internal/scraper"
)

// ListingFilter holds the query parameters for listing searches.
type ListingFilter struct {
	Category      string
	Status        string
	AuctionStatus string
	IsActive      *bool
	IsSold        *bool
	County        string
	City          string
	Search        string
	Page          int
	PageSize      int
}

// SearchListings applies the filter and returns one page of listings plus
// the total match count.
func SearchListings(dbConn *gorm.DB, filter ListingFilter) ([]db.Listing, int64, error) {
	query := dbConn.Model(&db.Listing{})

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.AuctionStatus != "" {
		query = query.Where("auction_status = ?", filter.AuctionStatus)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.IsSold != nil {
		query = query.Where("is_sold = ?", *filter.IsSold)
	}
	if filter.County != "" {
		query = query.Where("county = ?", filter.County)
	}
	if filter.City != "" {
		query = query.Where("city = ?", filter.City)
	}

	// Every whitespace-separated search term must match somewhere
	for _, term := range strings.Fields(filter.Search) {
		pattern := "%" + term + "%"
		query = query.Where(
			"title LIKE ? OR description LIKE ? OR category LIKE ? OR county LIKE ? OR city LIKE ?",
			pattern, pattern, pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var listings []db.Listing
	err := query.Order("created_at desc").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&listings).Error
	if err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

// GetListingByID retrieves a listing by ID
func GetListingByID(dbConn *gorm.DB, id uint) (*db.Listing, error) {
	var listing db.Listing
	if err := dbConn.First(&listing, id).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

// ListingStore adapts the database to the reconciler's persistence surface.
type ListingStore struct {
	db *gorm.DB
}

// NewListingStore creates a store over the given connection.
func NewListingStore(dbConn *gorm.DB) *ListingStore {
	return &ListingStore{db: dbConn}
}

// Exists reports whether a listing with the given detail URL is stored.
func (s *ListingStore) Exists(url string) (bool, error) {
	var count int64
	err := s.db.Model(&db.Listing{}).Where("detail_url = ?", url).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Insert stores a freshly extracted listing as a new row.
func (s *ListingStore) Insert(data *scraper.ListingData) error {
	listing, err := toModel(data)
	if err != nil {
		return err
	}
	return s.db.Create(listing).Error
}

// Update overwrites every mutable field of the row matched by url and clears
// any previously recorded scrape error. The detail URL itself never changes.
func (s *ListingStore) Update(url string, data *scraper.ListingData) error {
	listing, err := toModel(data)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"title":                 listing.Title,
		"category":              listing.Category,
		"status":                listing.Status,
		"auction_status":        listing.AuctionStatus,
		"auction_type":          listing.AuctionType,
		"starting_price":        listing.StartingPrice,
		"current_offer":         listing.CurrentOffer,
		"guarantee_amount":      listing.GuaranteeAmount,
		"bid_count":             listing.BidCount,
		"auction_start_date":    listing.AuctionStartDate,
		"auction_end_date":      listing.AuctionEndDate,
		"registration_deadline": listing.RegistrationDeadline,
		"viewing_deadline":      listing.ViewingDeadline,
		"county":                listing.County,
		"city":                  listing.City,
		"address":               listing.Address,
		"contact_person":        listing.ContactPerson,
		"contact_phone":         listing.ContactPhone,
		"contact_email":         listing.ContactEmail,
		"description":           listing.Description,
		"observations":          listing.Observations,
		"images":                listing.Images,
		"documents":             listing.Documents,
		"number_of_images":      listing.NumberOfImages,
		"is_active":             listing.IsActive,
		"is_sold":               listing.IsSold,
		"scrape_errors":         "",
	}
	return s.db.Model(&db.Listing{}).Where("detail_url = ?", url).Updates(updates).Error
}

// AttachError records the error text on an existing row with the same URL.
// Missing rows are not an error; there is simply nothing to attach to.
func (s *ListingStore) AttachError(url string, message string) error {
	return s.db.Model(&db.Listing{}).Where("detail_url = ?", url).
		Update("scrape_errors", message).Error
}

// toModel converts an extracted record into its database row.
func toModel(data *scraper.ListingData) (*db.Listing, error) {
	images, err := json.Marshal(orEmpty(data.Images))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal images: %w", err)
	}
	documents, err := json.Marshal(orEmpty(data.Documents))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal documents: %w", err)
	}

	return &db.Listing{
		Title:                data.Title,
		Category:             data.Category,
		Status:               data.Status,
		AuctionStatus:        data.AuctionStatus,
		AuctionType:          data.AuctionType,
		StartingPrice:        data.StartingPrice,
		CurrentOffer:         data.CurrentOffer,
		GuaranteeAmount:      data.GuaranteeAmount,
		BidCount:             data.BidCount,
		AuctionStartDate:     data.AuctionStartDate,
		AuctionEndDate:       data.AuctionEndDate,
		RegistrationDeadline: data.RegistrationDeadline,
		ViewingDeadline:      data.ViewingDeadline,
		County:               data.County,
		City:                 data.City,
		Address:              data.Address,
		ContactPerson:        data.ContactPerson,
		ContactPhone:         data.ContactPhone,
		ContactEmail:         data.ContactEmail,
		Description:          data.Description,
		Observations:         data.Observations,
		Images:               datatypes.JSON(images),
		Documents:            datatypes.JSON(documents),
		DetailURL:            data.DetailURL,
		NumberOfImages:       len(data.Images),
		IsActive:             data.IsActive,
		IsSold:               data.IsSold,
	}, nil
}

func orEmpty(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
