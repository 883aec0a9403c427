package db

import (
	"time"

	"gorm.io/datatypes"
)

// Listing statuses derived from the listing title.
const (
	StatusNotAdjudicated = "NEADJUDECAT"
	StatusAdjudicated    = "ADJUDECAT"
	StatusActive         = "Active"
)

// Auction statuses derived from the countdown widget and closing text.
const (
	AuctionActive     = "Active"
	AuctionNotStarted = "Not Started"
	AuctionClosed     = "Closed"
)

// Listing represents one scraped auction listing. DetailURL is the only
// identity key; every other field is overwritten on re-scrape.
type Listing struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"index;size:512" json:"title"`
	Category string `gorm:"index;size:255" json:"category"`

	Status        string `gorm:"index;size:32" json:"status"`         // NEADJUDECAT, ADJUDECAT, Active
	AuctionStatus string `gorm:"index;size:32" json:"auction_status"` // Active, Not Started, Closed
	AuctionType   string `gorm:"size:255" json:"auction_type"`

	// Prices stay as display strings; the site formats them inconsistently.
	StartingPrice   string `gorm:"size:255" json:"starting_price"`
	CurrentOffer    string `gorm:"size:255" json:"current_offer"`
	GuaranteeAmount string `gorm:"size:255" json:"guarantee_amount"`

	BidCount int `gorm:"default:0" json:"bid_count"`

	AuctionStartDate     *time.Time `json:"auction_start_date"`
	AuctionEndDate       *time.Time `json:"auction_end_date"`
	RegistrationDeadline *time.Time `json:"registration_deadline"`
	ViewingDeadline      *time.Time `json:"viewing_deadline"`

	County  string `gorm:"index;size:255" json:"county"`
	City    string `gorm:"index;size:255" json:"city"`
	Address string `gorm:"type:text" json:"address"`

	ContactPerson string `gorm:"size:255" json:"contact_person"`
	ContactPhone  string `gorm:"size:255" json:"contact_phone"`
	ContactEmail  string `gorm:"size:255" json:"contact_email"`

	Description  string `gorm:"type:text" json:"description"`
	Observations string `gorm:"type:text" json:"observations"`

	Images    datatypes.JSON `json:"images"`
	Documents datatypes.JSON `json:"documents"`

	DetailURL      string `gorm:"uniqueIndex;not null;size:768" json:"detail_url"`
	NumberOfImages int    `gorm:"default:0" json:"number_of_images"`

	ScrapeErrors string `gorm:"type:text" json:"scrape_errors"`
	IsActive     bool   `gorm:"index;default:true" json:"is_active"`
	IsSold       bool   `gorm:"index;default:false" json:"is_sold"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Subscription stores an email address plus the filter criteria it wants
// matched against new listings.
type Subscription struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Email     string         `gorm:"index;not null;size:255" json:"email"`
	Filters   datatypes.JSON `json:"filters"`
	CreatedAt time.Time      `json:"created_at"`
}

// User represents an authenticated admin user
type User struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null;size:100" json:"username"`
	Password  string    `gorm:"not null;size:255" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
