package scraper

import "time"

// ListingRef is a lightweight reference produced by the index scraper: the
// detail page URL plus a category hint when the index box carries one.
type ListingRef struct {
	DetailURL string
	Category  string
}

// ListingData is the fully extracted record for one detail page. String
// fields are empty when the page had no locatable value; date fields stay
// nil. Prices are display strings, not numbers.
type ListingData struct {
	DetailURL string
	Title     string
	Category  string

	Status        string
	AuctionStatus string
	AuctionType   string

	StartingPrice   string
	CurrentOffer    string
	GuaranteeAmount string
	BidCount        int

	AuctionStartDate     *time.Time
	AuctionEndDate       *time.Time
	RegistrationDeadline *time.Time
	ViewingDeadline      *time.Time

	County  string
	City    string
	Address string

	ContactPerson string
	ContactPhone  string
	ContactEmail  string

	Description  string
	Observations string

	Images    []string
	Documents []string

	IsActive bool
	IsSold   bool
}
