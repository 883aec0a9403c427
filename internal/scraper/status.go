package scraper

import (
	"strings"

	"github.com/MarianRusoiu99/auction-scraper/internal/db"
)

// statusInfo is the full status tuple carried through the override pipeline.
type statusInfo struct {
	Status        string
	AuctionStatus string
	IsActive      bool
	IsSold        bool
}

// inferBaseStatus derives the initial status from the listing title. The
// NEADJUDECAT check must run first: "NEADJUDECAT" contains "ADJUDECAT".
func inferBaseStatus(title string) statusInfo {
	info := statusInfo{IsActive: true, IsSold: false}
	upper := strings.ToUpper(title)

	switch {
	case strings.Contains(upper, db.StatusNotAdjudicated):
		info.Status = db.StatusNotAdjudicated
	case strings.Contains(upper, db.StatusAdjudicated):
		info.Status = db.StatusAdjudicated
		info.IsSold = true
		info.IsActive = false
	default:
		info.Status = db.StatusActive
	}
	return info
}

// applyCountdownOverride applies the countdown widget's status signal: a
// not-yet-started widget forces the listing inactive, otherwise the auction
// counts as running.
func applyCountdownOverride(info statusInfo, notStarted bool) statusInfo {
	if notStarted {
		info.AuctionStatus = db.AuctionNotStarted
		info.IsActive = false
	} else {
		info.AuctionStatus = db.AuctionActive
	}
	return info
}

// applyClosedOverride applies the closing-text signal. A closed auction is
// never active; closed without the adjudicated marker means the item did not
// sell, overriding any earlier sold inference.
func applyClosedOverride(info statusInfo) statusInfo {
	info.AuctionStatus = db.AuctionClosed
	info.IsActive = false
	if info.Status != db.StatusAdjudicated {
		info.IsSold = false
	}
	return info
}
