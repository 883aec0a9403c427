package service

import (
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/MarianRusoiu99/auction-scraper/internal/db"
)

// CreateSubscription stores an email subscription with its filter criteria.
func CreateSubscription(dbConn *gorm.DB, email string, filters datatypes.JSON) (*db.Subscription, error) {
	if email == "" {
		return nil, fmt.Errorf("email cannot be empty")
	}

	subscription := db.Subscription{
		Email:   email,
		Filters: filters,
	}
	if err := dbConn.Create(&subscription).Error; err != nil {
		return nil, err
	}
	return &subscription, nil
}

// ListSubscriptions returns all subscriptions, optionally filtered by email.
func ListSubscriptions(dbConn *gorm.DB, email string) ([]db.Subscription, error) {
	query := dbConn.Model(&db.Subscription{})
	if email != "" {
		query = query.Where("email = ?", email)
	}

	var subscriptions []db.Subscription
	if err := query.Find(&subscriptions).Error; err != nil {
		return nil, err
	}
	return subscriptions, nil
}

// DeleteSubscription removes a subscription by ID.
func DeleteSubscription(dbConn *gorm.DB, id uint) error {
	result := dbConn.Delete(&db.Subscription{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
