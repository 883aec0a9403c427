package scheduler

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/MarianRusoiu99/auction-scraper/internal/scraper"
	"github.com/MarianRusoiu99/auction-scraper/internal/service"
)

// Scheduler runs the daily scrape on a cron timer. Each trigger builds a
// fresh orchestrator so runs never share fetcher or reconciler state.
type Scheduler struct {
	cron *cron.Cron
	db   *gorm.DB
	hour int
}

// New creates a scheduler with the daily scrape hour taken from
// DAILY_SCRAPE_HOUR (default 3).
func New(dbConn *gorm.DB) *Scheduler {
	hour := 3
	if v := os.Getenv("DAILY_SCRAPE_HOUR"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 && parsed <= 23 {
			hour = parsed
		}
	}
	return &Scheduler{
		cron: cron.New(),
		db:   dbConn,
		hour: hour,
	}
}

// Start registers the daily job and starts the cron loop.
func (s *Scheduler) Start() error {
	spec := fmt.Sprintf("0 %d * * *", s.hour)
	_, err := s.cron.AddFunc(spec, func() {
		log.Println("Running daily scheduled scrape")
		config := scraper.NewConfig()
		orchestrator := scraper.NewOrchestrator(config, service.NewListingStore(s.db))
		orchestrator.Run(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule daily scrape: %w", err)
	}

	s.cron.Start()
	log.Printf("Scheduler started. Daily scrape at %02d:00", s.hour)
	return nil
}

// Stop halts the cron loop; a run already in flight finishes on its own.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("Scheduler stopped")
}
