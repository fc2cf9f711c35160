// Command sweep runs one expiry pass over the bookings and exits. It is meant
// for cron when SWEEP_ENABLED is off in the API process.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"hotel/internal/config"
	"hotel/internal/database"
	"hotel/internal/domain"
	"hotel/internal/modules/booking"
	"hotel/internal/repository"
)

func main() {
	date := flag.String("date", "", "sweep as of this date (YYYY-MM-DD); defaults to today")
	timeout := flag.Duration("timeout", 5*time.Minute, "abort the sweep after this long")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("level=fatal msg=\"invalid config\" err=%v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL, cfg.DBLogLevel)
	if err != nil {
		log.Fatalf("level=fatal msg=\"db connect failed\" err=%v", err)
	}

	sweeper := booking.NewSweeper(booking.NewStore(repository.NewBookingRepository(db)))
	today := sweeper.Today()
	if *date != "" {
		today, err = domain.ParseDate(*date)
		if err != nil {
			log.Fatalf("level=fatal msg=\"invalid -date\" value=%q err=%v", *date, err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	res, err := sweeper.Sweep(ctx, today)
	if err != nil {
		log.Fatalf("level=fatal msg=\"sweep failed\" err=%v", err)
	}
	log.Printf("level=info msg=\"sweep finished\" today=%s released=%d failed=%d", today, res.Released, res.Failed)
}
