// services/scheduler.go
package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Tick cadences. Energy regenerates one point per interval; the market
// reprices a few times per hour.
const (
	EnergyTickInterval    = 72 * time.Second
	MarketRefreshInterval = 15 * time.Minute
)

// StartScheduler wires the background loops: passive energy regen and market
// repricing. Returns the scheduler so main can shut it down.
func StartScheduler(economy *EconomyService) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(EnergyTickInterval),
		gocron.NewTask(func() {
			economy.TickEnergy()
		}),
	)
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(MarketRefreshInterval),
		gocron.NewTask(func() {
			if err := economy.RefreshMarket(); err != nil {
				log.Printf("[Scheduler] Market refresh failed: %v", err)
			} else {
				log.Printf("✅ Market repriced")
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	sched.Start()
	return sched, nil
}
