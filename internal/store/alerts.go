package store

import (
	"time"

	"github.com/junwei-lu/pricelens/internal/models"
)

// Alerts manages price alerts and matches them against fresh results.
type Alerts struct {
	repo Repository[PriceAlert]
}

func NewAlerts(repo Repository[PriceAlert]) *Alerts {
	return &Alerts{repo: repo}
}

func (a *Alerts) List() ([]PriceAlert, error) {
	return a.repo.Load()
}

func (a *Alerts) Add(alert PriceAlert) error {
	items, err := a.repo.Load()
	if err != nil {
		return err
	}
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now()
	}
	return a.repo.Save(append(items, alert))
}

// Check marks alerts whose product appears in results at or below the
// target price, persists the updated state, and returns the alerts that
// fired on this pass.
func (a *Alerts) Check(results []models.Product) ([]PriceAlert, error) {
	alerts, err := a.repo.Load()
	if err != nil {
		return nil, err
	}

	var fired []PriceAlert
	changed := false
	for i := range alerts {
		if alerts[i].Triggered {
			continue
		}
		for _, p := range results {
			if p.ProductURL == alerts[i].ProductURL && p.Price <= alerts[i].TargetPrice {
				alerts[i].Triggered = true
				fired = append(fired, alerts[i])
				changed = true
				break
			}
		}
	}

	if changed {
		if err := a.repo.Save(alerts); err != nil {
			return fired, err
		}
	}
	return fired, nil
}
