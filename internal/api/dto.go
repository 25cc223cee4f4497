package api

import (
	"fmt"
	"time"

	"github.com/piwi3910/CargoStow/internal/model"
)

// containerRequest is the registration payload for one container.
type containerRequest struct {
	ContainerID string  `json:"containerId"`
	Zone        string  `json:"zone"`
	Width       float64 `json:"width"`
	Depth       float64 `json:"depth"`
	Height      float64 `json:"height"`
}

func (r containerRequest) toModel() model.Container {
	return model.NewContainer(r.ContainerID, r.Zone, r.Width, r.Depth, r.Height)
}

// itemRequest is the registration payload for one item. ExpiryDate accepts a
// plain date (2006-01-02) or RFC 3339.
type itemRequest struct {
	ItemID        string  `json:"itemId"`
	Name          string  `json:"name"`
	Width         float64 `json:"width"`
	Depth         float64 `json:"depth"`
	Height        float64 `json:"height"`
	Mass          float64 `json:"mass"`
	Priority      int     `json:"priority"`
	ExpiryDate    string  `json:"expiryDate,omitempty"`
	UsageLimit    *int    `json:"usageLimit,omitempty"`
	PreferredZone string  `json:"preferredZone,omitempty"`
}

func (r itemRequest) toModel() (model.Item, error) {
	item := model.NewItem(r.ItemID, r.Name, r.Width, r.Depth, r.Height, r.Mass, r.Priority)
	item.PreferredZone = r.PreferredZone
	if r.UsageLimit != nil {
		limit := *r.UsageLimit
		item.UsageLimit = &limit
	}
	if r.ExpiryDate != "" {
		t, err := parseDate(r.ExpiryDate)
		if err != nil {
			return model.Item{}, fmt.Errorf("expiryDate: %w", err)
		}
		item.ExpiryDate = &t
	}
	return item, nil
}

// parseDate accepts a plain date or a full RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected 2006-01-02 or RFC 3339, got %q", s)
	}
	return t, nil
}

type placementRequest struct {
	ItemIDs []string `json:"itemIds"`
}

type retrievalRequest struct {
	ItemID string `json:"itemId"`
}

type returnPlanRequest struct {
	ContainerID string  `json:"containerId"`
	MaxWeight   float64 `json:"maxWeight"`
}

type undockingRequest struct {
	ContainerID string   `json:"containerId"`
	ItemIDs     []string `json:"itemIds"`
}

// simulateRequest advances the clock by a day count or up to a timestamp.
// Exactly one of NumOfDays and ToTimestamp should be set.
type simulateRequest struct {
	NumOfDays           int      `json:"numOfDays,omitempty"`
	ToTimestamp         string   `json:"toTimestamp,omitempty"`
	ItemsToBeUsedPerDay []string `json:"itemsToBeUsedPerDay,omitempty"`
}
