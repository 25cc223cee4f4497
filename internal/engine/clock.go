package engine

import (
	"fmt"
	"time"

	"github.com/piwi3910/CargoStow/internal/model"
)

// SimulateDays advances the simulated clock by whole days. Each day consumes
// one use from every listed active item that carries a usage limit, flooring
// at zero; waste-flagged items are inert and never consume uses. After the
// clock lands, every item whose expiry lies at or before the new date is
// flagged expired. The result reports only items newly flagged by this call.
// Geometry never changes.
func (e *Engine) SimulateDays(days int, itemsUsedPerDay []string) (model.SimulationResult, error) {
	if days < 1 {
		return model.SimulationResult{}, fmt.Errorf("%w: got %d", ErrInvalidDayCount, days)
	}

	result := model.SimulationResult{
		ExpiredItems:  []model.WasteItem{},
		DepletedItems: []model.WasteItem{},
	}
	depleted := make(map[string]bool)

	for day := 0; day < days; day++ {
		for _, id := range itemsUsedPerDay {
			item := e.reg.Item(id)
			if item == nil || item.IsWaste || item.UsageLimit == nil || *item.UsageLimit <= 0 {
				continue
			}
			*item.UsageLimit--
			if *item.UsageLimit == 0 && !item.HasWasteReason(model.WasteUsageDepleted) {
				item.MarkWaste(model.WasteUsageDepleted)
				depleted[id] = true
			}
		}
	}

	newDate := e.reg.CurrentDate().AddDate(0, 0, days)
	e.reg.SetCurrentDate(newDate)
	result.NewDate = newDate

	for _, item := range e.reg.Items() {
		if item.ExpiryDate != nil && !item.ExpiryDate.After(newDate) && !item.HasWasteReason(model.WasteExpired) {
			item.MarkWaste(model.WasteExpired)
			result.ExpiredItems = append(result.ExpiredItems, wasteSummary(item))
		}
		if depleted[item.ItemID] {
			result.DepletedItems = append(result.DepletedItems, wasteSummary(item))
		}
	}
	return result, nil
}

// DaysUntil converts a target timestamp into a whole day count from the
// current simulated date, rounding partial days up. Targets at or before the
// current date yield zero.
func (e *Engine) DaysUntil(target time.Time) int {
	delta := target.Sub(e.reg.CurrentDate())
	if delta <= 0 {
		return 0
	}
	days := int(delta / (24 * time.Hour))
	if delta%(24*time.Hour) != 0 {
		days++
	}
	return days
}
