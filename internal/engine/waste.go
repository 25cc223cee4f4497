package engine

import (
	"fmt"
	"sort"

	"github.com/piwi3910/CargoStow/internal/model"
)

// IdentifyWaste refreshes waste flags against the current simulated date and
// reports every flagged item. An item can carry both reasons. Flagging is
// idempotent and never touches placements.
func (e *Engine) IdentifyWaste() model.WasteReport {
	report := model.WasteReport{WasteItems: []model.WasteItem{}}
	now := e.reg.CurrentDate()
	for _, item := range e.reg.Items() {
		if item.ExpiredAt(now) {
			item.MarkWaste(model.WasteExpired)
		}
		if item.UsageDepleted() {
			item.MarkWaste(model.WasteUsageDepleted)
		}
		if !item.IsWaste {
			continue
		}
		report.WasteItems = append(report.WasteItems, wasteSummary(item))
		report.TotalMass += item.Mass
	}
	sort.SliceStable(report.WasteItems, func(i, j int) bool {
		return report.WasteItems[i].ItemID < report.WasteItems[j].ItemID
	})
	return report
}

// PlanReturn selects waste for an undocking container under a mass cap.
// Staleness decides the order: expired items longest-expired first, depleted
// items after all expired ones, item id as the secondary key. The greedy pass
// skips items over the remaining budget and keeps going, so lighter stale
// items further down still make the load.
func (e *Engine) PlanReturn(containerID string, maxWeight float64) (model.ReturnPlan, error) {
	if e.reg.Container(containerID) == nil {
		return model.ReturnPlan{}, ErrInvalidContainer
	}
	if maxWeight <= 0 {
		return model.ReturnPlan{}, fmt.Errorf("%w: got %v", ErrInvalidWeight, maxWeight)
	}

	report := e.IdentifyWaste()
	var waste []*model.Item
	for _, w := range report.WasteItems {
		waste = append(waste, e.reg.Item(w.ItemID))
	}
	sortByStaleness(waste)

	plan := model.ReturnPlan{
		ContainerID:    containerID,
		MaxWeight:      maxWeight,
		ReturnItems:    []model.WasteItem{},
		Steps:          []model.RetrievalStep{},
		RemainingWaste: []model.WasteItem{},
	}
	for _, item := range waste {
		if plan.TotalMass+item.Mass <= maxWeight {
			plan.ReturnItems = append(plan.ReturnItems, wasteSummary(item))
			plan.TotalMass += item.Mass
		} else {
			plan.RemainingWaste = append(plan.RemainingWaste, wasteSummary(item))
		}
	}

	// Load sequence: stowed items are moved over, loose ones placed directly.
	// Items already in the undocking container need no step.
	for _, w := range plan.ReturnItems {
		if w.ContainerID == containerID {
			continue
		}
		step := model.RetrievalStep{
			Step:        len(plan.Steps) + 1,
			ItemID:      w.ItemID,
			ToContainer: containerID,
		}
		if w.ContainerID != "" {
			step.Action = model.StepMove
			step.FromContainer = w.ContainerID
		} else {
			step.Action = model.StepPlace
		}
		plan.Steps = append(plan.Steps, step)
	}
	return plan, nil
}

// sortByStaleness orders waste for return planning: expired before
// depleted-only, oldest expiry first, item id as the tie-break.
func sortByStaleness(items []*model.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		ae := a.HasWasteReason(model.WasteExpired)
		be := b.HasWasteReason(model.WasteExpired)
		if ae != be {
			return ae
		}
		if ae && be {
			if c := compareExpiry(a, b); c != 0 {
				return c < 0
			}
		}
		return a.ItemID < b.ItemID
	})
}

// CompleteUndocking confirms the physical departure of waste items: each
// confirmed item leaves its container (freeing volume) and is deleted from
// the registry. Items that are missing or not flagged as waste become
// per-item failures carrying the matching sentinel's message; the batch
// continues past them.
func (e *Engine) CompleteUndocking(containerID string, itemIDs []string) (model.UndockingResult, error) {
	if e.reg.Container(containerID) == nil {
		return model.UndockingResult{}, ErrInvalidContainer
	}
	result := model.UndockingResult{}
	for _, id := range itemIDs {
		item := e.reg.Item(id)
		if item == nil {
			result.Failures = append(result.Failures, model.UndockingFailure{
				ItemID: id,
				Reason: ErrItemNotFound.Error(),
			})
			continue
		}
		if !item.IsWaste {
			result.Failures = append(result.Failures, model.UndockingFailure{
				ItemID: id,
				Reason: ErrItemNotWaste.Error(),
			})
			continue
		}
		if item.Placement != nil {
			if cont := e.reg.Container(item.Placement.ContainerID); cont != nil {
				_ = e.space(cont).Remove(item)
			}
		}
		e.reg.DeleteItem(id)
		result.RemovedCount++
	}
	return result, nil
}
