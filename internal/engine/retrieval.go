package engine

import (
	"sort"
	"strings"

	"github.com/piwi3910/CargoStow/internal/model"
)

// PlanRetrieval computes the unblocking sequence for one placed item without
// mutating anything. A blocker sits in the same container, starts nearer the
// open face than the target's front face, and its width/height footprint
// overlaps the target's with positive area. Blockers come out nearest-first,
// the target is retrieved, then the blockers go back deepest-first to their
// original boxes.
func (e *Engine) PlanRetrieval(itemID string) (model.RetrievalPlan, error) {
	item := e.reg.Item(itemID)
	if item == nil {
		return model.RetrievalPlan{}, ErrItemNotFound
	}
	if item.Placement == nil {
		return model.RetrievalPlan{}, &NotPlacedError{ItemID: itemID}
	}

	blockers := e.blockersOf(item)
	plan := model.RetrievalPlan{
		ItemID:        itemID,
		Steps:         []model.RetrievalStep{},
		BlockersCount: len(blockers),
	}
	containerID := item.Placement.ContainerID

	step := 1
	for _, b := range blockers {
		plan.Steps = append(plan.Steps, model.RetrievalStep{
			Step:          step,
			Action:        model.StepRemove,
			ItemID:        b.ItemID,
			FromContainer: containerID,
		})
		step++
	}
	if len(blockers) > 0 {
		plan.Steps = append(plan.Steps, model.RetrievalStep{
			Step:          step,
			Action:        model.StepRetrieve,
			ItemID:        itemID,
			FromContainer: containerID,
		})
		step++
		for i := len(blockers) - 1; i >= 0; i-- {
			b := blockers[i]
			pos := b.Placement.Position
			rot := b.Placement.Rotation
			plan.Steps = append(plan.Steps, model.RetrievalStep{
				Step:        step,
				Action:      model.StepRestore,
				ItemID:      b.ItemID,
				ToContainer: containerID,
				Position:    &pos,
				Rotation:    &rot,
			})
			step++
		}
	}
	return plan, nil
}

// blockersOf returns the items blocking the target, ordered by ascending
// start depth with item id as the tie-break.
func (e *Engine) blockersOf(target *model.Item) []*model.Item {
	cont := e.reg.Container(target.Placement.ContainerID)
	if cont == nil {
		return nil
	}
	targetBox := target.Placement.Box()
	var blockers []*model.Item
	for _, id := range cont.Items {
		if id == target.ItemID {
			continue
		}
		other := e.reg.Item(id)
		if other == nil || other.Placement == nil {
			continue
		}
		box := other.Placement.Box()
		if box.Start.Y < targetBox.Start.Y && box.FootprintOverlaps(targetBox) {
			blockers = append(blockers, other)
		}
	}
	sort.SliceStable(blockers, func(i, j int) bool {
		a, b := blockers[i], blockers[j]
		if a.Placement.Position.Y != b.Placement.Position.Y {
			return a.Placement.Position.Y < b.Placement.Position.Y
		}
		return a.ItemID < b.ItemID
	})
	return blockers
}

// RetrieveItem executes a retrieval: the item leaves its container, its
// volume is freed, and when a usage limit is present one use is consumed.
// Hitting zero remaining uses flags the item as usage-depleted waste.
func (e *Engine) RetrieveItem(itemID string) (*model.Item, error) {
	item := e.reg.Item(itemID)
	if item == nil {
		return nil, ErrItemNotFound
	}
	if item.Placement == nil {
		return nil, &NotPlacedError{ItemID: itemID}
	}
	cont := e.reg.Container(item.Placement.ContainerID)
	if cont == nil {
		return nil, ErrInvalidContainer
	}
	if err := e.space(cont).Remove(item); err != nil {
		return nil, err
	}
	if item.UsageLimit != nil && *item.UsageLimit > 0 {
		*item.UsageLimit--
		if *item.UsageLimit == 0 {
			item.MarkWaste(model.WasteUsageDepleted)
		}
	}
	return item, nil
}

// SearchItems finds placed items by exact id or name substring
// (case-insensitive) and reports their locations with retrieval effort,
// sorted easiest-to-reach first, then soonest expiry, then priority
// descending, then id.
func (e *Engine) SearchItems(itemID, itemName string) []model.ItemLocation {
	locations := []model.ItemLocation{}
	for _, item := range e.reg.Items() {
		if item.Placement == nil {
			continue
		}
		if itemID != "" && item.ItemID != itemID {
			continue
		}
		if itemName != "" && !strings.Contains(strings.ToLower(item.Name), strings.ToLower(itemName)) {
			continue
		}
		cont := e.reg.Container(item.Placement.ContainerID)
		if cont == nil {
			continue
		}
		blockers := e.blockersOf(item)
		loc := model.ItemLocation{
			ItemID:         item.ItemID,
			Name:           item.Name,
			ContainerID:    cont.ContainerID,
			Zone:           cont.Zone,
			Position:       item.Placement.Position,
			Rotation:       item.Placement.Rotation,
			RetrievalSteps: len(blockers),
		}
		for _, b := range blockers {
			loc.BlockedBy = append(loc.BlockedBy, b.ItemID)
		}
		locations = append(locations, loc)
	}
	sort.SliceStable(locations, func(i, j int) bool {
		a, b := locations[i], locations[j]
		if a.RetrievalSteps != b.RetrievalSteps {
			return a.RetrievalSteps < b.RetrievalSteps
		}
		ia, ib := e.reg.Item(a.ItemID), e.reg.Item(b.ItemID)
		if c := compareExpiry(ia, ib); c != 0 {
			return c < 0
		}
		if ia.Priority != ib.Priority {
			return ia.Priority > ib.Priority
		}
		return a.ItemID < b.ItemID
	})
	return locations
}
