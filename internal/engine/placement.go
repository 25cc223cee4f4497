package engine

import (
	"sort"

	"github.com/piwi3910/CargoStow/internal/model"
)

// RecommendPlacement plans placements for a batch of unplaced, non-waste
// items. Items are processed in a deterministic order (priority descending,
// soonest expiry first, item id); each either lands directly, lands after a
// bounded rearrangement of lower-priority items, or is reported unplaced.
// Per-item failures never abort the batch. The registry is mutated only by
// committed placements; every exploratory step of a failed rearrangement
// chain is rolled back.
func (e *Engine) RecommendPlacement(itemIDs []string) model.PlacementPlan {
	plan := model.PlacementPlan{
		Placements:     []model.ItemPlacement{},
		Rearrangements: []model.RearrangementMove{},
		Unplaced:       []model.UnplacedItem{},
	}

	var targets []*model.Item
	seen := make(map[string]bool)
	for _, id := range itemIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		item := e.reg.Item(id)
		if item == nil {
			plan.Unplaced = append(plan.Unplaced, model.UnplacedItem{
				ItemID: id,
				Reason: model.ReasonItemNotFound,
			})
			continue
		}
		if item.IsWaste || item.Placement != nil {
			continue
		}
		targets = append(targets, item)
	}

	sortByPlacementOrder(targets)

	sess := &planSession{engine: e, plan: &plan}
	for _, item := range targets {
		visited := make(map[string]bool)
		if !sess.placeItem(item, visited) {
			plan.Unplaced = append(plan.Unplaced, model.UnplacedItem{
				ItemID: item.ItemID,
				Reason: model.ReasonNoCapacity,
			})
		}
	}
	return plan
}

// sortByPlacementOrder sorts items by priority descending, then expiry date
// ascending with never-expiring items last, then item id ascending.
func sortByPlacementOrder(items []*model.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if c := compareExpiry(a, b); c != 0 {
			return c < 0
		}
		return a.ItemID < b.ItemID
	})
}

// compareExpiry orders by expiry ascending; items with no expiry sort after
// those with one.
func compareExpiry(a, b *model.Item) int {
	switch {
	case a.ExpiryDate == nil && b.ExpiryDate == nil:
		return 0
	case a.ExpiryDate == nil:
		return 1
	case b.ExpiryDate == nil:
		return -1
	case a.ExpiryDate.Before(*b.ExpiryDate):
		return -1
	case b.ExpiryDate.Before(*a.ExpiryDate):
		return 1
	default:
		return 0
	}
}

// undoRecord reverses one tentative occupancy mutation.
type undoRecord struct {
	place       bool // true: undo by removing; false: undo by re-placing
	itemID      string
	containerID string
	position    model.Position
	rotation    model.Dimensions
}

// planSession accumulates committed results and an undo log so a failed
// rearrangement chain can be unwound without touching earlier commitments.
type planSession struct {
	engine *Engine
	plan   *model.PlacementPlan
	undo   []undoRecord
}

// sessionMark captures the session state for a later rollback.
type sessionMark struct {
	undo, placements, rearrangements int
}

func (s *planSession) mark() sessionMark {
	return sessionMark{
		undo:           len(s.undo),
		placements:     len(s.plan.Placements),
		rearrangements: len(s.plan.Rearrangements),
	}
}

// rollback unwinds every occupancy mutation and result entry made after the
// mark, newest first.
func (s *planSession) rollback(m sessionMark) {
	for i := len(s.undo) - 1; i >= m.undo; i-- {
		rec := s.undo[i]
		cont := s.engine.reg.Container(rec.containerID)
		item := s.engine.reg.Item(rec.itemID)
		sp := s.engine.space(cont)
		if rec.place {
			_ = sp.Remove(item)
		} else {
			_ = sp.Place(item, rec.rotation, rec.position)
		}
	}
	s.undo = s.undo[:m.undo]
	s.plan.Placements = s.plan.Placements[:m.placements]
	s.plan.Rearrangements = s.plan.Rearrangements[:m.rearrangements]
}

func (s *planSession) place(item *model.Item, sp *Space, cand Candidate) bool {
	if err := sp.Place(item, cand.Rotation, cand.Position); err != nil {
		return false
	}
	s.undo = append(s.undo, undoRecord{
		place:       true,
		itemID:      item.ItemID,
		containerID: sp.Container().ContainerID,
		position:    cand.Position,
		rotation:    cand.Rotation,
	})
	return true
}

func (s *planSession) remove(item *model.Item, sp *Space) bool {
	pl := item.Placement
	if pl == nil {
		return false
	}
	rec := undoRecord{
		itemID:      item.ItemID,
		containerID: pl.ContainerID,
		position:    pl.Position,
		rotation:    pl.Rotation,
	}
	if err := sp.Remove(item); err != nil {
		return false
	}
	s.undo = append(s.undo, rec)
	return true
}

// placeItem places one batch item. A near-door item whose best direct slot
// sits behind other cargo first tries a rearrangement to free the front;
// when that fails, or yields nothing shallower, the direct slot is kept.
func (s *planSession) placeItem(item *model.Item, visited map[string]bool) bool {
	cont, cand, direct := s.findDirect(item, "")

	if direct && s.engine.nearDoor(item) && cand.Position.Y > 0 {
		m := s.mark()
		if s.rearrange(item, "", "", visited) {
			if item.Placement != nil && item.Placement.Position.Y < cand.Position.Y {
				return true
			}
			s.rollback(m)
		}
	}
	if direct {
		if s.place(item, s.engine.space(cont), cand) {
			s.record(item, cont.ContainerID, cand, "")
			return true
		}
	}
	return s.rearrange(item, "", "", visited)
}

// findDirect returns the first container admitting the item and the best
// candidate within it, without committing anything.
func (s *planSession) findDirect(item *model.Item, excludeContainer string) (*model.Container, Candidate, bool) {
	for _, cont := range s.engine.orderedContainers(item, excludeContainer) {
		if cand, ok := s.engine.space(cont).FindPlacement(item, s.engine.nearDoor(item)); ok {
			return cont, cand, true
		}
	}
	return nil, Candidate{}, false
}

// placeDirect commits the first fitting candidate over the ordered container
// list. displacedFrom tags the result as a rearrangement move when set.
func (s *planSession) placeDirect(item *model.Item, excludeContainer, displacedFrom string) bool {
	cont, cand, ok := s.findDirect(item, excludeContainer)
	if !ok {
		return false
	}
	if !s.place(item, s.engine.space(cont), cand) {
		return false
	}
	s.record(item, cont.ContainerID, cand, displacedFrom)
	return true
}

// record appends the committed move to the appropriate result list.
func (s *planSession) record(item *model.Item, containerID string, cand Candidate, displacedFrom string) {
	if displacedFrom != "" {
		s.plan.Rearrangements = append(s.plan.Rearrangements, model.RearrangementMove{
			ItemID:        item.ItemID,
			FromContainer: displacedFrom,
			ToContainer:   containerID,
			NewPosition:   cand.Position,
			NewRotation:   cand.Rotation,
		})
		return
	}
	s.plan.Placements = append(s.plan.Placements, model.ItemPlacement{
		ItemID:      item.ItemID,
		ContainerID: containerID,
		Position:    cand.Position,
		Rotation:    cand.Rotation,
	})
}

// rearrange frees space for item by evicting lower-priority items from the
// container with the largest shortfall-adjusted free volume. Evicted items
// are re-placed elsewhere before the chain is finalized; if any of them
// cannot be placed, the whole chain rolls back and the item stays unplaced.
// excludeContainer keeps a displaced item out of the container it was just
// evicted from; displacedFrom tags the result as a relocation.
func (s *planSession) rearrange(item *model.Item, excludeContainer, displacedFrom string, visited map[string]bool) bool {
	cont := s.engine.rearrangeTarget(item, excludeContainer, visited)
	if cont == nil {
		return false
	}
	sp := s.engine.space(cont)
	victims := s.engine.evictionOrder(cont, item, visited)

	m := s.mark()
	var removed []*model.Item
	for _, victim := range victims {
		if !s.remove(victim, sp) {
			continue
		}
		removed = append(removed, victim)

		cand, ok := sp.FindPlacement(item, s.engine.nearDoor(item))
		if !ok {
			continue
		}
		if !s.place(item, sp, cand) {
			continue
		}
		s.record(item, cont.ContainerID, cand, displacedFrom)

		for _, ev := range removed {
			visited[ev.ItemID] = true
			if !s.placeDisplaced(ev, cont.ContainerID, visited) {
				s.rollback(m)
				return false
			}
		}
		return true
	}

	s.rollback(m)
	return false
}

// placeDisplaced re-homes an evicted item anywhere but the container it was
// evicted from, recording the move as a rearrangement. A displaced item may
// itself push a lower-priority item aside; the shared visited set keeps the
// chain finite.
func (s *planSession) placeDisplaced(item *model.Item, fromContainer string, visited map[string]bool) bool {
	if s.placeDirect(item, fromContainer, fromContainer) {
		return true
	}
	return s.rearrange(item, fromContainer, fromContainer, visited)
}

// orderedContainers returns candidate containers for an item: those matching
// the preferred zone first, then the rest, each group sorted by ascending
// free volume after placement (tightest fit first) with container id as the
// tie-break. Containers without room for the item's volume are skipped.
func (e *Engine) orderedContainers(item *model.Item, excludeContainer string) []*model.Container {
	vol := item.Volume()
	var preferred, others []*model.Container
	for _, c := range e.reg.Containers() {
		if c.ContainerID == excludeContainer {
			continue
		}
		if c.AvailableVolume() < vol {
			continue
		}
		if item.PreferredZone != "" && c.Zone == item.PreferredZone {
			preferred = append(preferred, c)
		} else {
			others = append(others, c)
		}
	}
	byTightestFit := func(group []*model.Container) {
		sort.SliceStable(group, func(i, j int) bool {
			a := group[i].AvailableVolume() - vol
			b := group[j].AvailableVolume() - vol
			if a != b {
				return a < b
			}
			return group[i].ContainerID < group[j].ContainerID
		})
	}
	byTightestFit(preferred)
	byTightestFit(others)
	return append(preferred, others...)
}

// rearrangeTarget picks the container with the largest shortfall-adjusted
// free volume that still has evictable lower-priority items. Nearly full
// containers are skipped.
func (e *Engine) rearrangeTarget(item *model.Item, excludeContainer string, visited map[string]bool) *model.Container {
	var best *model.Container
	bestScore := 0.0
	for _, c := range e.reg.Containers() {
		if c.ContainerID == excludeContainer {
			continue
		}
		if c.Volume() > 0 && c.OccupiedVolume/c.Volume() > e.tuning.FullContainerRatio {
			continue
		}
		if len(e.evictionOrder(c, item, visited)) == 0 {
			continue
		}
		score := c.AvailableVolume() - item.Volume()
		if best == nil || score > bestScore || (score == bestScore && c.ContainerID < best.ContainerID) {
			best = c
			bestScore = score
		}
	}
	return best
}

// evictionOrder lists the container's placed items with priority strictly
// below the incoming item's, sorted ascending by priority, then soonest
// expiry, then item id. Items already displaced this call are excluded.
func (e *Engine) evictionOrder(c *model.Container, incoming *model.Item, visited map[string]bool) []*model.Item {
	var victims []*model.Item
	for _, id := range c.Items {
		placed := e.reg.Item(id)
		if placed == nil || placed.Placement == nil {
			continue
		}
		if visited[id] || placed.Priority >= incoming.Priority {
			continue
		}
		victims = append(victims, placed)
	}
	sort.SliceStable(victims, func(i, j int) bool {
		a, b := victims[i], victims[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		if c := compareExpiry(a, b); c != 0 {
			return c < 0
		}
		return a.ItemID < b.ItemID
	})
	return victims
}
