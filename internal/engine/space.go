// Package engine implements the spatial allocation and retrieval engine:
// the per-container occupancy model, the placement and retrieval planners,
// the waste manager, and the simulation clock. All operations are synchronous
// and mutate only the registry handed to the engine; callers serialize
// concurrent access.
package engine

import (
	"fmt"

	"github.com/piwi3910/CargoStow/internal/model"
)

// Geometric tolerance in cm for fit and overlap checks.
const eps = 0.001

// Space is the occupancy model of a single container: box math against the
// items currently placed in it, extreme-point candidate generation, and the
// place/remove mutations that keep the invariants.
type Space struct {
	container *model.Container
	lookup    func(id string) *model.Item
}

// NewSpace builds the occupancy view of a container. lookup resolves item ids
// from the owning registry.
func NewSpace(c *model.Container, lookup func(id string) *model.Item) *Space {
	return &Space{container: c, lookup: lookup}
}

// Container returns the underlying container.
func (s *Space) Container() *model.Container {
	return s.container
}

type placedBox struct {
	itemID string
	box    model.Box
}

// placedBoxes returns the boxes of all items placed in this container, in
// the container's item-list order.
func (s *Space) placedBoxes() []placedBox {
	boxes := make([]placedBox, 0, len(s.container.Items))
	for _, id := range s.container.Items {
		item := s.lookup(id)
		if item == nil || item.Placement == nil || item.Placement.ContainerID != s.container.ContainerID {
			continue
		}
		boxes = append(boxes, placedBox{itemID: id, box: item.Placement.Box()})
	}
	return boxes
}

// Fits reports whether a box with the given oriented dimensions at the given
// start position lies inside the container and overlaps no placed item.
// Touching faces are allowed.
func (s *Space) Fits(dims model.Dimensions, start model.Position) bool {
	box := model.NewBox(start, dims)
	bounds := s.container.Bounds()
	if box.Start.X < -eps || box.Start.Y < -eps || box.Start.Z < -eps {
		return false
	}
	if box.End.X > bounds.End.X+eps || box.End.Y > bounds.End.Y+eps || box.End.Z > bounds.End.Z+eps {
		return false
	}
	for _, pb := range s.placedBoxes() {
		if shrink(box).Overlaps(pb.box) {
			return false
		}
	}
	return true
}

// shrink pulls a box in by the tolerance on every axis so that exactly
// touching faces never register as overlap under float noise.
func shrink(b model.Box) model.Box {
	return model.Box{
		Start: model.Position{X: b.Start.X + eps, Y: b.Start.Y + eps, Z: b.Start.Z + eps},
		End:   model.Position{X: b.End.X - eps, Y: b.End.Y - eps, Z: b.End.Z - eps},
	}
}

// CandidateStarts generates placement anchors using the extreme-point
// strategy: the container origin plus, for every placed item, the three
// corners obtained by extending past that item's far face along each axis.
// This bounds the search to O(placed items) anchors instead of a continuous
// scan of the volume.
func (s *Space) CandidateStarts() []model.Position {
	starts := []model.Position{{}}
	seen := map[model.Position]bool{{}: true}
	for _, pb := range s.placedBoxes() {
		b := pb.box
		for _, p := range []model.Position{
			{X: b.End.X, Y: b.Start.Y, Z: b.Start.Z},
			{X: b.Start.X, Y: b.End.Y, Z: b.Start.Z},
			{X: b.Start.X, Y: b.Start.Y, Z: b.End.Z},
		} {
			if !seen[p] {
				seen[p] = true
				starts = append(starts, p)
			}
		}
	}
	return starts
}

// Candidate is a fitting orientation/start pair for an item in a container.
type Candidate struct {
	Rotation model.Dimensions
	Position model.Position
}

// FindPlacement returns the best fitting candidate for the item under the
// orientation/position policy: near-door items (nearDoor true) minimize the
// start depth, others maximize it to preserve near-door space. Ties break by
// minimum start width, then minimum start height, then rotation order.
func (s *Space) FindPlacement(item *model.Item, nearDoor bool) (Candidate, bool) {
	var best Candidate
	found := false
	starts := s.CandidateStarts()
	for _, rot := range item.Rotations() {
		for _, start := range starts {
			if !s.Fits(rot, start) {
				continue
			}
			c := Candidate{Rotation: rot, Position: start}
			if !found || betterCandidate(c, best, nearDoor) {
				best = c
				found = true
			}
		}
	}
	return best, found
}

// betterCandidate reports whether a should replace b under the policy.
// Rotation order is implicit: equal keys keep the earlier rotation.
func betterCandidate(a, b Candidate, nearDoor bool) bool {
	if a.Position.Y != b.Position.Y {
		if nearDoor {
			return a.Position.Y < b.Position.Y
		}
		return a.Position.Y > b.Position.Y
	}
	if a.Position.X != b.Position.X {
		return a.Position.X < b.Position.X
	}
	return a.Position.Z < b.Position.Z
}

// Place commits a placement, updating the item, the container's item list,
// and the occupied volume. The fit is re-checked defensively; a violation of
// the no-overlap or containment invariants returns a CapacityError.
func (s *Space) Place(item *model.Item, rot model.Dimensions, pos model.Position) error {
	if item.Placement != nil {
		return &CapacityError{
			ItemID:      item.ItemID,
			ContainerID: s.container.ContainerID,
			Reason:      fmt.Sprintf("already placed in container %s", item.Placement.ContainerID),
		}
	}
	if !s.Fits(rot, pos) {
		return &CapacityError{
			ItemID:      item.ItemID,
			ContainerID: s.container.ContainerID,
			Reason:      "position violates containment or overlap invariants",
		}
	}
	item.Placement = &model.Placement{
		ContainerID: s.container.ContainerID,
		Position:    pos,
		Rotation:    rot,
	}
	s.container.Items = append(s.container.Items, item.ItemID)
	s.container.OccupiedVolume += rot.Volume()
	return nil
}

// Remove detaches an item from this container and frees its volume.
func (s *Space) Remove(item *model.Item) error {
	if item.Placement == nil || item.Placement.ContainerID != s.container.ContainerID {
		return &NotPlacedError{ItemID: item.ItemID, ContainerID: s.container.ContainerID}
	}
	for i, id := range s.container.Items {
		if id == item.ItemID {
			s.container.Items = append(s.container.Items[:i], s.container.Items[i+1:]...)
			break
		}
	}
	s.container.OccupiedVolume -= item.Placement.Rotation.Volume()
	if s.container.OccupiedVolume < 0 {
		s.container.OccupiedVolume = 0
	}
	item.Placement = nil
	return nil
}
