package engine

import (
	"github.com/piwi3910/CargoStow/internal/model"
	"github.com/piwi3910/CargoStow/internal/store"
)

// Engine exposes the stowage operations over a registry it does not own.
// It performs no locking of its own; concurrent external calls must be
// serialized by the caller.
type Engine struct {
	reg    *store.Registry
	tuning Tuning
}

// New creates an engine over the given registry.
func New(reg *store.Registry, tuning Tuning) *Engine {
	return &Engine{reg: reg, tuning: tuning}
}

// Registry returns the registry the engine operates on.
func (e *Engine) Registry() *store.Registry {
	return e.reg
}

// space returns the occupancy view of a container backed by the registry.
func (e *Engine) space(c *model.Container) *Space {
	return NewSpace(c, e.reg.Item)
}

// nearDoor reports whether an item's priority keeps it near the open face.
func (e *Engine) nearDoor(item *model.Item) bool {
	return item.Priority >= e.tuning.NearDoorPriority
}

// wasteSummary builds the reportable view of a waste item.
func wasteSummary(item *model.Item) model.WasteItem {
	w := model.WasteItem{
		ItemID:  item.ItemID,
		Name:    item.Name,
		Reasons: append([]model.WasteReason(nil), item.WasteReasons...),
		Mass:    item.Mass,
	}
	if item.Placement != nil {
		w.ContainerID = item.Placement.ContainerID
		pos := item.Placement.Position
		w.Position = &pos
	}
	return w
}
