// Package store owns the in-memory registry of containers and items.
// The registry is passed by reference into engine operations; there is no
// process-wide singleton, and the store provides no locking of its own.
package store

import (
	"fmt"
	"sort"
	"time"

	"github.com/piwi3910/CargoStow/internal/model"
)

// Registry is the single source of truth for containers, items, and the
// current simulated date.
type Registry struct {
	containers map[string]*model.Container
	items      map[string]*model.Item
	date       time.Time
}

// NewRegistry creates an empty registry with the given simulated date.
func NewRegistry(date time.Time) *Registry {
	return &Registry{
		containers: make(map[string]*model.Container),
		items:      make(map[string]*model.Item),
		date:       date,
	}
}

// CurrentDate returns the current simulated date.
func (r *Registry) CurrentDate() time.Time {
	return r.date
}

// SetCurrentDate advances (or rewinds) the simulated date.
func (r *Registry) SetCurrentDate(date time.Time) {
	r.date = date
}

// AddContainer registers a new container. Ids must be unique.
func (r *Registry) AddContainer(c model.Container) (*model.Container, error) {
	if c.ContainerID == "" {
		return nil, fmt.Errorf("container id must not be empty")
	}
	if _, exists := r.containers[c.ContainerID]; exists {
		return nil, fmt.Errorf("container %q: %w", c.ContainerID, ErrDuplicateID)
	}
	if c.Width <= 0 || c.Depth <= 0 || c.Height <= 0 {
		return nil, fmt.Errorf("container %q: dimensions must be positive", c.ContainerID)
	}
	if c.Items == nil {
		c.Items = []string{}
	}
	stored := c
	r.containers[c.ContainerID] = &stored
	return &stored, nil
}

// AddItem registers a new item. Ids must be unique.
func (r *Registry) AddItem(i model.Item) (*model.Item, error) {
	if i.ItemID == "" {
		return nil, fmt.Errorf("item id must not be empty")
	}
	if _, exists := r.items[i.ItemID]; exists {
		return nil, fmt.Errorf("item %q: %w", i.ItemID, ErrDuplicateID)
	}
	if i.Width <= 0 || i.Depth <= 0 || i.Height <= 0 || i.Mass <= 0 {
		return nil, fmt.Errorf("item %q: dimensions and mass must be positive", i.ItemID)
	}
	if i.Priority < 0 || i.Priority > 100 {
		return nil, fmt.Errorf("item %q: priority must be between 0 and 100", i.ItemID)
	}
	stored := i
	r.items[i.ItemID] = &stored
	return &stored, nil
}

// Container returns the container with the given id, or nil.
func (r *Registry) Container(id string) *model.Container {
	return r.containers[id]
}

// Item returns the item with the given id, or nil.
func (r *Registry) Item(id string) *model.Item {
	return r.items[id]
}

// DeleteItem removes an item from the registry. It does not touch container
// geometry; callers must detach the placement first.
func (r *Registry) DeleteItem(id string) {
	delete(r.items, id)
}

// ContainerIDs returns all container ids in ascending order. Engine
// operations iterate via this so results are deterministic.
func (r *Registry) ContainerIDs() []string {
	ids := make([]string, 0, len(r.containers))
	for id := range r.containers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ItemIDs returns all item ids in ascending order.
func (r *Registry) ItemIDs() []string {
	ids := make([]string, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Containers returns all containers ordered by id.
func (r *Registry) Containers() []*model.Container {
	out := make([]*model.Container, 0, len(r.containers))
	for _, id := range r.ContainerIDs() {
		out = append(out, r.containers[id])
	}
	return out
}

// Items returns all items ordered by id.
func (r *Registry) Items() []*model.Item {
	out := make([]*model.Item, 0, len(r.items))
	for _, id := range r.ItemIDs() {
		out = append(out, r.items[id])
	}
	return out
}
