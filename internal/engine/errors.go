package engine

import (
	"errors"
	"fmt"
)

// Sentinel errors for the engine's external operations. Handlers match these
// with errors.Is to choose status codes.
var (
	ErrItemNotFound     = errors.New("item not found")
	ErrItemNotPlaced    = errors.New("item is not placed in any container")
	ErrItemNotWaste     = errors.New("item is not flagged as waste")
	ErrInvalidContainer = errors.New("unknown container")
	ErrInvalidWeight    = errors.New("max weight must be positive")
	ErrInvalidDayCount  = errors.New("day count must be at least 1")
)

// CapacityError reports that a placement would violate the no-overlap or
// containment invariants, or that no container admits an item at all.
type CapacityError struct {
	ItemID      string
	ContainerID string
	Reason      string
}

func (e *CapacityError) Error() string {
	if e.ContainerID == "" {
		return fmt.Sprintf("no capacity for item %s: %s", e.ItemID, e.Reason)
	}
	return fmt.Sprintf("cannot place item %s in container %s: %s", e.ItemID, e.ContainerID, e.Reason)
}

// NotPlacedError reports a remove or retrieval request against an item that
// has no placement in the named container.
type NotPlacedError struct {
	ItemID      string
	ContainerID string
}

func (e *NotPlacedError) Error() string {
	return fmt.Sprintf("item %s has no placement in container %s", e.ItemID, e.ContainerID)
}

func (e *NotPlacedError) Unwrap() error {
	return ErrItemNotPlaced
}
