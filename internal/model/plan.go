package model

import "time"

// UnplacedReason explains why the placement planner could not place an item.
type UnplacedReason string

const (
	ReasonNoCapacity   UnplacedReason = "NoCapacity"
	ReasonItemNotFound UnplacedReason = "ItemNotFound"
)

// ItemPlacement is one committed direct placement in a placement plan.
type ItemPlacement struct {
	ItemID      string     `json:"itemId"`
	ContainerID string     `json:"containerId"`
	Position    Position   `json:"position"`
	Rotation    Dimensions `json:"rotation"`
}

// RearrangementMove records an existing item relocated to admit another.
type RearrangementMove struct {
	ItemID        string     `json:"itemId"`
	FromContainer string     `json:"fromContainer"`
	ToContainer   string     `json:"toContainer"`
	NewPosition   Position   `json:"newPosition"`
	NewRotation   Dimensions `json:"newRotation"`
}

// UnplacedItem is an item the planner could not place, with the reason.
type UnplacedItem struct {
	ItemID string         `json:"itemId"`
	Reason UnplacedReason `json:"reason"`
}

// PlacementPlan is the full output of one placement batch.
type PlacementPlan struct {
	Placements     []ItemPlacement     `json:"placements"`
	Rearrangements []RearrangementMove `json:"rearrangements"`
	Unplaced       []UnplacedItem      `json:"unplaced"`
}

// StepAction tags one step of a retrieval or return sequence.
type StepAction string

const (
	StepRemove   StepAction = "remove"
	StepRetrieve StepAction = "retrieve"
	StepRestore  StepAction = "restore"
	StepMove     StepAction = "move"
	StepPlace    StepAction = "place"
)

// RetrievalStep is one step of an unblock/retrieve/restore sequence.
// Position and Rotation are set on restore steps so blockers return to their
// exact original boxes.
type RetrievalStep struct {
	Step          int         `json:"step"`
	Action        StepAction  `json:"action"`
	ItemID        string      `json:"itemId"`
	FromContainer string      `json:"fromContainer,omitempty"`
	ToContainer   string      `json:"toContainer,omitempty"`
	Position      *Position   `json:"position,omitempty"`
	Rotation      *Dimensions `json:"rotation,omitempty"`
}

// RetrievalPlan is the ordered unblocking sequence for one target item.
// An empty step list means direct access.
type RetrievalPlan struct {
	ItemID        string          `json:"itemId"`
	Steps         []RetrievalStep `json:"steps"`
	BlockersCount int             `json:"blockersCount"`
}

// ItemLocation describes where a placed item sits and how hard it is to reach.
type ItemLocation struct {
	ItemID         string     `json:"itemId"`
	Name           string     `json:"name"`
	ContainerID    string     `json:"containerId"`
	Zone           string     `json:"zone"`
	Position       Position   `json:"position"`
	Rotation       Dimensions `json:"rotation"`
	RetrievalSteps int        `json:"retrievalSteps"`
	BlockedBy      []string   `json:"blockedBy,omitempty"`
}

// WasteItem is an item flagged as waste, with its current location if any.
type WasteItem struct {
	ItemID      string        `json:"itemId"`
	Name        string        `json:"name"`
	Reasons     []WasteReason `json:"reasons"`
	ContainerID string        `json:"containerId,omitempty"`
	Position    *Position     `json:"position,omitempty"`
	Mass        float64       `json:"mass"`
}

// WasteReport is the output of waste identification.
type WasteReport struct {
	WasteItems []WasteItem `json:"wasteItems"`
	TotalMass  float64     `json:"totalMass"`
}

// ReturnPlan is a weight-bounded selection of waste for an undocking
// container. Steps is the load sequence: one move or place per selected item
// not already sitting in the undocking container.
type ReturnPlan struct {
	ContainerID    string          `json:"containerId"`
	MaxWeight      float64         `json:"maxWeight"`
	ReturnItems    []WasteItem     `json:"returnItems"`
	Steps          []RetrievalStep `json:"steps"`
	RemainingWaste []WasteItem     `json:"remainingWaste"`
	TotalMass      float64         `json:"totalMass"`
}

// UndockingFailure is a per-item failure during undocking completion.
type UndockingFailure struct {
	ItemID string `json:"itemId"`
	Reason string `json:"reason"`
}

// UndockingResult summarizes an undocking completion batch.
type UndockingResult struct {
	RemovedCount int                `json:"removedCount"`
	Failures     []UndockingFailure `json:"failures,omitempty"`
}

// SimulationResult reports the outcome of advancing the simulated clock.
// Expired and Depleted list only items newly flagged by this call.
type SimulationResult struct {
	NewDate       time.Time   `json:"newDate"`
	ExpiredItems  []WasteItem `json:"expiredItems"`
	DepletedItems []WasteItem `json:"depletedItems"`
}
