package model

import "time"

// Position is a point in a container's local frame, in cm.
// X runs along the width axis, Y along the depth axis (into the container,
// away from the open face), Z along the height axis.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Dimensions is an axis-aligned extent in cm. For a placed item it is the
// oriented extent: the item's three nominal dimensions permuted onto the
// container's width, depth, and height axes.
type Dimensions struct {
	Width  float64 `json:"width"`
	Depth  float64 `json:"depth"`
	Height float64 `json:"height"`
}

// Volume returns the enclosed volume in cubic cm.
func (d Dimensions) Volume() float64 {
	return d.Width * d.Depth * d.Height
}

// Box is an axis-aligned box defined by its two extreme corners.
type Box struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// NewBox builds the box spanned by a start position and oriented dimensions.
func NewBox(start Position, dims Dimensions) Box {
	return Box{
		Start: start,
		End: Position{
			X: start.X + dims.Width,
			Y: start.Y + dims.Depth,
			Z: start.Z + dims.Height,
		},
	}
}

// Volume returns the box volume in cubic cm.
func (b Box) Volume() float64 {
	return (b.End.X - b.Start.X) * (b.End.Y - b.Start.Y) * (b.End.Z - b.Start.Z)
}

// Overlaps reports whether two boxes intersect with positive volume.
// Touching faces do not count as overlap.
func (b Box) Overlaps(other Box) bool {
	return b.Start.X < other.End.X && other.Start.X < b.End.X &&
		b.Start.Y < other.End.Y && other.Start.Y < b.End.Y &&
		b.Start.Z < other.End.Z && other.Start.Z < b.End.Z
}

// FootprintOverlaps reports whether the width/height projections of two boxes
// intersect with positive area. Used for blocking analysis along the depth axis.
func (b Box) FootprintOverlaps(other Box) bool {
	return b.Start.X < other.End.X && other.Start.X < b.End.X &&
		b.Start.Z < other.End.Z && other.Start.Z < b.End.Z
}

// Container represents a finite storage volume belonging to a zone.
// The local origin sits at the bottom corner of the open face; retrieval
// traverses the depth axis.
type Container struct {
	ContainerID    string   `json:"containerId"`
	Zone           string   `json:"zone"`
	Width          float64  `json:"width"`
	Depth          float64  `json:"depth"`
	Height         float64  `json:"height"`
	OccupiedVolume float64  `json:"occupiedVolume"`
	Items          []string `json:"items"`
}

// NewContainer creates an empty container.
func NewContainer(id, zone string, width, depth, height float64) Container {
	return Container{
		ContainerID: id,
		Zone:        zone,
		Width:       width,
		Depth:       depth,
		Height:      height,
		Items:       []string{},
	}
}

// Volume returns the total container volume in cubic cm.
func (c *Container) Volume() float64 {
	return c.Width * c.Depth * c.Height
}

// AvailableVolume returns the unoccupied volume in cubic cm.
func (c *Container) AvailableVolume() float64 {
	return c.Volume() - c.OccupiedVolume
}

// Bounds returns the container's own box in its local frame.
func (c *Container) Bounds() Box {
	return Box{End: Position{X: c.Width, Y: c.Depth, Z: c.Height}}
}

// Holds reports whether the container currently lists the given item.
func (c *Container) Holds(itemID string) bool {
	for _, id := range c.Items {
		if id == itemID {
			return true
		}
	}
	return false
}

// WasteReason explains why an item was flagged as waste.
type WasteReason string

const (
	WasteExpired       WasteReason = "Expired"
	WasteUsageDepleted WasteReason = "UsageDepleted"
)

// Placement records where an item currently sits: the container, the start
// position, and the oriented dimensions chosen for it.
type Placement struct {
	ContainerID string     `json:"containerId"`
	Position    Position   `json:"position"`
	Rotation    Dimensions `json:"rotation"`
}

// Box returns the axis-aligned box occupied by the placement.
func (p Placement) Box() Box {
	return NewBox(p.Position, p.Rotation)
}

// Item represents a discrete cargo item. Expiry and usage limit are optional:
// a nil ExpiryDate never expires, a nil UsageLimit never depletes.
type Item struct {
	ItemID        string        `json:"itemId"`
	Name          string        `json:"name"`
	Width         float64       `json:"width"`
	Depth         float64       `json:"depth"`
	Height        float64       `json:"height"`
	Mass          float64       `json:"mass"`
	Priority      int           `json:"priority"`
	ExpiryDate    *time.Time    `json:"expiryDate,omitempty"`
	UsageLimit    *int          `json:"usageLimit,omitempty"`
	PreferredZone string        `json:"preferredZone,omitempty"`
	IsWaste       bool          `json:"isWaste"`
	WasteReasons  []WasteReason `json:"wasteReasons,omitempty"`
	Placement     *Placement    `json:"currentLocation,omitempty"`
}

// NewItem creates an unplaced item with the given nominal dimensions.
func NewItem(id, name string, width, depth, height, mass float64, priority int) Item {
	return Item{
		ItemID:   id,
		Name:     name,
		Width:    width,
		Depth:    depth,
		Height:   height,
		Mass:     mass,
		Priority: priority,
	}
}

// Volume returns the item volume in cubic cm (orientation-independent).
func (i *Item) Volume() float64 {
	return i.Width * i.Depth * i.Height
}

// Rotations returns the six axis permutations of the item's dimensions, in a
// fixed order so candidate generation is reproducible.
func (i *Item) Rotations() []Dimensions {
	w, d, h := i.Width, i.Depth, i.Height
	return []Dimensions{
		{Width: w, Depth: d, Height: h},
		{Width: w, Depth: h, Height: d},
		{Width: d, Depth: w, Height: h},
		{Width: d, Depth: h, Height: w},
		{Width: h, Depth: w, Height: d},
		{Width: h, Depth: d, Height: w},
	}
}

// ExpiredAt reports whether the item's expiry date lies strictly before the
// given date. Items without an expiry never expire.
func (i *Item) ExpiredAt(date time.Time) bool {
	return i.ExpiryDate != nil && i.ExpiryDate.Before(date)
}

// UsageDepleted reports whether a usage limit is present and exhausted.
func (i *Item) UsageDepleted() bool {
	return i.UsageLimit != nil && *i.UsageLimit <= 0
}

// HasWasteReason reports whether the given reason is already recorded.
func (i *Item) HasWasteReason(reason WasteReason) bool {
	for _, r := range i.WasteReasons {
		if r == reason {
			return true
		}
	}
	return false
}

// MarkWaste flags the item with the given reason. Flag state alone does not
// free container space; the placement survives until undocking removes it.
func (i *Item) MarkWaste(reason WasteReason) {
	i.IsWaste = true
	if !i.HasWasteReason(reason) {
		i.WasteReasons = append(i.WasteReasons, reason)
	}
}
