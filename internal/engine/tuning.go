package engine

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning holds the heuristic knobs of the engine. Defaults match the
// documented policy; a deployment may override them from a YAML file.
type Tuning struct {
	// NearDoorPriority is the priority threshold at or above which items are
	// kept near the open face. Lower-priority items are pushed to the back.
	NearDoorPriority int `yaml:"near_door_priority"`

	// FullContainerRatio is the occupied-volume fraction above which a
	// container is skipped as a rearrangement target.
	FullContainerRatio float64 `yaml:"full_container_ratio"`

	// MaxJournalEntries bounds activity log retention (newest kept).
	MaxJournalEntries int `yaml:"max_journal_entries"`
}

// DefaultTuning returns the compiled-in knob values.
func DefaultTuning() Tuning {
	return Tuning{
		NearDoorPriority:   50,
		FullContainerRatio: 0.95,
		MaxJournalEntries:  1000,
	}
}

// LoadTuning reads tuning knobs from a YAML file. Zero-valued fields fall
// back to the defaults so partial files stay valid.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning: %w", err)
	}
	if t.NearDoorPriority <= 0 {
		t.NearDoorPriority = DefaultTuning().NearDoorPriority
	}
	if t.FullContainerRatio <= 0 {
		t.FullContainerRatio = DefaultTuning().FullContainerRatio
	}
	if t.MaxJournalEntries <= 0 {
		t.MaxJournalEntries = DefaultTuning().MaxJournalEntries
	}
	return t, nil
}
