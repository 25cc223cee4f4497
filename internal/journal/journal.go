// Package journal records the engine's mutating operations as tagged,
// typed entries with bounded retention and JSON persistence.
package journal

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Action tags the kind of operation an entry records.
type Action string

const (
	ActionPlacement      Action = "placement"
	ActionRetrieval      Action = "retrieval"
	ActionSimulation     Action = "simulation"
	ActionWasteIdentify  Action = "wasteIdentification"
	ActionReturnPlanning Action = "returnPlanning"
	ActionUndocking      Action = "undocking"
	ActionRegistration   Action = "registration"
)

// Entry is one recorded operation. Only the fields relevant to the action
// are populated.
type Entry struct {
	EntryID     string    `json:"entryId"`
	Timestamp   time.Time `json:"timestamp"`
	Action      Action    `json:"action"`
	ItemIDs     []string  `json:"itemIds,omitempty"`
	ContainerID string    `json:"containerId,omitempty"`
	Count       int       `json:"count,omitempty"`
	Date        time.Time `json:"date,omitempty"`
	Detail      string    `json:"detail,omitempty"`
}

// Journal is a bounded in-memory activity log. It is not safe for concurrent
// use; callers serialize access alongside the registry.
type Journal struct {
	entries    []Entry
	maxEntries int
}

// New creates an empty journal keeping at most maxEntries newest entries.
func New(maxEntries int) *Journal {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &Journal{maxEntries: maxEntries}
}

// Record appends an entry, stamping id and timestamp, and trims the oldest
// entries past the retention bound.
func (j *Journal) Record(e Entry) Entry {
	e.EntryID = uuid.New().String()[:8]
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	j.entries = append(j.entries, e)
	if len(j.entries) > j.maxEntries {
		j.entries = j.entries[len(j.entries)-j.maxEntries:]
	}
	return e
}

// Len returns the number of retained entries.
func (j *Journal) Len() int {
	return len(j.entries)
}

// Query returns entries matching the given filters, oldest first. An empty
// action matches every kind; an empty itemID matches every entry.
func (j *Journal) Query(action Action, itemID string) []Entry {
	matches := []Entry{}
	for _, e := range j.entries {
		if action != "" && e.Action != action {
			continue
		}
		if itemID != "" && !containsID(e.ItemIDs, itemID) {
			continue
		}
		matches = append(matches, e)
	}
	return matches
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// Path returns the journal file location under a data directory.
func Path(dataDir string) string {
	return filepath.Join(dataDir, "journal.json")
}

// Save writes the retained entries as indented JSON, creating the data
// directory if needed.
func (j *Journal) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(j.entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Load reads entries from a journal file. A missing file yields an empty
// journal with the given retention bound.
func Load(path string, maxEntries int) (*Journal, error) {
	j := New(maxEntries)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return j, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &j.entries); err != nil {
		return nil, err
	}
	if len(j.entries) > j.maxEntries {
		j.entries = j.entries[len(j.entries)-j.maxEntries:]
	}
	return j, nil
}
