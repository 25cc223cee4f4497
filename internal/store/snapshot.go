package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/CargoStow/internal/model"
)

// ErrDuplicateID is returned when registering a container or item whose id
// is already taken.
var ErrDuplicateID = errors.New("duplicate id")

// snapshot is the on-disk shape of a registry.
type snapshot struct {
	CurrentDate time.Time         `json:"currentDate"`
	Containers  []model.Container `json:"containers"`
	Items       []model.Item      `json:"items"`
}

// DefaultDataDir returns the default directory for persisted state.
// On all platforms this is ~/.cargostow/
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".cargostow")
}

// SnapshotPath returns the registry snapshot path inside a data directory.
func SnapshotPath(dataDir string) string {
	return filepath.Join(dataDir, "snapshot.json")
}

// Save persists the registry to the given path as JSON.
// It creates any missing parent directories automatically.
func Save(path string, r *Registry) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	snap := snapshot{CurrentDate: r.CurrentDate()}
	for _, c := range r.Containers() {
		snap.Containers = append(snap.Containers, *c)
	}
	for _, i := range r.Items() {
		snap.Items = append(snap.Items, *i)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Load reads a registry from the given path.
// If the file does not exist, it returns an empty registry dated now.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewRegistry(time.Now()), nil
		}
		return nil, err
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}

	date := snap.CurrentDate
	if date.IsZero() {
		date = time.Now()
	}

	r := NewRegistry(date)
	for _, c := range snap.Containers {
		if _, err := r.AddContainer(c); err != nil {
			return nil, err
		}
	}
	for _, i := range snap.Items {
		if _, err := r.AddItem(i); err != nil {
			return nil, err
		}
	}
	return r, nil
}
