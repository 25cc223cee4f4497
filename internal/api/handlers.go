// Package api exposes the stowage engine over HTTP. Handlers decode,
// validate, and encode; all domain work happens in internal/engine. A single
// mutex serializes every request against the shared registry.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/piwi3910/CargoStow/internal/engine"
	"github.com/piwi3910/CargoStow/internal/export"
	"github.com/piwi3910/CargoStow/internal/journal"
	"github.com/piwi3910/CargoStow/internal/store"
)

// Server holds the handler dependencies: the engine over the shared
// registry, the activity journal, and the snapshot location for persistence
// after mutating calls.
type Server struct {
	mu           sync.Mutex
	engine       *engine.Engine
	journal      *journal.Journal
	snapshotPath string
	journalPath  string
}

// NewServer wires the handlers to their dependencies. Empty paths disable
// persistence (used by tests).
func NewServer(eng *engine.Engine, jnl *journal.Journal, snapshotPath, journalPath string) *Server {
	return &Server{
		engine:       eng,
		journal:      jnl,
		snapshotPath: snapshotPath,
		journalPath:  journalPath,
	}
}

// persist writes the snapshot and journal after a mutating call. Failures are
// logged, not surfaced; the in-memory state is already committed.
func (s *Server) persist() {
	if s.snapshotPath != "" {
		if err := store.Save(s.snapshotPath, s.engine.Registry()); err != nil {
			log.Printf("snapshot save failed: path=%s err=%v", s.snapshotPath, err)
		}
	}
	if s.journalPath != "" {
		if err := s.journal.Save(s.journalPath); err != nil {
			log.Printf("journal save failed: path=%s err=%v", s.journalPath, err)
		}
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writeEngineError maps engine error kinds to HTTP status codes.
func writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, engine.ErrItemNotFound), errors.Is(err, engine.ErrInvalidContainer):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, engine.ErrItemNotPlaced):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, engine.ErrItemNotWaste):
		writeError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, engine.ErrInvalidWeight), errors.Is(err, engine.ErrInvalidDayCount):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, err.Error())
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// Health reports liveness.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// Containers registers a container (POST) or lists all containers (GET).
func (s *Server) Containers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, r, http.StatusOK, s.engine.Registry().Containers())
	case http.MethodPost:
		var req containerRequest
		if !decode(w, r, &req) {
			return
		}
		cont, err := s.engine.Registry().AddContainer(req.toModel())
		if err != nil {
			if errors.Is(err, store.ErrDuplicateID) {
				writeError(w, r, http.StatusConflict, err.Error())
			} else {
				writeError(w, r, http.StatusBadRequest, err.Error())
			}
			return
		}
		s.journal.Record(journal.Entry{
			Action:      journal.ActionRegistration,
			ContainerID: cont.ContainerID,
			Detail:      "container registered",
		})
		s.persist()
		writeJSON(w, r, http.StatusCreated, cont)
	default:
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// Items registers an item (POST) or lists all items (GET).
func (s *Server) Items(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, r, http.StatusOK, s.engine.Registry().Items())
	case http.MethodPost:
		var req itemRequest
		if !decode(w, r, &req) {
			return
		}
		item, err := req.toModel()
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		stored, err := s.engine.Registry().AddItem(item)
		if err != nil {
			if errors.Is(err, store.ErrDuplicateID) {
				writeError(w, r, http.StatusConflict, err.Error())
			} else {
				writeError(w, r, http.StatusBadRequest, err.Error())
			}
			return
		}
		s.journal.Record(journal.Entry{
			Action:  journal.ActionRegistration,
			ItemIDs: []string{stored.ItemID},
			Detail:  "item registered",
		})
		s.persist()
		writeJSON(w, r, http.StatusCreated, stored)
	default:
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// Placement plans and commits a batch of placements.
func (s *Server) Placement(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req placementRequest
	if !decode(w, r, &req) {
		return
	}
	if len(req.ItemIDs) == 0 {
		writeError(w, r, http.StatusBadRequest, "itemIds must not be empty")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	plan := s.engine.RecommendPlacement(req.ItemIDs)
	s.journal.Record(journal.Entry{
		Action:  journal.ActionPlacement,
		ItemIDs: req.ItemIDs,
		Count:   len(plan.Placements),
	})
	s.persist()
	writeJSON(w, r, http.StatusOK, plan)
}

// Search finds placed items by id or name.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	itemID := r.URL.Query().Get("itemId")
	itemName := r.URL.Query().Get("itemName")
	if itemID == "" && itemName == "" {
		writeError(w, r, http.StatusBadRequest, "itemId or itemName required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, r, http.StatusOK, s.engine.SearchItems(itemID, itemName))
}

// RetrievalPlan computes the unblocking sequence for one item, read-only.
func (s *Server) RetrievalPlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req retrievalRequest
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	plan, err := s.engine.PlanRetrieval(req.ItemID)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, plan)
}

// Retrieve executes a retrieval: unplaces the item and consumes one use.
func (s *Server) Retrieve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req retrievalRequest
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.engine.RetrieveItem(req.ItemID)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	s.journal.Record(journal.Entry{
		Action:  journal.ActionRetrieval,
		ItemIDs: []string{item.ItemID},
	})
	s.persist()
	writeJSON(w, r, http.StatusOK, item)
}

// IdentifyWaste refreshes waste flags and reports all flagged items.
func (s *Server) IdentifyWaste(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	report := s.engine.IdentifyWaste()
	s.journal.Record(journal.Entry{
		Action: journal.ActionWasteIdentify,
		Count:  len(report.WasteItems),
	})
	s.persist()
	writeJSON(w, r, http.StatusOK, report)
}

// ReturnPlan builds a weight-bounded return plan for an undocking container.
func (s *Server) ReturnPlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req returnPlanRequest
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	plan, err := s.engine.PlanReturn(req.ContainerID, req.MaxWeight)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	s.journal.Record(journal.Entry{
		Action:      journal.ActionReturnPlanning,
		ContainerID: req.ContainerID,
		Count:       len(plan.ReturnItems),
	})
	s.persist()
	writeJSON(w, r, http.StatusOK, plan)
}

// CompleteUndocking confirms the departure of waste items.
func (s *Server) CompleteUndocking(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req undockingRequest
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.engine.CompleteUndocking(req.ContainerID, req.ItemIDs)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	s.journal.Record(journal.Entry{
		Action:      journal.ActionUndocking,
		ContainerID: req.ContainerID,
		ItemIDs:     req.ItemIDs,
		Count:       result.RemovedCount,
	})
	s.persist()
	writeJSON(w, r, http.StatusOK, result)
}

// Manifest streams a PDF manifest for a return plan. Read-only.
func (s *Server) Manifest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req returnPlanRequest
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	plan, err := s.engine.PlanReturn(req.ContainerID, req.MaxWeight)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="manifest.pdf"`)
	if err := export.WriteManifest(w, plan, s.engine.Registry().CurrentDate()); err != nil {
		log.Printf("manifest render failed: container=%s err=%v", req.ContainerID, err)
	}
}

// SimulateDay advances the simulated clock by days or up to a timestamp.
func (s *Server) SimulateDay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req simulateRequest
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	days := req.NumOfDays
	if days == 0 && req.ToTimestamp != "" {
		target, err := parseDate(req.ToTimestamp)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "toTimestamp: "+err.Error())
			return
		}
		days = s.engine.DaysUntil(target)
	}
	result, err := s.engine.SimulateDays(days, req.ItemsToBeUsedPerDay)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	s.journal.Record(journal.Entry{
		Action:  journal.ActionSimulation,
		ItemIDs: req.ItemsToBeUsedPerDay,
		Count:   days,
		Date:    result.NewDate,
	})
	s.persist()
	writeJSON(w, r, http.StatusOK, result)
}

// Logs queries the activity journal by action kind and item id.
func (s *Server) Logs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	action := journal.Action(r.URL.Query().Get("action"))
	itemID := r.URL.Query().Get("itemId")

	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, r, http.StatusOK, s.journal.Query(action, itemID))
}
