package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/piwi3910/CargoStow/internal/api"
	"github.com/piwi3910/CargoStow/internal/engine"
	"github.com/piwi3910/CargoStow/internal/journal"
	"github.com/piwi3910/CargoStow/internal/store"
)

// main is the application composition root. It loads the persisted registry
// and journal, wires the engine behind the HTTP handlers, and starts the
// server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	port := getEnv("PORT", "8080")
	dataDir := getEnv("DATA_DIR", store.DefaultDataDir())
	tuningPath := os.Getenv("TUNING_PATH")

	tuning := engine.DefaultTuning()
	if tuningPath != "" {
		t, err := engine.LoadTuning(tuningPath)
		if err != nil {
			log.Printf("tuning file not loaded: path=%s err=%v (using defaults)", tuningPath, err)
		}
		tuning = t
	}

	snapshotPath := store.SnapshotPath(dataDir)
	reg, err := store.Load(snapshotPath)
	if err != nil {
		log.Fatal(err)
	}

	journalPath := journal.Path(dataDir)
	jnl, err := journal.Load(journalPath, tuning.MaxJournalEntries)
	if err != nil {
		log.Fatal(err)
	}

	eng := engine.New(reg, tuning)
	server := api.NewServer(eng, jnl, snapshotPath, journalPath)
	router := api.NewRouter(server)

	log.Printf("Server listening addr=:%s dataDir=%s containers=%d items=%d",
		port, dataDir, len(reg.ContainerIDs()), len(reg.ItemIDs()))
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
