package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	_ "github.com/lib/pq"

	"github.com/kosmodromgames/galactic-clicker/internal/game"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	log.Println("App environment:", env)

	devMode := os.Getenv("DEV_MODE") == "true"
	if devMode {
		log.Println("⚠️  DEV MODE ENABLED")
	}

	resetHour := parseEnvInt("FREE_CHEST_RESET_HOUR", freeChestResetHour)

	if path := os.Getenv("CATALOG_PATH"); path != "" {
		c, err := game.LoadCatalog(path)
		if err != nil {
			log.Fatal("Failed to load catalog override:", err)
		}
		catalog = c
		log.Println("Catalog override loaded from", path)
	}

	// Database
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatal("failed to open database:", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		log.Fatal("failed to ping database:", err)
	}
	log.Println("Connected to PostgreSQL")

	if err := ensureSchema(db); err != nil {
		log.Fatal("Failed to ensure schema:", err)
	}

	hub := NewHub()
	go hub.Run()

	startFreeChestResetLoop(db, resetHour)
	startLeaderboardPulse(db, hub)

	// HTTP server
	mux := http.NewServeMux()
	registerRoutes(mux, db, hub)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	addr := "0.0.0.0:" + port
	log.Println("Listening on", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal("server failed:", err)
	}
}

func registerRoutes(mux *http.ServeMux, db *sql.DB, hub *Hub) {
	mux.HandleFunc("/", serveIndex)
	mux.HandleFunc("/health", healthHandler(db))
	mux.HandleFunc("/api/clicker", clickerHandler(db))
	mux.HandleFunc("/api/version-check", versionCheckHandler())
	mux.HandleFunc("/api/leaderboard", leaderboardHandler(db))
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, w, r)
	})
}

func parseEnvInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Invalid %s=%q, using %d", name, raw, fallback)
		return fallback
	}
	return parsed
}
