package main

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/kosmodromgames/galactic-clicker/internal/game"
)

type SimpleResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type ProgressResponse struct {
	UserID       string              `json:"user_id"`
	Username     string              `json:"username,omitempty"`
	Score        int64               `json:"score"`
	Level        int                 `json:"level"`
	Currency     int64               `json:"currency"`
	Upgrades     []game.UpgradeState `json:"upgrades"`
	ActiveSkin   string              `json:"active_skin"`
	OwnedSkins   []string            `json:"owned_skins"`
	HasFreeChest bool                `json:"has_free_chest"`
	DBVersion    int                 `json:"db_version"`
}

func serveIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("galactic-clicker persistence server\n"))
}

func healthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("db unreachable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}
}

func clickerHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			getProgress(db, w, r)
		case http.MethodPost:
			postProgress(db, w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}
}

func getProgress(db *sql.DB, w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if !isValidUserID(userID) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(SimpleResponse{OK: false, Error: "INVALID_USER_ID"})
		return
	}

	user, err := LoadOrCreateUser(db, userID, r.URL.Query().Get("username"))
	if err != nil {
		log.Println("Failed to load/create user:", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(SimpleResponse{OK: false, Error: "INTERNAL_ERROR"})
		return
	}

	json.NewEncoder(w).Encode(ProgressResponse{
		UserID:       user.UserID,
		Username:     user.Username,
		Score:        user.Score,
		Level:        user.Level,
		Currency:     user.Currency,
		Upgrades:     formatUpgrades(user.Upgrades),
		ActiveSkin:   user.ActiveSkin,
		OwnedSkins:   user.OwnedSkins,
		HasFreeChest: user.HasFreeChest,
		DBVersion:    dbVersion,
	})
}

func postProgress(db *sql.DB, w http.ResponseWriter, r *http.Request) {
	var body clickerUpload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(SimpleResponse{OK: false, Error: "INVALID_REQUEST"})
		return
	}

	user := coerceUpload(body)
	if user.UserID == "" {
		// Anonymous sessions save locally only; nothing to do here.
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if !isValidUserID(user.UserID) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(SimpleResponse{OK: false, Error: "INVALID_USER_ID"})
		return
	}

	if err := SaveProgress(db, user); err != nil {
		log.Println("Failed to save progress:", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(SimpleResponse{OK: false, Error: "INTERNAL_ERROR"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// versionCheckHandler answers whether a client's stored version token still
// matches the server's persistence format. 200 means the local snapshot can
// be trusted; anything else makes the client refetch.
func versionCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		raw := r.URL.Query().Get("db_version")
		claimed, err := strconv.Atoi(raw)
		if err != nil || claimed != dbVersion {
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]interface{}{"ok": false, "db_version": dbVersion})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"ok": true, "db_version": dbVersion})
	}
}
