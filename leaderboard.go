package main

import (
	"database/sql"
	"encoding/json"
	"net/http"
)

const (
	leaderboardDefaultLimit = 20
	leaderboardMaxLimit     = 50
)

type LeaderboardEntry struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Score    int64  `json:"score"`
	Level    int    `json:"level"`
}

type LeaderboardResponse struct {
	Items []LeaderboardEntry `json:"items"`
}

func leaderboardHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		limit := parseLimit(r.URL.Query().Get("limit"), leaderboardDefaultLimit, leaderboardMaxLimit)
		items, err := topUsers(db, limit)
		if err != nil {
			json.NewEncoder(w).Encode(SimpleResponse{OK: false, Error: "INTERNAL_ERROR"})
			return
		}
		json.NewEncoder(w).Encode(LeaderboardResponse{Items: items})
	}
}

func topUsers(db *sql.DB, limit int) ([]LeaderboardEntry, error) {
	rows, err := db.Query(`
		SELECT user_id, username, score, level
		FROM users
		ORDER BY score DESC, updated_at ASC, user_id ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []LeaderboardEntry{}
	for rows.Next() {
		var entry LeaderboardEntry
		if err := rows.Scan(&entry.UserID, &entry.Username, &entry.Score, &entry.Level); err != nil {
			continue
		}
		items = append(items, entry)
	}
	return items, nil
}
