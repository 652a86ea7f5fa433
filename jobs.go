package main

import (
	"database/sql"
	"encoding/json"
	"log"
	"time"
)

// freeChestResetHour is the local hour the daily free chest comes back.
const freeChestResetHour = 8

// nextResetTime returns the next reset boundary strictly after now. A call
// exactly on the boundary schedules the following day.
func nextResetTime(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func startFreeChestResetLoop(db *sql.DB, hour int) {
	go func() {
		for {
			now := time.Now()
			next := nextResetTime(now, hour)
			log.Println("Free chest reset scheduled for", next)
			time.Sleep(time.Until(next))

			res, err := db.Exec(`
				UPDATE users
				SET has_free_chest = TRUE, updated_at = NOW()
				WHERE has_free_chest = FALSE
			`)
			if err != nil {
				log.Println("Free chest reset failed:", err)
				continue
			}
			if n, err := res.RowsAffected(); err == nil {
				log.Println("Free chest reset: restored", n, "users")
			}
		}
	}()
}

// startLeaderboardPulse pushes refreshed standings to websocket clients
// once a minute, matching the polling interval the HTTP clients use.
func startLeaderboardPulse(db *sql.DB, hub *Hub) {
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		for range ticker.C {
			items, err := topUsers(db, leaderboardDefaultLimit)
			if err != nil {
				log.Println("Leaderboard pulse query failed:", err)
				continue
			}
			data, err := json.Marshal(Message{Type: "leaderboard", Payload: items})
			if err != nil {
				continue
			}
			hub.broadcast <- data
		}
	}()
}
