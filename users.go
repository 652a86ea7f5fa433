package main

import (
	"database/sql"
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/kosmodromgames/galactic-clicker/internal/game"
)

var catalog = game.DefaultCatalog()

type UserProgress struct {
	UserID       string
	Username     string
	Score        int64
	Level        int
	Currency     int64
	Upgrades     map[string]int
	ActiveSkin   string
	OwnedSkins   []string
	HasFreeChest bool
}

func LoadOrCreateUser(
	db *sql.DB,
	userID string,
	username string,
) (*UserProgress, error) {

	var u UserProgress

	err := db.QueryRow(`
		SELECT user_id, username, score, level, currency, active_skin, has_free_chest
		FROM users
		WHERE user_id = $1
	`, userID).Scan(&u.UserID, &u.Username, &u.Score, &u.Level, &u.Currency, &u.ActiveSkin, &u.HasFreeChest)

	if err == sql.ErrNoRows {
		_, err = db.Exec(`
			INSERT INTO users (user_id, username, active_skin)
			VALUES ($1, $2, $3)
		`, userID, username, catalog.DefaultSkin)
		if err != nil {
			return nil, err
		}
		_, err = db.Exec(`
			INSERT INTO user_skins (user_id, name)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, userID, catalog.DefaultSkin)
		if err != nil {
			return nil, err
		}
		u = UserProgress{
			UserID:       userID,
			Username:     username,
			ActiveSkin:   catalog.DefaultSkin,
			HasFreeChest: true,
		}
	} else if err != nil {
		return nil, err
	}

	if username != "" && username != u.Username {
		_, _ = db.Exec(`
			UPDATE users SET username = $2, updated_at = NOW() WHERE user_id = $1
		`, userID, username)
		u.Username = username
	}

	u.Upgrades = make(map[string]int)
	rows, err := db.Query(`
		SELECT name, level FROM user_upgrades WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		var level int
		if err := rows.Scan(&name, &level); err != nil {
			continue
		}
		if level > 0 {
			u.Upgrades[name] = level
		}
	}

	skinRows, err := db.Query(`
		SELECT name FROM user_skins WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer skinRows.Close()
	for skinRows.Next() {
		var name string
		if err := skinRows.Scan(&name); err != nil {
			continue
		}
		u.OwnedSkins = append(u.OwnedSkins, name)
	}
	sort.Strings(u.OwnedSkins)

	return &u, nil
}

// SaveProgress merges an upload into the user's row. Upgrades upsert by
// name and skins only ever accumulate, so an out-of-order upload from a
// second device cannot take an unlock away.
func SaveProgress(db *sql.DB, u *UserProgress) error {
	res, err := db.Exec(`
		UPDATE users
		SET score = $2,
			level = $3,
			currency = $4,
			active_skin = $5,
			has_free_chest = $6,
			updated_at = NOW()
		WHERE user_id = $1
	`, u.UserID, u.Score, u.Level, u.Currency, u.ActiveSkin, u.HasFreeChest)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Unknown user: uploads only ever update rows the GET path created.
		return nil
	}

	for name, level := range u.Upgrades {
		_, err = db.Exec(`
			INSERT INTO user_upgrades (user_id, name, level)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, name) DO UPDATE SET level = EXCLUDED.level
		`, u.UserID, name, level)
		if err != nil {
			return err
		}
	}
	for _, name := range u.OwnedSkins {
		_, err = db.Exec(`
			INSERT INTO user_skins (user_id, name)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, u.UserID, name)
		if err != nil {
			return err
		}
	}
	return nil
}

/* ======================
   Upload coercion
   ====================== */

type uploadUpgrade struct {
	Name  string  `json:"name"`
	Level float64 `json:"level"`
}

type clickerUpload struct {
	UserID       json.RawMessage `json:"user_id"`
	Username     string          `json:"username"`
	Score        float64         `json:"score"`
	Level        float64         `json:"level"`
	Currency     float64         `json:"currency"`
	Upgrades     []uploadUpgrade `json:"upgrades"`
	ActiveSkin   string          `json:"active_skin"`
	OwnedSkins   []string        `json:"owned_skins"`
	HasFreeChest bool            `json:"has_free_chest"`
}

// normalizeUserID accepts the id as either a JSON string or a bare number,
// since Telegram clients have sent both over time.
func normalizeUserID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// coerceUpload turns a lenient wire payload into validated progress.
// Negative or non-finite counters clamp to zero and ids outside the catalog
// are dropped.
func coerceUpload(body clickerUpload) *UserProgress {
	u := &UserProgress{
		UserID:       normalizeUserID(body.UserID),
		Username:     strings.TrimSpace(body.Username),
		Score:        coerceCount(body.Score),
		Level:        int(coerceCount(body.Level)),
		Currency:     coerceCount(body.Currency),
		Upgrades:     make(map[string]int),
		ActiveSkin:   body.ActiveSkin,
		HasFreeChest: body.HasFreeChest,
	}
	for _, up := range body.Upgrades {
		level := int(coerceCount(up.Level))
		if level <= 0 {
			continue
		}
		if _, ok := catalog.Upgrade(up.Name); !ok {
			continue
		}
		u.Upgrades[up.Name] = level
	}
	owned := map[string]bool{catalog.DefaultSkin: true}
	for _, name := range body.OwnedSkins {
		if _, ok := catalog.Skin(name); ok {
			owned[name] = true
		}
	}
	for name := range owned {
		u.OwnedSkins = append(u.OwnedSkins, name)
	}
	sort.Strings(u.OwnedSkins)
	if !owned[u.ActiveSkin] {
		u.ActiveSkin = catalog.DefaultSkin
	}
	return u
}

func coerceCount(v float64) int64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	// Conversion of an out-of-range float is undefined; clamp first.
	if v >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}

func formatUpgrades(levels map[string]int) []game.UpgradeState {
	out := make([]game.UpgradeState, 0, len(levels))
	for name, level := range levels {
		out = append(out, game.UpgradeState{Name: name, Level: level})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func parseLimit(value string, fallback, max int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 1 {
		return fallback
	}
	if parsed > max {
		return max
	}
	return parsed
}
