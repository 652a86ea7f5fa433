package save

import (
	"encoding/json"

	"github.com/kosmodromgames/galactic-clicker/internal/game"
)

// Snapshot is the wire and disk shape of a player's durable progress.
// Upgrades and skins are kept sorted so the same state always encodes to
// the same bytes.
type Snapshot struct {
	Score        int64               `json:"score"`
	Level        int                 `json:"level"`
	Currency     int64               `json:"currency"`
	Upgrades     []game.UpgradeState `json:"upgrades"`
	ActiveSkin   string              `json:"active_skin"`
	OwnedSkins   []string            `json:"owned_skins"`
	HasFreeChest bool                `json:"has_free_chest"`
}

// FromProgress converts live game state into its canonical snapshot.
func FromProgress(p game.PlayerProgress) Snapshot {
	return Snapshot{
		Score:        p.Score,
		Level:        p.Level,
		Currency:     p.Currency,
		Upgrades:     p.SortedUpgrades(),
		ActiveSkin:   p.ActiveSkin,
		OwnedSkins:   p.SortedSkins(),
		HasFreeChest: p.HasFreeChest,
	}
}

// ToProgress converts a snapshot back into game state. The result still
// goes through normalization inside Game.Restore, so snapshots from old
// clients or a tampered store cannot poison the core.
func (s Snapshot) ToProgress() game.PlayerProgress {
	p := game.PlayerProgress{
		Score:        s.Score,
		Level:        s.Level,
		Currency:     s.Currency,
		Upgrades:     make(map[string]int, len(s.Upgrades)),
		ActiveSkin:   s.ActiveSkin,
		OwnedSkins:   make(map[string]bool, len(s.OwnedSkins)),
		HasFreeChest: s.HasFreeChest,
	}
	for _, u := range s.Upgrades {
		if u.Level > 0 {
			p.Upgrades[u.Name] = u.Level
		}
	}
	for _, id := range s.OwnedSkins {
		p.OwnedSkins[id] = true
	}
	return p
}

// Signature is the canonical encoding used for change detection. Two
// snapshots with equal signatures carry identical progress.
func (s Snapshot) Signature() string {
	data, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	return string(data)
}
