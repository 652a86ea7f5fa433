package game

import (
	"log"
	"sort"
)

// PlayerProgress is the durable part of a player's state. Combo and the
// derived modifiers are session state and live on Game instead.
type PlayerProgress struct {
	Score        int64
	Level        int
	Currency     int64
	Upgrades     map[string]int
	ActiveSkin   string
	OwnedSkins   map[string]bool
	HasFreeChest bool
}

// NewProgress returns the starting state for a fresh player.
func NewProgress(c *Catalog) PlayerProgress {
	return PlayerProgress{
		Upgrades:   make(map[string]int),
		ActiveSkin: c.DefaultSkin,
		OwnedSkins: map[string]bool{c.DefaultSkin: true},
	}
}

// Normalize coerces a snapshot that arrived from storage or the network into
// a state the rest of the core can trust. Negative counters clamp to zero,
// unknown catalog ids are dropped, and the active skin falls back to the
// default when it is not owned.
func (p *PlayerProgress) Normalize(c *Catalog) {
	if p.Score < 0 {
		p.Score = 0
	}
	if p.Currency < 0 {
		p.Currency = 0
	}
	if p.Upgrades == nil {
		p.Upgrades = make(map[string]int)
	}
	for id, lvl := range p.Upgrades {
		if _, ok := c.Upgrade(id); !ok {
			log.Printf("progress: dropping unknown upgrade %q", id)
			delete(p.Upgrades, id)
			continue
		}
		if lvl <= 0 {
			delete(p.Upgrades, id)
		}
	}
	if p.OwnedSkins == nil {
		p.OwnedSkins = make(map[string]bool)
	}
	for id := range p.OwnedSkins {
		if _, ok := c.Skin(id); !ok {
			log.Printf("progress: dropping unknown skin %q", id)
			delete(p.OwnedSkins, id)
		}
	}
	p.OwnedSkins[c.DefaultSkin] = true
	if !p.OwnedSkins[p.ActiveSkin] {
		p.ActiveSkin = c.DefaultSkin
	}
	p.Level = LevelForScore(p.Score)
}

// SortedUpgrades returns the owned upgrades as (id, level) pairs in id order.
func (p *PlayerProgress) SortedUpgrades() []UpgradeState {
	out := make([]UpgradeState, 0, len(p.Upgrades))
	for id, lvl := range p.Upgrades {
		out = append(out, UpgradeState{Name: id, Level: lvl})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SortedSkins returns the owned skin ids in order.
func (p *PlayerProgress) SortedSkins() []string {
	out := make([]string, 0, len(p.OwnedSkins))
	for id := range p.OwnedSkins {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// UpgradeState is the wire shape for one owned upgrade.
type UpgradeState struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// Clone returns a deep copy safe to hand to observers.
func (p PlayerProgress) Clone() PlayerProgress {
	cp := p
	cp.Upgrades = make(map[string]int, len(p.Upgrades))
	for k, v := range p.Upgrades {
		cp.Upgrades[k] = v
	}
	cp.OwnedSkins = make(map[string]bool, len(p.OwnedSkins))
	for k, v := range p.OwnedSkins {
		cp.OwnedSkins[k] = v
	}
	return cp
}
