package game

import "time"

// FreeChestResetHour is the local hour at which the daily free chest comes
// back. The server-side reset job uses the same boundary.
const FreeChestResetHour = 8

// NextFreeChestReset returns the next daily reset instant strictly after
// now. A call exactly at the boundary returns the following day.
func NextFreeChestReset(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), FreeChestResetHour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// chestAvailable decides whether a chest can be opened right now. Free
// chests are gated by the daily flag, currency chests by the balance, and
// star chests are always offered since the platform collects the payment.
func chestAvailable(def *ChestDefinition, p *PlayerProgress) bool {
	switch def.CostType {
	case CostFree:
		return p.HasFreeChest
	case CostCurrency:
		return p.Currency >= def.CostAmount
	case CostStars:
		return true
	default:
		return false
	}
}

// ChestAvailability reports whether the chest could be opened.
func (g *Game) ChestAvailability(id string) bool {
	def, ok := g.catalog.Chest(id)
	if !ok {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return chestAvailable(def, &g.progress)
}

// ResolvedReward is one granted item from a chest opening. Compensation
// marks a currency grant that replaced a skin draw when the collection was
// already complete.
type ResolvedReward struct {
	Type         RewardType `json:"type"`
	ID           string     `json:"id,omitempty"`
	Amount       int64      `json:"amount,omitempty"`
	New          bool       `json:"new,omitempty"`
	Compensation bool       `json:"compensation,omitempty"`
}

// OpenChest pays for and resolves a chest. The payment and every granted
// reward apply atomically under the core lock; a denial changes nothing.
func (g *Game) OpenChest(id string) ([]ResolvedReward, bool) {
	g.mu.Lock()
	def, ok := g.catalog.Chest(id)
	if !ok || !chestAvailable(def, &g.progress) {
		g.mu.Unlock()
		g.haptics.ImpactLight()
		return nil, false
	}

	switch def.CostType {
	case CostFree:
		g.progress.HasFreeChest = false
	case CostCurrency:
		g.progress.Currency -= def.CostAmount
	}

	rolls := def.RewardRolls[g.rng.Intn(len(def.RewardRolls))]
	rewards := make([]ResolvedReward, 0, rolls)
	upgradeGranted := false
	for i := 0; i < rolls; i++ {
		entry := g.pickRewardEntry(def)
		switch entry.Type {
		case RewardSkin:
			if skinID, ok := g.pickLockedSkin(); ok {
				g.progress.OwnedSkins[skinID] = true
				rewards = append(rewards, ResolvedReward{Type: RewardSkin, ID: skinID, New: true})
			} else {
				g.progress.Currency += entry.Amount
				rewards = append(rewards, ResolvedReward{Type: RewardCurrency, Amount: entry.Amount, Compensation: true})
			}
		case RewardUpgrade:
			u := g.catalog.Upgrades[g.rng.Intn(len(g.catalog.Upgrades))]
			g.progress.Upgrades[u.ID]++
			upgradeGranted = true
			rewards = append(rewards, ResolvedReward{Type: RewardUpgrade, ID: u.ID})
		case RewardCurrency:
			g.progress.Currency += entry.Amount
			rewards = append(rewards, ResolvedReward{Type: RewardCurrency, Amount: entry.Amount})
		}
	}
	if upgradeGranted {
		g.recomputeLocked()
	}

	snapshot := g.progress.Clone()
	listeners := g.listeners
	g.mu.Unlock()

	g.haptics.NotifySuccess()
	g.notify(EventChestOpened, snapshot, listeners)
	return rewards, true
}

// pickRewardEntry samples one reward line by weight. Weights are validated
// positive at catalog load. Callers hold mu.
func (g *Game) pickRewardEntry(def *ChestDefinition) RewardEntry {
	total := 0
	for _, r := range def.Rewards {
		total += r.Weight
	}
	n := g.rng.Intn(total)
	for _, r := range def.Rewards {
		n -= r.Weight
		if n < 0 {
			return r
		}
	}
	return def.Rewards[len(def.Rewards)-1]
}

// pickLockedSkin picks uniformly among skins the player does not own yet.
func (g *Game) pickLockedSkin() (string, bool) {
	locked := make([]string, 0, len(g.catalog.Skins))
	for _, s := range g.catalog.Skins {
		if !g.progress.OwnedSkins[s.ID] {
			locked = append(locked, s.ID)
		}
	}
	if len(locked) == 0 {
		return "", false
	}
	return locked[g.rng.Intn(len(locked))], true
}
