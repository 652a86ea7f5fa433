package game

import (
	"math"
	"time"
)

// Base tuning values. Upgrades always scale from these, never from the
// previous derived state.
const (
	baseComboWindow      = 1200 * time.Millisecond
	baseMaxCombo         = 8
	baseMinCombo         = 1
	baseScoreMultiplier  = 1.0
	baseCurrencyPerClick = 1
	baseLevelReward      = 50.0
	basePassivePerTick   = 0
	passiveTickPeriod    = 5 * time.Second

	baseLevelGoal   = 120.0
	levelGoalGrowth = 1.65

	decayGrace = 250 * time.Millisecond
)

// Upgrade ids referenced by the modifier formulas.
const (
	upgradeChronoCore       = "chrono_core"
	upgradeQuantumLoop      = "quantum_loop"
	upgradeStellarMagnet    = "stellar_magnet"
	upgradeDividendProtocol = "dividend_protocol"
	upgradeDroneFleet       = "drone_fleet"
	upgradeCrownOfCombos    = "crown_of_combos"
	upgradeEntropyShield    = "entropy_shield"
	upgradeGalacticExchange = "galactic_exchange"
)

// Modifiers is the full derived state produced from the upgrade levels.
type Modifiers struct {
	ComboWindow      time.Duration
	MaxCombo         int
	MinCombo         int
	ScoreMultiplier  float64
	CurrencyPerClick int64
	LevelReward      float64
	PassivePerTick   int64
}

// RecomputeModifiers derives the complete modifier set from upgrade levels.
// It always starts from the base values; levels map to effects as follows:
//
//	chrono_core       +180ms combo window per level
//	quantum_loop      score multiplier *(1 + 0.15*level), rounded to 2 decimals
//	stellar_magnet    +1 currency per click per level
//	dividend_protocol +75 level reward per level
//	drone_fleet       +4 passive currency per tick per level
//	crown_of_combos   +1 max combo per level
//	entropy_shield    min combo = level (capped at max combo)
//	galactic_exchange level reward = round(reward*(1 + 0.1*level) + 15*level),
//	                  applied after dividend_protocol
func RecomputeModifiers(levels map[string]int) Modifiers {
	m := Modifiers{
		ComboWindow:      baseComboWindow,
		MaxCombo:         baseMaxCombo,
		MinCombo:         baseMinCombo,
		ScoreMultiplier:  baseScoreMultiplier,
		CurrencyPerClick: baseCurrencyPerClick,
		LevelReward:      baseLevelReward,
		PassivePerTick:   basePassivePerTick,
	}

	if n := levels[upgradeChronoCore]; n > 0 {
		m.ComboWindow += time.Duration(n) * 180 * time.Millisecond
	}
	if n := levels[upgradeQuantumLoop]; n > 0 {
		m.ScoreMultiplier = round2(m.ScoreMultiplier * (1 + 0.15*float64(n)))
	}
	if n := levels[upgradeStellarMagnet]; n > 0 {
		m.CurrencyPerClick += int64(n)
	}
	if n := levels[upgradeDividendProtocol]; n > 0 {
		m.LevelReward += 75 * float64(n)
	}
	if n := levels[upgradeDroneFleet]; n > 0 {
		m.PassivePerTick += 4 * int64(n)
	}
	if n := levels[upgradeCrownOfCombos]; n > 0 {
		m.MaxCombo += n
	}
	if n := levels[upgradeEntropyShield]; n > 0 {
		m.MinCombo = n
	}
	if n := levels[upgradeGalacticExchange]; n > 0 {
		m.LevelReward = math.Round(m.LevelReward*(1+0.1*float64(n)) + 15*float64(n))
	}

	if m.MinCombo > m.MaxCombo {
		m.MinCombo = m.MaxCombo
	}
	return m
}

// UpgradeCost is the price of the next level for an upgrade currently at
// the given level.
func UpgradeCost(def *UpgradeDefinition, level int) int64 {
	return int64(math.Round(def.BaseCost * math.Pow(def.CostGrowth, float64(level))))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
