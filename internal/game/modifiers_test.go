package game

import (
	"testing"
	"time"
)

func TestRecomputeModifiersFromBase(t *testing.T) {
	cases := []struct {
		name   string
		levels map[string]int
		want   Modifiers
	}{
		{
			name:   "no upgrades",
			levels: nil,
			want: Modifiers{
				ComboWindow:      1200 * time.Millisecond,
				MaxCombo:         8,
				MinCombo:         1,
				ScoreMultiplier:  1,
				CurrencyPerClick: 1,
				LevelReward:      50,
				PassivePerTick:   0,
			},
		},
		{
			name:   "combo window stacks",
			levels: map[string]int{upgradeChronoCore: 3},
			want: Modifiers{
				ComboWindow:      1740 * time.Millisecond,
				MaxCombo:         8,
				MinCombo:         1,
				ScoreMultiplier:  1,
				CurrencyPerClick: 1,
				LevelReward:      50,
			},
		},
		{
			name:   "score multiplier scales with level",
			levels: map[string]int{upgradeQuantumLoop: 2},
			want: Modifiers{
				ComboWindow:      1200 * time.Millisecond,
				MaxCombo:         8,
				MinCombo:         1,
				ScoreMultiplier:  1.3,
				CurrencyPerClick: 1,
				LevelReward:      50,
			},
		},
		{
			name:   "exchange applies after dividend and rounds",
			levels: map[string]int{upgradeDividendProtocol: 1, upgradeGalacticExchange: 1},
			want: Modifiers{
				ComboWindow:      1200 * time.Millisecond,
				MaxCombo:         8,
				MinCombo:         1,
				ScoreMultiplier:  1,
				CurrencyPerClick: 1,
				LevelReward:      153,
			},
		},
		{
			name:   "entropy shield raises the combo floor",
			levels: map[string]int{upgradeEntropyShield: 3},
			want: Modifiers{
				ComboWindow:      1200 * time.Millisecond,
				MaxCombo:         8,
				MinCombo:         3,
				ScoreMultiplier:  1,
				CurrencyPerClick: 1,
				LevelReward:      50,
			},
		},
		{
			name:   "min combo clamps to max",
			levels: map[string]int{upgradeEntropyShield: 10},
			want: Modifiers{
				ComboWindow:      1200 * time.Millisecond,
				MaxCombo:         8,
				MinCombo:         8,
				ScoreMultiplier:  1,
				CurrencyPerClick: 1,
				LevelReward:      50,
			},
		},
		{
			name: "drone fleet and magnet",
			levels: map[string]int{
				upgradeDroneFleet:    2,
				upgradeStellarMagnet: 3,
				upgradeCrownOfCombos: 1,
			},
			want: Modifiers{
				ComboWindow:      1200 * time.Millisecond,
				MaxCombo:         9,
				MinCombo:         1,
				ScoreMultiplier:  1,
				CurrencyPerClick: 4,
				LevelReward:      50,
				PassivePerTick:   8,
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := RecomputeModifiers(tc.levels)
			if got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestRecomputeModifiersIsPure(t *testing.T) {
	levels := map[string]int{upgradeQuantumLoop: 1}
	first := RecomputeModifiers(levels)
	second := RecomputeModifiers(levels)
	if first != second {
		t.Fatalf("repeated recompute diverged: %+v vs %+v", first, second)
	}
}

func TestUpgradeCost(t *testing.T) {
	c := DefaultCatalog()
	def, _ := c.Upgrade(upgradeChronoCore)
	if got := UpgradeCost(def, 0); got != 160 {
		t.Fatalf("level 0 cost = %d, want 160", got)
	}
	if got := UpgradeCost(def, 1); got != 280 {
		t.Fatalf("level 1 cost = %d, want 280", got)
	}
	prev := int64(0)
	for lvl := 0; lvl < 10; lvl++ {
		cost := UpgradeCost(def, lvl)
		if cost <= prev {
			t.Fatalf("cost not strictly increasing at level %d: %d <= %d", lvl, cost, prev)
		}
		prev = cost
	}
}
