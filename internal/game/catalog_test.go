package game

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCatalogLoads(t *testing.T) {
	c := DefaultCatalog()
	if len(c.Upgrades) != 8 {
		t.Fatalf("expected 8 upgrades, got %d", len(c.Upgrades))
	}
	if len(c.Chests) != 3 {
		t.Fatalf("expected 3 chests, got %d", len(c.Chests))
	}
	if len(c.Skins) != 4 {
		t.Fatalf("expected 4 skins, got %d", len(c.Skins))
	}
	if len(c.LevelTitles) != 10 {
		t.Fatalf("expected 10 level titles, got %d", len(c.LevelTitles))
	}
	if _, ok := c.Skin(c.DefaultSkin); !ok {
		t.Fatalf("default skin %q missing from catalog", c.DefaultSkin)
	}
	if _, ok := c.Upgrade(upgradeGalacticExchange); !ok {
		t.Fatal("galactic_exchange missing from catalog")
	}
	if _, ok := c.Chest("daily_free"); !ok {
		t.Fatal("daily_free chest missing from catalog")
	}
}

func TestLoadCatalogFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, embeddedCatalog, 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if len(c.Upgrades) != 8 || len(c.Chests) != 3 || len(c.Skins) != 4 {
		t.Fatalf("override catalog parsed wrong: %d/%d/%d", len(c.Upgrades), len(c.Chests), len(c.Skins))
	}
	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("default_skin: ghost\nlevel_titles: [x]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCatalog(bad); err == nil {
		t.Fatal("expected validation error for invalid override")
	}
}

func TestParseCatalogRejectsBadData(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"duplicate upgrade", `
default_skin: a
level_titles: ["x"]
skins:
  - {id: a, name: A, rarity: common}
upgrades:
  - {id: dup, name: D, base_cost: 10, cost_growth: 1.5}
  - {id: dup, name: D, base_cost: 10, cost_growth: 1.5}
`},
		{"zero reward weight", `
default_skin: a
level_titles: ["x"]
skins:
  - {id: a, name: A, rarity: common}
chests:
  - id: c
    name: C
    cost_type: free
    rewards:
      - {type: currency, weight: 0, amount: 10}
    reward_rolls: [1]
`},
		{"empty rolls", `
default_skin: a
level_titles: ["x"]
skins:
  - {id: a, name: A, rarity: common}
chests:
  - id: c
    name: C
    cost_type: free
    rewards:
      - {type: currency, weight: 1, amount: 10}
    reward_rolls: []
`},
		{"unknown cost type", `
default_skin: a
level_titles: ["x"]
skins:
  - {id: a, name: A, rarity: common}
chests:
  - id: c
    name: C
    cost_type: gems
    cost_amount: 5
    rewards:
      - {type: currency, weight: 1, amount: 10}
    reward_rolls: [1]
`},
		{"default skin not listed", `
default_skin: missing
level_titles: ["x"]
skins:
  - {id: a, name: A, rarity: common}
`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parseCatalog([]byte(tc.yaml)); err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}
