package game

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// CostType describes how a chest is paid for.
type CostType string

const (
	CostFree     CostType = "free"
	CostCurrency CostType = "currency"
	CostStars    CostType = "stars"
)

// RewardType is the category a chest roll resolves to.
type RewardType string

const (
	RewardSkin     RewardType = "skin"
	RewardUpgrade  RewardType = "upgrade"
	RewardCurrency RewardType = "currency"
)

type UpgradeDefinition struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	BaseCost    float64 `yaml:"base_cost"`
	CostGrowth  float64 `yaml:"cost_growth"`
}

type RewardEntry struct {
	Type   RewardType `yaml:"type"`
	Weight int        `yaml:"weight"`
	Amount int64      `yaml:"amount"`
}

type ChestDefinition struct {
	ID          string        `yaml:"id"`
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	CostType    CostType      `yaml:"cost_type"`
	CostAmount  int64         `yaml:"cost_amount"`
	Rewards     []RewardEntry `yaml:"rewards"`
	RewardRolls []int         `yaml:"reward_rolls"`
}

type SkinDefinition struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Rarity      string `yaml:"rarity"`
	Description string `yaml:"description"`
	Glyph       string `yaml:"glyph"`
	Background  string `yaml:"background"`
	Highlight   string `yaml:"highlight"`
	Accent      string `yaml:"accent"`
}

// Catalog holds the static game content: upgrades, chests, skins and the
// level title ladder. It is immutable after load.
type Catalog struct {
	CurrencyName   string              `yaml:"currency_name"`
	CurrencySymbol string              `yaml:"currency_symbol"`
	DefaultSkin    string              `yaml:"default_skin"`
	LevelTitles    []string            `yaml:"level_titles"`
	Upgrades       []UpgradeDefinition `yaml:"upgrades"`
	Chests         []ChestDefinition   `yaml:"chests"`
	Skins          []SkinDefinition    `yaml:"skins"`

	upgradesByID map[string]*UpgradeDefinition
	chestsByID   map[string]*ChestDefinition
	skinsByID    map[string]*SkinDefinition
}

// DefaultCatalog parses the embedded catalog. The embedded data is validated
// at build time by the catalog tests, so a parse failure here is a programmer
// error and panics.
func DefaultCatalog() *Catalog {
	c, err := parseCatalog(embeddedCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// LoadCatalog reads a catalog override from disk.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return parseCatalog(data)
}

func parseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	c.upgradesByID = make(map[string]*UpgradeDefinition, len(c.Upgrades))
	for i := range c.Upgrades {
		c.upgradesByID[c.Upgrades[i].ID] = &c.Upgrades[i]
	}
	c.chestsByID = make(map[string]*ChestDefinition, len(c.Chests))
	for i := range c.Chests {
		c.chestsByID[c.Chests[i].ID] = &c.Chests[i]
	}
	c.skinsByID = make(map[string]*SkinDefinition, len(c.Skins))
	for i := range c.Skins {
		c.skinsByID[c.Skins[i].ID] = &c.Skins[i]
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if c.DefaultSkin == "" {
		return fmt.Errorf("catalog: default_skin is required")
	}
	if len(c.LevelTitles) == 0 {
		return fmt.Errorf("catalog: level_titles must not be empty")
	}
	seen := make(map[string]bool)
	for _, u := range c.Upgrades {
		if u.ID == "" {
			return fmt.Errorf("catalog: upgrade with empty id")
		}
		if seen["u:"+u.ID] {
			return fmt.Errorf("catalog: duplicate upgrade id %q", u.ID)
		}
		seen["u:"+u.ID] = true
		if u.BaseCost <= 0 || u.CostGrowth <= 1 {
			return fmt.Errorf("catalog: upgrade %q has invalid cost curve", u.ID)
		}
	}
	for _, ch := range c.Chests {
		if ch.ID == "" {
			return fmt.Errorf("catalog: chest with empty id")
		}
		if seen["c:"+ch.ID] {
			return fmt.Errorf("catalog: duplicate chest id %q", ch.ID)
		}
		seen["c:"+ch.ID] = true
		switch ch.CostType {
		case CostFree, CostCurrency, CostStars:
		default:
			return fmt.Errorf("catalog: chest %q has unknown cost type %q", ch.ID, ch.CostType)
		}
		if ch.CostType != CostFree && ch.CostAmount <= 0 {
			return fmt.Errorf("catalog: chest %q has non-positive cost", ch.ID)
		}
		if len(ch.Rewards) == 0 {
			return fmt.Errorf("catalog: chest %q has no rewards", ch.ID)
		}
		for _, r := range ch.Rewards {
			switch r.Type {
			case RewardSkin, RewardUpgrade, RewardCurrency:
			default:
				return fmt.Errorf("catalog: chest %q has unknown reward type %q", ch.ID, r.Type)
			}
			if r.Weight <= 0 {
				return fmt.Errorf("catalog: chest %q has non-positive reward weight", ch.ID)
			}
		}
		if len(ch.RewardRolls) == 0 {
			return fmt.Errorf("catalog: chest %q has no reward rolls", ch.ID)
		}
		for _, n := range ch.RewardRolls {
			if n <= 0 {
				return fmt.Errorf("catalog: chest %q has non-positive roll count", ch.ID)
			}
		}
	}
	defaultFound := false
	for _, s := range c.Skins {
		if s.ID == "" {
			return fmt.Errorf("catalog: skin with empty id")
		}
		if seen["s:"+s.ID] {
			return fmt.Errorf("catalog: duplicate skin id %q", s.ID)
		}
		seen["s:"+s.ID] = true
		if s.ID == c.DefaultSkin {
			defaultFound = true
		}
	}
	if !defaultFound {
		return fmt.Errorf("catalog: default skin %q not in skin list", c.DefaultSkin)
	}
	return nil
}

func (c *Catalog) Upgrade(id string) (*UpgradeDefinition, bool) {
	u, ok := c.upgradesByID[id]
	return u, ok
}

func (c *Catalog) Chest(id string) (*ChestDefinition, bool) {
	ch, ok := c.chestsByID[id]
	return ch, ok
}

func (c *Catalog) Skin(id string) (*SkinDefinition, bool) {
	s, ok := c.skinsByID[id]
	return s, ok
}
