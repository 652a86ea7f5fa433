package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/kosmodromgames/galactic-clicker/internal/game"
	"github.com/kosmodromgames/galactic-clicker/internal/platform"
	"github.com/kosmodromgames/galactic-clicker/internal/save"
)

// Headless simulated player. Drives the full client core against a running
// persistence server: click bursts, upgrade purchases, chest openings and
// periodic leaderboard reads.

const dbVersion = 1

func main() {
	baseURL := envOr("API_BASE_URL", "http://localhost:8080")
	userID := envOr("BOT_USER_ID", "bot-"+strconv.Itoa(rand.Intn(100000)))
	username := envOr("BOT_USERNAME", "clicker-bot")
	sessionSeconds := envInt("BOT_SESSION_SECONDS", 120)
	stateDir := envOr("BOT_STATE_DIR", filepath.Join(os.TempDir(), "clicker-bot", userID))

	logInfo(fmt.Sprintf("starting bot user=%s server=%s session=%ds", userID, baseURL, sessionSeconds))

	catalog := game.DefaultCatalog()
	if path := os.Getenv("CATALOG_PATH"); path != "" {
		c, err := game.LoadCatalog(path)
		if err != nil {
			logError(fmt.Sprintf("catalog override: %v", err))
			os.Exit(1)
		}
		catalog = c
		logInfo("catalog override loaded from " + path)
	}

	// Host shell handshake a real mini-app performs before play begins.
	var shell platform.Viewport = platform.NoopViewport{}
	shell.Expand()
	shell.Ready()

	g := game.New(catalog, platform.NoopHaptics{})
	defer g.Close()

	store, err := save.NewStore(stateDir)
	if err != nil {
		logError(fmt.Sprintf("state dir: %v", err))
		os.Exit(1)
	}
	client := save.NewClient(baseURL, platform.User{ID: userID, Username: username})
	manager := save.NewManager(g, store, client, dbVersion)

	ctx := context.Background()
	manager.Load(ctx)
	manager.Start()
	defer manager.Close()

	p := g.Progress()
	logInfo(fmt.Sprintf("loaded progress score=%d level=%d currency=%d", p.Score, p.Level, p.Currency))

	deadline := time.Now().Add(time.Duration(sessionSeconds) * time.Second)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for time.Now().Before(deadline) {
		runClickBurst(g, rng)
		buyAffordableUpgrade(g)
		openAvailableChests(g)
		readLeaderboard(ctx, manager, rng)

		// Idle between bursts so the combo chain decays like a real player's.
		time.Sleep(time.Duration(1500+rng.Intn(2500)) * time.Millisecond)
	}

	p = g.Progress()
	logInfo(fmt.Sprintf("session complete score=%d level=%d currency=%d upgrades=%d skins=%d",
		p.Score, p.Level, p.Currency, len(p.Upgrades), len(p.OwnedSkins)))
}

func runClickBurst(g *game.Game, rng *rand.Rand) {
	clicks := 5 + rng.Intn(20)
	for i := 0; i < clicks; i++ {
		res := g.Click(time.Now())
		if res.LevelsGained > 0 {
			logInfo(fmt.Sprintf("level up! level=%d combo=%d", g.Progress().Level, res.Combo))
		}
		time.Sleep(time.Duration(80+rng.Intn(250)) * time.Millisecond)
	}
}

func buyAffordableUpgrade(g *game.Game) {
	p := g.Progress()
	catalog := g.Catalog()
	var bestID string
	var bestCost int64 = -1
	for _, def := range catalog.Upgrades {
		cost := game.UpgradeCost(&def, p.Upgrades[def.ID])
		if cost <= p.Currency && (bestCost < 0 || cost < bestCost) {
			bestID = def.ID
			bestCost = cost
		}
	}
	if bestID == "" {
		return
	}
	if g.BuyUpgrade(bestID) {
		logInfo(fmt.Sprintf("bought %s for %d, balance=%d", bestID, bestCost, g.Progress().Currency))
	}
}

func openAvailableChests(g *game.Game) {
	for _, id := range []string{"daily_free", "crystal_cache"} {
		if !g.ChestAvailability(id) {
			continue
		}
		rewards, ok := g.OpenChest(id)
		if !ok {
			continue
		}
		for _, r := range rewards {
			logInfo(fmt.Sprintf("chest %s reward: type=%s id=%s amount=%d", id, r.Type, r.ID, r.Amount))
		}
	}
}

func readLeaderboard(ctx context.Context, manager *save.Manager, rng *rand.Rand) {
	// The client caches standings for a minute, so most reads are free.
	if rng.Intn(10) != 0 {
		return
	}
	items, err := manager.Leaderboard(ctx, 20, false)
	if err != nil {
		logError(fmt.Sprintf("leaderboard: %v", err))
		return
	}
	if len(items) > 0 {
		logInfo(fmt.Sprintf("leaderboard top: %s score=%d", items[0].Username, items[0].Score))
	}
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func logInfo(message string) {
	fmt.Printf("[INFO] %s %s\n", time.Now().Format(time.RFC3339), message)
}

func logError(message string) {
	fmt.Printf("[ERROR] %s %s\n", time.Now().Format(time.RFC3339), message)
}
