package game

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/kosmodromgames/galactic-clicker/internal/platform"
)

// EventKind labels what mutation a notification describes.
type EventKind string

const (
	EventClick       EventKind = "click"
	EventLevelUp     EventKind = "level_up"
	EventComboDecay  EventKind = "combo_decay"
	EventPurchase    EventKind = "purchase"
	EventSkinChange  EventKind = "skin_change"
	EventChestOpened EventKind = "chest_opened"
	EventPassive     EventKind = "passive_income"
	EventRestore     EventKind = "restore"
	EventReset       EventKind = "reset"
)

// Event is delivered to subscribers after every state mutation. Progress is
// a deep copy so handlers may keep it without racing the core.
type Event struct {
	Kind     EventKind
	Progress PlayerProgress
}

// Listener receives state change events. Listeners are invoked outside the
// core lock and may call back into the Game.
type Listener func(Event)

// Game owns the live player state and all gameplay rules. All exported
// methods are safe for concurrent use.
type Game struct {
	catalog *Catalog
	haptics platform.Haptics

	mu        sync.Mutex
	progress  PlayerProgress
	mods      Modifiers
	combo     int
	lastClick time.Time
	decayGen  uint64
	listeners []Listener
	rng       *rand.Rand

	ticker *time.Ticker
	done   chan struct{}
}

// New creates a game with fresh progress and starts the passive income loop.
func New(catalog *Catalog, haptics platform.Haptics) *Game {
	if haptics == nil {
		haptics = platform.NoopHaptics{}
	}
	g := &Game{
		catalog: catalog,
		haptics: haptics,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		ticker:  time.NewTicker(passiveTickPeriod),
		done:    make(chan struct{}),
	}
	g.progress = NewProgress(catalog)
	g.mods = RecomputeModifiers(g.progress.Upgrades)
	g.combo = g.mods.MinCombo
	go g.passiveLoop()
	return g
}

// Close stops the background timers. The game must not be used afterwards.
func (g *Game) Close() {
	g.ticker.Stop()
	close(g.done)
}

// Subscribe registers a listener for all future state changes.
func (g *Game) Subscribe(l Listener) {
	g.mu.Lock()
	g.listeners = append(g.listeners, l)
	g.mu.Unlock()
}

func (g *Game) notify(kind EventKind, snapshot PlayerProgress, listeners []Listener) {
	ev := Event{Kind: kind, Progress: snapshot}
	for _, l := range listeners {
		l(ev)
	}
}

// Progress returns a copy of the current durable state.
func (g *Game) Progress() PlayerProgress {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.progress.Clone()
}

// Modifiers returns the current derived modifier set.
func (g *Game) Modifiers() Modifiers {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mods
}

// Combo returns the live combo counter.
func (g *Game) Combo() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.combo
}

// Catalog exposes the static content the game was built with.
func (g *Game) Catalog() *Catalog {
	return g.catalog
}

// ClickResult reports what a single click produced.
type ClickResult struct {
	Combo        int
	ScoreGain    int64
	CurrencyGain int64
	LevelsGained int
}

// Click registers one tap at the given instant. Consecutive clicks inside
// the combo window grow the combo up to the cap; a gap past the window has
// already dropped it back via the decay timer, but the chain check here
// covers restored clocks and direct calls as well.
func (g *Game) Click(now time.Time) ClickResult {
	g.mu.Lock()

	if !g.lastClick.IsZero() && now.Sub(g.lastClick) <= g.mods.ComboWindow {
		if g.combo < g.mods.MaxCombo {
			g.combo++
		}
	} else {
		g.combo = g.mods.MinCombo
	}
	g.lastClick = now

	res := ClickResult{Combo: g.combo}
	res.ScoreGain = int64(math.Round(float64(g.combo) * g.mods.ScoreMultiplier))
	if res.ScoreGain < 1 {
		res.ScoreGain = 1
	}
	res.CurrencyGain = int64(g.combo) * g.mods.CurrencyPerClick
	if res.CurrencyGain < 0 {
		res.CurrencyGain = 0
	}
	g.progress.Score += res.ScoreGain
	g.progress.Currency += res.CurrencyGain

	for g.progress.Score > LevelGoal(g.progress.Level) {
		g.progress.Level++
		g.progress.Currency += int64(math.Round(g.mods.LevelReward))
		res.LevelsGained++
	}

	g.armDecayTimer()
	snapshot := g.progress.Clone()
	listeners := g.listeners
	g.mu.Unlock()

	g.haptics.ImpactMedium()
	if res.LevelsGained > 0 {
		g.haptics.NotifySuccess()
		g.notify(EventLevelUp, snapshot, listeners)
	} else {
		g.notify(EventClick, snapshot, listeners)
	}
	return res
}

// armDecayTimer schedules the combo reset slightly past the window edge.
// The generation counter makes a stale timer fire a no-op; callers hold mu.
func (g *Game) armDecayTimer() {
	g.decayGen++
	gen := g.decayGen
	time.AfterFunc(g.mods.ComboWindow+decayGrace, func() {
		g.decayCombo(gen)
	})
}

func (g *Game) decayCombo(gen uint64) {
	g.mu.Lock()
	if gen != g.decayGen || g.combo <= g.mods.MinCombo {
		g.mu.Unlock()
		return
	}
	g.combo = g.mods.MinCombo
	snapshot := g.progress.Clone()
	listeners := g.listeners
	g.mu.Unlock()
	g.notify(EventComboDecay, snapshot, listeners)
}

// BuyUpgrade spends currency on the next level of an upgrade. A denial,
// unknown id or unaffordable price, is a no-op that leaves every counter
// untouched.
func (g *Game) BuyUpgrade(id string) bool {
	g.mu.Lock()
	def, ok := g.catalog.Upgrade(id)
	if !ok {
		g.mu.Unlock()
		g.haptics.ImpactLight()
		return false
	}
	cost := UpgradeCost(def, g.progress.Upgrades[id])
	if g.progress.Currency < cost {
		g.mu.Unlock()
		g.haptics.ImpactLight()
		return false
	}
	g.progress.Currency -= cost
	g.progress.Upgrades[id]++
	g.recomputeLocked()
	snapshot := g.progress.Clone()
	listeners := g.listeners
	g.mu.Unlock()

	g.haptics.NotifySuccess()
	g.notify(EventPurchase, snapshot, listeners)
	return true
}

// SelectSkin activates an owned skin. Selecting a locked or unknown skin is
// a denial no-op.
func (g *Game) SelectSkin(id string) bool {
	g.mu.Lock()
	if !g.progress.OwnedSkins[id] {
		g.mu.Unlock()
		g.haptics.ImpactLight()
		return false
	}
	g.progress.ActiveSkin = id
	snapshot := g.progress.Clone()
	listeners := g.listeners
	g.mu.Unlock()

	g.haptics.SelectionChanged()
	g.notify(EventSkinChange, snapshot, listeners)
	return true
}

// Reset drops all progress back to the starting state.
func (g *Game) Reset() {
	g.mu.Lock()
	g.progress = NewProgress(g.catalog)
	g.recomputeLocked()
	g.combo = g.mods.MinCombo
	g.lastClick = time.Time{}
	g.decayGen++
	snapshot := g.progress.Clone()
	listeners := g.listeners
	g.mu.Unlock()
	g.notify(EventReset, snapshot, listeners)
}

// Restore replaces the live state with a snapshot from storage. The snapshot
// is normalized first and the combo chain starts over.
func (g *Game) Restore(p PlayerProgress) {
	p.Normalize(g.catalog)
	g.mu.Lock()
	g.progress = p
	g.recomputeLocked()
	g.combo = g.mods.MinCombo
	g.lastClick = time.Time{}
	g.decayGen++
	snapshot := g.progress.Clone()
	listeners := g.listeners
	g.mu.Unlock()
	g.notify(EventRestore, snapshot, listeners)
}

// recomputeLocked rebuilds the modifier set after an upgrade change and
// keeps the combo counter inside the possibly narrowed bounds.
func (g *Game) recomputeLocked() {
	g.mods = RecomputeModifiers(g.progress.Upgrades)
	if g.combo > g.mods.MaxCombo {
		g.combo = g.mods.MaxCombo
	}
	if g.combo < g.mods.MinCombo {
		g.combo = g.mods.MinCombo
	}
}

func (g *Game) passiveLoop() {
	for {
		select {
		case <-g.done:
			return
		case <-g.ticker.C:
			g.mu.Lock()
			amount := g.mods.PassivePerTick
			if amount <= 0 {
				g.mu.Unlock()
				continue
			}
			g.progress.Currency += amount
			snapshot := g.progress.Clone()
			listeners := g.listeners
			g.mu.Unlock()
			g.notify(EventPassive, snapshot, listeners)
		}
	}
}
