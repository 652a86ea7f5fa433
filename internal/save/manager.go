package save

import (
	"context"
	"log"

	"github.com/kosmodromgames/galactic-clicker/internal/game"
)

// Manager wires the game core to the local store and the remote client:
// startup reconcile, change subscription, shutdown flush.
type Manager struct {
	game   *game.Game
	store  *Store
	client *Client
	saver  *Saver
}

func NewManager(g *game.Game, store *Store, client *Client, dbVersion int) *Manager {
	return &Manager{
		game:   g,
		store:  store,
		client: client,
		saver:  NewSaver(store, client, dbVersion),
	}
}

// Load restores progress on startup. The local snapshot applies first so
// play can begin immediately; the server copy then wins whenever the local
// version token is stale or there is no local state at all. Network errors
// leave the local state in place.
func (m *Manager) Load(ctx context.Context) {
	localSnap, localVersion, haveLocal := m.store.Read()
	if haveLocal {
		m.game.Restore(localSnap.ToProgress())
		m.saver.SeedLocal(localSnap)
	}

	if !m.client.User().Known() {
		return
	}

	if haveLocal {
		current, err := m.client.CheckVersion(ctx, localVersion)
		if err != nil {
			log.Printf("save: version check failed, keeping local state: %v", err)
			return
		}
		if current {
			return
		}
		log.Printf("save: local version %d is stale, refetching", localVersion)
	}

	snap, version, found, err := m.client.FetchProgress(ctx)
	if err != nil {
		log.Printf("save: remote fetch failed, keeping local state: %v", err)
		return
	}
	if !found {
		return
	}
	m.game.Restore(snap.ToProgress())
	canonical := FromProgress(m.game.Progress())
	if err := m.store.Write(canonical, version); err != nil {
		log.Printf("save: local write failed: %v", err)
	}
	m.saver.SeedLocal(canonical)
}

// Start subscribes to the game so every mutation schedules a save.
func (m *Manager) Start() {
	m.game.Subscribe(func(ev game.Event) {
		m.saver.Schedule(FromProgress(ev.Progress))
	})
}

// Close flushes whatever is pending. Call on shutdown.
func (m *Manager) Close() {
	m.saver.FlushNow()
}

// Leaderboard proxies the remote standings with the client's cache.
func (m *Manager) Leaderboard(ctx context.Context, limit int, force bool) ([]LeaderboardEntry, error) {
	return m.client.Leaderboard(ctx, limit, force)
}
