package save

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/kosmodromgames/galactic-clicker/internal/game"
	"github.com/kosmodromgames/galactic-clicker/internal/platform"
)

type fakeServer struct {
	dbVersion int
	progress  *remoteProgress
	fetches   int
	checks    int
}

func (f *fakeServer) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/version-check":
			f.checks++
			v, _ := strconv.Atoi(r.URL.Query().Get("db_version"))
			if v == f.dbVersion {
				w.WriteHeader(http.StatusOK)
			} else {
				w.WriteHeader(http.StatusConflict)
			}
		case "/api/clicker":
			f.fetches++
			if f.progress == nil {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			json.NewEncoder(w).Encode(f.progress)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func newTestManager(t *testing.T, srvURL string, user platform.User) (*Manager, *game.Game, *Store) {
	t.Helper()
	g := game.New(game.DefaultCatalog(), platform.NoopHaptics{})
	t.Cleanup(g.Close)
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	client := NewClient(srvURL, user)
	return NewManager(g, store, client, 1), g, store
}

func TestLoadKeepsLocalWhenVersionCurrent(t *testing.T) {
	fake := &fakeServer{dbVersion: 1, progress: &remoteProgress{
		Snapshot:  testSnapshot(999),
		DBVersion: 1,
	}}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	m, g, store := newTestManager(t, srv.URL, platform.User{ID: "42"})
	local := testSnapshot(100)
	if err := store.Write(local, 1); err != nil {
		t.Fatal(err)
	}

	m.Load(context.Background())

	if got := g.Progress().Currency; got != 100 {
		t.Fatalf("currency = %d, want local 100", got)
	}
	if fake.fetches != 0 {
		t.Fatalf("fetches = %d, want 0 when version is current", fake.fetches)
	}
	if fake.checks != 1 {
		t.Fatalf("checks = %d, want 1", fake.checks)
	}
}

func TestLoadRefetchesOnStaleVersion(t *testing.T) {
	fake := &fakeServer{dbVersion: 2, progress: &remoteProgress{
		Snapshot:  testSnapshot(999),
		DBVersion: 2,
	}}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	m, g, store := newTestManager(t, srv.URL, platform.User{ID: "42"})
	if err := store.Write(testSnapshot(100), 1); err != nil {
		t.Fatal(err)
	}

	m.Load(context.Background())

	if got := g.Progress().Currency; got != 999 {
		t.Fatalf("currency = %d, want server copy 999", got)
	}
	snap, version, ok := store.Read()
	if !ok {
		t.Fatal("refetched state not persisted locally")
	}
	if snap.Currency != 999 || version != 2 {
		t.Fatalf("local store = %+v v%d, want server copy v2", snap, version)
	}
}

func TestLoadFetchesWhenNoLocalState(t *testing.T) {
	fake := &fakeServer{dbVersion: 1, progress: &remoteProgress{
		Snapshot:  testSnapshot(555),
		DBVersion: 1,
	}}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	m, g, _ := newTestManager(t, srv.URL, platform.User{ID: "42"})
	m.Load(context.Background())

	if got := g.Progress().Currency; got != 555 {
		t.Fatalf("currency = %d, want server copy 555", got)
	}
	if fake.checks != 0 {
		t.Fatalf("checks = %d, want 0 without a local token", fake.checks)
	}
}

func TestLoadSkipsRemoteWithoutIdentity(t *testing.T) {
	fake := &fakeServer{dbVersion: 1}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	m, g, store := newTestManager(t, srv.URL, platform.User{})
	if err := store.Write(testSnapshot(100), 1); err != nil {
		t.Fatal(err)
	}
	m.Load(context.Background())

	if got := g.Progress().Currency; got != 100 {
		t.Fatalf("currency = %d, want local 100", got)
	}
	if fake.checks != 0 || fake.fetches != 0 {
		t.Fatalf("remote touched without identity: checks=%d fetches=%d", fake.checks, fake.fetches)
	}
}

func TestLoadKeepsLocalOnNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	defer srv.Close()

	m, g, store := newTestManager(t, srv.URL, platform.User{ID: "42"})
	if err := store.Write(testSnapshot(100), 1); err != nil {
		t.Fatal(err)
	}
	m.Load(context.Background())

	if got := g.Progress().Currency; got != 100 {
		t.Fatalf("currency = %d, want local state kept on error", got)
	}
}

func TestManagerFlushesClickOnClose(t *testing.T) {
	var uploaded *progressUpload
	mux := http.NewServeMux()
	fake := &fakeServer{dbVersion: 1}
	mux.HandleFunc("/api/version-check", fake.handler())
	mux.HandleFunc("/api/clicker", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			var body progressUpload
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			uploaded = &body
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	m, g, _ := newTestManager(t, srv.URL, platform.User{ID: "42", Username: "tester"})
	m.Load(context.Background())
	m.Start()

	g.Click(time.Now())
	m.Close()

	if uploaded == nil {
		t.Fatal("no upload on close")
	}
	if uploaded.UserID != "42" {
		t.Fatalf("user id = %q", uploaded.UserID)
	}
	if uploaded.Score != 1 || uploaded.Currency != 1 {
		t.Fatalf("uploaded snapshot = %+v", uploaded.Snapshot)
	}
}
