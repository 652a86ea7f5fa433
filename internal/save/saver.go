package save

import (
	"context"
	"log"
	"sync"
	"time"
)

// saveDelay is the debounce interval between a state change and the flush.
// The timer is non-resetting: a burst of changes inside the window still
// flushes once, carrying the latest snapshot.
const saveDelay = 200 * time.Millisecond

const flushTimeout = 5 * time.Second

// Saver coalesces snapshot writes behind a debounce timer and deduplicates
// both the local write and the network upload by canonical signature.
type Saver struct {
	store  *Store
	client *Client

	mu        sync.Mutex
	pending   Snapshot
	hasPend   bool
	timer     *time.Timer
	localSig  string
	sentSig   string
	dbVersion int
}

func NewSaver(store *Store, client *Client, dbVersion int) *Saver {
	return &Saver{store: store, client: client, dbVersion: dbVersion}
}

// SeedLocal records the signature of state already on disk so an unchanged
// snapshot is not rewritten. The transmitted signature is deliberately not
// seeded: the first flush of a session always reaches the server.
func (s *Saver) SeedLocal(snap Snapshot) {
	s.mu.Lock()
	s.localSig = snap.Signature()
	s.mu.Unlock()
}

// Schedule queues a snapshot for flushing. The first call in an idle window
// arms the timer; later calls only replace the pending snapshot.
func (s *Saver) Schedule(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = snap
	s.hasPend = true
	if s.timer != nil {
		return
	}
	s.timer = time.AfterFunc(saveDelay, func() {
		s.flush(false)
	})
}

// FlushNow flushes any pending snapshot immediately, waiting for the
// network send. Shutdown paths call this so the last burst is not lost.
func (s *Saver) FlushNow() {
	s.flush(true)
}

func (s *Saver) flush(wait bool) {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if !s.hasPend {
		s.mu.Unlock()
		return
	}
	snap := s.pending
	s.hasPend = false
	sig := snap.Signature()

	writeLocal := sig != s.localSig
	if writeLocal {
		s.localSig = sig
	}
	sendRemote := s.client.User().Known() && sig != s.sentSig
	if sendRemote {
		s.sentSig = sig
	}
	s.mu.Unlock()

	if writeLocal {
		if err := s.store.Write(snap, s.dbVersion); err != nil {
			log.Printf("save: local write failed: %v", err)
		}
	}
	if !sendRemote {
		return
	}
	send := func() {
		ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		defer cancel()
		if err := s.client.SendProgress(ctx, snap); err != nil {
			log.Printf("save: upload failed: %v", err)
			s.mu.Lock()
			if s.sentSig == sig {
				s.sentSig = ""
			}
			s.mu.Unlock()
		}
	}
	if wait {
		send()
	} else {
		go send()
	}
}
