// internal/session/store.go
//
// Per-visitor form state store.
//
// Context
// -------
// Every visitor owns exactly one *form.State, keyed by the UUID carried in
// the session cookie.  Entries live in a sync.Map with a lastSeen UnixNano
// stamp; a background evictor (evictor.go) drops entries idle longer than
// IdleTTL and trims the oldest when the map exceeds MaxEntries.  Creation
// goes through singleflight so two racing first requests from the same
// visitor share one State.
//
// All reads and writes of one State happen inside With, under the entry
// mutex, so a field change and its validator recompute are observed
// atomically.
//
// Notes
// -----
//   • Nothing is persisted; a restart forgets every half-filled form.
//   • Oxford commas, two spaces after periods.
package session

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/yanizio/contactform/internal/form"
	"github.com/yanizio/contactform/internal/metrics"
)

// Static defaults.  Config overrides them in cmd.
const (
	IdleTTL       = 30 * time.Minute
	MaxEntries    = 10000
	EvictInterval = time.Minute
)

// Options tune a Store.  Zero values take the defaults above.
type Options struct {
	IdleTTL       time.Duration
	MaxEntries    int
	EvictInterval time.Duration
}

type entry struct {
	mu       sync.Mutex
	state    *form.State
	lastSeen int64 // UnixNano
}

// Store maps session IDs to form states.
type Store struct {
	sfg         singleflight.Group
	m           sync.Map
	evictTicker *time.Ticker
	done        chan struct{}
	closeOnce   sync.Once
	idleTTL     time.Duration
	maxEntries  int
	now         func() time.Time
	log         *zap.SugaredLogger
}

// New constructs a Store and starts the background evictor.  Call Close
// to stop it.
func New(opts Options, log *zap.SugaredLogger) *Store {
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = IdleTTL
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = MaxEntries
	}
	if opts.EvictInterval <= 0 {
		opts.EvictInterval = EvictInterval
	}
	if log == nil {
		log = zap.S()
	}
	s := &Store{
		idleTTL:    opts.IdleTTL,
		maxEntries: opts.MaxEntries,
		done:       make(chan struct{}),
		now:        time.Now,
		log:        log,
	}
	s.evictTicker = time.NewTicker(opts.EvictInterval)
	go s.evictLoop()
	return s
}

// With runs fn against the State for id, creating a fresh State on first
// use.  fn runs under the entry lock and must not call back into the Store.
func (s *Store) With(id string, fn func(*form.State)) {
	for {
		ent := s.get(id)
		if s.run(id, ent, fn) {
			return
		}
		// The evictor dropped ent between get and lock; start over.
	}
}

// run applies fn to ent if ent is still the live entry for id.  The
// evictor never drops a locked entry, so the check holds until unlock.
func (s *Store) run(id string, ent *entry, fn func(*form.State)) bool {
	ent.mu.Lock()
	defer ent.mu.Unlock()
	if cur, ok := s.m.Load(id); !ok || cur.(*entry) != ent {
		return false
	}
	atomic.StoreInt64(&ent.lastSeen, s.now().UnixNano())
	fn(ent.state)
	return true
}

// Len reports the number of live entries.
func (s *Store) Len() int {
	n := 0
	s.m.Range(func(_, _ any) bool { n++; return true })
	return n
}

// Close stops the evictor.  The Store stays usable.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		s.evictTicker.Stop()
		close(s.done)
	})
}

func (s *Store) get(id string) *entry {
	if v, ok := s.m.Load(id); ok {
		return v.(*entry)
	}

	v, _, _ := s.sfg.Do(id, func() (any, error) {
		// Double-check after singleflight barrier.
		if v, ok := s.m.Load(id); ok {
			return v, nil
		}
		ent := &entry{state: form.New(), lastSeen: s.now().UnixNano()}
		s.m.Store(id, ent)
		metrics.ActiveSessions.Inc()
		return ent, nil
	})
	return v.(*entry)
}
