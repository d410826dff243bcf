// internal/session/store_test.go
//
// Unit-tests for the per-visitor State store and its evictor.

package session

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yanizio/contactform/internal/form"
)

func newTestStore(t *testing.T, opts Options) *Store {
	t.Helper()
	if opts.EvictInterval == 0 {
		opts.EvictInterval = time.Hour // tests call evict directly
	}
	s := New(opts, zap.NewNop().Sugar())
	t.Cleanup(s.Close)
	return s
}

func TestWithKeepsStatePerVisitor(t *testing.T) {
	s := newTestStore(t, Options{})

	s.With("a", func(st *form.State) { st.SetName("Ana") })
	s.With("b", func(st *form.State) { st.SetName("Bo") })

	var a, b string
	s.With("a", func(st *form.State) { a = st.Values().Name })
	s.With("b", func(st *form.State) { b = st.Values().Name })
	if a != "Ana" || b != "Bo" {
		t.Fatalf("states leaked between visitors: a=%q b=%q", a, b)
	}
	if s.Len() != 2 {
		t.Fatalf("Len = %d", s.Len())
	}
}

func TestWithConcurrentFirstUse(t *testing.T) {
	s := newTestStore(t, Options{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.With("same", func(st *form.State) { st.SetBio(st.Values().Bio + "x") })
		}()
	}
	wg.Wait()

	var bio string
	s.With("same", func(st *form.State) { bio = st.Values().Bio })
	if len(bio) != 50 {
		t.Fatalf("lost updates: bio length %d, want 50", len(bio))
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
}

func TestEvictIdle(t *testing.T) {
	s := newTestStore(t, Options{IdleTTL: time.Minute})
	base := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }

	s.With("old", func(st *form.State) { st.SetName("Old") })
	s.now = func() time.Time { return base.Add(50 * time.Second) }
	s.With("new", func(st *form.State) { st.SetName("New") })

	s.now = func() time.Time { return base.Add(90 * time.Second) }
	s.evict()

	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
	var name string
	s.With("old", func(st *form.State) { name = st.Values().Name })
	if name != "" {
		t.Fatalf("evicted visitor kept state %q", name)
	}
}

func TestEvictLRU(t *testing.T) {
	s := newTestStore(t, Options{MaxEntries: 2})
	base := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		at := base.Add(time.Duration(i) * time.Second)
		s.now = func() time.Time { return at }
		s.With(id, func(*form.State) {})
	}

	s.evict()

	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
	if _, ok := s.m.Load("a"); ok {
		t.Fatal("oldest entry survived LRU pass")
	}
}

func TestIDCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	id := ID(rec, req)
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("ID %q not a UUID", id)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != CookieName || cookies[0].Value != id {
		t.Fatalf("cookies = %v", cookies)
	}

	// Existing cookie is reused, nothing new is set.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: id})
	if got := ID(rec, req); got != id {
		t.Fatalf("ID = %q, want %q", got, id)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatal("cookie reissued for a valid session")
	}

	// Malformed cookie is replaced.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "not-a-uuid"})
	if got := ID(rec, req); got == "not-a-uuid" {
		t.Fatal("malformed session id accepted")
	}
}

func TestLookup(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	if _, ok := Lookup(req); ok {
		t.Fatal("Lookup without cookie reported ok")
	}
	id := uuid.NewString()
	req.AddCookie(&http.Cookie{Name: CookieName, Value: id})
	if got, ok := Lookup(req); !ok || got != id {
		t.Fatalf("Lookup = %q, %v", got, ok)
	}
}

func TestEvictSkipsBusyEntry(t *testing.T) {
	s := newTestStore(t, Options{IdleTTL: time.Minute})
	base := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	s.With("busy", func(*form.State) {})

	ent := s.get("busy")
	ent.mu.Lock()
	s.now = func() time.Time { return base.Add(time.Hour) }
	s.evict()
	ent.mu.Unlock()

	if cur, ok := s.m.Load("busy"); !ok || cur.(*entry) != ent {
		t.Fatal("evictor dropped an entry held by With")
	}
}

func TestWithRetriesAfterConcurrentDrop(t *testing.T) {
	s := newTestStore(t, Options{})
	s.With("a", func(*form.State) {})

	stale := s.get("a")
	stale.mu.Lock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.With("a", func(st *form.State) { st.SetName("Ana") })
	}()

	// Give With time to load stale and block on its lock, then remove the
	// entry the way the evictor does.
	time.Sleep(20 * time.Millisecond)
	s.drop("a", stale)
	stale.mu.Unlock()
	<-done

	if stale.state.Values().Name != "" {
		t.Fatal("change landed on a dropped entry")
	}
	var name string
	s.With("a", func(st *form.State) { name = st.Values().Name })
	if name != "Ana" {
		t.Fatalf("name = %q, want %q", name, "Ana")
	}
}
