// evictor.go houses the eviction loop for Store.  Every tick it removes:
//
//   - sessions idle longer than idleTTL
//   - least-recently-used sessions when the map exceeds maxEntries
//
// Each eviction updates Prometheus counters; a summary is logged per pass.
package session

import (
	"sort"
	"sync/atomic"
	"time"

	"github.com/yanizio/contactform/internal/metrics"
)

func (s *Store) evictLoop() {
	for {
		select {
		case <-s.done:
			return
		case <-s.evictTicker.C:
			s.evict()
		}
	}
}

// evict runs one idle pass and one LRU pass.
func (s *Store) evict() {
	now := s.now().UnixNano()
	var count, idle, lru int

	s.m.Range(func(key, value any) bool {
		ent := value.(*entry)
		age := time.Duration(now - atomic.LoadInt64(&ent.lastSeen))
		if age > s.idleTTL && s.dropIdle(key, ent) {
			idle++
			return true
		}
		count++
		return true
	})

	if s.maxEntries > 0 && count > s.maxEntries {
		type kv struct {
			key any
			ent *entry
			at  int64
		}
		all := make([]kv, 0, count)
		s.m.Range(func(key, value any) bool {
			ent := value.(*entry)
			all = append(all, kv{key: key, ent: ent, at: atomic.LoadInt64(&ent.lastSeen)})
			return true
		})
		sort.Slice(all, func(i, j int) bool { return all[i].at < all[j].at })
		for i := 0; i < len(all) && count-lru > s.maxEntries; i++ {
			if s.dropIdle(all[i].key, all[i].ent) {
				lru++
			}
		}
	}

	if idle+lru > 0 {
		s.log.Infow("sessions evicted", "idle", idle, "lru", lru, "remaining", s.Len())
	}
}

// dropIdle removes ent unless a With call currently holds it.  A busy
// entry is in use, so it is neither idle nor a good LRU victim.
func (s *Store) dropIdle(key any, ent *entry) bool {
	if !ent.mu.TryLock() {
		return false
	}
	defer ent.mu.Unlock()
	return s.drop(key, ent)
}

func (s *Store) drop(key any, ent *entry) bool {
	if !s.m.CompareAndDelete(key, ent) {
		return false
	}
	metrics.SessionEvictTotal.Inc()
	metrics.ActiveSessions.Dec()
	return true
}
