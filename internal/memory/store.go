package memory

import (
	"sort"
	"sync"
	"time"
)

// Outcome is the result of one recorded attempt.
type Outcome int

const (
	OutcomeFailure Outcome = iota
	OutcomeSuccess
)

// TargetStat holds the accumulated statistics for one concrete selector
// under a (fingerprint, role) key. Selectors are unique within a record.
type TargetStat struct {
	Selector    string
	Successes   int
	Failures    int
	LastUsed    time.Time
	LastSuccess time.Time
}

// score is the smoothed success rate used as the primary ranking criterion.
// Laplace smoothing gives an untried selector 0.5: above anything
// failure-dominated, below anything proven, so new selectors stay
// exploreable without ever outranking a working one.
func (s TargetStat) score() float64 {
	return float64(s.Successes+1) / float64(s.Successes+s.Failures+2)
}

// record is the per-key unit of storage. Its mutex serializes updates to
// the same (fingerprint, role) pair; different keys never contend.
type record struct {
	mu    sync.Mutex
	stats []TargetStat
}

// Store is a concurrency-safe in-memory selector store. The zero value is
// not usable; call New.
type Store struct {
	records sync.Map // key string -> *record
}

// New creates an empty in-memory selector store.
func New() *Store {
	return &Store{}
}

func storeKey(fingerprint, role string) string {
	return fingerprint + "\x00" + role
}

func (s *Store) load(fingerprint, role string) *record {
	if r, ok := s.records.Load(storeKey(fingerprint, role)); ok {
		return r.(*record)
	}
	r, _ := s.records.LoadOrStore(storeKey(fingerprint, role), &record{})
	return r.(*record)
}

// Record registers the outcome of one attempt for the given selector,
// creating the record on first observation. Safe to call from concurrent
// attempts touching the same key.
func (s *Store) Record(fingerprint, role, selector string, outcome Outcome) {
	r := s.load(fingerprint, role)
	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.stats {
		if r.stats[i].Selector == selector {
			r.updateLocked(i, outcome, now)
			return
		}
	}
	r.stats = append(r.stats, TargetStat{Selector: selector})
	r.updateLocked(len(r.stats)-1, outcome, now)
}

func (r *record) updateLocked(i int, outcome Outcome, now time.Time) {
	st := &r.stats[i]
	st.LastUsed = now
	if outcome == OutcomeSuccess {
		st.Successes++
		st.LastSuccess = now
	} else {
		st.Failures++
	}
}

// Rank returns the candidate selectors for a key, best first. Ordering is
// recomputed from the raw statistics on every call: smoothed success rate,
// then raw success count, then most recent successful use.
func (s *Store) Rank(fingerprint, role string) []string {
	v, ok := s.records.Load(storeKey(fingerprint, role))
	if !ok {
		return nil
	}
	r := v.(*record)

	r.mu.Lock()
	stats := make([]TargetStat, len(r.stats))
	copy(stats, r.stats)
	r.mu.Unlock()

	sort.SliceStable(stats, func(i, j int) bool {
		si, sj := stats[i].score(), stats[j].score()
		if si != sj {
			return si > sj
		}
		if stats[i].Successes != stats[j].Successes {
			return stats[i].Successes > stats[j].Successes
		}
		return stats[i].LastSuccess.After(stats[j].LastSuccess)
	})

	out := make([]string, len(stats))
	for i, st := range stats {
		out[i] = st.Selector
	}
	return out
}

// Stats returns a copy of the statistics recorded under a key, in insertion
// order. Intended for persistence and reporting.
func (s *Store) Stats(fingerprint, role string) []TargetStat {
	v, ok := s.records.Load(storeKey(fingerprint, role))
	if !ok {
		return nil
	}
	r := v.(*record)
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]TargetStat, len(r.stats))
	copy(out, r.stats)
	return out
}

// Seed installs previously persisted statistics under a key, replacing any
// in-memory state for it. Used when loading the store at run start.
func (s *Store) Seed(fingerprint, role string, stats []TargetStat) {
	r := s.load(fingerprint, role)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats = append([]TargetStat(nil), stats...)
}

// Walk visits every (fingerprint, role) record with a copy of its stats.
func (s *Store) Walk(fn func(fingerprint, role string, stats []TargetStat)) {
	s.records.Range(func(k, v any) bool {
		key := k.(string)
		r := v.(*record)
		r.mu.Lock()
		stats := make([]TargetStat, len(r.stats))
		copy(stats, r.stats)
		r.mu.Unlock()

		for i := 0; i < len(key); i++ {
			if key[i] == 0 {
				fn(key[:i], key[i+1:], stats)
				break
			}
		}
		return true
	})
}
