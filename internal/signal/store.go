// Package signal holds the live effort accumulator: append-only buckets of
// EffortSignal keyed by JobIdentity, with aggregates maintained on write so
// the scoring hot path never rescans a bucket.
package signal

import (
	"errors"
	"math"
	"sync"
	"time"

	"energysink-engine/internal/domain"
)

var ErrNegativeValue = errors.New("signal value must be >= 0")

// Aggregate is the fold the scoring engine reads: total effort over all
// non-response kinds plus the count of observed responses.
type Aggregate struct {
	TotalEffort   float64
	ResponseCount int
}

func (a Aggregate) EffortInt() int { return int(math.Round(a.TotalEffort)) }

// Journal receives every accepted signal for durability. Append errors are
// the caller's problem; the in-memory bucket is already updated.
type Journal interface {
	Append(bucketKey string, sig domain.EffortSignal) error
}

type Options struct {
	// MaxPerIdentity caps a bucket's retained signals; oldest are evicted
	// first. <=0 means unbounded.
	MaxPerIdentity int
	// MaxAge evicts signals older than this on the next append to the same
	// bucket. 0 means no age limit.
	MaxAge time.Duration
}

type bucket struct {
	mu      sync.Mutex
	signals []domain.EffortSignal
	agg     Aggregate
}

// Store is the process-wide keyed accumulator. It is constructed once at
// startup and handed to request handlers; buckets for different identities
// are fully independent, each guarded by its own lock.
type Store struct {
	mu      sync.RWMutex
	buckets map[string]*bucket

	opts    Options
	journal Journal
	now     func() time.Time
}

func NewStore(opts Options, journal Journal) *Store {
	return &Store{
		buckets: make(map[string]*bucket),
		opts:    opts,
		journal: journal,
		now:     time.Now,
	}
}

func (s *Store) bucketFor(key string) *bucket {
	s.mu.RLock()
	b, ok := s.buckets[key]
	s.mu.RUnlock()
	if ok {
		return b
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok = s.buckets[key]; ok {
		return b
	}
	b = &bucket{}
	s.buckets[key] = b
	return b
}

// Record appends sig to the identity's bucket, creating it if absent. The
// only rejected input is a negative value; unknown kinds are stored as-is.
// The effect is visible to every Aggregate call that starts after Record
// returns.
func (s *Store) Record(id domain.JobIdentity, sig domain.EffortSignal) error {
	if sig.Value < 0 {
		return ErrNegativeValue
	}
	if sig.Value == 0 {
		// Zero means "no explicit weight" on the wire; resolve the kind's
		// canonical weight once, here, so the journaled value is final.
		sig.Value = sig.Kind.DefaultWeight()
	}
	if sig.At.IsZero() {
		sig.At = s.now().UTC()
	}

	b := s.bucketFor(id.BucketKey())
	b.mu.Lock()
	s.prune(b)
	b.signals = append(b.signals, sig)
	applyTo(&b.agg, sig, +1)
	b.mu.Unlock()

	if s.journal != nil {
		return s.journal.Append(id.BucketKey(), sig)
	}
	return nil
}

// Restore re-applies a journaled signal without writing it back to the
// journal. Used on startup replay; retention still applies.
func (s *Store) Restore(bucketKey string, sig domain.EffortSignal) {
	b := s.bucketFor(bucketKey)
	b.mu.Lock()
	s.prune(b)
	b.signals = append(b.signals, sig)
	applyTo(&b.agg, sig, +1)
	b.mu.Unlock()
}

// Aggregate returns the incrementally maintained fold for the identity, or a
// zero Aggregate when nothing is recorded. O(1) regardless of bucket size.
func (s *Store) Aggregate(id domain.JobIdentity) Aggregate {
	s.mu.RLock()
	b, ok := s.buckets[id.BucketKey()]
	s.mu.RUnlock()
	if !ok {
		return Aggregate{}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.agg
}

// Len reports how many signals the identity's bucket currently retains.
func (s *Store) Len(id domain.JobIdentity) int {
	s.mu.RLock()
	b, ok := s.buckets[id.BucketKey()]
	s.mu.RUnlock()
	if !ok {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.signals)
}

// prune enforces retention before an append; caller holds b.mu. Evicted
// signals leave the aggregate so it always describes the retained window.
func (s *Store) prune(b *bucket) {
	if s.opts.MaxAge > 0 {
		cutoff := s.now().Add(-s.opts.MaxAge)
		for len(b.signals) > 0 && b.signals[0].At.Before(cutoff) {
			applyTo(&b.agg, b.signals[0], -1)
			b.signals = b.signals[1:]
		}
	}
	if s.opts.MaxPerIdentity > 0 {
		for len(b.signals) >= s.opts.MaxPerIdentity {
			applyTo(&b.agg, b.signals[0], -1)
			b.signals = b.signals[1:]
		}
	}
}

func applyTo(agg *Aggregate, sig domain.EffortSignal, dir int) {
	if sig.Kind.IsResponse() {
		agg.ResponseCount += dir
		return
	}
	agg.TotalEffort += float64(dir) * sig.Value
}
