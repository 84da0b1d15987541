package signal

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energysink-engine/internal/domain"
	"energysink-engine/internal/identity"
)

func sig(kind domain.SignalKind, value float64) domain.EffortSignal {
	return domain.EffortSignal{Kind: kind, Value: value, At: time.Now().UTC()}
}

func TestRecord_RejectsNegativeValue(t *testing.T) {
	st := NewStore(Options{}, nil)
	err := st.Record(identity.Natural("acme", "dev"), sig(domain.KindClick, -1))
	require.ErrorIs(t, err, ErrNegativeValue)
	assert.Equal(t, Aggregate{}, st.Aggregate(identity.Natural("acme", "dev")))
}

func TestAggregate_MatchesReplayFold(t *testing.T) {
	id := identity.Natural("acme", "backend engineer")
	seq := []domain.EffortSignal{
		sig(domain.KindClick, 0),                 // default weight 1
		sig(domain.KindFileUpload, 0),            // default weight 20
		sig(domain.KindApplicationSubmitted, 0),  // default weight 50
		sig(domain.KindTimeSpent, 10),            // explicit value wins
		sig(domain.KindObservedResponse, 0),      // counts as response, not effort
		sig(domain.SignalKind("hover"), 0),       // unknown kind: recorded, zero weight
	}

	incremental := NewStore(Options{}, nil)
	for _, s := range seq {
		require.NoError(t, incremental.Record(id, s))
	}

	// Journal replay into a fresh store must agree with the incrementally
	// maintained aggregate. Restore sees journaled values, where defaults
	// are already resolved.
	replayed := NewStore(Options{}, nil)
	for _, s := range seq {
		if s.Value == 0 {
			s.Value = s.Kind.DefaultWeight()
		}
		replayed.Restore(id.BucketKey(), s)
	}

	want := Aggregate{TotalEffort: 1 + 20 + 50 + 10, ResponseCount: 1}
	assert.Equal(t, want, incremental.Aggregate(id))
	assert.Equal(t, want, replayed.Aggregate(id))
	assert.Equal(t, 6, incremental.Len(id))
}

func TestAggregate_UnknownIdentityIsZero(t *testing.T) {
	st := NewStore(Options{}, nil)
	assert.Equal(t, Aggregate{}, st.Aggregate(identity.Natural("ghost", "job")))
}

func TestRetention_CountCap(t *testing.T) {
	st := NewStore(Options{MaxPerIdentity: 3}, nil)
	id := identity.Natural("acme", "dev")

	for i := 0; i < 10; i++ {
		require.NoError(t, st.Record(id, sig(domain.KindClick, 2)))
	}

	assert.Equal(t, 3, st.Len(id))
	// Aggregate describes the retained window only.
	assert.Equal(t, Aggregate{TotalEffort: 6}, st.Aggregate(id))
}

func TestRetention_AgeCap(t *testing.T) {
	st := NewStore(Options{MaxAge: time.Hour}, nil)
	id := identity.Natural("acme", "dev")

	old := domain.EffortSignal{Kind: domain.KindFileUpload, Value: 20, At: time.Now().Add(-2 * time.Hour)}
	require.NoError(t, st.Record(id, old))
	require.NoError(t, st.Record(id, sig(domain.KindClick, 1)))

	assert.Equal(t, 1, st.Len(id))
	assert.Equal(t, Aggregate{TotalEffort: 1}, st.Aggregate(id))
}

func TestConcurrentRecordAndAggregate(t *testing.T) {
	st := NewStore(Options{}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		id := identity.Natural(fmt.Sprintf("company-%d", i%4), "dev")
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				_ = st.Record(id, sig(domain.KindClick, 1))
				_ = st.Aggregate(id)
			}
		}()
	}
	wg.Wait()

	var total float64
	for i := 0; i < 4; i++ {
		total += st.Aggregate(identity.Natural(fmt.Sprintf("company-%d", i), "dev")).TotalEffort
	}
	assert.Equal(t, float64(8*200), total)
}

type captureJournal struct {
	mu   sync.Mutex
	keys []string
}

func (c *captureJournal) Append(key string, _ domain.EffortSignal) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys = append(c.keys, key)
	return nil
}

func TestRecord_WritesJournal(t *testing.T) {
	j := &captureJournal{}
	st := NewStore(Options{}, j)
	require.NoError(t, st.Record(identity.Opaque("deadbeefdeadbeef"), sig(domain.KindClick, 1)))
	require.Len(t, j.keys, 1)
	assert.Equal(t, "fp:deadbeefdeadbeef", j.keys[0])
}
