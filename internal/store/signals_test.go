package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energysink-engine/internal/domain"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(db.Pool))
	return db
}

func TestJournalAppendAndReplay(t *testing.T) {
	db := openTestDB(t)
	j := &SignalJournal{DB: db.Pool}

	first := domain.EffortSignal{
		Kind:     domain.KindFileUpload,
		Value:    20,
		At:       time.Now().UTC(),
		Metadata: map[string]string{"source": "extension"},
	}
	second := domain.EffortSignal{
		Kind:  domain.KindObservedResponse,
		Value: 0,
		At:    time.Now().UTC(),
	}

	require.NoError(t, j.Append("acme|dev", first))
	require.NoError(t, j.Append("fp:deadbeefdeadbeef", second))

	type row struct {
		key string
		sig domain.EffortSignal
	}
	var got []row
	err := ReplaySignals(context.Background(), db.Pool, func(key string, sig domain.EffortSignal) error {
		got = append(got, row{key, sig})
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "acme|dev", got[0].key)
	assert.Equal(t, domain.KindFileUpload, got[0].sig.Kind)
	assert.Equal(t, float64(20), got[0].sig.Value)
	assert.Equal(t, "extension", got[0].sig.Metadata["source"])

	assert.Equal(t, "fp:deadbeefdeadbeef", got[1].key)
	assert.Equal(t, domain.KindObservedResponse, got[1].sig.Kind)
	assert.Nil(t, got[1].sig.Metadata)
}

func TestPruneSignals(t *testing.T) {
	db := openTestDB(t)
	j := &SignalJournal{DB: db.Pool}

	old := domain.EffortSignal{Kind: domain.KindClick, Value: 1, At: time.Now().Add(-48 * time.Hour)}
	fresh := domain.EffortSignal{Kind: domain.KindClick, Value: 1, At: time.Now()}
	require.NoError(t, j.Append("acme|dev", old))
	require.NoError(t, j.Append("acme|dev", fresh))

	deleted, err := PruneSignals(db.Pool, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var remaining int
	err = ReplaySignals(context.Background(), db.Pool, func(string, domain.EffortSignal) error {
		remaining++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)
}
