// Package reputation holds the precomputed company/role reputation table:
// built offline from the labeled postings dataset, loaded once at startup,
// immutable for the life of the process. A restart picks up a new snapshot;
// that staleness window is accepted.
package reputation

import "energysink-engine/internal/domain"

type Table struct {
	records map[string]domain.ReputationRecord
}

func NewTable(records map[string]domain.ReputationRecord) *Table {
	if records == nil {
		records = map[string]domain.ReputationRecord{}
	}
	return &Table{records: records}
}

// Empty is the degraded-mode table used when the snapshot fails to load:
// every lookup misses and live signals become the only scoring path.
func Empty() *Table { return NewTable(nil) }

// Lookup queries by exact lowercase key.
func (t *Table) Lookup(key string) (domain.ReputationRecord, bool) {
	rec, ok := t.records[key]
	return rec, ok
}

func (t *Table) Len() int { return len(t.records) }
