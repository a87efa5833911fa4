package dummydb

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/trezcool/schoolcrm/core"
	"github.com/trezcool/schoolcrm/core/roster"
)

// RecordStore stores payloads JSON encoded, so callers never share memory with the store.
type RecordStore[S any] struct {
	db *recordTable
}

var _ roster.Store[struct{}] = (*RecordStore[struct{}])(nil) // interface compliance check

func NewRecordStore[S any](db *DB) *RecordStore[S] {
	return &RecordStore[S]{db: db.records}
}

func (store *RecordStore[S]) GetRecords(_ context.Context, c roster.Context) ([]roster.Record[S], error) {
	store.db.RLock()
	defer store.db.RUnlock()

	byMember := store.db.table[c]
	ids := make([]string, 0, len(byMember))
	for id := range byMember {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	records := make([]roster.Record[S], 0, len(ids))
	for _, id := range ids {
		var payload S
		if err := json.Unmarshal(byMember[id], &payload); err != nil {
			return nil, core.NewInvariantViolation("record of %q in %s: undecodable payload: %v", id, c, err)
		}
		records = append(records, roster.Record[S]{MemberID: id, Payload: payload})
	}
	return records, nil
}

// SaveRecords swaps the whole context at once.
func (store *RecordStore[S]) SaveRecords(_ context.Context, c roster.Context, records []roster.Record[S]) error {
	byMember := make(map[string][]byte, len(records))
	for _, r := range records {
		data, err := json.Marshal(r.Payload)
		if err != nil {
			return core.NewInvariantViolation("record of %q in %s: unencodable payload: %v", r.MemberID, c, err)
		}
		byMember[r.MemberID] = data
	}

	store.db.Lock()
	defer store.db.Unlock()
	store.db.table[c] = byMember
	return nil
}
