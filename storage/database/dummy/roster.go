package dummydb

import (
	"context"

	"github.com/trezcool/schoolcrm/core/roster"
)

type RosterProvider struct {
	db *memberTable
}

var _ roster.Provider = (*RosterProvider)(nil) // interface compliance check

func NewRosterProvider(db *DB) *RosterProvider {
	return &RosterProvider{db: db.members}
}

func (repo *RosterProvider) GetRoster(_ context.Context, groupID string) ([]roster.Member, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return append([]roster.Member{}, repo.db.table[groupID]...), nil
}

func (repo *RosterProvider) SetRoster(_ context.Context, groupID string, members []roster.Member) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.table[groupID] = append([]roster.Member(nil), members...)
	return nil
}
