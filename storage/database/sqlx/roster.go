package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/schoolcrm/core"
	"github.com/trezcool/schoolcrm/core/roster"
)

// RosterProvider reads group rosters from the members table, in position order.
type RosterProvider struct {
	db *sqlx.DB
}

var _ roster.Provider = (*RosterProvider)(nil) // interface compliance check

func NewRosterProvider(db *sqlx.DB) *RosterProvider {
	return &RosterProvider{db: db}
}

// GetRoster returns the members of groupID. An unknown group has an empty roster.
func (repo *RosterProvider) GetRoster(ctx context.Context, groupID string) ([]roster.Member, error) {
	if err := vala.BeginValidation().Validate(vala.StringNotEmpty(groupID, "group_id")).Check(); err != nil {
		return nil, core.NewInvariantViolation("get roster: %v", err)
	}

	members := make([]roster.Member, 0)
	q := repo.db.Rebind(`
		SELECT member_id, display_name
		FROM members
		WHERE group_id = ?
		ORDER BY position, member_id`)
	if err := repo.db.SelectContext(ctx, &members, q, groupID); err != nil {
		return nil, core.NewPersistenceError(errors.Wrap(err, "selecting members"))
	}
	return members, nil
}

// SetRoster replaces the roster of groupID; members keep the given order.
func (repo *RosterProvider) SetRoster(ctx context.Context, groupID string, members []roster.Member) (err error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return core.NewPersistenceError(errors.Wrap(err, "beginning transaction"))
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, tx.Rebind(`DELETE FROM members WHERE group_id = ?`), groupID); err != nil {
		return core.NewPersistenceError(errors.Wrap(err, "deleting members"))
	}
	ins := tx.Rebind(`INSERT INTO members (group_id, member_id, display_name, position) VALUES (?, ?, ?, ?)`)
	for i, m := range members {
		if _, err = tx.ExecContext(ctx, ins, groupID, m.ID, m.DisplayName, i); err != nil {
			return core.NewPersistenceError(errors.Wrapf(err, "inserting member %q", m.ID))
		}
	}
	if err = tx.Commit(); err != nil {
		return core.NewPersistenceError(errors.Wrap(err, "committing members"))
	}
	return nil
}
