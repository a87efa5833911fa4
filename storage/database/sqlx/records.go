package sqlxrepos

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/schoolcrm/core"
	"github.com/trezcool/schoolcrm/core/roster"
)

type recordRow struct {
	ID       string    `db:"id"`
	Kind     string    `db:"kind"`
	GroupID  string    `db:"group_id"`
	Period   string    `db:"period"`
	MemberID string    `db:"member_id"`
	Payload  string    `db:"payload"`
	SavedAt  time.Time `db:"saved_at"`
}

// RecordStore keeps one JSON encoded payload per (context, member).
type RecordStore[S any] struct {
	db  *sqlx.DB
	now func() time.Time
}

var _ roster.Store[struct{}] = (*RecordStore[struct{}])(nil) // interface compliance check

func NewRecordStore[S any](db *sqlx.DB) *RecordStore[S] {
	return &RecordStore[S]{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func checkContext(c roster.Context) error {
	return vala.BeginValidation().Validate(
		vala.StringNotEmpty(c.Kind, "kind"),
		vala.StringNotEmpty(c.GroupID, "group_id"),
		vala.StringNotEmpty(c.Period, "period"),
	).Check()
}

func (store *RecordStore[S]) GetRecords(ctx context.Context, c roster.Context) ([]roster.Record[S], error) {
	if err := checkContext(c); err != nil {
		return nil, core.NewInvariantViolation("get records: %v", err)
	}

	var rows []recordRow
	q := store.db.Rebind(`
		SELECT id, member_id, payload
		FROM register_records
		WHERE kind = ? AND group_id = ? AND period = ?
		ORDER BY member_id`)
	if err := store.db.SelectContext(ctx, &rows, q, c.Kind, c.GroupID, c.Period); err != nil {
		return nil, core.NewPersistenceError(errors.Wrap(err, "selecting records"))
	}

	records := make([]roster.Record[S], 0, len(rows))
	for _, r := range rows {
		var payload S
		if err := json.Unmarshal([]byte(r.Payload), &payload); err != nil {
			return nil, core.NewInvariantViolation("record %s of %s: undecodable payload: %v", r.ID, c, err)
		}
		records = append(records, roster.Record[S]{MemberID: r.MemberID, Payload: payload})
	}
	return records, nil
}

// SaveRecords replaces every record of c in a single transaction.
func (store *RecordStore[S]) SaveRecords(ctx context.Context, c roster.Context, records []roster.Record[S]) (err error) {
	if err = checkContext(c); err != nil {
		return core.NewInvariantViolation("save records: %v", err)
	}

	rows := make([]recordRow, 0, len(records))
	now := store.now()
	for _, r := range records {
		data, mErr := json.Marshal(r.Payload)
		if mErr != nil {
			return core.NewInvariantViolation("record of %q in %s: unencodable payload: %v", r.MemberID, c, mErr)
		}
		rows = append(rows, recordRow{
			ID:       uuid.NewString(),
			Kind:     c.Kind,
			GroupID:  c.GroupID,
			Period:   c.Period,
			MemberID: r.MemberID,
			Payload:  string(data),
			SavedAt:  now,
		})
	}

	tx, err := store.db.BeginTxx(ctx, nil)
	if err != nil {
		return core.NewPersistenceError(errors.Wrap(err, "beginning transaction"))
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	del := tx.Rebind(`DELETE FROM register_records WHERE kind = ? AND group_id = ? AND period = ?`)
	if _, err = tx.ExecContext(ctx, del, c.Kind, c.GroupID, c.Period); err != nil {
		return core.NewPersistenceError(errors.Wrap(err, "deleting records"))
	}

	ins := tx.Rebind(`
		INSERT INTO register_records (id, kind, group_id, period, member_id, payload, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	for _, r := range rows {
		if _, err = tx.ExecContext(ctx, ins, r.ID, r.Kind, r.GroupID, r.Period, r.MemberID, r.Payload, r.SavedAt); err != nil {
			return core.NewPersistenceError(errors.Wrapf(err, "inserting record of %q", r.MemberID))
		}
	}

	if err = tx.Commit(); err != nil {
		return core.NewPersistenceError(errors.Wrap(err, "committing records"))
	}
	return nil
}
