package sqlxrepos_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/schoolcrm/core"
	"github.com/trezcool/schoolcrm/core/attendance"
	"github.com/trezcool/schoolcrm/core/roster"
	sqlxrepos "github.com/trezcool/schoolcrm/storage/database/sqlx"
	"github.com/trezcool/schoolcrm/tests"
)

var (
	dayCtx   = roster.Context{Kind: roster.KindStudentAttendance, GroupID: "class-1", Period: "2026-10-14"}
	otherDay = roster.Context{Kind: roster.KindStudentAttendance, GroupID: "class-1", Period: "2026-10-15"}
)

func TestRecordStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	db := testutil.PrepareDB(t)
	store := sqlxrepos.NewRecordStore[attendance.Mark](db)

	records, err := store.GetRecords(ctx, dayCtx)
	require.NoError(t, err)
	assert.Empty(t, records)

	saved := []roster.Record[attendance.Mark]{
		{MemberID: "s1", Payload: attendance.Mark{Status: attendance.Absent, Note: "flu"}},
		{MemberID: "s2", Payload: attendance.Mark{Status: attendance.Present}},
	}
	require.NoError(t, store.SaveRecords(ctx, dayCtx, saved))
	require.NoError(t, store.SaveRecords(ctx, otherDay, saved[:1]))

	records, err = store.GetRecords(ctx, dayCtx)
	require.NoError(t, err)
	assert.Equal(t, saved, records)

	// overwrite, not append
	replaced := []roster.Record[attendance.Mark]{{MemberID: "s2", Payload: attendance.Mark{Status: attendance.Late}}}
	require.NoError(t, store.SaveRecords(ctx, dayCtx, replaced))
	records, err = store.GetRecords(ctx, dayCtx)
	require.NoError(t, err)
	assert.Equal(t, replaced, records)

	// other contexts are untouched
	records, err = store.GetRecords(ctx, otherDay)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestRecordStore_WithService(t *testing.T) {
	ctx := context.Background()
	db := testutil.PrepareDB(t)
	testutil.SetRoster(t, db, "class-1",
		roster.Member{ID: "s2", DisplayName: "Badr"},
		roster.Member{ID: "s1", DisplayName: "Amal"},
	)

	svc := roster.NewService[attendance.Mark](
		sqlxrepos.NewRosterProvider(db),
		sqlxrepos.NewRecordStore[attendance.Mark](db),
		attendance.Default,
		nil,
		nil,
	)
	set, err := svc.Replace(ctx, dayCtx, []roster.Edit[attendance.Mark]{{MemberID: "s1", Payload: attendance.Mark{Status: attendance.Excused}}})
	require.NoError(t, err)
	assert.Equal(t, "s2", set.Entries[0].MemberID, "roster order")

	reloaded, err := svc.Load(ctx, dayCtx)
	require.NoError(t, err)
	assert.Equal(t, set.Records(), reloaded.Records())
}

func TestRecordStore_Invariants(t *testing.T) {
	db := testutil.PrepareDB(t)
	store := sqlxrepos.NewRecordStore[attendance.Mark](db)

	_, err := store.GetRecords(context.Background(), roster.Context{Kind: roster.KindGrading})
	assert.True(t, core.IsInvariantViolation(err))

	err = store.SaveRecords(context.Background(), roster.Context{}, nil)
	assert.True(t, core.IsInvariantViolation(err))
}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func TestRecordStore_SaveRollsBack(t *testing.T) {
	tests := []struct {
		name   string
		expect func(mock sqlmock.Sqlmock)
	}{
		{
			name: "delete fails",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("DELETE FROM register_records").WillReturnError(errors.New("lock timeout"))
				mock.ExpectRollback()
			},
		},
		{
			name: "insert fails",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("DELETE FROM register_records").
					WithArgs(dayCtx.Kind, dayCtx.GroupID, dayCtx.Period).
					WillReturnResult(sqlmock.NewResult(0, 2))
				mock.ExpectExec("INSERT INTO register_records").WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectExec("INSERT INTO register_records").WillReturnError(errors.New("disk full"))
				mock.ExpectRollback()
			},
		},
		{
			name: "commit fails",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("DELETE FROM register_records").WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec("INSERT INTO register_records").WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectExec("INSERT INTO register_records").WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectCommit().WillReturnError(errors.New("connection lost"))
			},
		},
		{
			name: "begin fails",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(errors.New("too many connections"))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			tt.expect(mock)

			store := sqlxrepos.NewRecordStore[attendance.Mark](db)
			err := store.SaveRecords(context.Background(), dayCtx, []roster.Record[attendance.Mark]{
				{MemberID: "s1", Payload: attendance.Default()},
				{MemberID: "s2", Payload: attendance.Default()},
			})
			require.Error(t, err)
			assert.True(t, core.IsPersistence(err), "got %v", err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRecordStore_CommitResult(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM register_records").WillReturnError(errors.New("read-only transaction"))
	mock.ExpectRollback()

	store := sqlxrepos.NewRecordStore[attendance.Mark](db)
	set, err := roster.Reconcile(dayCtx, []roster.Member{{ID: "s1"}}, nil, attendance.Default)
	require.NoError(t, err)

	res := roster.Commit(context.Background(), dayCtx, set, store.SaveRecords)
	assert.False(t, res.OK)
	assert.Equal(t, core.KindPersistence, res.Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}
