package sqlxrepos_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/schoolcrm/core"
	"github.com/trezcool/schoolcrm/core/roster"
	sqlxrepos "github.com/trezcool/schoolcrm/storage/database/sqlx"
	"github.com/trezcool/schoolcrm/tests"
)

func TestRosterProvider_GetRoster(t *testing.T) {
	ctx := context.Background()
	db := testutil.PrepareDB(t)
	repo := sqlxrepos.NewRosterProvider(db)

	members := []roster.Member{{ID: "t9", DisplayName: "Zaid"}, {ID: "t1", DisplayName: "Amal"}, {ID: "t5", DisplayName: "Hind"}}
	testutil.SetRoster(t, db, "staff", members...)
	testutil.SetRoster(t, db, "other", roster.Member{ID: "x", DisplayName: "X"})

	got, err := repo.GetRoster(ctx, "staff")
	require.NoError(t, err)
	assert.Equal(t, members, got, "position order")

	got, err = repo.GetRoster(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, got)

	// replacing a roster drops the members that left
	testutil.SetRoster(t, db, "staff", members[1])
	got, err = repo.GetRoster(ctx, "staff")
	require.NoError(t, err)
	assert.Equal(t, members[1:2], got)
}

func TestRosterProvider_Errors(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT member_id, display_name").WithArgs("staff").WillReturnError(errors.New("relation does not exist"))

	repo := sqlxrepos.NewRosterProvider(db)
	_, err := repo.GetRoster(context.Background(), "staff")
	assert.True(t, core.IsPersistence(err))
	assert.NoError(t, mock.ExpectationsWereMet())

	_, err = repo.GetRoster(context.Background(), "")
	assert.True(t, core.IsInvariantViolation(err))
}
