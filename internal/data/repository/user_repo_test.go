package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMockUserRepo(t *testing.T) (pgxmock.PgxPoolIface, UserRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewUserRepository(mock, zap.NewNop())
}

func TestBuildUserWhereExcludesDeletedAndFilters(t *testing.T) {
	where, args := buildUserWhere(UserFilter{
		Username: " jo ",
		Email:    "50%_off",
		Role:     "manager",
	})

	assert.Equal(t, "deleted_at IS NULL AND username ILIKE $1 AND email ILIKE $2 AND role = $3", where)
	assert.Equal(t, []any{"%jo%", `%50\%\_off%`, "manager"}, args)
}

func TestBuildUserWhereWithoutFilters(t *testing.T) {
	where, args := buildUserWhere(UserFilter{})

	assert.Equal(t, "deleted_at IS NULL", where)
	assert.Empty(t, args)
}

func TestBuildUserListQueryOrderingAndPaging(t *testing.T) {
	query, args := buildUserListQuery(UserFilter{
		RealName:   "novak",
		SortColumn: "last_seen",
		SortDesc:   true,
		Limit:      20,
		Offset:     40,
	})

	assert.Contains(t, query, "WHERE deleted_at IS NULL AND real_name ILIKE $1")
	assert.Contains(t, query, "ORDER BY last_seen DESC NULLS LAST, id ASC LIMIT $2 OFFSET $3")
	assert.Equal(t, []any{"%novak%", 20, 40}, args)
}

func TestBuildUserListQueryRejectsUnknownSortColumn(t *testing.T) {
	query, _ := buildUserListQuery(UserFilter{SortColumn: "password; DROP TABLE users"})

	assert.Contains(t, query, "ORDER BY username ASC, id ASC")
	assert.NotContains(t, query, "DROP")
	assert.NotContains(t, query, "LIMIT")
}

func TestUserRepositoryDeleteIsSoft(t *testing.T) {
	mock, repo := newMockUserRepo(t)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET deleted_at = NOW()")).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.Delete(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryDeleteMissingRow(t *testing.T) {
	mock, repo := newMockUserRepo(t)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET deleted_at = NOW()")).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Delete(context.Background(), id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryFindByIDNotFound(t *testing.T) {
	mock, repo := newMockUserRepo(t)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1 AND deleted_at IS NULL")).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	user, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryFindByIDDatabaseError(t *testing.T) {
	mock, repo := newMockUserRepo(t)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs(id).
		WillReturnError(errors.New("connection reset"))

	user, err := repo.FindByID(context.Background(), id)
	require.Error(t, err)
	assert.Nil(t, user)
}

func TestUserRepositoryCountAppliesFilter(t *testing.T) {
	mock, repo := newMockUserRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users WHERE deleted_at IS NULL AND role = $1")).
		WithArgs("admin").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))

	count, err := repo.Count(context.Background(), UserFilter{Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryTouchLastSeen(t *testing.T) {
	mock, repo := newMockUserRepo(t)
	id := uuid.New()
	at := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET last_seen = $2 WHERE id = $1")).
		WithArgs(id, at).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.TouchLastSeen(context.Background(), id, at))
	assert.NoError(t, mock.ExpectationsWereMet())
}
