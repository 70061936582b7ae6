package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newMockSessionRepo(t *testing.T, log *zap.Logger) (pgxmock.PgxPoolIface, SessionRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewSessionRepository(mock, log)
}

func TestQualifiedUserColumns(t *testing.T) {
	cols := qualifiedUserColumns("u")

	assert.Equal(t, "u.id, u.username, u.password", cols[:len("u.id, u.username, u.password")])
	assert.Contains(t, cols, "u.deleted_at")
	assert.NotContains(t, cols, "\n")
}

func TestSessionRepositoryFindActiveFiltersOwner(t *testing.T) {
	mock, repo := newMockSessionRepo(t, zap.NewNop())
	token := uuid.New()
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`JOIN users u ON u.id = s.user_id(.|\n)*u.deleted_at IS NULL(.|\n)*u.is_active`).
		WithArgs(token, now).
		WillReturnError(pgx.ErrNoRows)

	active, err := repo.FindActive(context.Background(), token, now)

	require.NoError(t, err)
	assert.Nil(t, active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryNeverLogsTokens(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	mock, repo := newMockSessionRepo(t, zap.New(core))
	token := uuid.New()
	boom := errors.New("connection reset")

	mock.ExpectQuery(regexp.QuoteMeta("FROM sessions s")).
		WithArgs(token, pgxmock.AnyArg()).
		WillReturnError(boom)
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE sessions SET revoked_at = NOW()")).
		WithArgs(token).
		WillReturnError(boom)

	_, err := repo.FindActive(context.Background(), token, time.Now())
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, repo.Revoke(context.Background(), token), boom)

	require.Equal(t, 2, logs.Len())
	for _, entry := range logs.All() {
		for key, value := range entry.ContextMap() {
			assert.NotContains(t, fmt.Sprint(value), token.String(), "field %q of %q", key, entry.Message)
		}
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryRevoke(t *testing.T) {
	t.Run("live session", func(t *testing.T) {
		mock, repo := newMockSessionRepo(t, zap.NewNop())
		token := uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta("RETURNING id")).
			WithArgs(token).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(uuid.New()))

		require.NoError(t, repo.Revoke(context.Background(), token))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown or already revoked", func(t *testing.T) {
		mock, repo := newMockSessionRepo(t, zap.NewNop())
		token := uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta("RETURNING id")).
			WithArgs(token).
			WillReturnError(pgx.ErrNoRows)

		assert.ErrorIs(t, repo.Revoke(context.Background(), token), ErrSessionNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSessionRepositoryRevokeForUser(t *testing.T) {
	mock, repo := newMockSessionRepo(t, zap.NewNop())
	userID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("WHERE user_id = $1 AND revoked_at IS NULL")).
		WithArgs(userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))

	require.NoError(t, repo.RevokeForUser(context.Background(), userID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryPurge(t *testing.T) {
	mock, repo := newMockSessionRepo(t, zap.NewNop())

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sessions WHERE expires_at < $1")).
		WithArgs(pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("DELETE", 4))

	removed, err := repo.Purge(context.Background(), 7*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(4), removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
