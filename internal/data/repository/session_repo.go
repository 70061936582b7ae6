package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backoffice/internal/data/entity"
	"backoffice/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ErrSessionNotFound is returned by Revoke when no live session has the token.
var ErrSessionNotFound = errors.New("session not found or already revoked")

// SessionRepository stores sign-in sessions. Tokens are bearer secrets and
// are never written to logs; entries carry the session or user id instead.
type SessionRepository interface {
	Open(ctx context.Context, session *entity.Session) error
	FindActive(ctx context.Context, token uuid.UUID, now time.Time) (*entity.ActiveSession, error)
	Revoke(ctx context.Context, token uuid.UUID) error
	RevokeForUser(ctx context.Context, userID uuid.UUID) error
	Purge(ctx context.Context, olderThan time.Duration) (int64, error)
}

// activeSessionQuery only matches sessions whose owner can still sign in.
var activeSessionQuery = `SELECT s.id, s.expires_at, ` + qualifiedUserColumns("u") + `
	FROM sessions s
	JOIN users u ON u.id = s.user_id
	WHERE s.token = $1
	  AND s.revoked_at IS NULL
	  AND s.expires_at > $2
	  AND u.deleted_at IS NULL
	  AND u.is_active`

type sessionRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSessionRepository(db database.PgxIface, log *zap.Logger) SessionRepository {
	return &sessionRepository{
		db:  db,
		log: log.With(zap.String("repository", "session")),
	}
}

func (r *sessionRepository) Open(ctx context.Context, session *entity.Session) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO sessions (id, user_id, token, user_agent, ip_address, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		session.ID, session.UserID, session.Token, session.UserAgent,
		session.IPAddress, session.ExpiresAt, session.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to open session",
			zap.Error(err),
			zap.String("session_id", session.ID.String()),
			zap.String("user_id", session.UserID.String()))
		return fmt.Errorf("open session: %w", err)
	}
	return nil
}

// FindActive returns nil, nil when the token is unknown, revoked or expired,
// or when its owner was deleted or deactivated.
func (r *sessionRepository) FindActive(ctx context.Context, token uuid.UUID, now time.Time) (*entity.ActiveSession, error) {
	var active entity.ActiveSession
	row := &leadingScanner{
		row:  r.db.QueryRow(ctx, activeSessionQuery, token, now),
		lead: []any{&active.SessionID, &active.ExpiresAt},
	}
	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to load active session", zap.Error(err))
		return nil, fmt.Errorf("find session: %w", err)
	}
	active.User = *user
	return &active, nil
}

func (r *sessionRepository) Revoke(ctx context.Context, token uuid.UUID) error {
	var sessionID uuid.UUID
	err := r.db.QueryRow(ctx,
		`UPDATE sessions SET revoked_at = NOW()
		 WHERE token = $1 AND revoked_at IS NULL
		 RETURNING id`,
		token,
	).Scan(&sessionID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrSessionNotFound
	}
	if err != nil {
		r.log.Error("Failed to revoke session", zap.Error(err))
		return fmt.Errorf("revoke session: %w", err)
	}

	r.log.Debug("Session revoked", zap.String("session_id", sessionID.String()))
	return nil
}

// RevokeForUser signs a user out everywhere, used on delete and deactivation.
func (r *sessionRepository) RevokeForUser(ctx context.Context, userID uuid.UUID) error {
	result, err := r.db.Exec(ctx,
		`UPDATE sessions SET revoked_at = NOW() WHERE user_id = $1 AND revoked_at IS NULL`,
		userID,
	)
	if err != nil {
		r.log.Error("Failed to revoke user sessions", zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("revoke user sessions: %w", err)
	}

	r.log.Debug("User sessions revoked",
		zap.String("user_id", userID.String()),
		zap.Int64("count", result.RowsAffected()))
	return nil
}

// Purge removes sessions that expired more than olderThan ago.
func (r *sessionRepository) Purge(ctx context.Context, olderThan time.Duration) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE expires_at < $1`, time.Now().Add(-olderThan))
	if err != nil {
		r.log.Error("Failed to purge sessions", zap.Error(err))
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return result.RowsAffected(), nil
}

// leadingScanner puts lead destinations in front of the ones scanUser asks
// for, so a joined row can reuse the user column order.
type leadingScanner struct {
	row  rowScanner
	lead []any
}

func (s *leadingScanner) Scan(dest ...any) error {
	return s.row.Scan(append(s.lead, dest...)...)
}
