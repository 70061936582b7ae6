package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"backoffice/internal/data/entity"
	"backoffice/internal/data/repository"
	"backoffice/internal/dto/request"
	"backoffice/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// lastSeenResolution limits last_seen writes to one per user per minute.
const lastSeenResolution = time.Minute

// dummyPasswordHash hashes a random secret no account can have.
var dummyPasswordHash = sync.OnceValue(func() string {
	hash, _ := utils.HashPassword(uuid.NewString())
	return hash
})

// ClientInfo describes the browser opening a session.
type ClientInfo struct {
	UserAgent string
	IPAddress string
}

type AuthService interface {
	SignIn(ctx context.Context, req *request.SignInRequest, client ClientInfo) (*entity.Session, error)
	SignOut(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*utils.Identity, error)
	SeedAdmin(ctx context.Context) error
	CleanExpiredSessions(ctx context.Context, olderThan time.Duration) (int64, error)
}

type authService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
	now    func() time.Time
}

func NewAuthService(
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "auth")),
		now:    time.Now,
	}
}

func (s *authService) SignIn(ctx context.Context, req *request.SignInRequest, client ClientInfo) (*entity.Session, error) {
	// 1. Validate
	req.Normalize()
	if errs := utils.ValidateStruct(req, request.SignInMessages); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	// 2. Find user by email, then by login name
	user, err := s.repo.User.FindByEmail(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	if user == nil {
		user, err = s.repo.User.FindByUsername(ctx, req.Username)
		if err != nil {
			return nil, fmt.Errorf("sign in: %w", err)
		}
	}

	// 3. Check credentials. Unknown identifiers still pay for one bcrypt
	// comparison so timing does not reveal which accounts exist.
	hash := dummyPasswordHash()
	if user != nil {
		hash = user.PasswordHash
	}
	if !utils.CheckPasswordHash(req.Password, hash) || user == nil {
		s.log.Warn("Invalid sign in attempt", zap.String("identifier", req.Username), zap.String("ip", client.IPAddress))
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		s.log.Warn("Inactive user tried to sign in", zap.String("user_id", user.ID.String()))
		return nil, ErrAccountInactive
	}

	// 4. Open session
	now := s.now()
	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    user.ID,
		Token:     uuid.New(),
		UserAgent: optional(client.UserAgent),
		IPAddress: optional(client.IPAddress),
		ExpiresAt: now.Add(time.Duration(s.config.Session.ExpiryHours) * time.Hour),
	}
	if err := s.repo.Session.Open(ctx, session); err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}

	if err := s.repo.User.TouchLastSeen(ctx, user.ID, now); err != nil {
		s.log.Warn("Failed to stamp last seen", zap.Error(err), zap.String("user_id", user.ID.String()))
	}

	s.log.Info("User signed in",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	return session, nil
}

func (s *authService) SignOut(ctx context.Context, token string) error {
	parsed, err := uuid.Parse(token)
	if err != nil {
		return ErrInvalidSession
	}

	if err := s.repo.Session.Revoke(ctx, parsed); err != nil {
		s.log.Warn("Failed to revoke session", zap.Error(err))
		return ErrInvalidSession
	}

	s.log.Info("User signed out")
	return nil
}

// Authenticate resolves a session cookie value into the signed-in identity.
// Deleted and deactivated users are filtered out by the session lookup.
func (s *authService) Authenticate(ctx context.Context, token string) (*utils.Identity, error) {
	parsed, err := uuid.Parse(token)
	if err != nil {
		return nil, ErrInvalidSession
	}

	now := s.now()
	active, err := s.repo.Session.FindActive(ctx, parsed, now)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if active == nil {
		return nil, ErrInvalidSession
	}

	user := &active.User
	if user.LastSeen == nil || now.Sub(*user.LastSeen) >= lastSeenResolution {
		if err := s.repo.User.TouchLastSeen(ctx, user.ID, now); err != nil {
			s.log.Warn("Failed to stamp last seen", zap.Error(err), zap.String("user_id", user.ID.String()))
		}
	}

	return &utils.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	}, nil
}

// SeedAdmin creates the configured administrator when no live user exists.
func (s *authService) SeedAdmin(ctx context.Context) error {
	count, err := s.repo.User.CountAll(ctx)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := utils.HashPassword(s.config.Admin.Password)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	now := s.now()
	admin := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:     s.config.Admin.Username,
		PasswordHash: hash,
		RealName:     "Administrator",
		Role:         entity.RoleAdmin,
		Email:        s.config.Admin.Email,
		IsActive:     true,
	}
	if err := s.repo.User.Create(ctx, admin); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	s.log.Info("Seeded administrator account", zap.String("username", admin.Username))
	return nil
}

func (s *authService) CleanExpiredSessions(ctx context.Context, olderThan time.Duration) (int64, error) {
	removed, err := s.repo.Session.Purge(ctx, olderThan)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.log.Info("Expired sessions removed", zap.Int64("count", removed))
	}
	return removed, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
