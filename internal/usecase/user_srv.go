package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backoffice/internal/data/entity"
	"backoffice/internal/data/repository"
	"backoffice/internal/dto/request"
	"backoffice/internal/dto/response"
	"backoffice/internal/grid"
	"backoffice/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgUsernameTaken = "Login name already taken"
	msgEmailTaken    = "Email already registered"
)

type UserService interface {
	Grid() *grid.Definition
	Get(ctx context.Context, id string) (*entity.User, error)
	Save(ctx context.Context, req *request.UserFormRequest) (*entity.User, error)
	List(ctx context.Context, state grid.State) (*response.PaginatedResponse[response.UserRow], error)
	Delete(ctx context.Context, actor *utils.Identity, id string) (*entity.User, error)
	InlineEdit(ctx context.Context, actor *utils.Identity, id string, req *request.InlineEditRequest) (*response.UserRow, error)
}

type userService struct {
	repo *repository.Repository
	acl  *ACL
	grid *grid.Definition
	log  *zap.Logger
	now  func() time.Time
}

func NewUserService(repo *repository.Repository, acl *ACL, log *zap.Logger) UserService {
	return &userService{
		repo: repo,
		acl:  acl,
		grid: NewUserGrid(),
		log:  log.With(zap.String("service", "user")),
		now:  time.Now,
	}
}

func (us *userService) Grid() *grid.Definition {
	return us.grid
}

// Get loads a non-deleted user; malformed and unknown ids are both ErrUserNotFound.
func (us *userService) Get(ctx context.Context, id string) (*entity.User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		us.log.Warn("Invalid user ID", zap.String("user_id", id), zap.Error(err))
		return nil, ErrUserNotFound
	}

	user, err := us.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (us *userService) Save(ctx context.Context, req *request.UserFormRequest) (*entity.User, error) {
	req.Normalize()

	// 1. Field rules
	if errs := utils.ValidateStruct(req, request.UserFormMessages); len(errs) > 0 {
		us.log.Debug("User form validation failed", zap.Any("errors", errs))
		return nil, newValidationError(errs)
	}

	// 2. Load the edited user, or start a new one
	var user *entity.User
	now := us.now()
	if req.ID != "" {
		existing, err := us.Get(ctx, req.ID)
		if err != nil {
			return nil, err
		}
		user = existing
	} else {
		user = &entity.User{
			Base: entity.Base{
				ID:        uuid.New(),
				CreatedAt: now,
			},
		}
	}

	// 3. Uniqueness among live users
	errs, err := us.checkUnique(ctx, user.ID, req.Username, req.Email)
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	// 4. Password is only rehashed when a new one was typed
	if req.Password1 != "" {
		hash, err := utils.HashPassword(req.Password1)
		if err != nil {
			us.log.Error("Failed to hash password", zap.Error(err))
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	wasActive := user.IsActive
	user.Username = req.Username
	user.RealName = req.RealName
	user.Role = entity.UserRole(req.Role)
	user.IsActive = req.Active
	user.Email = req.Email
	user.Street = req.Street
	user.Postcode = req.Postcode
	user.City = req.City
	user.Phone = req.Phone
	user.Birthday = req.BirthdayTime()
	user.UpdatedAt = now

	// 5. Persist
	if req.ID == "" {
		if err := us.repo.User.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("save user: %w", err)
		}
		us.log.Info("User created", zap.String("user_id", user.ID.String()), zap.String("username", user.Username))
		return user, nil
	}

	if err := us.repo.User.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	if wasActive && !user.IsActive {
		us.revokeSessions(ctx, user)
	}

	us.log.Info("User updated", zap.String("user_id", user.ID.String()), zap.String("username", user.Username))
	return user, nil
}

func (us *userService) checkUnique(ctx context.Context, self uuid.UUID, username, email string) (map[string]string, error) {
	errs := make(map[string]string)

	if username != "" {
		other, err := us.repo.User.FindByUsername(ctx, username)
		if err != nil {
			return nil, fmt.Errorf("check username: %w", err)
		}
		if other != nil && other.ID != self {
			errs["username"] = msgUsernameTaken
		}
	}

	if email != "" {
		other, err := us.repo.User.FindByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if other != nil && other.ID != self {
			errs["email"] = msgEmailTaken
		}
	}

	return errs, nil
}

func (us *userService) List(ctx context.Context, state grid.State) (*response.PaginatedResponse[response.UserRow], error) {
	filter := userFilterFromState(state)

	total, err := us.repo.User.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	// a filter change can leave the requested page past the end
	state.ClampPage(total)
	filter.Offset = state.Offset()

	users, err := us.repo.User.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	us.log.Debug("Users listed",
		zap.Int("count", len(users)),
		zap.Int64("total", total),
		zap.Int("page", state.Page),
		zap.Int("per_page", state.PerPage),
	)

	return response.NewPaginatedResponse(response.UsersToRows(users), state.Page, state.PerPage, total), nil
}

// Delete soft-deletes a user. An unknown id returns nil, nil so the caller can
// simply redirect back.
func (us *userService) Delete(ctx context.Context, actor *utils.Identity, id string) (*entity.User, error) {
	if actor == nil || !us.acl.IsAllowed(actor.Role, ResourceUsers, PrivilegeDelete) {
		us.logDenied(actor, "delete", id)
		return nil, ErrPermissionDenied
	}

	user, err := us.Get(ctx, id)
	if errors.Is(err, ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := us.repo.User.Delete(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("delete user: %w", err)
	}
	us.revokeSessions(ctx, user)

	us.log.Info("User removed",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("actor", actor.Username),
	)
	return user, nil
}

func (us *userService) InlineEdit(ctx context.Context, actor *utils.Identity, id string, req *request.InlineEditRequest) (*response.UserRow, error) {
	if actor == nil || !us.acl.IsAllowed(actor.Role, ResourceUsers, PrivilegeEdit) {
		us.logDenied(actor, "edit", id)
		return nil, ErrPermissionDenied
	}

	req.Normalize()
	if errs := utils.ValidateStruct(req, request.UserFormMessages); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	user, err := us.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	errs, err := us.checkUnique(ctx, user.ID, "", req.Email)
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	wasActive := user.IsActive
	user.RealName = req.RealName
	user.Email = req.Email
	user.Role = entity.UserRole(req.Role)
	user.IsActive = req.Active
	user.UpdatedAt = us.now()

	if err := us.repo.User.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("inline edit user: %w", err)
	}
	if wasActive && !user.IsActive {
		us.revokeSessions(ctx, user)
	}

	row := response.UserToRow(user)
	return &row, nil
}

func (us *userService) revokeSessions(ctx context.Context, user *entity.User) {
	if err := us.repo.Session.RevokeForUser(ctx, user.ID); err != nil {
		us.log.Warn("Failed to revoke sessions", zap.Error(err), zap.String("user_id", user.ID.String()))
	}
}

func (us *userService) logDenied(actor *utils.Identity, privilege, target string) {
	fields := []zap.Field{zap.String("privilege", privilege), zap.String("target", target)}
	if actor != nil {
		fields = append(fields, zap.String("actor", actor.Username), zap.String("role", actor.Role))
	}
	us.log.Warn("Permission denied", fields...)
}
