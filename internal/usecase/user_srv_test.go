package usecase

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"backoffice/internal/data/entity"
	"backoffice/internal/data/repository"
	"backoffice/internal/dto/request"
	"backoffice/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	adminActor   = &utils.Identity{UserID: uuid.New(), Username: "admin", Role: string(entity.RoleAdmin)}
	managerActor = &utils.Identity{UserID: uuid.New(), Username: "boss", Role: string(entity.RoleManager)}
)

func newUserForm() *request.UserFormRequest {
	return &request.UserFormRequest{
		Username:  "jdoe",
		Password1: "secret123",
		Password2: "secret123",
		RealName:  "John Doe",
		Role:      "manager",
		Active:    true,
		Email:     "jdoe@example.com",
	}
}

func existingUser() *entity.User {
	return &entity.User{
		Base:         entity.Base{ID: uuid.New()},
		Username:     "jdoe",
		PasswordHash: "stored-hash",
		RealName:     "John Doe",
		Role:         entity.RoleManager,
		Email:        "jdoe@example.com",
		IsActive:     true,
	}
}

func TestUserService_SaveValidation(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*request.UserFormRequest)
		expected map[string]string
	}{
		{
			name: "missing login name and email",
			mutate: func(r *request.UserFormRequest) {
				r.Username = "  "
				r.Email = ""
			},
			expected: map[string]string{"username": "Fill login name", "email": "Fill email"},
		},
		{
			name: "passwords differ",
			mutate: func(r *request.UserFormRequest) {
				r.Password2 = "other"
			},
			expected: map[string]string{"password1": "Passwords must be same", "password2": "Passwords must be same"},
		},
		{
			name: "password missing on create",
			mutate: func(r *request.UserFormRequest) {
				r.Password1 = ""
				r.Password2 = ""
			},
			expected: map[string]string{"password1": "Fill password", "password2": "Fill password"},
		},
		{
			name: "missing full name and bad birthday",
			mutate: func(r *request.UserFormRequest) {
				r.RealName = ""
				r.Birthday = "31.12.1990"
			},
			expected: map[string]string{"real_name": "Fill full name", "birthday": "Use YYYY-MM-DD"},
		},
		{
			name: "multibyte password over the bcrypt byte limit",
			mutate: func(r *request.UserFormRequest) {
				r.Password1 = strings.Repeat("é", 60)
				r.Password2 = r.Password1
			},
			expected: map[string]string{"password1": "Password is too long"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, users, _ := newMockRepository()
			service := NewUserService(repo, NewACL(), zap.NewNop())

			form := newUserForm()
			tt.mutate(form)
			user, err := service.Save(context.Background(), form)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.expected, verr.Fields)
			assert.Nil(t, user)
			users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestUserService_SaveCreatesWithHashedPassword(t *testing.T) {
	repo, users, _ := newMockRepository()
	service := NewUserService(repo, NewACL(), zap.NewNop())

	users.On("FindByUsername", mock.Anything, "jdoe").Return(nil, nil)
	users.On("FindByEmail", mock.Anything, "jdoe@example.com").Return(nil, nil)
	users.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).Return(nil)

	user, err := service.Save(context.Background(), newUserForm())

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, entity.RoleManager, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.True(t, utils.CheckPasswordHash("secret123", user.PasswordHash))
	users.AssertExpectations(t)
}

func TestUserService_SaveRejectsTakenLoginAndEmail(t *testing.T) {
	repo, users, _ := newMockRepository()
	service := NewUserService(repo, NewACL(), zap.NewNop())

	other := existingUser()
	users.On("FindByUsername", mock.Anything, "jdoe").Return(other, nil)
	users.On("FindByEmail", mock.Anything, "jdoe@example.com").Return(other, nil)

	_, err := service.Save(context.Background(), newUserForm())

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Login name already taken", verr.Fields["username"])
	assert.Equal(t, "Email already registered", verr.Fields["email"])
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserService_SaveEditPassword(t *testing.T) {
	tests := []struct {
		name      string
		password  string
		checkHash func(t *testing.T, hash string)
	}{
		{
			name:     "empty password keeps stored hash",
			password: "",
			checkHash: func(t *testing.T, hash string) {
				assert.Equal(t, "stored-hash", hash)
			},
		},
		{
			name:     "new password is rehashed",
			password: "n3w-secret",
			checkHash: func(t *testing.T, hash string) {
				assert.NotEqual(t, "stored-hash", hash)
				assert.True(t, utils.CheckPasswordHash("n3w-secret", hash))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, users, _ := newMockRepository()
			service := NewUserService(repo, NewACL(), zap.NewNop())

			stored := existingUser()
			users.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)
			users.On("FindByUsername", mock.Anything, "jdoe").Return(stored, nil)
			users.On("FindByEmail", mock.Anything, "jdoe@example.com").Return(stored, nil)
			users.On("Update", mock.Anything, mock.AnythingOfType("*entity.User")).Return(nil)

			form := newUserForm()
			form.ID = stored.ID.String()
			form.Password1 = tt.password
			form.Password2 = tt.password
			form.RealName = "Johnny"

			user, err := service.Save(context.Background(), form)

			require.NoError(t, err)
			assert.Equal(t, "Johnny", user.RealName)
			tt.checkHash(t, user.PasswordHash)
			users.AssertExpectations(t)
		})
	}
}

func TestUserService_SaveDeactivationRevokesSessions(t *testing.T) {
	repo, users, sessions := newMockRepository()
	service := NewUserService(repo, NewACL(), zap.NewNop())

	stored := existingUser()
	users.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)
	users.On("FindByUsername", mock.Anything, "jdoe").Return(stored, nil)
	users.On("FindByEmail", mock.Anything, "jdoe@example.com").Return(stored, nil)
	users.On("Update", mock.Anything, mock.AnythingOfType("*entity.User")).Return(nil)
	sessions.On("RevokeForUser", mock.Anything, stored.ID).Return(nil)

	form := newUserForm()
	form.ID = stored.ID.String()
	form.Password1, form.Password2 = "", ""
	form.Active = false

	_, err := service.Save(context.Background(), form)

	require.NoError(t, err)
	sessions.AssertExpectations(t)
}

func TestUserService_SaveUnknownID(t *testing.T) {
	repo, users, _ := newMockRepository()
	service := NewUserService(repo, NewACL(), zap.NewNop())

	id := uuid.New()
	users.On("FindByID", mock.Anything, id).Return(nil, nil)

	form := newUserForm()
	form.ID = id.String()
	_, err := service.Save(context.Background(), form)

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_Delete(t *testing.T) {
	tests := []struct {
		name          string
		actor         *utils.Identity
		setupMock     func(*MockUserRepository, *MockSessionRepository, *entity.User)
		expectedError error
		expectUser    bool
	}{
		{
			name:  "admin soft deletes",
			actor: adminActor,
			setupMock: func(u *MockUserRepository, s *MockSessionRepository, target *entity.User) {
				u.On("FindByID", mock.Anything, target.ID).Return(target, nil)
				u.On("Delete", mock.Anything, target.ID).Return(nil)
				s.On("RevokeForUser", mock.Anything, target.ID).Return(nil)
			},
			expectUser: true,
		},
		{
			name:          "manager is denied",
			actor:         managerActor,
			setupMock:     func(*MockUserRepository, *MockSessionRepository, *entity.User) {},
			expectedError: ErrPermissionDenied,
		},
		{
			name:          "anonymous is denied",
			actor:         nil,
			setupMock:     func(*MockUserRepository, *MockSessionRepository, *entity.User) {},
			expectedError: ErrPermissionDenied,
		},
		{
			name:  "unknown id is a no-op",
			actor: adminActor,
			setupMock: func(u *MockUserRepository, _ *MockSessionRepository, target *entity.User) {
				u.On("FindByID", mock.Anything, target.ID).Return(nil, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, users, sessions := newMockRepository()
			target := existingUser()
			tt.setupMock(users, sessions, target)
			service := NewUserService(repo, NewACL(), zap.NewNop())

			removed, err := service.Delete(context.Background(), tt.actor, target.ID.String())

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
			}
			if tt.expectUser {
				require.NotNil(t, removed)
				assert.Equal(t, "jdoe", removed.Username)
			} else {
				assert.Nil(t, removed)
			}
			users.AssertExpectations(t)
			sessions.AssertExpectations(t)
		})
	}
}

func TestUserService_ListPassesFilters(t *testing.T) {
	repo, users, _ := newMockRepository()
	service := NewUserService(repo, NewACL(), zap.NewNop())

	q := url.Values{}
	q.Set("grid-filter[username]", "jo")
	q.Set("grid-filter[real_name]", "Doe")
	q.Set("grid-filter[email]", "example")
	q.Set("grid-sort[last_seen]", "DESC")
	state := service.Grid().ParseState(q)

	expected := repository.UserFilter{
		Username:   "jo",
		RealName:   "Doe",
		Email:      "example",
		SortColumn: "last_seen",
		SortDesc:   true,
		Limit:      20,
		Offset:     0,
	}
	users.On("Count", mock.Anything, expected).Return(int64(1), nil)
	users.On("List", mock.Anything, expected).Return([]*entity.User{existingUser()}, nil)

	page, err := service.List(context.Background(), state)

	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Manager", page.Data[0].RoleLabel)
	assert.Equal(t, int64(1), page.Pagination.Total)
	assert.Equal(t, 1, page.Pagination.TotalPages)
	users.AssertExpectations(t)
}

func TestUserService_ListClampsPage(t *testing.T) {
	repo, users, _ := newMockRepository()
	service := NewUserService(repo, NewACL(), zap.NewNop())

	state := service.Grid().DefaultState().WithPage(5)
	users.On("Count", mock.Anything, mock.Anything).Return(int64(30), nil)
	users.On("List", mock.Anything, mock.MatchedBy(func(f repository.UserFilter) bool {
		return f.Offset == 20 && f.Limit == 20
	})).Return([]*entity.User{}, nil)

	page, err := service.List(context.Background(), state)

	require.NoError(t, err)
	assert.Equal(t, 2, page.Pagination.Page)
	users.AssertExpectations(t)
}

func TestUserService_InlineEdit(t *testing.T) {
	t.Run("manager edits a row", func(t *testing.T) {
		repo, users, _ := newMockRepository()
		service := NewUserService(repo, NewACL(), zap.NewNop())
		stored := existingUser()
		users.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)
		users.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, nil)
		users.On("Update", mock.Anything, mock.AnythingOfType("*entity.User")).Return(nil)

		row, err := service.InlineEdit(context.Background(), managerActor, stored.ID.String(), &request.InlineEditRequest{
			RealName: "Jane", Email: "new@example.com", Role: "admin", Active: true,
		})

		require.NoError(t, err)
		assert.Equal(t, "Jane", row.RealName)
		assert.Equal(t, "Administrator", row.RoleLabel)
		assert.Equal(t, "stored-hash", stored.PasswordHash)
		users.AssertExpectations(t)
	})

	t.Run("taken email is rejected", func(t *testing.T) {
		repo, users, _ := newMockRepository()
		service := NewUserService(repo, NewACL(), zap.NewNop())
		stored := existingUser()
		users.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)
		users.On("FindByEmail", mock.Anything, "taken@example.com").Return(existingUser(), nil)

		_, err := service.InlineEdit(context.Background(), adminActor, stored.ID.String(), &request.InlineEditRequest{
			RealName: "Jane", Email: "taken@example.com", Role: "admin",
		})

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "Email already registered", verr.Fields["email"])
		users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}
