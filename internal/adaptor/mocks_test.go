package adaptor

import (
	"context"
	"time"

	"backoffice/internal/data/entity"
	"backoffice/internal/dto/request"
	"backoffice/internal/dto/response"
	"backoffice/internal/grid"
	"backoffice/internal/usecase"
	"backoffice/pkg/utils"

	"github.com/stretchr/testify/mock"
)

type MockUserService struct {
	mock.Mock
	grid *grid.Definition
}

var _ usecase.UserService = (*MockUserService)(nil)

func (m *MockUserService) Grid() *grid.Definition {
	return m.grid
}

func (m *MockUserService) Get(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserService) Save(ctx context.Context, req *request.UserFormRequest) (*entity.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserService) List(ctx context.Context, state grid.State) (*response.PaginatedResponse[response.UserRow], error) {
	args := m.Called(ctx, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.PaginatedResponse[response.UserRow]), args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, actor *utils.Identity, id string) (*entity.User, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserService) InlineEdit(ctx context.Context, actor *utils.Identity, id string, req *request.InlineEditRequest) (*response.UserRow, error) {
	args := m.Called(ctx, actor, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.UserRow), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

var _ usecase.AuthService = (*MockAuthService)(nil)

func (m *MockAuthService) SignIn(ctx context.Context, req *request.SignInRequest, client usecase.ClientInfo) (*entity.Session, error) {
	args := m.Called(ctx, req, client)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Session), args.Error(1)
}

func (m *MockAuthService) SignOut(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (*utils.Identity, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*utils.Identity), args.Error(1)
}

func (m *MockAuthService) SeedAdmin(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockAuthService) CleanExpiredSessions(ctx context.Context, olderThan time.Duration) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

type MockDashboardService struct {
	mock.Mock
}

var _ usecase.DashboardService = (*MockDashboardService)(nil)

func (m *MockDashboardService) Panels(alert usecase.AlertLink) []response.Panel {
	args := m.Called(alert)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]response.Panel)
}

func (m *MockDashboardService) InfoBoard(ctx context.Context) *response.InfoBoard {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*response.InfoBoard)
}

func (m *MockDashboardService) Random() int {
	return m.Called().Int(0)
}

func (m *MockDashboardService) WaitSlow(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
