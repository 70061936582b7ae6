package usecase

import (
	"backoffice/internal/data/repository"
	"backoffice/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	ACL       *ACL
	Auth      AuthService
	User      UserService
	Dashboard DashboardService
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger) *Service {
	acl := NewACL()
	return &Service{
		ACL:       acl,
		Auth:      NewAuthService(repo, config, log),
		User:      NewUserService(repo, acl, log),
		Dashboard: NewDashboardService(repo, config, log),
	}
}
