package usecase

import (
	"backoffice/internal/data/entity"
)

type Resource string

type Privilege string

const (
	ResourceUsers     Resource = "users"
	ResourceDashboard Resource = "dashboard"

	PrivilegeView   Privilege = "view"
	PrivilegeEdit   Privilege = "edit"
	PrivilegeDelete Privilege = "delete"
)

// ACL is a static role -> resource -> privilege table.
type ACL struct {
	superRoles map[entity.UserRole]bool
	rules      map[entity.UserRole]map[Resource]map[Privilege]bool
}

// NewACL builds the back office permissions: admin may do anything,
// manager may browse and edit users but not delete them.
func NewACL() *ACL {
	acl := &ACL{
		superRoles: make(map[entity.UserRole]bool),
		rules:      make(map[entity.UserRole]map[Resource]map[Privilege]bool),
	}
	acl.AllowAll(entity.RoleAdmin)
	acl.Allow(entity.RoleManager, ResourceDashboard, PrivilegeView)
	acl.Allow(entity.RoleManager, ResourceUsers, PrivilegeView, PrivilegeEdit)
	return acl
}

func (a *ACL) AllowAll(role entity.UserRole) {
	a.superRoles[role] = true
}

func (a *ACL) Allow(role entity.UserRole, resource Resource, privileges ...Privilege) {
	resources, ok := a.rules[role]
	if !ok {
		resources = make(map[Resource]map[Privilege]bool)
		a.rules[role] = resources
	}
	granted, ok := resources[resource]
	if !ok {
		granted = make(map[Privilege]bool)
		resources[resource] = granted
	}
	for _, p := range privileges {
		granted[p] = true
	}
}

// IsAllowed reports whether role holds privilege on resource. Unknown roles get nothing.
func (a *ACL) IsAllowed(role string, resource Resource, privilege Privilege) bool {
	r := entity.UserRole(role)
	if a.superRoles[r] {
		return true
	}
	return a.rules[r][resource][privilege]
}
