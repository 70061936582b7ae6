package entity

import "time"

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
)

// AllRoles lists roles in the order select boxes show them.
var AllRoles = []UserRole{RoleAdmin, RoleManager}

var roleLabels = map[UserRole]string{
	RoleAdmin:   "Administrator",
	RoleManager: "Manager",
}

func (r UserRole) Label() string {
	if label, ok := roleLabels[r]; ok {
		return label
	}
	return string(r)
}

func (r UserRole) Valid() bool {
	_, ok := roleLabels[r]
	return ok
}

type User struct {
	Base
	Username     string     `db:"username"`
	PasswordHash string     `db:"password"`
	RealName     string     `db:"real_name"`
	Role         UserRole   `db:"role"`
	Email        string     `db:"email"`
	Street       string     `db:"street"`
	Postcode     string     `db:"postcode"`
	City         string     `db:"city"`
	Phone        string     `db:"phone"`
	Birthday     *time.Time `db:"birthday"`
	IsActive     bool       `db:"is_active"`
	LastSeen     *time.Time `db:"last_seen"`
}
