package response

import (
	"backoffice/internal/data/entity"
)

const LastSeenLayout = "02.01.2006 15:04"

// UserRow is one line of the user grid.
type UserRow struct {
	ID        string          `json:"id"`
	Username  string          `json:"username"`
	RealName  string          `json:"real_name"`
	Email     string          `json:"email"`
	Role      entity.UserRole `json:"role"`
	RoleLabel string          `json:"role_label"`
	IsActive  bool            `json:"is_active"`
	LastSeen  string          `json:"last_seen"`
}

func UserToRow(user *entity.User) UserRow {
	row := UserRow{
		ID:        user.ID.String(),
		Username:  user.Username,
		RealName:  user.RealName,
		Email:     user.Email,
		Role:      user.Role,
		RoleLabel: user.Role.Label(),
		IsActive:  user.IsActive,
	}
	if user.LastSeen != nil {
		row.LastSeen = user.LastSeen.Local().Format(LastSeenLayout)
	}
	return row
}

func UsersToRows(users []*entity.User) []UserRow {
	rows := make([]UserRow, len(users))
	for i, user := range users {
		rows[i] = UserToRow(user)
	}
	return rows
}
