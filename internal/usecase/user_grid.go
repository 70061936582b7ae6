package usecase

import (
	"backoffice/internal/data/entity"
	"backoffice/internal/data/repository"
	"backoffice/internal/grid"
)

const UserGridName = "grid"

// NewUserGrid describes the user listing shown on the dashboard.
func NewUserGrid() *grid.Definition {
	roles := make([]grid.Option, 0, len(entity.AllRoles))
	for _, role := range entity.AllRoles {
		roles = append(roles, grid.Option{Value: string(role), Label: role.Label()})
	}

	return &grid.Definition{
		Name: UserGridName,
		Columns: []grid.Column{
			{Name: "username", Label: "Login", Filter: grid.FilterText, Sortable: true},
			{Name: "real_name", Label: "Name", Filter: grid.FilterText, Sortable: true},
			{Name: "email", Label: "Email", Filter: grid.FilterText, Sortable: true},
			{Name: "role", Label: "Role", Filter: grid.FilterSelect, Options: roles, Sortable: true},
			{Name: "last_seen", Label: "Last Seen", Sortable: true},
		},
		DefaultSort:    "username",
		DefaultDir:     grid.Asc,
		PerPageOptions: []int{10, 20, 50, 100},
		DefaultPerPage: 20,
	}
}

func userFilterFromState(state grid.State) repository.UserFilter {
	return repository.UserFilter{
		Username:   state.Filters["username"],
		RealName:   state.Filters["real_name"],
		Email:      state.Filters["email"],
		Role:       state.Filters["role"],
		SortColumn: state.SortColumn,
		SortDesc:   state.SortDir == grid.Desc,
		Limit:      state.PerPage,
		Offset:     state.Offset(),
	}
}
