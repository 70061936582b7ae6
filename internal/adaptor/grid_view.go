package adaptor

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"backoffice/internal/dto/response"
	"backoffice/internal/grid"
	"backoffice/internal/usecase"
	"backoffice/internal/view"
	"backoffice/pkg/utils"
)

// userGrid turns grid state and a page of users into the grid view model.
type userGrid struct {
	*presenter
	users usecase.UserService
	acl   *usecase.ACL
}

func (g *userGrid) definition() *grid.Definition {
	return g.users.Grid()
}

func (g *userGrid) state(q url.Values) grid.State {
	return g.definition().ParseState(q)
}

// stateFromLink recovers grid state from a dashboard link such as a back URL.
func (g *userGrid) stateFromLink(link string) grid.State {
	u, err := url.Parse(link)
	if err != nil {
		return g.definition().DefaultState()
	}
	return g.state(u.Query())
}

func (g *userGrid) link(state grid.State) string {
	q := g.definition().Encode(state).Encode()
	if q == "" {
		return DashboardPath
	}
	return DashboardPath + "?" + q
}

func (g *userGrid) build(r *http.Request, state grid.State) (*view.Grid, error) {
	page, err := g.users.List(r.Context(), state)
	if err != nil {
		return nil, err
	}
	state.Page = page.Pagination.Page

	def := g.definition()
	back := g.link(state)

	v := &view.Grid{
		Name:         def.Name,
		Action:       DashboardPath,
		FilterFormID: def.Name + "-filter",
		RefreshLink:  back,
		Filtered:     len(state.Filters) > 0,
		ColSpan:      len(def.Columns) + 1,
		Pagination:   page.Pagination,
		PerPageName:  def.PerPageKey(),
	}

	reset := state.Clone()
	reset.Filters = map[string]string{}
	reset.Page = 1
	v.ResetLink = g.link(reset)

	sorting := def.Encode(grid.State{SortColumn: state.SortColumn, SortDir: state.SortDir, PerPage: def.DefaultPerPage})
	v.Hidden = hiddenInputs(sorting)

	for _, c := range def.Columns {
		col := view.GridColumn{
			Name:         c.Name,
			Label:        c.Label,
			TextFilter:   c.Filter == grid.FilterText,
			SelectFilter: c.Filter == grid.FilterSelect,
			FilterName:   def.FilterKey(c.Name),
			FilterValue:  state.Filters[c.Name],
			Options:      c.Options,
		}
		if c.Sortable {
			col.SortLink = g.link(state.ToggleSort(c.Name))
			if state.SortColumn == c.Name {
				col.SortDir = strings.ToLower(string(state.SortDir))
			}
		}
		v.Columns = append(v.Columns, col)
	}

	for _, row := range page.Data {
		v.Rows = append(v.Rows, g.row(r, row, back))
	}

	if page.Pagination.Total > 0 {
		v.FirstItem = state.Offset() + 1
		v.LastItem = state.Offset() + len(page.Data)
	}
	for _, n := range page.Pagination.Pages() {
		v.PageLinks = append(v.PageLinks, view.PageLink{Number: n, Link: g.link(state.WithPage(n)), Active: n == state.Page})
	}
	if page.Pagination.HasPrev() {
		v.PrevLink = g.link(state.WithPage(state.Page - 1))
	}
	if page.Pagination.HasNext() {
		v.NextLink = g.link(state.WithPage(state.Page + 1))
	}
	for _, n := range def.PerPageOptions {
		v.PerPageOptions = append(v.PerPageOptions, view.PerPageOption{Value: n, Selected: n == state.PerPage})
	}

	return v, nil
}

// row builds a read-only grid row whose actions return to back.
func (g *userGrid) row(r *http.Request, row response.UserRow, back string) view.GridRow {
	identity, _ := utils.GetIdentityFromContext(r.Context())
	canEdit := identity != nil && g.acl.IsAllowed(identity.Role, usecase.ResourceUsers, usecase.PrivilegeEdit)

	backQuery := url.Values{"back": {back}}
	deleteQuery := url.Values{"back": {back}, secParam: {g.secToken(r, "delete", row.ID)}}

	return view.GridRow{
		Row:            row,
		SnippetID:      rowSnippetID(row.ID),
		CanEdit:        canEdit,
		EditLink:       AdminPath + "/edit/" + row.ID,
		InlineEditLink: AdminPath + "/inline/" + row.ID + "?" + backQuery.Encode(),
		DeleteLink:     AdminPath + "/delete/" + row.ID + "?" + deleteQuery.Encode(),
		DeleteConfirm:  fmt.Sprintf("Do you really want to delete user %s?", row.Username),
	}
}

// editingRow is row switched into inline edit mode.
func (g *userGrid) editingRow(r *http.Request, row response.UserRow, back string, errs map[string]string) view.GridRow {
	v := g.row(r, row, back)
	v.Editing = true
	v.FormID = "grid-inline-" + row.ID
	v.InlineSaveAction = AdminPath + "/inline/" + row.ID + "?" + url.Values{"back": {back}}.Encode()
	v.InlineCancelLink = AdminPath + "/inline/" + row.ID + "/cancel?" + url.Values{"back": {back}}.Encode()
	v.InlineToken = g.secToken(r, "inline", row.ID)
	v.Roles = roleOptions(g.definition())
	v.Errors = errs
	return v
}

// snippet renders the whole grid for an AJAX refresh.
func (g *userGrid) snippet(r *http.Request, state grid.State, payload *Payload) error {
	v, err := g.build(r, state)
	if err != nil {
		return err
	}
	html, err := g.renderer.Snippet("grid", v)
	if err != nil {
		return err
	}
	payload.AddSnippet("grid", html)
	payload.GridURL = v.RefreshLink
	return nil
}

func (g *userGrid) rowSnippet(row view.GridRow, payload *Payload) error {
	html, err := g.renderer.Snippet("grid-row", row)
	if err != nil {
		return err
	}
	payload.AddSnippet(row.SnippetID, html)
	return nil
}

func rowSnippetID(id string) string {
	return "grid-row-" + id
}

func roleOptions(def *grid.Definition) []grid.Option {
	if c, ok := def.Column("role"); ok {
		return c.Options
	}
	return nil
}

// hiddenInputs renders values as hidden inputs ordered by name.
func hiddenInputs(values url.Values) []view.HiddenInput {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	inputs := make([]view.HiddenInput, 0, len(names))
	for _, name := range names {
		inputs = append(inputs, view.HiddenInput{Name: name, Value: values.Get(name)})
	}
	return inputs
}
