// Package grid describes filterable, sortable, paged data grids and the
// round trip of their state through URL query parameters.
//
// State travels in keys prefixed with the grid name, e.g. for a grid named
// "grid": grid-filter[email]=foo, grid-sort[username]=DESC, grid-page=2,
// grid-perPage=50.
package grid

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"backoffice/pkg/utils"
)

type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

type FilterType int

const (
	FilterNone FilterType = iota
	FilterText
	FilterSelect
)

type Option struct {
	Value string
	Label string
}

type Column struct {
	Name     string
	Label    string
	Filter   FilterType
	Options  []Option // FilterSelect only; the empty option is implied
	Sortable bool
}

// Definition is the static shape of a grid.
type Definition struct {
	Name           string
	Columns        []Column
	DefaultSort    string
	DefaultDir     Direction
	PerPageOptions []int
	DefaultPerPage int
}

// State is what the user has chosen: filters, sort and page.
type State struct {
	Filters    map[string]string
	SortColumn string
	SortDir    Direction
	Page       int
	PerPage    int
}

func (d *Definition) Column(name string) (Column, bool) {
	for _, c := range d.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

func (d *Definition) FilterKey(column string) string {
	return fmt.Sprintf("%s-filter[%s]", d.Name, column)
}

func (d *Definition) SortKey(column string) string {
	return fmt.Sprintf("%s-sort[%s]", d.Name, column)
}

func (d *Definition) PageKey() string {
	return d.Name + "-page"
}

func (d *Definition) PerPageKey() string {
	return d.Name + "-perPage"
}

// DefaultState is the state of a grid opened without parameters.
func (d *Definition) DefaultState() State {
	return State{
		Filters:    map[string]string{},
		SortColumn: d.DefaultSort,
		SortDir:    d.DefaultDir,
		Page:       1,
		PerPage:    d.DefaultPerPage,
	}
}

// ParseState reads grid state from query values. Unknown columns, non-matching
// select values, bad directions and out-of-range paging fall back to defaults.
func (d *Definition) ParseState(q url.Values) State {
	state := d.DefaultState()

	for _, c := range d.Columns {
		value := strings.TrimSpace(q.Get(d.FilterKey(c.Name)))
		if value == "" || c.Filter == FilterNone {
			continue
		}
		if c.Filter == FilterSelect && !hasOption(c.Options, value) {
			continue
		}
		state.Filters[c.Name] = value
	}

	for _, c := range d.Columns {
		if !c.Sortable {
			continue
		}
		raw := strings.ToUpper(q.Get(d.SortKey(c.Name)))
		if raw == string(Asc) || raw == string(Desc) {
			state.SortColumn = c.Name
			state.SortDir = Direction(raw)
			break
		}
	}

	state.Page = utils.ParseInt(q.Get(d.PageKey()), 1)
	perPage := utils.ParseInt(q.Get(d.PerPageKey()), d.DefaultPerPage)
	if containsInt(d.PerPageOptions, perPage) {
		state.PerPage = perPage
	}

	return state
}

// Encode writes state back into query values. Defaults are omitted so that a
// pristine grid produces a clean URL.
func (d *Definition) Encode(s State) url.Values {
	q := url.Values{}

	names := make([]string, 0, len(s.Filters))
	for name := range s.Filters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if v := s.Filters[name]; v != "" {
			q.Set(d.FilterKey(name), v)
		}
	}

	if s.SortColumn != "" && (s.SortColumn != d.DefaultSort || s.SortDir != d.DefaultDir) {
		q.Set(d.SortKey(s.SortColumn), string(s.SortDir))
	}
	if s.Page > 1 {
		q.Set(d.PageKey(), fmt.Sprint(s.Page))
	}
	if s.PerPage != d.DefaultPerPage && s.PerPage > 0 {
		q.Set(d.PerPageKey(), fmt.Sprint(s.PerPage))
	}
	return q
}

// Clone returns a deep copy so link builders can tweak one field at a time.
func (s State) Clone() State {
	c := s
	c.Filters = make(map[string]string, len(s.Filters))
	for k, v := range s.Filters {
		c.Filters[k] = v
	}
	return c
}

// ToggleSort returns the state after clicking the column header.
func (s State) ToggleSort(column string) State {
	c := s.Clone()
	if c.SortColumn == column && c.SortDir == Asc {
		c.SortDir = Desc
	} else {
		c.SortColumn = column
		c.SortDir = Asc
	}
	c.Page = 1
	return c
}

func (s State) WithPage(page int) State {
	c := s.Clone()
	c.Page = page
	return c
}

func (s State) Offset() int {
	return utils.CalculateOffset(s.Page, s.PerPage)
}

// ClampPage keeps Page inside [1, pages] once the row count is known.
func (s *State) ClampPage(total int64) {
	pages := utils.CalculateTotalPages(total, s.PerPage)
	if s.Page > pages {
		s.Page = pages
	}
	if s.Page < 1 {
		s.Page = 1
	}
}

func hasOption(options []Option, value string) bool {
	for _, o := range options {
		if o.Value == value {
			return true
		}
	}
	return false
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
