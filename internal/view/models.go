package view

import (
	"backoffice/internal/data/entity"
	"backoffice/internal/dto/request"
	"backoffice/internal/dto/response"
	"backoffice/internal/grid"
	"backoffice/pkg/utils"
)

// Page is the data every template receives; Content is page specific.
type Page struct {
	AppName      string
	Title        string
	Identity     *utils.Identity
	Flashes      []entity.FlashMessage
	Panels       []response.Panel
	SearchAction string
	SignOutToken string
	Content      any
}

type Dashboard struct {
	Board      *response.InfoBoard
	Grid       *Grid
	Random     int
	RandomLink string
	SlowLink   string
	CreateLink string
}

type UserForm struct {
	IsNew    bool
	Username string
	Action   string
	BackLink string
	Values   *request.UserFormRequest
	Errors   map[string]string
	Roles    []grid.Option
}

type SignIn struct {
	Action   string
	Backlink string
	Values   *request.SignInRequest
	Errors   map[string]string
}

type Error struct {
	Code    int
	Title   string
	Message string
}

type HiddenInput struct {
	Name  string
	Value string
}

type GridColumn struct {
	Name         string
	Label        string
	SortLink     string
	SortDir      string // "asc", "desc" or empty when not sorted by this column
	TextFilter   bool
	SelectFilter bool
	FilterName   string
	FilterValue  string
	Options      []grid.Option
}

type GridRow struct {
	Row              response.UserRow
	SnippetID        string
	CanEdit          bool
	EditLink         string
	InlineEditLink   string
	DeleteLink       string
	DeleteConfirm    string
	Editing          bool
	FormID           string
	InlineSaveAction string
	InlineCancelLink string
	InlineToken      string
	Roles            []grid.Option
	Errors           map[string]string
}

type PageLink struct {
	Number int
	Link   string
	Active bool
}

type PerPageOption struct {
	Value    int
	Selected bool
}

type Grid struct {
	Name           string
	Action         string
	FilterFormID   string
	RefreshLink    string
	ResetLink      string
	Filtered       bool
	Hidden         []HiddenInput
	Columns        []GridColumn
	Rows           []GridRow
	ColSpan        int
	Pagination     response.PaginationMeta
	FirstItem      int
	LastItem       int
	PageLinks      []PageLink
	PrevLink       string
	NextLink       string
	PerPageName    string
	PerPageOptions []PerPageOption
}
