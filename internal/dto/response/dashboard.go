package response

import "fmt"

type PanelKind string

const (
	PanelNotifications PanelKind = "notifications"
	PanelTasks         PanelKind = "tasks"
	PanelMessages      PanelKind = "messages"
	PanelLink          PanelKind = "link"
)

// Panel is a header dropdown. HeaderTitle may hold a %d verb for Counter.
type Panel struct {
	Kind        PanelKind
	Icon        string
	Counter     int
	HeaderTitle string
	LinkAll     string
	Items       []PanelItem
}

// Title renders HeaderTitle with the counter substituted.
func (p Panel) Title() string {
	if p.HeaderTitle == "" {
		return ""
	}
	return fmt.Sprintf(p.HeaderTitle, p.Counter)
}

// PanelItem covers notification, task and message entries; unused fields stay zero.
type PanelItem struct {
	Link     string
	Title    string
	Text     string
	Image    string
	Time     string
	Progress int
}

type InfoBox struct {
	Color    string
	Icon     string
	Link     string
	Text     string
	Number   string
	Progress int
}

type InfoBoard struct {
	ColSpan int
	Boxes   []InfoBox
}
