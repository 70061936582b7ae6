package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"backoffice/internal/data/repository"
	"backoffice/internal/dto/response"
	"backoffice/pkg/utils"

	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/zap"
)

const (
	RandomMax   = 10000
	globeMax    = 9999
	taskCount   = 10
	messageIcon = "/images/message.png"
)

// AlertLink builds a link that flashes text when followed.
type AlertLink func(text string) string

type DashboardService interface {
	Panels(alert AlertLink) []response.Panel
	InfoBoard(ctx context.Context) *response.InfoBoard
	Random() int
	WaitSlow(ctx context.Context) error
}

type dashboardService struct {
	repo      *repository.Repository
	slowDelay time.Duration
	memory    func(ctx context.Context) (*mem.VirtualMemoryStat, error)
	log       *zap.Logger
}

func NewDashboardService(repo *repository.Repository, config *utils.Config, log *zap.Logger) DashboardService {
	return &dashboardService{
		repo:      repo,
		slowDelay: config.Dashboard.SlowPanelDelay,
		memory:    mem.VirtualMemoryWithContext,
		log:       log.With(zap.String("service", "dashboard")),
	}
}

// Panels returns the header dropdowns in display order.
func (ds *dashboardService) Panels(alert AlertLink) []response.Panel {
	notifications := response.Panel{
		Kind:        response.PanelNotifications,
		Icon:        "bell",
		Counter:     50,
		HeaderTitle: "%d Notifications",
		LinkAll:     "#",
	}
	for i := 0; i < 3; i++ {
		notifications.Items = append(notifications.Items, response.PanelItem{Link: "#", Text: "Something"})
	}

	tasks := response.Panel{
		Kind:    response.PanelTasks,
		Icon:    "flag",
		LinkAll: "#",
	}
	for i := 1; i <= taskCount; i++ {
		tasks.Items = append(tasks.Items, response.PanelItem{
			Link:     alert(fmt.Sprintf("Link from TaskPanel %d", i)),
			Title:    fmt.Sprintf("My task %d", i),
			Progress: i * 10,
		})
	}

	link := response.Panel{
		Kind:    response.PanelLink,
		Icon:    "envelope",
		Counter: 200,
		LinkAll: alert("Link from LinkPanel"),
	}

	messages := response.Panel{
		Kind:        response.PanelMessages,
		Icon:        "comments",
		Counter:     2,
		HeaderTitle: "%d messages",
		LinkAll:     "#",
		Items: []response.PanelItem{
			{Link: alert("Link from MessagePanel: Hallo "), Title: "Hallo", Text: "world !", Image: messageIcon, Time: "2 hours ago"},
			{Link: alert("Link from MessagePanel: This "), Title: "This", Text: "is message", Image: messageIcon, Time: "3 hours ago"},
		},
	}

	return []response.Panel{notifications, tasks, link, messages}
}

// InfoBoard returns the dashboard boxes. Live boxes that fail to load are
// left out rather than failing the page.
func (ds *dashboardService) InfoBoard(ctx context.Context) *response.InfoBoard {
	board := &response.InfoBoard{
		ColSpan: 6,
		Boxes: []response.InfoBox{
			{Color: "red", Icon: "pencil", Link: "#", Text: "Pencil text", Number: "1222", Progress: 90},
			{Color: "green", Icon: "globe", Text: "Globe text", Number: strconv.Itoa(utils.RandomInt(0, globeMax))},
		},
	}

	if users, err := ds.repo.User.CountAll(ctx); err != nil {
		ds.log.Warn("Failed to count users for info board", zap.Error(err))
	} else {
		board.Boxes = append(board.Boxes, response.InfoBox{
			Color: "yellow", Icon: "users", Link: "#grid", Text: "Users", Number: strconv.FormatInt(users, 10),
		})
	}

	if vm, err := ds.memory(ctx); err != nil {
		ds.log.Warn("Failed to read memory stats", zap.Error(err))
	} else {
		board.Boxes = append(board.Boxes, response.InfoBox{
			Color:    "aqua",
			Icon:     "server",
			Text:     "Memory used",
			Number:   fmt.Sprintf("%.1f%%", vm.UsedPercent),
			Progress: int(vm.UsedPercent),
		})
	}

	return board
}

func (ds *dashboardService) Random() int {
	return utils.RandomInt(0, RandomMax)
}

// WaitSlow blocks for the configured slow panel delay or until ctx ends.
func (ds *dashboardService) WaitSlow(ctx context.Context) error {
	timer := time.NewTimer(ds.slowDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
