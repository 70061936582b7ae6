package usecase

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestDashboard(delay time.Duration) (*dashboardService, *MockUserRepository) {
	repo, users, _ := newMockRepository()
	config := testConfig()
	config.Dashboard.SlowPanelDelay = delay
	service := NewDashboardService(repo, config, zap.NewNop()).(*dashboardService)
	service.memory = func(context.Context) (*mem.VirtualMemoryStat, error) {
		return &mem.VirtualMemoryStat{UsedPercent: 42.5}, nil
	}
	return service, users
}

func TestDashboardService_Panels(t *testing.T) {
	service, _ := newTestDashboard(0)

	panels := service.Panels(func(text string) string { return "/alert?text=" + text })

	require.Len(t, panels, 4)
	assert.Equal(t, "50 Notifications", panels[0].Title())
	assert.Len(t, panels[0].Items, 3)

	tasks := panels[1]
	require.Len(t, tasks.Items, 10)
	assert.Equal(t, "My task 1", tasks.Items[0].Title)
	assert.Equal(t, 10, tasks.Items[0].Progress)
	assert.Equal(t, 100, tasks.Items[9].Progress)
	assert.Equal(t, "/alert?text=Link from TaskPanel 10", tasks.Items[9].Link)

	assert.Equal(t, "envelope", panels[2].Icon)
	assert.Equal(t, 200, panels[2].Counter)
	assert.Equal(t, "2 messages", panels[3].Title())
}

func TestDashboardService_InfoBoard(t *testing.T) {
	service, users := newTestDashboard(0)
	users.On("CountAll", mock.Anything).Return(int64(7), nil)

	board := service.InfoBoard(context.Background())

	assert.Equal(t, 6, board.ColSpan)
	require.Len(t, board.Boxes, 4)
	assert.Equal(t, "red", board.Boxes[0].Color)
	assert.Equal(t, "1222", board.Boxes[0].Number)
	assert.Equal(t, 90, board.Boxes[0].Progress)
	globe, err := strconv.Atoi(board.Boxes[1].Number)
	require.NoError(t, err)
	assert.True(t, globe >= 0 && globe <= 9999)
	assert.Equal(t, "7", board.Boxes[2].Number)
	assert.Equal(t, "42.5%", board.Boxes[3].Number)
}

func TestDashboardService_InfoBoardSurvivesFailures(t *testing.T) {
	service, users := newTestDashboard(0)
	users.On("CountAll", mock.Anything).Return(int64(0), errors.New("db down"))
	service.memory = func(context.Context) (*mem.VirtualMemoryStat, error) {
		return nil, errors.New("no procfs")
	}

	board := service.InfoBoard(context.Background())

	assert.Len(t, board.Boxes, 2)
}

func TestDashboardService_Random(t *testing.T) {
	service, _ := newTestDashboard(0)
	for i := 0; i < 100; i++ {
		n := service.Random()
		assert.True(t, n >= 0 && n <= RandomMax)
	}
}

func TestDashboardService_WaitSlow(t *testing.T) {
	service, _ := newTestDashboard(time.Millisecond)
	assert.NoError(t, service.WaitSlow(context.Background()))

	service, _ = newTestDashboard(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, service.WaitSlow(ctx), context.Canceled)
}
