package wire

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"backoffice/internal/data/repository"
	"backoffice/internal/flash"
	"backoffice/pkg/utils"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T, configure ...func(*utils.Config)) *App {
	t.Helper()

	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	config := &utils.Config{
		App:       utils.AppConfig{Name: "backoffice"},
		Session:   utils.SessionConfig{Secret: "secret", CookieName: "sid", ExpiryHours: 1},
		Dashboard: utils.DashboardConfig{SlowPanelDelay: time.Millisecond},
		Security:  utils.SecurityConfig{LoginRatePerMinute: 1, LoginBurst: 1},
	}
	for _, fn := range configure {
		fn(config)
	}
	repo := repository.NewRepository(pool, zap.NewNop())

	app, err := Wiring(repo, flash.NewMemoryStore(flash.DefaultTTL), config, zap.NewNop())
	require.NoError(t, err)
	return app
}

func TestPublicRoutes(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name     string
		path     string
		code     int
		location string
		body     string
	}{
		{"health", "/health", http.StatusOK, "", "OK"},
		{"homepage", "/", http.StatusOK, "", "Sign in"},
		{"homepage alias", "/homepage/default", http.StatusOK, "", "Sign in"},
		{"sign in form", "/sign/in", http.StatusOK, "", "Sign in to start your session"},
		{"dashboard needs identity", "/administrator/admin/default", http.StatusSeeOther, "/sign/in?backlink=%2Fadministrator%2Fadmin%2Fdefault", ""},
		{"edit needs identity", "/administrator/admin/edit", http.StatusSeeOther, "/sign/in?backlink=%2Fadministrator%2Fadmin%2Fedit", ""},
		{"unknown page", "/nope", http.StatusNotFound, "", "does not exist"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.code, rec.Code)
			if tt.location != "" {
				assert.Equal(t, tt.location, rec.Header().Get("Location"))
			}
			if tt.body != "" {
				assert.Contains(t, rec.Body.String(), tt.body)
			}
		})
	}
}

func TestSignInIsRateLimited(t *testing.T) {
	app := newTestApp(t)

	post := func() int {
		req := httptest.NewRequest(http.MethodPost, "/sign/in", strings.NewReader(url.Values{"username": {""}}.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.RemoteAddr = "192.0.2.10:40000"
		rec := httptest.NewRecorder()
		app.Router.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, post(), "empty form is answered with validation errors")
	assert.Equal(t, http.StatusTooManyRequests, post())
}

func TestSignInLimitKeysOnForwardedAddressOnlyBehindProxy(t *testing.T) {
	attempts := func(app *App) []int {
		codes := make([]int, 0, 2)
		for i := 0; i < 2; i++ {
			req := httptest.NewRequest(http.MethodPost, "/sign/in", strings.NewReader(url.Values{"username": {""}}.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i+1))
			req.RemoteAddr = "192.0.2.10:40000"
			rec := httptest.NewRecorder()
			app.Router.ServeHTTP(rec, req)
			codes = append(codes, rec.Code)
		}
		return codes
	}

	direct := newTestApp(t)
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, attempts(direct))

	proxied := newTestApp(t, func(c *utils.Config) { c.Security.TrustProxy = true })
	assert.Equal(t, []int{http.StatusOK, http.StatusOK}, attempts(proxied))
}

func TestAnonymousAjaxGetsRedirectPayload(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/administrator/admin/random", nil)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redirect":"/sign/in?backlink=`)
}
