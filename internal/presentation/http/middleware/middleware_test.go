package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/schoolfees-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type staticRole struct {
	role enum.Role
	err  error
}

func (s staticRole) GetRole(context.Context) (enum.Role, error) { return s.role, s.err }

func roleRouter(source RoleSource, roles ...enum.Role) *gin.Engine {
	r := gin.New()
	r.Use(RoleMiddleware(source))
	r.GET("/open", func(c *gin.Context) { c.String(http.StatusOK, string(GetRole(c))) })
	r.GET("/guarded", RequireRole(roles...), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func serve(r http.Handler, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRoleMiddleware(t *testing.T) {
	r := roleRouter(staticRole{role: enum.RoleTeacher}, enum.RoleAdmin)

	w := serve(r, "/open", nil)
	assert.Equal(t, "teacher", w.Body.String(), "stored role is used without a header")

	w = serve(r, "/open", map[string]string{RoleHeader: " ADMIN "})
	assert.Equal(t, "admin", w.Body.String(), "header wins")

	w = serve(r, "/open", map[string]string{RoleHeader: "owner"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	failing := roleRouter(staticRole{err: errors.New("store down")})
	w = serve(failing, "/open", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestRequireRole(t *testing.T) {
	r := roleRouter(staticRole{}, enum.RoleAdmin, enum.RoleAccountant)

	assert.Equal(t, http.StatusForbidden, serve(r, "/guarded", nil).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, "/guarded", map[string]string{RoleHeader: "teacher"}).Code)
	assert.Equal(t, http.StatusNoContent, serve(r, "/guarded", map[string]string{RoleHeader: "accountant"}).Code)
}

func TestClientRateLimiter(t *testing.T) {
	rl := NewClientRateLimiter(RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 2})
	defer rl.Close()

	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, "/", nil).Code)
	assert.Equal(t, http.StatusOK, serve(r, "/", nil).Code)
	w := serve(r, "/", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	assert.Equal(t, 1, rl.Stats()["active_clients"])
}

func TestClientRateLimiterCleanup(t *testing.T) {
	rl := NewClientRateLimiter(RateLimiterConfig{RequestsPerSecond: 1, BurstSize: 1, EntryTTL: time.Minute})
	defer rl.Close()

	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	rl.getLimiter("10.0.0.1")

	now = now.Add(2 * time.Minute)
	rl.getLimiter("10.0.0.2")
	rl.cleanup()

	assert.Equal(t, 1, rl.Stats()["active_clients"])
}

func TestRateLimiterConfigFor(t *testing.T) {
	cfg := RateLimiterConfigFor(120, 60)
	assert.Equal(t, 2.0, cfg.RequestsPerSecond)
	assert.Equal(t, 120, cfg.BurstSize)

	assert.Equal(t, DefaultRateLimiterConfig(), RateLimiterConfigFor(0, 60))
}
