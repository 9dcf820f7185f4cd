package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ortoclub/platform-api/internal/config"
	"github.com/ortoclub/platform-api/internal/models"
	"github.com/ortoclub/platform-api/internal/tenant"
)

type stubDirectory struct {
	tenants map[string]*models.Tenant
	err     error
	calls   []string
}

func (d *stubDirectory) GetBySlug(_ context.Context, slug string) (*models.Tenant, error) {
	d.calls = append(d.calls, slug)
	if d.err != nil {
		return nil, d.err
	}
	t, ok := d.tenants[slug]
	if !ok {
		return nil, errors.New("not found")
	}
	return t, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Tenancy: config.TenancyConfig{
			DefaultSlug:  "ortoclub",
			CookieName:   "x-tenant-slug",
			CookieMaxAge: 3600,
		},
		App: config.AppConfig{Env: "development"},
	}
}

func newTenantRouter(directory TenantDirectory, cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(TenantMiddleware(tenant.NewResolver(cfg.Tenancy.DefaultSlug), directory, cfg))
	router.GET("/ping", func(c *gin.Context) {
		t := TenantFromContext(c)
		if t == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no tenant in context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"slug": t.Slug})
	})
	return router
}

func activeTenantRecord(slug string) *models.Tenant {
	return &models.Tenant{
		ID:          uuid.New(),
		Slug:        slug,
		DisplayName: slug,
		Status:      models.TenantStatusActive,
	}
}

func TestTenantMiddlewareResolvesFromHost(t *testing.T) {
	directory := &stubDirectory{tenants: map[string]*models.Tenant{
		"clinic": activeTenantRecord("clinic"),
	}}
	router := newTenantRouter(directory, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Host = "clinic.ortoclub.com"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"slug":"clinic"`)
	assert.Equal(t, []string{"clinic"}, directory.calls)
}

func TestTenantMiddlewarePrefersForwardedHost(t *testing.T) {
	directory := &stubDirectory{tenants: map[string]*models.Tenant{
		"clinic": activeTenantRecord("clinic"),
	}}
	router := newTenantRouter(directory, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Host = "internal-lb:8080"
	req.Header.Set("X-Forwarded-Host", "clinic.ortoclub.com, proxy.internal")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"clinic"}, directory.calls)
}

func TestTenantMiddlewareLookupFailureDenies(t *testing.T) {
	directory := &stubDirectory{err: errors.New("connection refused")}
	router := newTenantRouter(directory, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Host = "clinic.ortoclub.com"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "tenant_unavailable")
}

func TestTenantMiddlewareUnknownSlugDenies(t *testing.T) {
	directory := &stubDirectory{tenants: map[string]*models.Tenant{}}
	router := newTenantRouter(directory, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Host = "ghost.ortoclub.com"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "tenant_unavailable")
}

func TestTenantMiddlewareSuspendedTenantDenies(t *testing.T) {
	suspended := activeTenantRecord("clinic")
	suspended.Status = models.TenantStatusSuspended
	directory := &stubDirectory{tenants: map[string]*models.Tenant{"clinic": suspended}}
	router := newTenantRouter(directory, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Host = "clinic.ortoclub.com"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestTenantMiddlewareSetsAdvisoryCookie(t *testing.T) {
	directory := &stubDirectory{tenants: map[string]*models.Tenant{
		"clinic": activeTenantRecord("clinic"),
	}}
	cfg := testConfig()
	router := newTenantRouter(directory, cfg)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Host = "clinic.ortoclub.com"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, cfg.Tenancy.CookieName, cookies[0].Name)
	assert.Equal(t, "clinic", cookies[0].Value)
	assert.Equal(t, "/", cookies[0].Path)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	assert.False(t, cookies[0].Secure)
}

func TestTenantMiddlewareSkipsCookieWhenCurrent(t *testing.T) {
	directory := &stubDirectory{tenants: map[string]*models.Tenant{
		"clinic": activeTenantRecord("clinic"),
	}}
	cfg := testConfig()
	router := newTenantRouter(directory, cfg)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Host = "clinic.ortoclub.com"
	req.AddCookie(&http.Cookie{Name: cfg.Tenancy.CookieName, Value: "clinic"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Empty(t, w.Result().Cookies())
}

// A cookie naming a different tenant must not override the hostname.
func TestTenantMiddlewareCookieNeverOverridesHost(t *testing.T) {
	directory := &stubDirectory{tenants: map[string]*models.Tenant{
		"clinic": activeTenantRecord("clinic"),
		"rival":  activeTenantRecord("rival"),
	}}
	cfg := testConfig()
	router := newTenantRouter(directory, cfg)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Host = "clinic.ortoclub.com"
	req.AddCookie(&http.Cookie{Name: cfg.Tenancy.CookieName, Value: "rival"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"slug":"clinic"`)
	assert.Equal(t, []string{"clinic"}, directory.calls)
}
