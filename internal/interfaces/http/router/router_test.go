package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()

	reports := NewDomainGroup("reports", "/reports").
		GET("/a", func(c *gin.Context) { c.String(http.StatusOK, "a") }).
		POST("/b", func(c *gin.Context) { c.String(http.StatusCreated, "b") })
	other := NewDomainGroup("other", "/other").
		GET("", func(c *gin.Context) { c.String(http.StatusOK, "root") })

	NewRouter(engine).Register(reports, other).Setup()

	tests := []struct {
		method   string
		path     string
		wantCode int
		wantBody string
	}{
		{http.MethodGet, "/api/v1/reports/a", http.StatusOK, "a"},
		{http.MethodPost, "/api/v1/reports/b", http.StatusCreated, "b"},
		{http.MethodGet, "/api/v1/other", http.StatusOK, "root"},
		{http.MethodGet, "/reports/a", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestDomainGroup_Middleware(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("test", "/test").
		Use(func(c *gin.Context) {
			c.Header("X-Test-Middleware", "applied")
			c.Next()
		}).
		GET("/items", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	assert.Equal(t, "test", g.Name())
	assert.Equal(t, "/test", g.Prefix())

	g.RegisterRoutes(engine.Group("/api/v1"))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/test/items", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "applied", w.Header().Get("X-Test-Middleware"))
}
