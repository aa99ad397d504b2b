package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	_ "github.com/retailops/backend/docs"
	"github.com/stretchr/testify/assert"
)

func TestMountSwagger_ServesDocs(t *testing.T) {
	engine := gin.New()
	MountSwagger(engine)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Retail Ops Dashboard API")
	assert.Contains(t, w.Body.String(), "/reports/sales/summary")
}

func TestMountSwagger_RunsAuthFirst(t *testing.T) {
	engine := gin.New()
	MountSwagger(engine, func(c *gin.Context) {
		c.AbortWithStatus(http.StatusUnauthorized)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
