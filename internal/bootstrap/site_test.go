package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portfolio-dev/portfolio/internal/client"
)

func TestBuildSiteRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r, err := BuildSiteRouter(SiteDeps{
		ServiceName:   "portfolio-site",
		Version:       "test",
		Registry:      prometheus.NewRegistry(),
		API:           client.New("http://127.0.0.1:1"),
		SessionSecret: "secret",
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/dashboard/login")
	assert.Empty(t, rec.Result().Cookies())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
