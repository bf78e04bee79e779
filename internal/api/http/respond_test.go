package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdomain "github.com/portfolio-dev/portfolio/internal/catalog/domain"
	profiledomain "github.com/portfolio-dev/portfolio/internal/profile/domain"
	"github.com/portfolio-dev/portfolio/internal/upload"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", &catalogdomain.ValidationError{Field: "title", Message: "required"}, http.StatusBadRequest},
		{"upload", upload.ErrCVType, http.StatusBadRequest},
		{"catalog not found", fmt.Errorf("get: %w", catalogdomain.ErrNotFound), http.StatusNotFound},
		{"profile not found", profiledomain.ErrNotFound, http.StatusNotFound},
		{"conflict", fmt.Errorf("create: %w", catalogdomain.ErrConflict), http.StatusConflict},
		{"invalid", catalogdomain.ErrInvalidInput, http.StatusBadRequest},
		{"other", errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := mapError(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, false, body["ok"])
		})
	}
}

type bindProbe struct {
	Icon     string `json:"icon" binding:"required,icontag"`
	Category string `json:"category" binding:"required,notall"`
}

func TestRegisterValidators(t *testing.T) {
	gin.SetMode(gin.TestMode)
	RegisterValidators()
	RegisterValidators()

	r := gin.New()
	r.POST("/x", func(c *gin.Context) {
		var p bindProbe
		if err := c.ShouldBindJSON(&p); err != nil {
			BindError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	do := func(body string) (int, map[string]any) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(rec, req)
		var out map[string]any
		if rec.Body.Len() > 0 {
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		}
		return rec.Code, out
	}

	code, _ := do(`{"icon":"code","category":"Backend"}`)
	assert.Equal(t, http.StatusNoContent, code)

	code, out := do(`{"icon":"rocket","category":"Backend"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "icon", out["field"])

	code, out = do(`{"icon":"code","category":" all "}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "category", out["field"])

	code, out = do(`{"icon":`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid body", out["error"])
}
