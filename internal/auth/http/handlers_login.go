package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/portfolio-dev/portfolio/internal/api/http"
	"github.com/portfolio-dev/portfolio/internal/auth/service"
	"github.com/portfolio-dev/portfolio/internal/logging"
)

// Login checks the dashboard password and answers {"success": bool}.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, loginResponse{Success: false})
		return
	}

	ok, err := h.authService.Login(c.Request.Context(), req.Password)
	if err != nil {
		if errors.Is(err, service.ErrNoPassword) {
			logging.For(c.Request.Context(), h.log).Warn("login attempted before a password was configured")
			c.JSON(http.StatusUnauthorized, loginResponse{Success: false})
			return
		}
		logging.For(c.Request.Context(), h.log).Error("login failed", zap.Error(err))
		apihttp.Error(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusUnauthorized, loginResponse{Success: false})
		return
	}
	c.JSON(http.StatusOK, loginResponse{Success: true})
}
