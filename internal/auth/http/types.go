package http

import (
	"go.uber.org/zap"

	"github.com/portfolio-dev/portfolio/internal/auth/middleware"
	"github.com/portfolio-dev/portfolio/internal/auth/service"
)

type Handler struct {
	authService *service.AuthService
	limiter     *middleware.IPRateLimiter
	log         *zap.Logger
}

func New(authService *service.AuthService, limiter *middleware.IPRateLimiter, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		authService: authService,
		limiter:     limiter,
		log:         log,
	}
}

type loginRequest struct {
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Success bool `json:"success"`
}
