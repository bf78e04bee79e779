package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(rg *gin.RouterGroup) {
	if h.limiter != nil {
		rg.POST("/login", h.limiter.Middleware(), h.Login)
		return
	}
	rg.POST("/login", h.Login)
}
