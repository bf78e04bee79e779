package http

import "github.com/gin-gonic/gin"

// RegisterAPI mounts the /api routes owned by the profile service.
func (h *Handler) RegisterAPI(rg *gin.RouterGroup) {
	rg.GET("/contacts", h.GetContacts)
	rg.POST("/contacts", h.CreateContacts)
	rg.PUT("/contacts/:id", h.UpdateContacts)

	rg.GET("/cv/dashboard", h.ListCVs)
	rg.GET("/cv/home", h.ActiveCV)
	rg.POST("/cv", h.UploadCV)
	rg.PUT("/cv/:id", h.ActivateCV)
	rg.DELETE("/cv/:id", h.DeleteCV)

	rg.GET("/messages", h.ListMessages)
	rg.POST("/messages", h.CreateMessage)
}

// RegisterImages mounts the /images routes.
func (h *Handler) RegisterImages(rg *gin.RouterGroup) {
	rg.GET("/profile", h.GetProfileImage)
	rg.POST("/profile", h.UploadProfileImage)
	rg.POST("/projects", h.UploadProjectImage)
}
