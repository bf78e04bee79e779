package http

import "github.com/gin-gonic/gin"

// Register mounts /projects, /categs and /skills under rg.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/projects", h.ListProjects)
	rg.POST("/projects", h.CreateProject)
	rg.PUT("/projects/:id", h.UpdateProject)
	rg.DELETE("/projects/:id", h.DeleteProject)

	rg.GET("/categs", h.ListCategories)
	rg.POST("/categs", h.CreateCategory)
	rg.PUT("/categs/:id", h.UpdateCategory)
	rg.DELETE("/categs/:id", h.DeleteCategory)

	rg.GET("/skills", h.ListSkills)
	rg.POST("/skills", h.CreateSkill)
	rg.PUT("/skills/:id", h.UpdateSkill)
	rg.DELETE("/skills/:id", h.DeleteSkill)
}
