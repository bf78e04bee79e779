package http

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	catalog "github.com/portfolio-dev/portfolio/internal/catalog/domain"
	"github.com/portfolio-dev/portfolio/internal/dashboard"
	"github.com/portfolio-dev/portfolio/internal/ordering"
)

// Pages returns the template renderer for gin's HTMLRender.
func Pages() (render.HTMLRender, error) {
	return loadPages("home.html", "dashboard.html")
}

func (h *Handler) Register(r *gin.Engine) {
	r.GET("/", h.Home)
	r.GET("/nav/active", h.ActiveSection)
	r.POST("/contact", h.SendMessage)

	d := r.Group("/dashboard", h.Session())
	d.GET("", h.Dashboard)
	d.POST("/login", h.Login)

	a := d.Group("", h.RequireLogin())
	a.POST("/logout", h.Logout)
	a.POST("/contacts", h.SaveContacts)
	a.POST("/cv", h.UploadCV)
	a.POST("/cv/:id/activate", h.ActivateCV)
	a.POST("/cv/:id/delete", h.DeleteCV)
	a.POST("/profile-image", h.UploadProfileImage)

	registerResource(a, "/projects", resource[catalog.Project]{
		tab:   dashboard.TabProjects,
		coll:  func(s *dashboard.Store) *ordering.Collection[catalog.Project] { return s.Projects },
		draft: h.projectDraftWithImage,
		patch: projectPatch,
	})
	registerResource(a, "/categories", resource[catalog.Category]{
		tab:   dashboard.TabCategories,
		coll:  func(s *dashboard.Store) *ordering.Collection[catalog.Category] { return s.Categories },
		draft: categoryDraft,
		patch: categoryPatch,
	})
	registerResource(a, "/skills", resource[catalog.SkillGroup]{
		tab:   dashboard.TabSkills,
		coll:  func(s *dashboard.Store) *ordering.Collection[catalog.SkillGroup] { return s.Skills },
		draft: skillDraft,
		patch: skillPatch,
	})
}
