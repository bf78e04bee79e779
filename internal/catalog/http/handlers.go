package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	apihttp "github.com/portfolio-dev/portfolio/internal/api/http"
	"github.com/portfolio-dev/portfolio/internal/catalog/domain"
)

func (h *Handler) ListProjects(c *gin.Context) {
	respondList(c, h.catalog.ListProjects)
}

func (h *Handler) CreateProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apihttp.BindError(c, err)
		return
	}
	out, err := h.catalog.CreateProject(c.Request.Context(), req.project())
	if err != nil {
		apihttp.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *Handler) UpdateProject(c *gin.Context) {
	var req updateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apihttp.BindError(c, err)
		return
	}
	out, err := h.catalog.UpdateProject(c.Request.Context(), c.Param("id"), req.fields())
	if err != nil {
		apihttp.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) DeleteProject(c *gin.Context) {
	respondDelete(c, h.catalog.DeleteProject)
}

func (h *Handler) ListCategories(c *gin.Context) {
	respondList(c, h.catalog.ListCategories)
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apihttp.BindError(c, err)
		return
	}
	out, err := h.catalog.CreateCategory(c.Request.Context(), domain.Category{
		Name:    req.Category,
		Sorting: req.Sorting,
	})
	if err != nil {
		apihttp.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	var req updateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apihttp.BindError(c, err)
		return
	}
	out, err := h.catalog.UpdateCategory(c.Request.Context(), c.Param("id"), req.fields())
	if err != nil {
		apihttp.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	respondDelete(c, h.catalog.DeleteCategory)
}

func (h *Handler) ListSkills(c *gin.Context) {
	respondList(c, h.catalog.ListSkills)
}

func (h *Handler) CreateSkill(c *gin.Context) {
	var req createSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apihttp.BindError(c, err)
		return
	}
	out, err := h.catalog.CreateSkill(c.Request.Context(), domain.SkillGroup{
		Category: req.Category,
		Skills:   domain.StringList(req.Skills),
		Icon:     req.Icon,
		Sorting:  req.Sorting,
	})
	if err != nil {
		apihttp.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *Handler) UpdateSkill(c *gin.Context) {
	var req updateSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apihttp.BindError(c, err)
		return
	}
	out, err := h.catalog.UpdateSkill(c.Request.Context(), c.Param("id"), req.fields())
	if err != nil {
		apihttp.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) DeleteSkill(c *gin.Context) {
	respondDelete(c, h.catalog.DeleteSkill)
}

// respondList writes the bare array the dashboard and site expect.
func respondList[T any](c *gin.Context, list func(context.Context) ([]T, error)) {
	out, err := list(c.Request.Context())
	if err != nil {
		apihttp.Error(c, err)
		return
	}
	if out == nil {
		out = []T{}
	}
	c.JSON(http.StatusOK, out)
}

func respondDelete(c *gin.Context, del func(context.Context, string) error) {
	if err := del(c.Request.Context(), c.Param("id")); err != nil {
		apihttp.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
