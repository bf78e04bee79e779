package http

import (
	"github.com/portfolio-dev/portfolio/internal/catalog/domain"
	"github.com/portfolio-dev/portfolio/internal/catalog/service"
)

type Handler struct {
	catalog *service.CatalogService
}

func New(catalog *service.CatalogService) *Handler {
	return &Handler{catalog: catalog}
}

type createProjectRequest struct {
	Title       string          `json:"title" binding:"required,max=200"`
	Description string          `json:"description" binding:"required"`
	ImageURL    string          `json:"imageURL" binding:"omitempty,url"`
	Skills      []string        `json:"skills" binding:"omitempty,dive,required"`
	GithubURL   string          `json:"githubURL" binding:"omitempty,url"`
	LiveURL     string          `json:"liveURL" binding:"omitempty,url"`
	Category    string          `json:"category" binding:"omitempty,notall"`
	Sorting     *domain.Sorting `json:"sorting" binding:"omitempty,min=0"`
}

func (r createProjectRequest) project() domain.Project {
	p := domain.Project{
		Title:       r.Title,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Skills:      domain.StringList(r.Skills),
		GithubURL:   r.GithubURL,
		LiveURL:     r.LiveURL,
		Category:    r.Category,
	}
	if r.Sorting != nil {
		p.Sorting = *r.Sorting
	}
	return p
}

type updateProjectRequest struct {
	Title       *string         `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string         `json:"description" binding:"omitempty,min=1"`
	ImageURL    *string         `json:"imageURL" binding:"omitempty,url"`
	Skills      *[]string       `json:"skills" binding:"omitempty,dive,required"`
	GithubURL   *string         `json:"githubURL"`
	LiveURL     *string         `json:"liveURL"`
	Category    *string         `json:"category" binding:"omitempty,notall"`
	Sorting     *domain.Sorting `json:"sorting" binding:"omitempty,min=0"`
}

func (r updateProjectRequest) fields() map[string]any {
	f := patch{}
	f.str("title", r.Title)
	f.str("description", r.Description)
	f.str("image_url", r.ImageURL)
	f.list("skills", r.Skills)
	f.str("github_url", r.GithubURL)
	f.str("live_url", r.LiveURL)
	f.str("category", r.Category)
	f.sorting(r.Sorting)
	return f
}

type createCategoryRequest struct {
	Category string         `json:"category" binding:"required,max=100,notall"`
	Sorting  domain.Sorting `json:"sorting" binding:"min=0"`
}

type updateCategoryRequest struct {
	Category *string         `json:"category" binding:"omitempty,min=1,max=100,notall"`
	Sorting  *domain.Sorting `json:"sorting" binding:"omitempty,min=0"`
}

func (r updateCategoryRequest) fields() map[string]any {
	f := patch{}
	f.str("name", r.Category)
	f.sorting(r.Sorting)
	return f
}

type createSkillRequest struct {
	Category string         `json:"category" binding:"required,max=100"`
	Skills   []string       `json:"skills" binding:"omitempty,dive,required"`
	Icon     string         `json:"icon" binding:"required,icontag"`
	Sorting  domain.Sorting `json:"sorting" binding:"min=0"`
}

type updateSkillRequest struct {
	Category *string         `json:"category" binding:"omitempty,min=1,max=100"`
	Skills   *[]string       `json:"skills" binding:"omitempty,dive,required"`
	Icon     *string         `json:"icon" binding:"omitempty,icontag"`
	Sorting  *domain.Sorting `json:"sorting" binding:"omitempty,min=0"`
}

func (r updateSkillRequest) fields() map[string]any {
	f := patch{}
	f.str("category", r.Category)
	f.list("skills", r.Skills)
	f.str("icon", r.Icon)
	f.sorting(r.Sorting)
	return f
}

// patch collects the columns a partial update sets.
type patch map[string]any

func (p patch) str(col string, v *string) {
	if v != nil {
		p[col] = *v
	}
}

func (p patch) list(col string, v *[]string) {
	if v != nil {
		l := domain.StringList(*v)
		if l == nil {
			l = domain.StringList{}
		}
		p[col] = l
	}
}

func (p patch) sorting(v *domain.Sorting) {
	if v != nil {
		p["sorting"] = int(*v)
	}
}
