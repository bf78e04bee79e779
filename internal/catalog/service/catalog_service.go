package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/portfolio-dev/portfolio/internal/cache"
	"github.com/portfolio-dev/portfolio/internal/catalog/domain"
	"github.com/portfolio-dev/portfolio/internal/catalog/repository"
	"github.com/portfolio-dev/portfolio/internal/logging"
)

// Cache keys, one per wire resource name.
const (
	ResourceProjects   = "projects"
	ResourceCategories = "categs"
	ResourceSkills     = "skills"
)

// CatalogService handles projects, categories and skill groups. Lists are
// served through the Redis cache and every write invalidates the resource.
type CatalogService struct {
	projects   *repository.ProjectRepository
	categories *repository.CategoryRepository
	skills     *repository.SkillRepository
	cache      *cache.ListCache
	log        *zap.Logger
}

func NewCatalogService(
	projects *repository.ProjectRepository,
	categories *repository.CategoryRepository,
	skills *repository.SkillRepository,
	lc *cache.ListCache,
	log *zap.Logger,
) *CatalogService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogService{
		projects:   projects,
		categories: categories,
		skills:     skills,
		cache:      lc,
		log:        log,
	}
}

func (s *CatalogService) ListProjects(ctx context.Context) ([]domain.Project, error) {
	return cache.Fetch(ctx, s.cache, ResourceProjects, s.projects.List)
}

// CreateProject stores p; an unset sorting falls back to DefaultProjectSorting.
func (s *CatalogService) CreateProject(ctx context.Context, p domain.Project) (*domain.Project, error) {
	if p.Sorting == 0 {
		p.Sorting = domain.DefaultProjectSorting
	}
	if p.Skills == nil {
		p.Skills = domain.StringList{}
	}
	out, err := s.projects.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, ResourceProjects, "created", out.ID)
	return out, nil
}

func (s *CatalogService) UpdateProject(ctx context.Context, id string, fields map[string]any) (*domain.Project, error) {
	out, err := s.projects.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, ResourceProjects, "updated", id)
	return out, nil
}

func (s *CatalogService) DeleteProject(ctx context.Context, id string) error {
	if err := s.projects.Delete(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, ResourceProjects, "deleted", id)
	return nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return cache.Fetch(ctx, s.cache, ResourceCategories, s.categories.List)
}

func (s *CatalogService) CreateCategory(ctx context.Context, c domain.Category) (*domain.Category, error) {
	out, err := s.categories.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, ResourceCategories, "created", out.ID)
	return out, nil
}

// UpdateCategory does not rename the label on projects that use it.
func (s *CatalogService) UpdateCategory(ctx context.Context, id string, fields map[string]any) (*domain.Category, error) {
	out, err := s.categories.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, ResourceCategories, "updated", id)
	return out, nil
}

// DeleteCategory leaves projects that reference the category untouched.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, ResourceCategories, "deleted", id)
	return nil
}

func (s *CatalogService) ListSkills(ctx context.Context) ([]domain.SkillGroup, error) {
	return cache.Fetch(ctx, s.cache, ResourceSkills, s.skills.List)
}

func (s *CatalogService) CreateSkill(ctx context.Context, g domain.SkillGroup) (*domain.SkillGroup, error) {
	if g.Skills == nil {
		g.Skills = domain.StringList{}
	}
	out, err := s.skills.Create(ctx, g)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, ResourceSkills, "created", out.ID)
	return out, nil
}

func (s *CatalogService) UpdateSkill(ctx context.Context, id string, fields map[string]any) (*domain.SkillGroup, error) {
	out, err := s.skills.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, ResourceSkills, "updated", id)
	return out, nil
}

func (s *CatalogService) DeleteSkill(ctx context.Context, id string) error {
	if err := s.skills.Delete(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, ResourceSkills, "deleted", id)
	return nil
}

// Compact renumbers every resource densely and returns the rows changed per
// resource. A failing resource does not stop the others.
func (s *CatalogService) Compact(ctx context.Context) (map[string]int64, error) {
	type compacter interface {
		Compact(context.Context) (int64, error)
	}
	steps := []struct {
		name string
		repo compacter
	}{
		{ResourceProjects, s.projects},
		{ResourceCategories, s.categories},
		{ResourceSkills, s.skills},
	}

	out := make(map[string]int64, len(steps))
	var firstErr error
	for _, st := range steps {
		n, err := st.repo.Compact(ctx)
		if err != nil {
			s.log.Error("compact failed", zap.String("resource", st.name), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		out[st.name] = n
		if n > 0 {
			s.cache.Drop(ctx, st.name)
		}
	}
	return out, firstErr
}

func (s *CatalogService) changed(ctx context.Context, resource, action, id string) {
	s.cache.Drop(ctx, resource)
	logging.For(ctx, s.log).Info("catalog record "+action,
		zap.String("resource", resource), zap.String("id", id))
}
