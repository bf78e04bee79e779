package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/portfolio-dev/portfolio/internal/catalog/domain"
	"github.com/portfolio-dev/portfolio/internal/ordering"
)

// RESTResource is an ordering.Resource backed by /api/{name}.
type RESTResource[T any] struct {
	c    *Client
	name string
}

var (
	_ ordering.Resource[domain.Project]    = (*RESTResource[domain.Project])(nil)
	_ ordering.Resource[domain.Category]   = (*RESTResource[domain.Category])(nil)
	_ ordering.Resource[domain.SkillGroup] = (*RESTResource[domain.SkillGroup])(nil)
)

func (c *Client) Projects() *RESTResource[domain.Project] {
	return &RESTResource[domain.Project]{c: c, name: "projects"}
}

func (c *Client) Categories() *RESTResource[domain.Category] {
	return &RESTResource[domain.Category]{c: c, name: "categs"}
}

func (c *Client) Skills() *RESTResource[domain.SkillGroup] {
	return &RESTResource[domain.SkillGroup]{c: c, name: "skills"}
}

func (r *RESTResource[T]) collectionPath() string { return "/api/" + r.name }

func (r *RESTResource[T]) itemPath(id string) string {
	return r.collectionPath() + "/" + url.PathEscape(id)
}

func (r *RESTResource[T]) itemRoute() string { return r.collectionPath() + "/:id" }

func (r *RESTResource[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	if err := r.c.getJSON(ctx, r.collectionPath(), r.collectionPath(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *RESTResource[T]) Create(ctx context.Context, draft T) (T, error) {
	var out T
	err := r.c.sendJSON(ctx, http.MethodPost, r.collectionPath(), r.collectionPath(), draft, &out)
	return out, err
}

func (r *RESTResource[T]) Update(ctx context.Context, id string, patch ordering.Patch) (T, error) {
	var out T
	err := r.c.sendJSON(ctx, http.MethodPut, r.itemRoute(), r.itemPath(id), patch, &out)
	return out, err
}

func (r *RESTResource[T]) Delete(ctx context.Context, id string) error {
	return r.c.do(ctx, call{method: http.MethodDelete, route: r.itemRoute(), path: r.itemPath(id)}, nil)
}
