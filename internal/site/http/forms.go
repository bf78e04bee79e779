package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	catalog "github.com/portfolio-dev/portfolio/internal/catalog/domain"
	"github.com/portfolio-dev/portfolio/internal/client"
	"github.com/portfolio-dev/portfolio/internal/ordering"
	profile "github.com/portfolio-dev/portfolio/internal/profile/domain"
)

var errMissingField = errors.New("missing required field")

// splitList turns "Go, SQL ,,Docker" into [Go SQL Docker].
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// formPatch collects changed form values keyed by wire name. Fields absent
// from the form are left alone.
type formPatch struct {
	c *gin.Context
	p ordering.Patch
}

func newFormPatch(c *gin.Context) *formPatch {
	return &formPatch{c: c, p: ordering.Patch{}}
}

func (f *formPatch) str(field, current string) {
	v, ok := f.c.GetPostForm(field)
	if !ok {
		return
	}
	if v = strings.TrimSpace(v); v != current {
		f.p[field] = v
	}
}

func (f *formPatch) list(field string, current []string) {
	v, ok := f.c.GetPostForm(field)
	if !ok {
		return
	}
	next := splitList(v)
	if strings.Join(next, ",") != strings.Join(current, ",") {
		if next == nil {
			next = []string{}
		}
		f.p[field] = next
	}
}

func projectPatch(c *gin.Context, cur catalog.Project) ordering.Patch {
	f := newFormPatch(c)
	f.str("title", cur.Title)
	f.str("description", cur.Description)
	f.str("imageURL", cur.ImageURL)
	f.str("githubURL", cur.GithubURL)
	f.str("liveURL", cur.LiveURL)
	f.str("category", cur.Category)
	f.list("skills", cur.Skills)
	return f.p
}

func categoryPatch(c *gin.Context, cur catalog.Category) ordering.Patch {
	f := newFormPatch(c)
	f.str("category", cur.Name)
	return f.p
}

func skillPatch(c *gin.Context, cur catalog.SkillGroup) ordering.Patch {
	f := newFormPatch(c)
	f.str("category", cur.Category)
	f.str("icon", cur.Icon)
	f.list("skills", cur.Skills)
	return f.p
}

func projectDraft(c *gin.Context) (catalog.Project, error) {
	p := catalog.Project{
		Title:       strings.TrimSpace(c.PostForm("title")),
		Description: strings.TrimSpace(c.PostForm("description")),
		ImageURL:    strings.TrimSpace(c.PostForm("imageURL")),
		GithubURL:   strings.TrimSpace(c.PostForm("githubURL")),
		LiveURL:     strings.TrimSpace(c.PostForm("liveURL")),
		Category:    strings.TrimSpace(c.PostForm("category")),
		Skills:      splitList(c.PostForm("skills")),
	}
	if p.Title == "" || p.Description == "" {
		return p, errMissingField
	}
	if p.Category == ordering.All {
		p.Category = ""
	}
	return p, nil
}

func categoryDraft(c *gin.Context) (catalog.Category, error) {
	cat := catalog.Category{Name: strings.TrimSpace(c.PostForm("category"))}
	if cat.Name == "" {
		return cat, errMissingField
	}
	return cat, nil
}

func skillDraft(c *gin.Context) (catalog.SkillGroup, error) {
	s := catalog.SkillGroup{
		Category: strings.TrimSpace(c.PostForm("category")),
		Icon:     strings.TrimSpace(c.PostForm("icon")),
		Skills:   splitList(c.PostForm("skills")),
	}
	if s.Category == "" || len(s.Skills) == 0 {
		return s, errMissingField
	}
	return s, nil
}

func contactsForm(c *gin.Context) profile.Contacts {
	return profile.Contacts{
		Email:    strings.TrimSpace(c.PostForm("email")),
		Phone:    strings.TrimSpace(c.PostForm("phone")),
		Location: strings.TrimSpace(c.PostForm("location")),
		Github:   strings.TrimSpace(c.PostForm("github")),
		Linkedin: strings.TrimSpace(c.PostForm("linkedin")),
	}
}

// openFile reads an optional multipart field. It returns nil when the form
// carries no file under field.
func openFile(c *gin.Context, field string) (*client.File, func(), error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	return &client.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}, func() { _ = f.Close() }, nil
}
