// Package http serves the public portfolio page and the admin dashboard as
// server-rendered HTML on top of the portfolio API client.
package http

import (
	"sync"

	"go.uber.org/zap"

	catalog "github.com/portfolio-dev/portfolio/internal/catalog/domain"
	"github.com/portfolio-dev/portfolio/internal/client"
	"github.com/portfolio-dev/portfolio/internal/dashboard"
	"github.com/portfolio-dev/portfolio/internal/icon"
	"github.com/portfolio-dev/portfolio/internal/ordering"
	profile "github.com/portfolio-dev/portfolio/internal/profile/domain"
	"github.com/portfolio-dev/portfolio/internal/site/nav"
)

const (
	sessionCookie = "portfolio_session"
	visitorCookie = "portfolio_visitor"

	// sectionHeight approximates one viewport when the page reports none.
	sectionHeight = 900
	maxVisitors   = 10000
)

type Handler struct {
	api      *client.Client
	sessions *dashboard.Sessions
	log      *zap.Logger
	throttle float64

	// public collections shared by every visitor
	projects   *ordering.Collection[catalog.Project]
	categories *ordering.Collection[catalog.Category]
	skills     *ordering.Collection[catalog.SkillGroup]

	mu       sync.Mutex
	visitors map[string]*nav.Highlighter
}

func New(api *client.Client, sessions *dashboard.Sessions, throttlePerSecond float64, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	opts := []ordering.Option{ordering.WithLogger(log)}
	return &Handler{
		api:        api,
		sessions:   sessions,
		log:        log,
		throttle:   throttlePerSecond,
		projects:   ordering.New[catalog.Project]("projects", api.Projects(), opts...),
		categories: ordering.New[catalog.Category]("categories", api.Categories(), opts...),
		skills:     ordering.New[catalog.SkillGroup]("skills", api.Skills(), opts...),
		visitors:   make(map[string]*nav.Highlighter),
	}
}

// highlighter returns the per-visitor section highlighter.
func (h *Handler) highlighter(visitor string) *nav.Highlighter {
	h.mu.Lock()
	defer h.mu.Unlock()
	if hl, ok := h.visitors[visitor]; ok {
		return hl
	}
	if len(h.visitors) >= maxVisitors {
		h.visitors = make(map[string]*nav.Highlighter)
	}
	hl := nav.NewHighlighter(h.throttle)
	h.visitors[visitor] = hl
	return hl
}

type homeView struct {
	Active       string
	Sections     []string
	ProfileImage string
	Skills       []catalog.SkillGroup
	Projects     []catalog.Project
	Categories   []string
	Category     string
	Contacts     *profile.Contacts
	CV           *profile.CVFile
	Sent         string
}

// row is one list entry in the dashboard with its move buttons resolved.
type row[T any] struct {
	Item    T
	CanUp   bool
	CanDown bool
}

type dashboardView struct {
	Authenticated bool
	Tab           dashboard.Tab
	Tabs          []dashboard.Tab
	Notes         []ordering.Notification
	Loading       bool

	Projects      []row[catalog.Project]
	Categories    []row[catalog.Category]
	Skills        []row[catalog.SkillGroup]
	CategoryNames []string
	Icons         []icon.Icon

	Contacts     *profile.Contacts
	CVs          []profile.CVFile
	Messages     []profile.Message
	ProfileImage string
}

func rows[T ordering.Record[T]](c *ordering.Collection[T]) []row[T] {
	items := c.Items()
	out := make([]row[T], len(items))
	for i, it := range items {
		out[i] = row[T]{
			Item:    it,
			CanUp:   c.CanMove(it.RecordID(), ordering.Up),
			CanDown: c.CanMove(it.RecordID(), ordering.Down),
		}
	}
	return out
}
