// Package nav decides which page section is highlighted in the navbar.
package nav

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Offset is subtracted from every section boundary so a section becomes
// active slightly before its top reaches the viewport edge.
const Offset = 200

const DefaultSection = "home"

type Section struct {
	ID     string
	Top    int
	Height int
}

// Sections are the public page anchors in document order.
var Sections = []string{"home", "about", "projects", "contact"}

// Active returns the id of the first section whose window contains offset.
// When none matches it returns the first section, or DefaultSection when
// sections is empty.
func Active(offset int, sections []Section) string {
	for _, s := range sections {
		if offset >= s.Top-Offset && offset < s.Top+s.Height-Offset {
			return s.ID
		}
	}
	if len(sections) > 0 {
		return sections[0].ID
	}
	return DefaultSection
}

// Highlighter remembers a visitor's active section and bounds how often
// the visitor may poll for it. The answer itself is never throttled: the
// latest offset always decides.
type Highlighter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	last    string
}

func NewHighlighter(perSecond float64) *Highlighter {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &Highlighter{limiter: rate.NewLimiter(limit, 1), last: DefaultSection}
}

func (h *Highlighter) Update(offset int, sections []Section) string {
	return h.UpdateAt(time.Now(), offset, sections)
}

func (h *Highlighter) UpdateAt(_ time.Time, offset int, sections []Section) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = Active(offset, sections)
	return h.last
}

// Allow reports whether a scroll poll may be answered now.
func (h *Highlighter) Allow() bool {
	return h.AllowAt(time.Now())
}

func (h *Highlighter) AllowAt(now time.Time) bool {
	return h.limiter.AllowN(now, 1)
}

// Last returns the most recently computed section.
func (h *Highlighter) Last() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last
}

// Layout builds evenly sized sections, used when the page only knows the
// order of its anchors and an approximate viewport height.
func Layout(ids []string, height int) []Section {
	out := make([]Section, len(ids))
	for i, id := range ids {
		out[i] = Section{ID: id, Top: i * height, Height: height}
	}
	return out
}
