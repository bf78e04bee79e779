package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/portfolio-dev/portfolio/internal/logging"
	"github.com/portfolio-dev/portfolio/internal/ordering"
	"github.com/portfolio-dev/portfolio/internal/site/nav"
)

// Home renders the single public page. The scroll position is restored
// from ?y= and ?vh= so the highlighted nav entry survives a reload.
func (h *Handler) Home(c *gin.Context) {
	ctx := c.Request.Context()
	log := logging.For(ctx, h.log)

	category := strings.TrimSpace(c.Query("category"))
	if category == "" {
		category = ordering.All
	}

	// failures keep the previous cache, so the page renders what it has
	for _, load := range []func() error{
		func() error { return h.projects.Load(ctx) },
		func() error { return h.categories.Load(ctx) },
		func() error { return h.skills.Load(ctx) },
	} {
		if err := load(); err != nil {
			log.Warn("load public collection failed", zap.Error(err))
		}
	}

	view := homeView{
		Sections: nav.Sections,
		Skills:   h.skills.Items(),
		Projects: h.projects.FilterByCategory(category),
		Category: category,
		Sent:     c.Query("sent"),
	}
	view.Active = h.highlighter(h.visitor(c)).Update(queryInt(c, "y", 0), layout(c))

	view.Categories = append(view.Categories, ordering.All)
	for _, cat := range h.categories.Items() {
		view.Categories = append(view.Categories, cat.Name)
	}

	var err error
	if view.ProfileImage, err = h.api.ProfileImage(ctx); err != nil {
		log.Warn("load profile image failed", zap.Error(err))
	}
	if view.CV, err = h.api.ActiveCV(ctx); err != nil {
		log.Warn("load active cv failed", zap.Error(err))
	}
	if view.Contacts, err = h.api.Contacts(ctx); err != nil {
		view.Contacts = nil
		log.Debug("load contacts failed", zap.Error(err))
	}

	c.HTML(http.StatusOK, "home.html", view)
}

// ActiveSection answers the scroll poller with the section to highlight.
// Polls above the visitor's rate get 429 and the last answer; the page
// retries so its final position is always resolved.
func (h *Handler) ActiveSection(c *gin.Context) {
	hl := h.highlighter(h.visitor(c))
	if !hl.Allow() {
		c.Header("Retry-After", "1")
		c.JSON(http.StatusTooManyRequests, gin.H{"active": hl.Last()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": hl.Update(queryInt(c, "y", 0), layout(c))})
}

// SendMessage posts the contact form to the API.
func (h *Handler) SendMessage(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	email := strings.TrimSpace(c.PostForm("email"))
	message := strings.TrimSpace(c.PostForm("message"))

	sent := "1"
	if name == "" || email == "" || message == "" {
		sent = "0"
	} else if err := h.api.SendMessage(c.Request.Context(), name, email, message); err != nil {
		logging.For(c.Request.Context(), h.log).Warn("send message failed", zap.Error(err))
		sent = "0"
	}
	c.Redirect(http.StatusSeeOther, "/?sent="+sent+"#contact")
}

// visitor returns the anonymous visitor id, issuing one when missing.
func (h *Handler) visitor(c *gin.Context) string {
	if v, err := c.Cookie(visitorCookie); err == nil && v != "" {
		return v
	}
	v := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(visitorCookie, v, 0, "/", "", false, true)
	return v
}

// layout approximates the page sections from the reported viewport height.
func layout(c *gin.Context) []nav.Section {
	vh := queryInt(c, "vh", sectionHeight)
	if vh == 0 {
		vh = sectionHeight
	}
	return nav.Layout(nav.Sections, vh)
}

func queryInt(c *gin.Context, key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n < 0 {
		return def
	}
	return n
}
