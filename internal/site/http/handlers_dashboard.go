package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalog "github.com/portfolio-dev/portfolio/internal/catalog/domain"
	"github.com/portfolio-dev/portfolio/internal/client"
	"github.com/portfolio-dev/portfolio/internal/dashboard"
	"github.com/portfolio-dev/portfolio/internal/icon"
	"github.com/portfolio-dev/portfolio/internal/logging"
	"github.com/portfolio-dev/portfolio/internal/ordering"
	"github.com/portfolio-dev/portfolio/internal/upload"
)

const storeKey = "dashboard_store"

// Session attaches the visitor's dashboard store when the cookie names a
// live session. Sessions are only started by Login.
func (h *Handler) Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		if cookie, err := c.Cookie(sessionCookie); err == nil {
			if st, ok := h.sessions.Lookup(cookie); ok {
				c.Set(storeKey, st)
				c.Set(sessionCookie, cookie)
			}
		}
		c.Next()
	}
}

// RequireLogin bounces unauthenticated requests back to the login form.
func (h *Handler) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if st := store(c); st == nil || !st.Authenticated() {
			c.Redirect(http.StatusSeeOther, "/dashboard")
			c.Abort()
			return
		}
		c.Next()
	}
}

// store is nil when the request carries no live session.
func store(c *gin.Context) *dashboard.Store {
	st, _ := c.Get(storeKey)
	s, _ := st.(*dashboard.Store)
	return s
}

func setSessionCookie(c *gin.Context, value string, maxAge int) {
	secure := c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https"
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(sessionCookie, value, maxAge, "/dashboard", "", secure, true)
}

func backTo(c *gin.Context, tab dashboard.Tab) {
	c.Redirect(http.StatusSeeOther, "/dashboard?tab="+string(tab))
}

// Dashboard renders the login form or the selected tab.
func (h *Handler) Dashboard(c *gin.Context) {
	st := store(c)
	view := dashboardView{Tabs: dashboard.Tabs}
	if st == nil {
		c.HTML(http.StatusOK, "dashboard.html", view)
		return
	}
	view.Authenticated = st.Authenticated()
	if !view.Authenticated {
		view.Notes = st.Inbox.Drain()
		c.HTML(http.StatusOK, "dashboard.html", view)
		return
	}

	ctx := c.Request.Context()
	log := logging.For(ctx, h.log)

	if t, ok := c.GetQuery("tab"); ok {
		st.SetActiveTab(dashboard.ParseTab(t))
	}
	view.Tab = st.ActiveTab()

	if err := st.LoadTab(ctx, view.Tab); err != nil {
		log.Warn("load dashboard tab failed", zap.String("tab", string(view.Tab)), zap.Error(err))
	}

	switch view.Tab {
	case dashboard.TabProjects:
		view.Projects = rows(st.Projects)
		for _, cat := range st.Categories.Items() {
			view.CategoryNames = append(view.CategoryNames, cat.Name)
		}
		view.Loading = st.Projects.Loading()
	case dashboard.TabCategories:
		view.Categories = rows(st.Categories)
	case dashboard.TabSkills:
		view.Skills = rows(st.Skills)
		view.Icons = icon.Options()
	case dashboard.TabContact:
		view.Contacts = st.Contacts()
	case dashboard.TabCV:
		cvs, err := h.api.CVs(ctx)
		if err != nil {
			log.Warn("load cvs failed", zap.Error(err))
			st.Inbox.Notify(ordering.Failure("Failed to fetch CVs."))
		}
		view.CVs = cvs
		if view.ProfileImage, err = h.api.ProfileImage(ctx); err != nil {
			log.Warn("load profile image failed", zap.Error(err))
		}
	case dashboard.TabMessages:
		msgs, err := h.api.Messages(ctx)
		if err != nil {
			log.Warn("load messages failed", zap.Error(err))
			st.Inbox.Notify(ordering.Failure("Failed to fetch messages."))
		}
		view.Messages = msgs
	}

	view.Notes = st.Inbox.Drain()
	c.HTML(http.StatusOK, "dashboard.html", view)
}

// Login starts a session on first use and moves it to a fresh id once
// the password is accepted.
func (h *Handler) Login(c *gin.Context) {
	st := store(c)
	cookie := c.GetString(sessionCookie)
	fresh := st == nil
	if fresh {
		cookie, st = h.sessions.Create()
	}

	ok, err := st.Login(c.Request.Context(), c.PostForm("password"))
	if err != nil {
		logging.For(c.Request.Context(), h.log).Warn("dashboard login failed", zap.Error(err))
	}
	if ok && !fresh {
		if rotated, rok := h.sessions.Rotate(cookie); rok {
			cookie = rotated
		}
	}
	if fresh || ok {
		setSessionCookie(c, cookie, 0)
	}
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *Handler) Logout(c *gin.Context) {
	store(c).Logout()
	h.sessions.Delete(c.GetString(sessionCookie))
	setSessionCookie(c, "", -1)
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *Handler) SaveContacts(c *gin.Context) {
	st := store(c)
	ctx := c.Request.Context()
	if st.Contacts() == nil {
		// an unseen record would otherwise be created twice
		if _, err := st.LoadContacts(ctx); err != nil {
			backTo(c, dashboard.TabContact)
			return
		}
	}
	_ = st.SaveContacts(ctx, contactsForm(c))
	backTo(c, dashboard.TabContact)
}

func (h *Handler) UploadCV(c *gin.Context) {
	st := store(c)
	defer backTo(c, dashboard.TabCV)

	f, done, err := openFile(c, "cvFile")
	if err != nil || f == nil {
		st.Inbox.Notify(ordering.Failure("Please choose a file to upload."))
		return
	}
	defer done()

	if err := upload.CheckCV(f.Name, f.Size, f.ContentType); err != nil {
		h.notifyUpload(st, err, "Failed to upload CV.")
		return
	}
	if _, err := h.api.UploadCV(c.Request.Context(), *f); err != nil {
		logging.For(c.Request.Context(), h.log).Warn("upload cv failed", zap.Error(err))
		h.notifyUpload(st, err, "Failed to upload CV.")
		return
	}
	st.Inbox.Notify(ordering.Success("CV uploaded successfully."))
}

func (h *Handler) ActivateCV(c *gin.Context) {
	st := store(c)
	if _, err := h.api.ActivateCV(c.Request.Context(), c.Param("id")); err != nil {
		logging.For(c.Request.Context(), h.log).Warn("activate cv failed", zap.Error(err))
		st.Inbox.Notify(ordering.Failure("Failed to update CV status."))
	} else {
		st.Inbox.Notify(ordering.Success("CV status updated successfully."))
	}
	backTo(c, dashboard.TabCV)
}

func (h *Handler) DeleteCV(c *gin.Context) {
	st := store(c)
	if err := h.api.DeleteCV(c.Request.Context(), c.Param("id")); err != nil {
		logging.For(c.Request.Context(), h.log).Warn("delete cv failed", zap.Error(err))
		st.Inbox.Notify(ordering.Failure("Failed to delete CV."))
	} else {
		st.Inbox.Notify(ordering.Success("CV deleted successfully."))
	}
	backTo(c, dashboard.TabCV)
}

func (h *Handler) UploadProfileImage(c *gin.Context) {
	st := store(c)
	defer backTo(c, dashboard.TabCV)

	f, done, err := openFile(c, "image")
	if err != nil || f == nil {
		st.Inbox.Notify(ordering.Failure("Please choose an image to upload."))
		return
	}
	defer done()

	if _, err := h.api.UploadProfileImage(c.Request.Context(), *f); err != nil {
		logging.For(c.Request.Context(), h.log).Warn("upload profile image failed", zap.Error(err))
		h.notifyUpload(st, err, "Failed to upload profile image.")
		return
	}
	st.Inbox.Notify(ordering.Success("Profile image updated successfully."))
}

// notifyUpload surfaces validation messages as-is and a generic fallback
// for everything else.
func (h *Handler) notifyUpload(st *dashboard.Store, err error, fallback string) {
	var (
		uerr *upload.Error
		aerr *client.APIError
	)
	switch {
	case errors.As(err, &uerr):
		st.Inbox.Notify(ordering.Notification{Title: uerr.Title, Description: uerr.Description, Variant: ordering.VariantDestructive})
	case errors.As(err, &aerr) && aerr.Title != "":
		st.Inbox.Notify(ordering.Notification{Title: aerr.Title, Description: aerr.Message, Variant: ordering.VariantDestructive})
	default:
		st.Inbox.Notify(ordering.Failure(fallback))
	}
}

// resource binds one ordered catalog collection to dashboard routes.
type resource[T ordering.Record[T]] struct {
	tab   dashboard.Tab
	coll  func(*dashboard.Store) *ordering.Collection[T]
	draft func(*gin.Context) (T, error)
	patch func(*gin.Context, T) ordering.Patch
}

func (r resource[T]) add(c *gin.Context) {
	st := store(c)
	defer backTo(c, r.tab)

	draft, err := r.draft(c)
	if errors.Is(err, errMissingField) {
		st.Inbox.Notify(ordering.Failure("Please fill in all required fields."))
		return
	}
	if err != nil {
		return
	}
	_ = r.coll(st).Add(c.Request.Context(), draft)
}

func (r resource[T]) edit(c *gin.Context) {
	st := store(c)
	defer backTo(c, r.tab)

	coll := r.coll(st)
	cur, ok := find(coll, c.Param("id"))
	if !ok {
		if err := coll.Load(c.Request.Context()); err != nil {
			return
		}
		if cur, ok = find(coll, c.Param("id")); !ok {
			st.Inbox.Notify(ordering.Failure("Record no longer exists."))
			return
		}
	}
	_ = coll.Edit(c.Request.Context(), cur.RecordID(), r.patch(c, cur))
}

func (r resource[T]) move(c *gin.Context) {
	st := store(c)
	defer backTo(c, r.tab)

	dir := ordering.Down
	if c.PostForm("dir") == ordering.Up.String() {
		dir = ordering.Up
	}
	coll := r.coll(st)
	err := coll.Move(c.Request.Context(), c.Param("id"), dir)
	if errors.Is(err, ordering.ErrUnknownRecord) {
		if coll.Load(c.Request.Context()) == nil {
			_ = coll.Move(c.Request.Context(), c.Param("id"), dir)
		}
	}
}

func (r resource[T]) remove(c *gin.Context) {
	_ = r.coll(store(c)).Remove(c.Request.Context(), c.Param("id"))
	backTo(c, r.tab)
}

func find[T ordering.Record[T]](coll *ordering.Collection[T], id string) (T, bool) {
	for _, it := range coll.Items() {
		if it.RecordID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

func registerResource[T ordering.Record[T]](g *gin.RouterGroup, path string, r resource[T]) {
	g.POST(path, r.add)
	g.POST(path+"/:id", r.edit)
	g.POST(path+"/:id/move", r.move)
	g.POST(path+"/:id/delete", r.remove)
}

// projectDraftWithImage uploads the optional image first and stores its URL
// on the draft.
func (h *Handler) projectDraftWithImage(c *gin.Context) (catalog.Project, error) {
	p, err := projectDraft(c)
	if err != nil {
		return p, err
	}
	f, done, err := openFile(c, "image")
	if err != nil {
		return p, err
	}
	defer done()
	if f == nil {
		return p, nil
	}
	url, err := h.api.UploadProjectImage(c.Request.Context(), *f)
	if err != nil {
		logging.For(c.Request.Context(), h.log).Warn("upload project image failed", zap.Error(err))
		h.notifyUpload(store(c), err, "Failed to upload image.")
		return p, err
	}
	p.ImageURL = url
	return p, nil
}
