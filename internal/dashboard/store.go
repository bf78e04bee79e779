// Package dashboard holds the per-session state of the admin dashboard.
package dashboard

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	catalog "github.com/portfolio-dev/portfolio/internal/catalog/domain"
	"github.com/portfolio-dev/portfolio/internal/client"
	"github.com/portfolio-dev/portfolio/internal/ordering"
	profile "github.com/portfolio-dev/portfolio/internal/profile/domain"
)

type Tab string

const (
	TabProjects   Tab = "projects"
	TabCategories Tab = "categories"
	TabSkills     Tab = "skills"
	TabContact    Tab = "contact"
	TabCV         Tab = "cv"
	TabMessages   Tab = "messages"
)

// Tabs lists the dashboard tabs in display order.
var Tabs = []Tab{TabProjects, TabCategories, TabSkills, TabContact, TabCV, TabMessages}

// ParseTab maps unknown values to the projects tab.
func ParseTab(s string) Tab {
	for _, t := range Tabs {
		if string(t) == s {
			return t
		}
	}
	return TabProjects
}

// Store is one visitor's dashboard: the login flag, the selected tab, the
// contact record and an ordered collection per catalog resource. Failures
// are queued in Inbox for the next render.
type Store struct {
	api *client.Client
	log *zap.Logger

	Inbox      *ordering.Inbox
	Projects   *ordering.Collection[catalog.Project]
	Categories *ordering.Collection[catalog.Category]
	Skills     *ordering.Collection[catalog.SkillGroup]

	mu            sync.Mutex
	activeTab     Tab
	authenticated bool
	contacts      *profile.Contacts
}

func NewStore(api *client.Client, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	inbox := &ordering.Inbox{}
	opts := []ordering.Option{ordering.WithNotifier(inbox), ordering.WithLogger(log)}
	return &Store{
		api:        api,
		log:        log,
		Inbox:      inbox,
		Projects:   ordering.New[catalog.Project]("projects", api.Projects(), opts...),
		Categories: ordering.New[catalog.Category]("categories", api.Categories(), opts...),
		Skills:     ordering.New[catalog.SkillGroup]("skills", api.Skills(), opts...),
		activeTab:  TabProjects,
	}
}

func (s *Store) ActiveTab() Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeTab
}

func (s *Store) SetActiveTab(t Tab) {
	s.mu.Lock()
	s.activeTab = t
	s.mu.Unlock()
}

func (s *Store) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// Login asks the API to check password and records the outcome.
func (s *Store) Login(ctx context.Context, password string) (bool, error) {
	ok, err := s.api.Login(ctx, password)
	if err != nil {
		if errors.Is(err, client.ErrRateLimited) {
			s.Inbox.Notify(ordering.Failure("Too many attempts. Please wait a minute and try again."))
		} else {
			s.Inbox.Notify(ordering.Failure("Login failed. Please try again."))
		}
		return false, err
	}
	if !ok {
		s.Inbox.Notify(ordering.Failure("Incorrect password."))
	}

	s.mu.Lock()
	s.authenticated = ok
	s.mu.Unlock()
	return ok, nil
}

func (s *Store) Logout() {
	s.mu.Lock()
	s.authenticated = false
	s.contacts = nil
	s.mu.Unlock()
}

// LoadTab refreshes the data the given tab renders.
func (s *Store) LoadTab(ctx context.Context, t Tab) error {
	switch t {
	case TabProjects:
		// the project form offers the category names
		if err := s.Categories.Load(ctx); err != nil {
			return err
		}
		return s.Projects.Load(ctx)
	case TabCategories:
		return s.Categories.Load(ctx)
	case TabSkills:
		return s.Skills.Load(ctx)
	case TabContact:
		_, err := s.LoadContacts(ctx)
		return err
	}
	return nil
}

// Contacts returns the cached contact record, nil before the first load
// or when none exists.
func (s *Store) Contacts() *profile.Contacts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contacts
}

func (s *Store) LoadContacts(ctx context.Context) (*profile.Contacts, error) {
	c, err := s.api.Contacts(ctx)
	if err != nil {
		if client.IsNotFound(err) {
			return nil, nil
		}
		s.Inbox.Notify(ordering.Failure("Failed to load contacts."))
		return nil, err
	}
	s.mu.Lock()
	s.contacts = c
	s.mu.Unlock()
	return c, nil
}

// SaveContacts creates the record when none exists yet, otherwise sends
// only the fields that differ from the cached copy.
func (s *Store) SaveContacts(ctx context.Context, next profile.Contacts) error {
	current := s.Contacts()

	var (
		saved *profile.Contacts
		err   error
	)
	if current == nil {
		saved, err = s.api.CreateContacts(ctx, next)
	} else {
		patch := contactsDiff(*current, next)
		if len(patch) == 0 {
			return nil
		}
		saved, err = s.api.UpdateContacts(ctx, current.ID, patch)
	}
	if err != nil {
		s.log.Warn("save contacts failed", zap.Error(err))
		s.Inbox.Notify(ordering.Failure("Failed to update contacts."))
		return err
	}

	s.mu.Lock()
	s.contacts = saved
	s.mu.Unlock()
	s.Inbox.Notify(ordering.Success("Contacts updated successfully."))
	return nil
}

func contactsDiff(cur, next profile.Contacts) map[string]any {
	patch := map[string]any{}
	add := func(key, a, b string) {
		if a != b {
			patch[key] = b
		}
	}
	add("email", cur.Email, next.Email)
	add("phone", cur.Phone, next.Phone)
	add("location", cur.Location, next.Location)
	add("github", cur.Github, next.Github)
	add("linkedin", cur.Linkedin, next.Linkedin)
	return patch
}

// Close stops the collections from accepting late results.
func (s *Store) Close() {
	s.Projects.Close()
	s.Categories.Close()
	s.Skills.Close()
}
