package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/portfolio-dev/portfolio/internal/logging"
	"github.com/portfolio-dev/portfolio/internal/profile/domain"
	"github.com/portfolio-dev/portfolio/internal/profile/repository"
	"github.com/portfolio-dev/portfolio/internal/storage/files"
	"github.com/portfolio-dev/portfolio/internal/storage/postgres"
)

const (
	// ProfileImageSetting holds the public URL of the profile picture.
	ProfileImageSetting = "profile_image_url"
	profileImageKey     = "images/profile"
)

// Upload is a validated file ready to be stored.
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ProfileService owns contacts, CVs, messages and the profile picture.
type ProfileService struct {
	contacts *repository.ContactsRepository
	cvs      *repository.CVRepository
	messages *repository.MessageRepository
	settings *postgres.SettingsRepository
	store    files.Store
	log      *zap.Logger
	now      func() time.Time
}

func NewProfileService(
	contacts *repository.ContactsRepository,
	cvs *repository.CVRepository,
	messages *repository.MessageRepository,
	settings *postgres.SettingsRepository,
	store files.Store,
	log *zap.Logger,
) *ProfileService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProfileService{
		contacts: contacts,
		cvs:      cvs,
		messages: messages,
		settings: settings,
		store:    store,
		log:      log,
		now:      time.Now,
	}
}

func (s *ProfileService) Contacts(ctx context.Context) (*domain.Contacts, error) {
	return s.contacts.Current(ctx)
}

// CreateContacts stores the contact record. Only one may exist.
func (s *ProfileService) CreateContacts(ctx context.Context, c domain.Contacts) (*domain.Contacts, error) {
	if _, err := s.contacts.Current(ctx); err == nil {
		return nil, fmt.Errorf("contacts already exist: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return s.contacts.Create(ctx, c)
}

func (s *ProfileService) UpdateContacts(ctx context.Context, id string, fields map[string]any) (*domain.Contacts, error) {
	return s.contacts.Update(ctx, id, fields)
}

func (s *ProfileService) ListCVs(ctx context.Context) ([]domain.CVFile, error) {
	return s.cvs.List(ctx)
}

func (s *ProfileService) ActiveCV(ctx context.Context) (*domain.CVFile, error) {
	return s.cvs.Active(ctx)
}

// UploadCV stores the file and records it as inactive. The stored object
// is removed again when the row cannot be written.
func (s *ProfileService) UploadCV(ctx context.Context, up Upload) (*domain.CVFile, error) {
	key := files.NewKey("cv", up.Name)
	url, err := s.store.Put(ctx, key, up.Body, up.Size, up.ContentType)
	if err != nil {
		return nil, fmt.Errorf("store cv: %w", err)
	}

	f, err := s.cvs.Create(ctx, domain.CVFile{
		FileName:  path.Base(up.Name),
		ObjectKey: key,
		URL:       url,
	})
	if err != nil {
		if derr := s.store.Delete(ctx, key); derr != nil {
			logging.For(ctx, s.log).Warn("cleanup cv object failed", zap.String("key", key), zap.Error(derr))
		}
		return nil, err
	}

	logging.For(ctx, s.log).Info("cv uploaded", zap.String("id", f.ID), zap.String("file", f.FileName))
	return f, nil
}

func (s *ProfileService) ActivateCV(ctx context.Context, id string) (*domain.CVFile, error) {
	f, err := s.cvs.SetActive(ctx, id)
	if err != nil {
		return nil, err
	}
	logging.For(ctx, s.log).Info("cv activated", zap.String("id", id))
	return f, nil
}

// DeleteCV removes the stored object and then the row. A storage failure
// is logged and does not stop the row from being deleted.
func (s *ProfileService) DeleteCV(ctx context.Context, id string) error {
	f, err := s.cvs.Get(ctx, id)
	if err != nil {
		return err
	}
	if f.ObjectKey != "" {
		if err := s.store.Delete(ctx, f.ObjectKey); err != nil {
			logging.For(ctx, s.log).Warn("delete cv object failed",
				zap.String("id", id), zap.String("key", f.ObjectKey), zap.Error(err))
		}
	}
	if err := s.cvs.Delete(ctx, id); err != nil {
		return err
	}
	logging.For(ctx, s.log).Info("cv deleted", zap.String("id", id))
	return nil
}

func (s *ProfileService) CreateMessage(ctx context.Context, m domain.Message) (*domain.Message, error) {
	return s.messages.Create(ctx, m)
}

func (s *ProfileService) ListMessages(ctx context.Context) ([]domain.Message, error) {
	return s.messages.List(ctx)
}

func (s *ProfileService) ProfileImage(ctx context.Context) (*domain.ProfileImage, error) {
	url, err := s.settings.Get(ctx, ProfileImageSetting)
	if err != nil {
		if errors.Is(err, postgres.ErrSettingNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &domain.ProfileImage{URL: url}, nil
}

// SetProfileImage overwrites the picture under its fixed key. The stored
// URL carries a version parameter so browsers pick up the new image.
func (s *ProfileService) SetProfileImage(ctx context.Context, up Upload) (*domain.ProfileImage, error) {
	url, err := s.store.Put(ctx, profileImageKey, up.Body, up.Size, up.ContentType)
	if err != nil {
		return nil, fmt.Errorf("store profile image: %w", err)
	}
	url += "?v=" + strconv.FormatInt(s.now().Unix(), 10)

	if err := s.settings.Put(ctx, ProfileImageSetting, url); err != nil {
		return nil, err
	}
	return &domain.ProfileImage{URL: url}, nil
}

// StoreProjectImage uploads a project screenshot and returns its URL.
func (s *ProfileService) StoreProjectImage(ctx context.Context, up Upload) (*domain.ProfileImage, error) {
	url, err := s.store.Put(ctx, files.NewKey("images/projects", up.Name), up.Body, up.Size, up.ContentType)
	if err != nil {
		return nil, fmt.Errorf("store project image: %w", err)
	}
	return &domain.ProfileImage{URL: url}, nil
}
