package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/portfolio-dev/portfolio/internal/logging"
	"github.com/portfolio-dev/portfolio/internal/storage/postgres"
)

// PasswordSetting is the dashboard_settings key holding the bcrypt hash.
const PasswordSetting = "password_hash"

// ErrNoPassword means no dashboard password has been configured yet.
var ErrNoPassword = errors.New("dashboard password not configured")

type AuthService struct {
	settings *postgres.SettingsRepository
	cost     int
	log      *zap.Logger
}

func NewAuthService(settings *postgres.SettingsRepository, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{settings: settings, cost: bcrypt.DefaultCost, log: log}
}

// Seed stores the hash of password unless a hash already exists. It
// reports whether a new hash was written.
func (s *AuthService) Seed(ctx context.Context, password string) (bool, error) {
	if password == "" {
		return false, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	created, err := s.settings.PutIfAbsent(ctx, PasswordSetting, string(hash))
	if err != nil {
		return false, err
	}
	if created {
		s.log.Info("dashboard password seeded")
	}
	return created, nil
}

// SetPassword replaces the stored hash.
func (s *AuthService) SetPassword(ctx context.Context, password string) error {
	if password == "" {
		return errors.New("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.settings.Put(ctx, PasswordSetting, string(hash))
}

// Login reports whether password matches the stored hash.
func (s *AuthService) Login(ctx context.Context, password string) (bool, error) {
	hash, err := s.settings.Get(ctx, PasswordSetting)
	if err != nil {
		if errors.Is(err, postgres.ErrSettingNotFound) {
			return false, ErrNoPassword
		}
		return false, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		logging.For(ctx, s.log).Info("dashboard login succeeded")
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		logging.For(ctx, s.log).Warn("dashboard login rejected")
		return false, nil
	default:
		return false, fmt.Errorf("compare password: %w", err)
	}
}
