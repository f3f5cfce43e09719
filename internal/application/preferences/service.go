// Package preferences provides the application layer for session and
// preference state: user identity, language, theme, and the dark-mode flag.
// Each value has an independent lifecycle, is persisted immediately on
// change, and is loaded once at startup. There are no ambient globals: the
// service is constructed explicitly and passed to the components that need it.
package preferences

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strconv"
	"sync"

	"github.com/frigozen/v1/internal/domain/user"
	"github.com/frigozen/v1/internal/ports/inbound"
	"github.com/frigozen/v1/internal/ports/outbound"
	"github.com/frigozen/v1/pkg/errors"
	"go.uber.org/zap"
)

// Persistence keys for the named preference values.
const (
	KeyUserSession = "user-session"
	KeyLanguage    = "language"
	KeyDarkMode    = "dark-mode"
	KeyTheme       = "theme-choice"
)

// Defaults applied when no value has been persisted yet.
const (
	DefaultLanguage = "fr"
	DefaultTheme    = "sage"
)

var (
	supportedLanguages = map[string]bool{"fr": true, "en": true, "ar": true}
	supportedThemes    = map[string]bool{"sage": true, "sand": true, "sky": true, "minimal": true}

	ErrUnsupportedLanguage = stderrors.New("unsupported language")
	ErrUnsupportedTheme    = stderrors.New("unsupported theme")
)

// sessionRecord is the persisted shape of the user session.
type sessionRecord struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Service implements the preference use cases.
type Service struct {
	repo   outbound.PreferenceRepository
	logger *zap.Logger

	mu       sync.RWMutex
	language string
	theme    string
	darkMode bool
	current  *user.User

	// onLanguageChange is invoked after a language change has been
	// persisted; the container wires it to the translation workflow.
	onLanguageChange func(ctx context.Context, language string)
}

var _ inbound.PreferenceService = (*Service)(nil)

// NewService creates a new preference service
func NewService(repo outbound.PreferenceRepository, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		logger:   logger.Named("preference-service"),
		language: DefaultLanguage,
		theme:    DefaultTheme,
	}
}

// OnLanguageChange registers the hook fired after a persisted language
// change. Must be set before Load.
func (s *Service) OnLanguageChange(hook func(ctx context.Context, language string)) {
	s.onLanguageChange = hook
}

// Load restores all persisted values once at startup. Missing keys fall
// back to defaults.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, err := s.repo.Get(ctx, KeyLanguage); err == nil && supportedLanguages[v] {
		s.language = v
	} else if err != nil && !stderrors.Is(err, outbound.ErrPreferenceNotFound) {
		return errors.Wrap(err, "failed to load language preference")
	}

	if v, err := s.repo.Get(ctx, KeyTheme); err == nil && supportedThemes[v] {
		s.theme = v
	}

	if v, err := s.repo.Get(ctx, KeyDarkMode); err == nil {
		s.darkMode, _ = strconv.ParseBool(v)
	}

	if v, err := s.repo.Get(ctx, KeyUserSession); err == nil {
		var record sessionRecord
		if err := json.Unmarshal([]byte(v), &record); err == nil {
			if u, err := user.NewUser(record.Name, record.Email); err == nil {
				s.current = u
			}
		}
	}

	s.logger.Info("Preferences loaded",
		zap.String("language", s.language),
		zap.String("theme", s.theme),
		zap.Bool("dark_mode", s.darkMode),
		zap.Bool("signed_in", s.current != nil),
	)
	return nil
}

// Language returns the active language.
func (s *Service) Language() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.language
}

// SetLanguage validates, persists, and applies a language change, then
// fires the translation hook.
func (s *Service) SetLanguage(ctx context.Context, language string) error {
	if !supportedLanguages[language] {
		return ErrUnsupportedLanguage
	}

	s.mu.Lock()
	if s.language == language {
		s.mu.Unlock()
		return nil
	}
	s.language = language
	s.mu.Unlock()

	if err := s.repo.Set(ctx, KeyLanguage, language); err != nil {
		return errors.Wrap(err, "failed to persist language")
	}

	if s.onLanguageChange != nil {
		s.onLanguageChange(ctx, language)
	}
	return nil
}

// Theme returns the active theme choice.
func (s *Service) Theme() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// SetTheme validates and persists a theme change.
func (s *Service) SetTheme(ctx context.Context, theme string) error {
	if !supportedThemes[theme] {
		return ErrUnsupportedTheme
	}

	s.mu.Lock()
	s.theme = theme
	s.mu.Unlock()

	if err := s.repo.Set(ctx, KeyTheme, theme); err != nil {
		return errors.Wrap(err, "failed to persist theme")
	}
	return nil
}

// DarkMode returns the dark-mode flag.
func (s *Service) DarkMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.darkMode
}

// SetDarkMode persists the dark-mode flag.
func (s *Service) SetDarkMode(ctx context.Context, enabled bool) error {
	s.mu.Lock()
	s.darkMode = enabled
	s.mu.Unlock()

	if err := s.repo.Set(ctx, KeyDarkMode, strconv.FormatBool(enabled)); err != nil {
		return errors.Wrap(err, "failed to persist dark mode")
	}
	return nil
}

// CurrentUser returns the signed-in user, or nil.
func (s *Service) CurrentUser() *user.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Login stores the session user.
func (s *Service) Login(ctx context.Context, u *user.User) error {
	data, err := json.Marshal(sessionRecord{Name: u.Name(), Email: u.Email()})
	if err != nil {
		return errors.Wrap(err, "failed to serialize session")
	}

	s.mu.Lock()
	s.current = u
	s.mu.Unlock()

	if err := s.repo.Set(ctx, KeyUserSession, string(data)); err != nil {
		return errors.Wrap(err, "failed to persist session")
	}

	s.logger.Info("User signed in", zap.String("name", u.Name()))
	return nil
}

// Logout clears the session user.
func (s *Service) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if err := s.repo.Delete(ctx, KeyUserSession); err != nil {
		return errors.Wrap(err, "failed to clear session")
	}

	s.logger.Info("User signed out")
	return nil
}
