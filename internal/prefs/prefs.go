// Package prefs holds the display preferences (theme and accent color).
//
// Presentation is observable: the rendering layer subscribes and re-renders
// when a preference changes, instead of reading global state.
package prefs

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/mmynk/oremus/internal/localstore"
)

// Theme is the light or dark display theme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Accent is the color accent from the fixed palette.
type Accent string

const (
	AccentBlue   Accent = "blue"
	AccentPurple Accent = "purple"
	AccentGreen  Accent = "green"
	AccentAmber  Accent = "amber"
	AccentRose   Accent = "rose"
)

// Accents is the palette, in display order.
var Accents = []Accent{AccentBlue, AccentPurple, AccentGreen, AccentAmber, AccentRose}

// DefaultAccent is used when nothing valid is stored.
const DefaultAccent = AccentBlue

var (
	ErrUnknownTheme  = errors.New("unknown theme")
	ErrUnknownAccent = errors.New("unknown accent color")
)

// Presentation is the global presentation state derived from preferences.
type Presentation struct {
	Theme  Theme
	Accent Accent
	// Classes are the document-level classes: "dark" for the dark theme and
	// "theme-<accent>" for any accent other than the default.
	Classes []string
}

// Store owns the theme and accent preferences.
type Store struct {
	local  localstore.Store
	logger *slog.Logger

	mu     sync.Mutex
	theme  Theme
	accent Accent
	subs   map[int]func(Presentation)
	nextID int
}

// New loads preferences from local storage. systemTheme is the theme to use
// when none is stored (an empty value means light). Unrecognized stored
// values fall back to the defaults.
func New(local localstore.Store, systemTheme Theme, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		local:  local,
		logger: logger,
		theme:  ThemeLight,
		accent: DefaultAccent,
		subs:   make(map[int]func(Presentation)),
	}
	if systemTheme == ThemeDark {
		s.theme = ThemeDark
	}

	if v, ok := local.Get(localstore.KeyTheme); ok {
		if t, err := ParseTheme(v); err == nil {
			s.theme = t
		} else {
			logger.Debug("Ignoring stored theme", "value", v)
		}
	}
	if v, ok := local.Get(localstore.KeyColorTheme); ok {
		if a, err := ParseAccent(v); err == nil {
			s.accent = a
		} else {
			logger.Debug("Ignoring stored accent", "value", v)
		}
	}
	return s
}

// ParseTheme converts s to a Theme.
func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTheme, s)
}

// ParseAccent converts s to an Accent from the palette.
func ParseAccent(s string) (Accent, error) {
	if slices.Contains(Accents, Accent(s)) {
		return Accent(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAccent, s)
}

// Theme returns the current theme.
func (s *Store) Theme() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// Accent returns the current accent.
func (s *Store) Accent() Accent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accent
}

// Presentation returns the current presentation state.
func (s *Store) Presentation() Presentation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presentation()
}

// Subscribe registers fn to be called after every change. It returns a
// function that removes the subscription.
func (s *Store) Subscribe(fn func(Presentation)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// SetTheme persists the theme and notifies subscribers.
func (s *Store) SetTheme(t Theme) error {
	if _, err := ParseTheme(string(t)); err != nil {
		return err
	}
	if err := s.local.Set(localstore.KeyTheme, string(t)); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}

	s.mu.Lock()
	s.theme = t
	s.mu.Unlock()

	s.notify()
	return nil
}

// ToggleTheme switches between light and dark and returns the new theme.
func (s *Store) ToggleTheme() (Theme, error) {
	next := ThemeDark
	if s.Theme() == ThemeDark {
		next = ThemeLight
	}
	return next, s.SetTheme(next)
}

// SetAccent persists the accent, notifies subscribers, and returns the
// confirmation notice to show the user.
func (s *Store) SetAccent(a Accent) (string, error) {
	if _, err := ParseAccent(string(a)); err != nil {
		return "", err
	}
	if err := s.local.Set(localstore.KeyColorTheme, string(a)); err != nil {
		return "", fmt.Errorf("failed to save accent: %w", err)
	}

	s.mu.Lock()
	s.accent = a
	s.mu.Unlock()

	s.notify()
	return capitalize(string(a)) + " theme applied", nil
}

// presentation must be called with s.mu held.
func (s *Store) presentation() Presentation {
	p := Presentation{Theme: s.theme, Accent: s.accent, Classes: []string{}}
	if s.theme == ThemeDark {
		p.Classes = append(p.Classes, "dark")
	}
	if s.accent != DefaultAccent {
		p.Classes = append(p.Classes, "theme-"+string(s.accent))
	}
	return p
}

// notify calls subscribers synchronously, outside the lock so they may read
// the store.
func (s *Store) notify() {
	s.mu.Lock()
	p := s.presentation()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(Presentation), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.subs[id])
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(p)
	}
	s.logger.Debug("Presentation changed", "theme", p.Theme, "accent", p.Accent)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
