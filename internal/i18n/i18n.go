// Package i18n selects the interface language and translates message keys.
package i18n

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/text/language"

	"github.com/mmynk/oremus/internal/localstore"
)

// Language is a supported locale identifier.
type Language string

const (
	EnglishUS    Language = "en-US"
	PortugueseBR Language = "pt-BR"
)

// DefaultLanguage is used when neither storage nor the environment selects one.
const DefaultLanguage = EnglishUS

// Supported lists the supported languages, default first.
var Supported = []Language{EnglishUS, PortugueseBR}

// EnvVars are consulted in order when no language is stored.
var EnvVars = []string{"LC_ALL", "LC_MESSAGES", "LANG"}

var ErrUnsupportedLanguage = errors.New("unsupported language")

// ParseLanguage accepts exactly one of the supported identifiers.
func ParseLanguage(s string) (Language, error) {
	for _, l := range Supported {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, s)
}

// Store tracks the active language.
type Store struct {
	local  localstore.Store
	getenv func(string) string
	logger *slog.Logger

	mu   sync.RWMutex
	lang Language
}

// New returns a store reading the saved choice from local and falling back
// to the environment through getenv (usually os.Getenv).
func New(local localstore.Store, getenv func(string) string, logger *slog.Logger) *Store {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{local: local, getenv: getenv, logger: logger, lang: DefaultLanguage}
	s.lang = s.initial()
	return s
}

func (s *Store) initial() Language {
	if v, ok := s.local.Get(localstore.KeyLanguage); ok {
		if l, err := ParseLanguage(v); err == nil {
			return l
		}
		s.logger.Debug("Ignoring stored language", "value", v)
	}
	for _, name := range EnvVars {
		if l, ok := matchEnvLocale(s.getenv(name)); ok {
			return l
		}
	}
	return DefaultLanguage
}

// Language returns the active language.
func (s *Store) Language() Language {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lang
}

// SetLanguage persists lang and returns the confirmation notice, written in
// the new language.
func (s *Store) SetLanguage(lang Language) (string, error) {
	if _, err := ParseLanguage(string(lang)); err != nil {
		return "", err
	}
	if err := s.local.Set(localstore.KeyLanguage, string(lang)); err != nil {
		return "", fmt.Errorf("failed to save language: %w", err)
	}

	s.mu.Lock()
	s.lang = lang
	s.mu.Unlock()

	s.logger.Info("Language changed", "language", lang)
	return translations[lang]["language.changed"], nil
}

// T returns the translation of key in the active language, or key itself
// when the table has no entry for it.
func (s *Store) T(key string) string {
	if msg, ok := translations[s.Language()][key]; ok {
		return msg
	}
	return key
}

// matchEnvLocale maps a POSIX locale value such as "pt_BR.UTF-8" to a
// supported language by comparing the base language.
func matchEnvLocale(value string) (Language, bool) {
	value = strings.TrimSpace(value)
	if i := strings.IndexAny(value, ".@"); i >= 0 {
		value = value[:i]
	}
	if value == "" || value == "C" || value == "POSIX" {
		return "", false
	}

	tag, err := language.Parse(strings.ReplaceAll(value, "_", "-"))
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	for _, l := range Supported {
		supportedBase, _ := language.MustParse(string(l)).Base()
		if base == supportedBase {
			return l, true
		}
	}
	return "", false
}
