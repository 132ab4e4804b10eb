package cli

import (
	"sync"

	"github.com/mmynk/oremus/internal/prefs"
)

// accentCodes maps accents to ANSI foreground colors.
var accentCodes = map[prefs.Accent]string{
	prefs.AccentBlue:   "34",
	prefs.AccentPurple: "35",
	prefs.AccentGreen:  "32",
	prefs.AccentAmber:  "33",
	prefs.AccentRose:   "31",
}

// styler renders headings in the current accent. It follows the
// preference store through Subscribe.
type styler struct {
	mu      sync.Mutex
	p       prefs.Presentation
	enabled bool
}

func newStyler(p prefs.Presentation, enabled bool) *styler {
	return &styler{p: p, enabled: enabled}
}

func (s *styler) update(p prefs.Presentation) {
	s.mu.Lock()
	s.p = p
	s.mu.Unlock()
}

func (s *styler) presentation() prefs.Presentation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p
}

// heading styles text as a section title.
func (s *styler) heading(text string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled {
		return text
	}
	code := accentCodes[s.p.Accent]
	if code == "" {
		code = accentCodes[prefs.DefaultAccent]
	}
	if s.p.Theme == prefs.ThemeDark {
		// bright variants read better on dark backgrounds
		code = "9" + code[1:]
	}
	return "\x1b[1;" + code + "m" + text + "\x1b[0m"
}
