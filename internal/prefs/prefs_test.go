package prefs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/oremus/internal/localstore"
)

func TestDefaults(t *testing.T) {
	s := New(localstore.NewMemory(), "", nil)
	assert.Equal(t, ThemeLight, s.Theme())
	assert.Equal(t, AccentBlue, s.Accent())
	assert.Empty(t, s.Presentation().Classes)

	dark := New(localstore.NewMemory(), ThemeDark, nil)
	assert.Equal(t, ThemeDark, dark.Theme(), "system preference applies when nothing is stored")
}

func TestStoredValues(t *testing.T) {
	local := localstore.NewMemory()
	require.NoError(t, local.Set(localstore.KeyTheme, "dark"))
	require.NoError(t, local.Set(localstore.KeyColorTheme, "rose"))

	s := New(local, ThemeLight, nil)
	assert.Equal(t, ThemeDark, s.Theme())
	assert.Equal(t, AccentRose, s.Accent())
	assert.Equal(t, []string{"dark", "theme-rose"}, s.Presentation().Classes)
}

func TestUnrecognizedStoredValuesFallBack(t *testing.T) {
	local := localstore.NewMemory()
	require.NoError(t, local.Set(localstore.KeyTheme, "sepia"))
	require.NoError(t, local.Set(localstore.KeyColorTheme, "chartreuse"))

	s := New(local, ThemeDark, nil)
	assert.Equal(t, ThemeDark, s.Theme())
	assert.Equal(t, DefaultAccent, s.Accent())
}

func TestSettersPersistAndNotify(t *testing.T) {
	local := localstore.NewMemory()
	s := New(local, "", nil)

	var seen []Presentation
	unsubscribe := s.Subscribe(func(p Presentation) { seen = append(seen, p) })

	require.NoError(t, s.SetTheme(ThemeDark))
	notice, err := s.SetAccent(AccentPurple)
	require.NoError(t, err)
	assert.Equal(t, "Purple theme applied", notice)

	require.Len(t, seen, 2)
	assert.Equal(t, []string{"dark"}, seen[0].Classes)
	assert.Equal(t, []string{"dark", "theme-purple"}, seen[1].Classes)

	v, _ := local.Get(localstore.KeyTheme)
	assert.Equal(t, "dark", v)
	v, _ = local.Get(localstore.KeyColorTheme)
	assert.Equal(t, "purple", v)

	unsubscribe()
	require.NoError(t, s.SetTheme(ThemeLight))
	assert.Len(t, seen, 2, "unsubscribed callback must not run")
}

func TestToggleTheme(t *testing.T) {
	s := New(localstore.NewMemory(), "", nil)

	next, err := s.ToggleTheme()
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, next)

	next, err = s.ToggleTheme()
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, next)
}

func TestInvalidValuesRejected(t *testing.T) {
	local := localstore.NewMemory()
	s := New(local, "", nil)

	_, err := s.SetAccent("chartreuse")
	assert.ErrorIs(t, err, ErrUnknownAccent)
	assert.ErrorIs(t, s.SetTheme("sepia"), ErrUnknownTheme)

	_, ok := local.Get(localstore.KeyColorTheme)
	assert.False(t, ok)
}

func TestSubscriberMayReadStore(t *testing.T) {
	s := New(localstore.NewMemory(), "", nil)

	var accent Accent
	s.Subscribe(func(Presentation) { accent = s.Accent() })

	_, err := s.SetAccent(AccentGreen)
	require.NoError(t, err)
	assert.Equal(t, AccentGreen, accent)
}
