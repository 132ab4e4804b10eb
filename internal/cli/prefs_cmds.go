package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmynk/oremus/internal/i18n"
	"github.com/mmynk/oremus/internal/prefs"
)

func (r *runner) themeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|toggle]",
		Short:     "Show or change the light/dark theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(prefs.ThemeLight), string(prefs.ThemeDark), "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			store := r.app.Prefs
			if len(args) == 0 {
				fmt.Fprintln(out, store.Theme())
				return nil
			}

			if args[0] == "toggle" {
				t, err := store.ToggleTheme()
				if err != nil {
					return err
				}
				fmt.Fprintln(out, t)
				return nil
			}

			t, err := prefs.ParseTheme(args[0])
			if err != nil {
				return err
			}
			if err := store.SetTheme(t); err != nil {
				return err
			}
			fmt.Fprintln(out, t)
			return nil
		},
	}
}

func (r *runner) accentCmd() *cobra.Command {
	valid := make([]string, 0, len(prefs.Accents))
	for _, a := range prefs.Accents {
		valid = append(valid, string(a))
	}

	return &cobra.Command{
		Use:       "accent [" + strings.Join(valid, "|") + "]",
		Short:     "Show or change the accent color",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: valid,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				fmt.Fprintln(out, r.app.Prefs.Accent())
				return nil
			}

			a, err := prefs.ParseAccent(args[0])
			if err != nil {
				return err
			}
			notice, err := r.app.Prefs.SetAccent(a)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, r.app.style.heading(notice))
			return nil
		},
	}
}

func (r *runner) langCmd() *cobra.Command {
	valid := make([]string, 0, len(i18n.Supported))
	for _, l := range i18n.Supported {
		valid = append(valid, string(l))
	}

	return &cobra.Command{
		Use:       "lang [" + strings.Join(valid, "|") + "]",
		Short:     "Show or change the display language",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: valid,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				fmt.Fprintln(out, r.app.Locale.Language())
				return nil
			}

			lang, err := i18n.ParseLanguage(args[0])
			if err != nil {
				return err
			}
			notice, err := r.app.Locale.SetLanguage(lang)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, notice)
			return nil
		},
	}
}

func (r *runner) settingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Show appearance and language settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := r.app
			p := app.Prefs.Presentation()
			if r.jsonOut {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"theme":    p.Theme,
					"accent":   p.Accent,
					"classes":  p.Classes,
					"language": app.Locale.Language(),
				})
			}

			t := app.Locale.T
			dark := "off"
			if p.Theme == prefs.ThemeDark {
				dark = "on"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, app.style.heading(t("settings.title")))
			w := newTable(out)
			fmt.Fprintf(w, "%s\t%s\n", t("settings.dark_mode"), dark)
			fmt.Fprintf(w, "%s\t%s\n", t("settings.color_theme"), p.Accent)
			fmt.Fprintf(w, "%s\t%s\n", t("settings.language"), app.Locale.Language())
			return w.Flush()
		},
	}
}
