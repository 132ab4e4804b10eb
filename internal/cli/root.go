package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/oremus/internal/config"
	"github.com/mmynk/oremus/pkg/logging"
)

// runner carries the App from the root command's pre-run hook to the
// subcommands.
type runner struct {
	app        *App
	configFile string
	jsonOut    bool
	noColor    bool
	getenv     func(string) string
}

// Execute runs the oremus command line with args. getenv is consulted for
// the locale and NO_COLOR; pass os.Getenv.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer, getenv func(string) string) (err error) {
	r := &runner{getenv: getenv}
	defer func() {
		if r.app != nil {
			err = errors.Join(err, r.app.Close())
		}
	}()

	root := r.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func (r *runner) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "oremus",
		Short: "Share prayer requests with your groups",
		Long: `Oremus keeps prayer groups and their prayer requests, fasts and night
prayers, and tracks who prayed for each request today.

Examples:
  oremus demo
  oremus groups list --search family
  oremus prayers create --group <id> --title "Exams" --type prayer
  oremus prayers toggle <id>`,
		SilenceUsage:      true,
		PersistentPreRunE: r.open,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&r.configFile, "config", "", "config file (default: ./oremus.yaml or the user config dir)")
	flags.String("server", "", "API server URL; local storage is used when empty")
	flags.String("data-dir", "", "directory for local state")
	flags.String("log-level", "warn", "log level: debug, info, warn, error")
	flags.BoolVar(&r.jsonOut, "json", false, "print JSON instead of tables")
	flags.BoolVar(&r.noColor, "no-color", false, "disable colored headings")

	root.AddCommand(
		r.loginCmd(),
		r.callbackCmd(),
		r.demoCmd(),
		r.logoutCmd(),
		r.whoamiCmd(),
		r.themeCmd(),
		r.accentCmd(),
		r.langCmd(),
		r.settingsCmd(),
		r.groupsCmd(),
		r.prayersCmd(),
	)
	return root
}

func (r *runner) open(cmd *cobra.Command, args []string) error {
	v := config.New()
	// the CLI is quiet unless asked
	v.SetDefault("log.level", "warn")
	flags := cmd.Root().PersistentFlags()
	for key, flag := range map[string]string{
		"client.server_url": "server",
		"log.level":         "log-level",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return err
		}
	}
	if dir, _ := flags.GetString("data-dir"); dir != "" {
		v.Set("client.data_dir", dir)
	}

	cfg, err := config.Load(v, r.configFile)
	if err != nil {
		return err
	}

	logger := logging.New(cmd.ErrOrStderr(), logging.ParseLevel(cfg.Log.Level))
	app, err := Open(cfg, r.getenv, r.colorEnabled(cmd.OutOrStdout()), logger)
	if err != nil {
		return err
	}
	r.app = app
	return nil
}

// colorEnabled reports whether headings may use ANSI colors: only on a
// terminal, and never with --no-color or NO_COLOR.
func (r *runner) colorEnabled(w io.Writer) bool {
	if r.noColor || r.getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
