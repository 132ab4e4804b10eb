package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/mmynk/oremus/internal/auth"
	"github.com/mmynk/oremus/internal/models"
	"github.com/mmynk/oremus/internal/session"
)

func (r *runner) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign in with your Google account",
		Long: `Print the sign-in link and wait for the OAuth relay to redirect back
with an access token. The relay must be configured to redirect to this
machine's callback address (client.callback_addr).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.runLogin(cmd.Context(), cmd)
		},
	}
}

func (r *runner) runLogin(ctx context.Context, cmd *cobra.Command) error {
	app := r.app
	state, err := auth.NewState()
	if err != nil {
		return err
	}
	authURL, err := app.Session.SignIn(state)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", app.Config.Client.CallbackAddr)
	if err != nil {
		return fmt.Errorf("failed to listen for the sign-in callback: %w", err)
	}

	results := make(chan url.Values, 1)
	srv := &http.Server{Handler: callbackHandler(state, results), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.Logger.Error("Callback listener failed", "error", err)
		}
	}()
	defer srv.Shutdown(context.Background())

	fmt.Fprintf(cmd.OutOrStdout(), "Open this link to sign in:\n  %s\n", authURL)

	ctx, cancel := context.WithTimeout(ctx, app.Config.Client.LoginTimeout)
	defer cancel()

	select {
	case q := <-results:
		user, err := app.Session.CompleteSignInFromCallback(ctx, q)
		if err != nil {
			return err
		}
		return r.printSignedIn(cmd, user)
	case <-ctx.Done():
		return fmt.Errorf("timed out waiting for sign-in: %w", ctx.Err())
	}
}

// callbackHandler accepts the relay redirect only when it carries the
// state this login started with, and hands the query to results.
func callbackHandler(state string, results chan<- url.Values) http.Handler {
	router := chi.NewRouter()
	router.Get("/callback", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		if q.Get("state") != state {
			http.Error(w, "invalid state", http.StatusBadRequest)
			return
		}
		fmt.Fprintln(w, "Signed in to Oremus. You can close this window.")
		select {
		case results <- q:
		default:
		}
	})
	return router
}

func (r *runner) callbackCmd() *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "callback",
		Short: "Finish signing in with an access token from the relay",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := r.app.Session.CompleteSignIn(cmd.Context(), token)
			if err != nil {
				return err
			}
			return r.printSignedIn(cmd, user)
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "access token from the relay redirect")
	return cmd
}

func (r *runner) demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Try Oremus with a demo identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := r.app.Session.EnterDemo(); err != nil {
				return err
			}
			return r.printSignedIn(cmd, r.app.Session.User())
		},
	}
}

func (r *runner) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := r.app.Session.SignOut(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func (r *runner) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user := r.app.Session.User()
			state := r.app.Session.State()
			if r.jsonOut {
				return printJSON(cmd.OutOrStdout(), map[string]any{"state": state.String(), "user": user})
			}
			if user == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", user.Name, user.Email)
			if state == session.StateDemo {
				fmt.Fprintln(cmd.OutOrStdout(), "Demo mode")
			}
			return nil
		},
	}
}

func (r *runner) printSignedIn(cmd *cobra.Command, user *models.User) error {
	if r.jsonOut {
		return printJSON(cmd.OutOrStdout(), user)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s <%s>\n", user.Name, user.Email)
	return nil
}
