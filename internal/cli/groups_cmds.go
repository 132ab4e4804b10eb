package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/oremus/internal/models"
	"github.com/mmynk/oremus/internal/storage"
)

// withRepo resolves the identity and repository shared by the data
// commands.
func (r *runner) withRepo(fn func(ctx context.Context, repo storage.Repository, user *models.User) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		user, err := r.app.CurrentUser()
		if err != nil {
			return err
		}
		repo, err := r.app.Repository()
		if err != nil {
			return err
		}
		return fn(cmd.Context(), repo, user)
	}
}

func (r *runner) groupsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "groups",
		Aliases: []string{"group", "g"},
		Short:   "Browse and create prayer groups",
	}
	cmd.AddCommand(r.groupsListCmd(), r.groupsShowCmd(), r.groupsCreateCmd())
	return cmd
}

func (r *runner) groupsListCmd() *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List prayer groups",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "only groups whose name or description contains this text")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return r.withRepo(func(ctx context.Context, repo storage.Repository, _ *models.User) error {
			groups, err := repo.ListGroups(ctx)
			if err != nil {
				return err
			}
			groups = models.FilterGroups(groups, search)
			out := cmd.OutOrStdout()
			if r.jsonOut {
				return printJSON(out, groups)
			}

			t := r.app.Locale.T
			fmt.Fprintln(out, r.app.style.heading(t("groups.title")))
			if len(groups) == 0 {
				fmt.Fprintln(out, t("groups.empty"))
				return nil
			}

			w := newTable(out)
			printTableHeader(w, "ID", "NAME", "MEMBERS", "CREATED", "DESCRIPTION")
			for _, g := range groups {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
					g.ID, g.Name, g.MemberCount, formatDate(g.CreatedAt), truncate(g.Description, 48))
			}
			return w.Flush()
		})(cmd, args)
	}
	return cmd
}

func (r *runner) groupsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <group-id>",
		Short: "Show a group and its prayer requests",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withRepo(func(ctx context.Context, repo storage.Repository, user *models.User) error {
				group, err := repo.GetGroup(ctx, args[0])
				if err != nil {
					return err
				}
				if group == nil {
					return fmt.Errorf("group %s: %w", args[0], storage.ErrNotFound)
				}
				reqs, err := repo.ListPrayerRequests(ctx, group.ID)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if r.jsonOut {
					return printJSON(out, map[string]any{"group": group, "prayerRequests": reqs})
				}

				fmt.Fprintln(out, r.app.style.heading(group.Name))
				if group.Description != "" {
					fmt.Fprintln(out, group.Description)
				}
				fmt.Fprintf(out, "%d member(s), created %s\n", group.MemberCount, formatDate(group.CreatedAt))
				if group.ImageURL != "" {
					fmt.Fprintf(out, "Image: %s\n", group.ImageURL)
				}
				fmt.Fprintln(out)
				return printRequests(out, reqs, user.ID)
			})(cmd, args)
		},
	}
}

func (r *runner) groupsCreateCmd() *cobra.Command {
	var in models.NewGroup
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a prayer group",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "group name (required)")
	cmd.Flags().StringVar(&in.Description, "description", "", "group description")
	cmd.Flags().StringVar(&in.ImageURL, "image", "", "image URL")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return r.withRepo(func(ctx context.Context, repo storage.Repository, user *models.User) error {
			in.CreatedBy = user.ID
			if err := models.Validate(in); err != nil {
				return err
			}
			group, err := repo.CreateGroup(ctx, in)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if r.jsonOut {
				return printJSON(out, group)
			}
			fmt.Fprintf(out, "Created group %s (%s)\n", group.Name, group.ID)
			return nil
		})(cmd, args)
	}
	return cmd
}
