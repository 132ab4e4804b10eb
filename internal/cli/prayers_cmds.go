package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/oremus/internal/models"
	"github.com/mmynk/oremus/internal/storage"
)

const dateLayout = "2006-01-02"

func (r *runner) prayersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "prayers",
		Aliases: []string{"prayer", "p"},
		Short:   "Browse, create and mark prayer requests",
	}
	cmd.AddCommand(
		r.prayersListCmd(),
		r.prayersShowCmd(),
		r.prayersCreateCmd(),
		r.prayersToggleCmd(),
		r.prayersRemindCmd(),
	)
	return cmd
}

func (r *runner) prayersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <group-id>",
		Short: "List the prayer requests of a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withRepo(func(ctx context.Context, repo storage.Repository, user *models.User) error {
				reqs, err := repo.ListPrayerRequests(ctx, args[0])
				if err != nil {
					return err
				}
				if r.jsonOut {
					return printJSON(cmd.OutOrStdout(), reqs)
				}
				return printRequests(cmd.OutOrStdout(), reqs, user.ID)
			})(cmd, args)
		},
	}
}

func (r *runner) prayersShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <request-id>",
		Short: "Show a prayer request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withRepo(func(ctx context.Context, repo storage.Repository, user *models.User) error {
				req, err := repo.GetPrayerRequest(ctx, args[0])
				if err != nil {
					return err
				}
				if req == nil {
					return fmt.Errorf("prayer request %s: %w", args[0], storage.ErrNotFound)
				}
				return r.printRequest(cmd.OutOrStdout(), req, user.ID)
			})(cmd, args)
		},
	}
}

func (r *runner) prayersCreateCmd() *cobra.Command {
	var (
		in       models.NewPrayerRequest
		reqType  string
		reminder string
		endDate  string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a prayer request in a group",
		Args:  cobra.NoArgs,
	}
	flags := cmd.Flags()
	flags.StringVar(&in.GroupID, "group", "", "group ID (required)")
	flags.StringVar(&in.Title, "title", "", "title (required)")
	flags.StringVar(&in.Description, "description", "", "description")
	flags.StringVar(&reqType, "type", string(models.TypePrayer), "prayer, fast or nightPrayer")
	flags.StringVar(&reminder, "reminder", "", "daily reminder time, HH:MM")
	flags.StringVar(&endDate, "end-date", "", "last day of a fast, YYYY-MM-DD")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return r.withRepo(func(ctx context.Context, repo storage.Repository, user *models.User) error {
			t, err := models.ParseRequestType(reqType)
			if err != nil {
				return err
			}
			in.Type = t
			in.CreatedBy = user.ID
			if reminder != "" {
				in.ReminderTime = &reminder
			}
			if endDate != "" {
				d, err := time.ParseInLocation(dateLayout, endDate, time.Local)
				if err != nil {
					return fmt.Errorf("invalid end date %q: want YYYY-MM-DD", endDate)
				}
				in.EndDate = &d
			}
			if err := models.Validate(in); err != nil {
				return err
			}

			req, err := repo.CreatePrayerRequest(ctx, in)
			if err != nil {
				return err
			}
			if r.jsonOut {
				return printJSON(cmd.OutOrStdout(), req)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", r.app.Locale.T("prayer.created"), req.Title, req.ID)
			return nil
		})(cmd, args)
	}
	return cmd
}

func (r *runner) prayersToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <request-id>",
		Short: "Mark or unmark that you prayed for a request today",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withRepo(func(ctx context.Context, repo storage.Repository, user *models.User) error {
				req, err := repo.TogglePrayedToday(ctx, args[0], user.ID)
				if err != nil {
					return err
				}
				if r.jsonOut {
					return printJSON(cmd.OutOrStdout(), req)
				}
				if req.HasPrayed(user.ID) {
					fmt.Fprintf(cmd.OutOrStdout(), "Prayed today: %s (%d praying)\n", req.Title, len(req.PrayedToday))
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Unmarked: %s (%d praying)\n", req.Title, len(req.PrayedToday))
				}
				return nil
			})(cmd, args)
		},
	}
}

func (r *runner) prayersRemindCmd() *cobra.Command {
	var clearReminder bool
	cmd := &cobra.Command{
		Use:   "remind <request-id> [HH:MM]",
		Short: "Set or clear the daily reminder of a prayer request",
		Args:  cobra.RangeArgs(1, 2),
	}
	cmd.Flags().BoolVar(&clearReminder, "clear", false, "remove the reminder")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		var reminder *string
		switch {
		case clearReminder && len(args) == 2:
			return errors.New("pass either a time or --clear, not both")
		case !clearReminder && len(args) == 1:
			return errors.New("missing reminder time: pass HH:MM or --clear")
		case len(args) == 2:
			reminder = &args[1]
		}
		if err := models.ValidateReminder(reminder); err != nil {
			return err
		}

		return r.withRepo(func(ctx context.Context, repo storage.Repository, _ *models.User) error {
			req, err := repo.UpdateReminder(ctx, args[0], reminder)
			if err != nil {
				return err
			}
			if r.jsonOut {
				return printJSON(cmd.OutOrStdout(), req)
			}
			if req.ReminderTime == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Reminder cleared: %s\n", req.Title)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Reminder set for %s: %s\n", *req.ReminderTime, req.Title)
			}
			return nil
		})(cmd, args)
	}
	return cmd
}

func (r *runner) printRequest(w io.Writer, req *models.PrayerRequest, userID string) error {
	if r.jsonOut {
		return printJSON(w, req)
	}
	fmt.Fprintln(w, r.app.style.heading(req.Title))
	if req.Description != "" {
		fmt.Fprintln(w, req.Description)
	}

	tw := newTable(w)
	fmt.Fprintf(tw, "ID\t%s\n", req.ID)
	fmt.Fprintf(tw, "Group\t%s\n", req.GroupID)
	fmt.Fprintf(tw, "Type\t%s\n", req.Type)
	fmt.Fprintf(tw, "Created\t%s\n", formatDate(req.CreatedAt))
	if req.ReminderTime != nil {
		fmt.Fprintf(tw, "Reminder\t%s\n", *req.ReminderTime)
	}
	if req.EndDate != nil {
		fmt.Fprintf(tw, "Ends\t%s\n", formatDate(*req.EndDate))
	}
	fmt.Fprintf(tw, "Praying today\t%d\n", len(req.PrayedToday))
	fmt.Fprintf(tw, "You prayed\t%s\n", yesNo(req.HasPrayed(userID)))
	return tw.Flush()
}

// printRequests renders a request table; the PRAYED column is the current
// user's mark.
func printRequests(w io.Writer, reqs []*models.PrayerRequest, userID string) error {
	if len(reqs) == 0 {
		fmt.Fprintln(w, "No prayer requests yet")
		return nil
	}

	tw := newTable(w)
	printTableHeader(tw, "ID", "TITLE", "TYPE", "REMINDER", "PRAYING", "PRAYED")
	for _, req := range reqs {
		reminder := "-"
		if req.ReminderTime != nil {
			reminder = *req.ReminderTime
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			req.ID, truncate(req.Title, 40), req.Type, reminder, len(req.PrayedToday), yesNo(req.HasPrayed(userID)))
	}
	return tw.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
