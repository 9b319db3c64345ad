package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/projectpulse/pulse-backend/internal/client"
	"github.com/projectpulse/pulse-backend/internal/realtime"
	"github.com/projectpulse/pulse-backend/internal/realtime/reconcile"
	"github.com/projectpulse/pulse-backend/internal/validation"
)

// CtlOptions holds global flags for projectctl.
type CtlOptions struct {
	Server string
	Token  string
	Format string // "json" | "text"
}

func (o *CtlOptions) client() *client.Client {
	return client.New(o.Server, client.WithToken(o.Token))
}

// NewCtlCommand creates the root command of the projectctl client.
func NewCtlCommand() *cobra.Command {
	opts := &CtlOptions{}

	cmd := &cobra.Command{
		Use:           "projectctl",
		Short:         "Command line client for the project tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Format != "text" && opts.Format != "json" {
				return fmt.Errorf("invalid format %q: must be text or json", opts.Format)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Server, "server", envOr("PULSE_SERVER", "http://localhost:8080"), "API base URL")
	cmd.PersistentFlags().StringVar(&opts.Token, "token", os.Getenv("PULSE_TOKEN"), "session token (or PULSE_TOKEN)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewCreateCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))
	return cmd
}

func NewLoginCommand(opts *CtlOptions) *cobra.Command {
	var in validation.LoginInput

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in (registering on first use) and print the token",
		Example: `  projectctl login --username alice --password secret123 --role admin
  export PULSE_TOKEN=$(projectctl login -u alice -p secret123 -r admin)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.client().Login(cmd.Context(), in)
			if err != nil {
				return explain(cmd.ErrOrStderr(), err)
			}
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), sess)
			}
			fmt.Fprintln(cmd.OutOrStdout(), sess.Token)
			return nil
		},
	}

	cmd.Flags().StringVarP(&in.Username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&in.Password, "password", "p", "", "password")
	cmd.Flags().StringVarP(&in.Role, "role", "r", "viewer", "role for a new account (admin|viewer)")
	return cmd
}

func NewListCommand(opts *CtlOptions) *cobra.Command {
	var q validation.QueryInput

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := opts.client().ListProjects(cmd.Context(), q)
			if err != nil {
				return explain(cmd.ErrOrStderr(), err)
			}
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), projects)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tPRIORITY\tDUE")
			for _, p := range projects {
				due := "-"
				if p.DueDate != nil {
					due = p.DueDate.String()
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Title, p.Status, p.Priority, due)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&q.Search, "search", "", "substring of title or description")
	cmd.Flags().StringVar(&q.Status, "status", "", "planning|in-progress|completed|on-hold")
	cmd.Flags().StringVar(&q.Priority, "priority", "", "low|medium|high|urgent")
	return cmd
}

func NewCreateCommand(opts *CtlOptions) *cobra.Command {
	var title, description, status, priority, due string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := validation.ProjectInput{Title: &title, Description: &description}
			if cmd.Flags().Changed("status") {
				in.Status = &status
			}
			if cmd.Flags().Changed("priority") {
				in.Priority = &priority
			}
			if due != "" {
				in.DueDate = &due
			}

			p, err := opts.client().CreateProject(cmd.Context(), in)
			if err != nil {
				return explain(cmd.ErrOrStderr(), err)
			}
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), p)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s %q\n", p.ID, p.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "title (3-100 characters)")
	cmd.Flags().StringVar(&description, "description", "", "description (10-1000 characters)")
	cmd.Flags().StringVar(&status, "status", "", "initial status (default planning)")
	cmd.Flags().StringVar(&priority, "priority", "", "priority (default medium)")
	cmd.Flags().StringVar(&due, "due", "", "due date, YYYY-MM-DD")
	return cmd
}

func NewWatchCommand(opts *CtlOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print live project events until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c := opts.client()
			out := cmd.OutOrStdout()

			projects := reconcile.NewProjects()
			feed := reconcile.NewFeed()

			list, err := c.ListProjects(ctx, validation.QueryInput{})
			if err != nil {
				return explain(cmd.ErrOrStderr(), err)
			}
			projects.Reset(list)

			notes, err := c.Notifications(ctx)
			if err != nil {
				return explain(cmd.ErrOrStderr(), err)
			}
			feed.Reset(notes)
			fmt.Fprintf(out, "%d projects, %d unread notifications\n", projects.Len(), feed.Unread())

			return c.Watch(ctx, func(ev realtime.Event) {
				changed := projects.Apply(ev)
				feed.Apply(ev)
				if opts.Format == "json" {
					_ = writeJSON(out, ev)
					return
				}
				msg := string(ev.Kind)
				if ev.Notification != nil {
					msg = ev.Notification.Message
				}
				if !changed {
					msg += " (already applied)"
				}
				fmt.Fprintf(out, "%s  [%d projects, %d unread]\n", msg, projects.Len(), feed.Unread())
			})
		},
	}
}

func explain(w io.Writer, err error) error {
	if client.IsValidation(err) {
		fmt.Fprintln(w, "validation failed:")
		for _, field := range validationDetails(err) {
			fmt.Fprintf(w, "  %s\n", field)
		}
	}
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
