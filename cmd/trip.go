package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/planpal/planpal-services/internal/app"
	"github.com/planpal/planpal-services/internal/app/nav"
	"github.com/planpal/planpal-services/internal/app/toast"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	tripEmail    string
	tripPassword string
	tripBaseURL  string
	groupName    string
	groupDesc    string
	groupMembers []string
)

var tripCmd = &cobra.Command{
	Use:   "trip",
	Short: "Plan trips against a running PlanPal service",
}

var tripGroupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List the groups you belong to",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client, err := signedInApp(ctx)
		if err != nil {
			return err
		}

		if err := client.Open(ctx, nav.MyTrip); err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tMEMBERS\tDESCRIPTION")
		for _, g := range client.Trips.Groups() {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", g.ID, g.Name, len(g.Members)+1, g.Description)
		}
		return w.Flush()
	},
}

var tripEventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List upcoming events of all your groups",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client, err := signedInApp(ctx)
		if err != nil {
			return err
		}

		if err := client.Open(ctx, nav.MyEvents); err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tTITLE\tGROUP\tLOCATION\tEDITABLE")
		for _, item := range client.Events.Items() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n",
				item.Event.Date.Local().Format(time.DateTime), item.Event.Title, item.Group.Name, item.Event.Location, client.Events.CanEdit(item))
		}
		return w.Flush()
	},
}

var tripCreateGroupCmd = &cobra.Command{
	Use:   "create-group",
	Short: "Create a group, inviting members by email",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client, err := signedInApp(ctx)
		if err != nil {
			return err
		}

		if err := client.Open(ctx, nav.Create); err != nil {
			return err
		}

		form := client.CreateGroup
		form.SetName(groupName)
		form.SetDescription(groupDesc)
		for _, m := range groupMembers {
			if err := form.AddMember(m); err != nil {
				return err
			}
		}

		if err := form.Submit(ctx); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created group %q\n", groupName)
		return nil
	},
}

var tripDestinationsCmd = &cobra.Command{
	Use:   "destinations",
	Short: "List the pages of the app and who may visit them",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PATH\tACCESS")
		for _, p := range nav.PublicDestinations() {
			fmt.Fprintf(w, "%s\t%s\n", p, "anyone")
		}
		for _, p := range nav.ProtectedDestinations() {
			fmt.Fprintf(w, "%s\t%s\n", p, "members")
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(tripCmd)
	tripCmd.AddCommand(tripGroupsCmd, tripEventsCmd, tripCreateGroupCmd, tripDestinationsCmd)

	tripCmd.PersistentFlags().StringVar(&tripEmail, "email", "", "account email")
	tripCmd.PersistentFlags().StringVar(&tripPassword, "password", "", "account password (defaults to $PLANPAL_PASSWORD)")
	tripCmd.PersistentFlags().StringVar(&tripBaseURL, "base-url", "", "service URL, overriding the config file")

	tripCreateGroupCmd.Flags().StringVar(&groupName, "name", "", "group name")
	tripCreateGroupCmd.Flags().StringVar(&groupDesc, "description", "", "group description")
	tripCreateGroupCmd.Flags().StringSliceVar(&groupMembers, "member", nil, "member email, may be repeated")
}

// signedInApp builds the client core and signs in with the command line
// credentials. Toasts go to the log.
func signedInApp(ctx context.Context) (*app.App, error) {
	loadConfig()

	cfg := appCfg.Client
	if tripBaseURL != "" {
		cfg.BaseURL = tripBaseURL
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("no service URL configured")
	}

	password := tripPassword
	if password == "" {
		password = os.Getenv("PLANPAL_PASSWORD")
	}

	client := app.New(cfg, toast.LogNotifier{Logger: log.Logger})
	if err := client.SignIn(ctx, tripEmail, password); err != nil {
		return nil, fmt.Errorf("sign in failed: %w", err)
	}
	return client, nil
}
