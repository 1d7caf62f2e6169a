package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/airdrop-tracker/internal/model"
	"github.com/nhle/airdrop-tracker/internal/tracker"
)

func newListCmd(app *App) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List airdrops with today's progress",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, app, search)
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Only show airdrops whose name contains this text")

	return cmd
}

func runList(cmd *cobra.Command, app *App, search string) error {
	if err := app.load(cmd); err != nil {
		return err
	}
	app.Tracker.SetFilter(search)
	visible := app.Tracker.Visible()

	out := cmd.OutOrStdout()
	if len(visible) == 0 {
		if app.Tracker.Filtered() {
			fmt.Fprintf(out, "No airdrops match %q.\n", search)
		} else {
			fmt.Fprintln(out, "No airdrops yet. Add one with: airdrops add NAME")
		}
		return nil
	}

	// "#" is the position in the unfiltered list, which is what move takes.
	index := make(map[int64]int, len(visible))
	for i, a := range app.Tracker.Items() {
		index[a.ID] = i + 1
	}

	rows := make([][]string, 0, len(visible))
	for _, a := range visible {
		p := app.Tracker.Progress(a.ID)
		status := ""
		if !a.Active {
			status = styleDim.Render("inactive")
		}
		rows = append(rows, []string{
			strconv.Itoa(index[a.ID]),
			strconv.FormatInt(a.ID, 10),
			a.Name,
			model.StringValue(a.Chain),
			renderProgress(p.Completed, p.Total, 10),
			status,
		})
	}

	fmt.Fprintf(out, "Today %s\n\n", app.Tracker.Today())
	fmt.Fprint(out, renderTable([]string{"#", "ID", "NAME", "CHAIN", "TODAY", ""}, rows))
	return nil
}

func newAddCmd(app *App) *cobra.Command {
	var url, chain, typeRef, wallet, notes string
	var inactive bool

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Track a new airdrop",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.load(cmd); err != nil {
				return err
			}

			draft := model.AirdropDraft{
				Name:          strings.TrimSpace(args[0]),
				URL:           strings.TrimSpace(url),
				Chain:         model.OptionalString(strings.TrimSpace(chain)),
				WalletAddress: model.OptionalString(strings.TrimSpace(wallet)),
				Notes:         model.OptionalString(strings.TrimSpace(notes)),
				Active:        !inactive,
			}

			if typeRef != "" {
				types, err := app.Tracker.Types(ctx(cmd))
				if err != nil {
					return err
				}
				t, err := resolveType(types, typeRef)
				if err != nil {
					return err
				}
				draft.AirdropTypeID = &t.ID
			}

			id, err := app.Tracker.Create(ctx(cmd), draft)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added airdrop %s [%d]", draft.Name, id)
			if n := len(app.Tracker.Tasks(id)); n > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), " with %d daily tasks", n)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "Campaign URL (http:// or https://)")
	cmd.Flags().StringVar(&chain, "chain", "", "Chain or category label")
	cmd.Flags().StringVar(&typeRef, "type", "", "Airdrop type id or name; seeds its default tasks")
	cmd.Flags().StringVar(&wallet, "wallet", "", "Wallet address used for this airdrop")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "Create the airdrop paused")

	return cmd
}

func newUpdateCmd(app *App) *cobra.Command {
	var name, url, chain, wallet, notes string
	var active bool

	cmd := &cobra.Command{
		Use:   "update AIRDROP",
		Short: "Change an airdrop's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.load(cmd); err != nil {
				return err
			}
			a, err := resolveAirdrop(app, args[0])
			if err != nil {
				return err
			}

			var patch model.AirdropPatch
			flags := cmd.Flags()
			if flags.Changed("name") {
				patch.Name = &name
			}
			if flags.Changed("url") {
				patch.URL = &url
			}
			if flags.Changed("chain") {
				patch.Chain = &chain
			}
			if flags.Changed("wallet") {
				patch.WalletAddress = &wallet
			}
			if flags.Changed("notes") {
				patch.Notes = &notes
			}
			if flags.Changed("active") {
				patch.Active = &active
			}
			if patch.IsEmpty() {
				return fmt.Errorf("nothing to update: pass at least one of --name, --url, --chain, --wallet, --notes, --active")
			}

			if err := app.Tracker.Update(ctx(cmd), a.ID, patch); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated airdrop %s [%d]\n", a.Name, a.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&url, "url", "", "New URL; empty clears it")
	cmd.Flags().StringVar(&chain, "chain", "", "New chain; empty clears it")
	cmd.Flags().StringVar(&wallet, "wallet", "", "New wallet address; empty clears it")
	cmd.Flags().StringVar(&notes, "notes", "", "New notes; empty clears them")
	cmd.Flags().BoolVar(&active, "active", true, "Set active (--active=false pauses)")

	return cmd
}

func newRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm AIRDROP",
		Aliases: []string{"remove"},
		Short:   "Delete an airdrop and its daily tasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.load(cmd); err != nil {
				return err
			}
			a, err := resolveAirdrop(app, args[0])
			if err != nil {
				return err
			}

			var promptErr error
			err = app.Tracker.Delete(ctx(cmd), a.ID, func(item model.Airdrop) bool {
				if yes {
					return true
				}
				if !app.interactive() {
					promptErr = fmt.Errorf("refusing to delete %q without --yes in a non-interactive session", item.Name)
					return false
				}
				ok, err := app.Confirm(fmt.Sprintf("Delete airdrop %q and its daily tasks?", item.Name))
				promptErr = err
				return ok
			})
			if promptErr != nil {
				return promptErr
			}
			if errors.Is(err, tracker.ErrDeclined) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted airdrop %s [%d]\n", a.Name, a.ID)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking")

	return cmd
}

func newMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move FROM TO",
		Short: "Move the airdrop at list position FROM to position TO (1-based)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid position %q", args[0])
			}
			to, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid position %q", args[1])
			}

			if err := app.load(cmd); err != nil {
				return err
			}
			items := app.Tracker.Items()
			if err := app.Tracker.Reorder(ctx(cmd), from-1, to-1); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to position %d\n", items[from-1].Name, to)
			return nil
		},
	}
}

func newDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done TASK_ID",
		Short: "Mark a daily task done for today",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.load(cmd); err != nil {
				return err
			}
			t, err := resolveTask(app, args[0])
			if err != nil {
				return err
			}

			err = app.Tracker.MarkTaskDone(ctx(cmd), t.ID, t.AirdropID)
			if errors.Is(err, tracker.ErrAlreadyDone) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is already done today.\n", t.Title)
				return nil
			}
			if err != nil {
				return err
			}

			p := app.Tracker.Progress(t.AirdropID)
			fmt.Fprintf(cmd.OutOrStdout(), "Done: %s (%d/%d today)\n", t.Title, p.Completed, p.Total)
			return nil
		},
	}
}
