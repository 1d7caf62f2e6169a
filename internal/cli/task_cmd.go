package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/airdrop-tracker/internal/ledger"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage an airdrop's daily tasks",
	}

	cmd.AddCommand(
		newTaskListCmd(app),
		newTaskAddCmd(app),
		newTaskRemoveCmd(app),
	)

	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list AIRDROP",
		Aliases: []string{"ls"},
		Short:   "List an airdrop's daily tasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.load(cmd); err != nil {
				return err
			}
			a, err := resolveAirdrop(app, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			tasks := app.Tracker.Tasks(a.ID)
			if len(tasks) == 0 {
				fmt.Fprintf(out, "%s has no daily tasks. Add one with: airdrops task add %d TITLE\n", a.Name, a.ID)
				return nil
			}

			today := app.Tracker.Today()
			now := app.Tracker.Now()
			rows := make([][]string, 0, len(tasks))
			for _, t := range tasks {
				mark := "○"
				if ledger.IsDoneOn(t, today) {
					mark = styleDone.Render("✓")
				}
				streak := ""
				if s := ledger.Streak(t, now); s > 0 {
					streak = strconv.Itoa(s)
				}
				rows = append(rows, []string{mark, strconv.FormatInt(t.ID, 10), t.Title, streak})
			}

			p := app.Tracker.Progress(a.ID)
			fmt.Fprintf(out, "%s  %s\n\n", a.Name, renderProgress(p.Completed, p.Total, 10))
			fmt.Fprint(out, renderTable([]string{"", "ID", "TASK", "STREAK"}, rows))
			return nil
		},
	}
}

func newTaskAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add AIRDROP TITLE...",
		Short: "Add a daily task to the end of an airdrop's list",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.load(cmd); err != nil {
				return err
			}
			a, err := resolveAirdrop(app, args[0])
			if err != nil {
				return err
			}

			title := strings.Join(args[1:], " ")
			id, err := app.Tracker.AddTask(ctx(cmd), a.ID, title)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added task %q to %s [%d]\n", strings.TrimSpace(title), a.Name, id)
			return nil
		},
	}
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm TASK_ID",
		Aliases: []string{"remove"},
		Short:   "Delete a daily task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.load(cmd); err != nil {
				return err
			}
			t, err := resolveTask(app, args[0])
			if err != nil {
				return err
			}
			if err := app.Tracker.DeleteTask(ctx(cmd), t.ID, t.AirdropID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %q\n", t.Title)
			return nil
		},
	}
}
