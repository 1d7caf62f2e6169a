package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newTypesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "types",
		Aliases: []string{"type"},
		Short:   "Manage airdrop types and their default tasks",
	}

	cmd.AddCommand(
		newTypesListCmd(app),
		newTypesAddCmd(app),
	)

	return cmd
}

func newTypesListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List airdrop types",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			types, err := app.Tracker.Types(ctx(cmd))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(types) == 0 {
				fmt.Fprintln(out, "No airdrop types yet. Add one with: airdrops types add NAME --task TITLE")
				return nil
			}

			rows := make([][]string, 0, len(types))
			for _, t := range types {
				titles := make([]string, len(t.DefaultTasks))
				for i, d := range t.DefaultTasks {
					titles[i] = d.Title
				}
				rows = append(rows, []string{
					strconv.FormatInt(t.ID, 10),
					t.Name,
					strings.Join(titles, ", "),
				})
			}
			fmt.Fprint(out, renderTable([]string{"ID", "NAME", "DEFAULT TASKS"}, rows))
			return nil
		},
	}
}

func newTypesAddCmd(app *App) *cobra.Command {
	var tasks []string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create an airdrop type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := app.Tracker.CreateType(ctx(cmd), args[0], tasks)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created type %s [%d] with %d default tasks\n",
				strings.TrimSpace(args[0]), id, countNonBlank(tasks))
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&tasks, "task", "t", nil, "Default task title (repeatable)")

	return cmd
}

func countNonBlank(ss []string) int {
	n := 0
	for _, s := range ss {
		if strings.TrimSpace(s) != "" {
			n++
		}
	}
	return n
}
