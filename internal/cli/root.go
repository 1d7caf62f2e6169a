// Package cli is the scriptable command surface over the tracking
// controller. Running the binary with no subcommand in a terminal opens
// the TUI instead.
package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nhle/airdrop-tracker/internal/model"
	"github.com/nhle/airdrop-tracker/internal/tracker"
)

// App holds everything the commands need.
type App struct {
	Tracker    *tracker.Controller
	ConfigPath string
	Config     *model.AppConfig

	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool
	// RunTUI launches the full-screen interface.
	RunTUI func() error
	// Confirm asks a yes/no question. Defaults to a huh confirm prompt.
	Confirm func(title string) (bool, error)
}

// NewRootCmd creates the top-level "airdrops" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	if app.Confirm == nil {
		app.Confirm = huhConfirm
	}

	root := &cobra.Command{
		Use:           "airdrops",
		Short:         "Track crypto airdrops and their daily tasks",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.RunTUI != nil && app.interactive() {
				return app.RunTUI()
			}
			return runList(cmd, app, "")
		},
	}

	root.AddCommand(
		newListCmd(app),
		newAddCmd(app),
		newUpdateCmd(app),
		newRemoveCmd(app),
		newMoveCmd(app),
		newDoneCmd(app),
		newTaskCmd(app),
		newTypesCmd(app),
		newConfigCmd(app),
	)

	return root
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// load fills the controller's cache. Task lists that fail to load are
// reported as a warning; only a failed airdrop list is fatal.
func (a *App) load(cmd *cobra.Command) error {
	report, err := a.Tracker.Load(ctx(cmd))
	if err != nil {
		return err
	}
	if n := len(report.TaskErrors); n > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %d task lists could not be loaded\n", n)
	}
	return nil
}

func huhConfirm(title string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithShowHelp(false).Run()
	return ok, err
}

// ctx returns the command's context, falling back to Background when the
// command was executed without one.
func ctx(cmd *cobra.Command) context.Context {
	if c := cmd.Context(); c != nil {
		return c
	}
	return context.Background()
}
