package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"vagas-cli/internal/format"
	"vagas-cli/internal/store"
	"vagas-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	PrettyJSON bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "vagas",
		Short:        "Local-first job application tracker (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  vagas

  # Scriptable commands
  vagas add "Acme" https://acme.example/job 2024-01-10
  vagas list --sort data
  vagas import 'https://malgany.github.io/lista-vagas?vagas=...'
  vagas share --copy
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("VAGAS_DIR", ""), "Path to the data dir (default: ~/.vagas)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newCompleteCmd(app))
	cmd.AddCommand(newRemoveCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newShareCmd(app))

	return cmd
}

func runTUI(app *App) error {
	db, s, err := loadDB(app)
	if err != nil {
		// Unreadable state degrades to an empty store; the session must
		// still start (save failures surface as notifications later).
		fmt.Fprintf(os.Stderr, "warning: could not load store: %v\n", err)
	}
	return tui.Run(s, db)
}

func loadDB(app *App) (*store.DB, store.Store, error) {
	dir := app.Dir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return &store.DB{}, store.Store{}, err
		}
		dir = filepath.Join(home, ".vagas")
		app.Dir = dir
	}

	s := store.Store{Dir: dir}
	db, err := s.Load()
	return db, s, err
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.PrettyJSON)
}
