package cli

import (
	"errors"

	"vagas-cli/internal/clipboard"
	"vagas-cli/internal/share"

	"github.com/spf13/cobra"
)

func newShareCmd(app *App) *cobra.Command {
	var copyFlag bool

	cmd := &cobra.Command{
		Use:   "share",
		Short: "Print the shareable URL encoding the whole store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return err
			}
			if len(db.Listings) == 0 {
				return errors.New("nothing to share (no listings)")
			}

			u := share.BuildURL(db.All())
			copied := false
			if copyFlag {
				if err := clipboard.Copy(u); err != nil {
					return err
				}
				copied = true
			}
			return writeOut(cmd, app, map[string]any{"url": u, "copied": copied})
		},
	}

	cmd.Flags().BoolVar(&copyFlag, "copy", false, "Also copy the URL to the system clipboard")
	return cmd
}
