package cli

import (
	"errors"

	"vagas-cli/internal/share"

	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <share-url-or-token>",
		Short: "Merge listings from a share URL or raw token",
		Long: `Decodes the share payload and merges it into the store.

Invalid entries are skipped and only counted; an entry whose link already
exists replaces the existing listing when any field differs, and is a no-op
when identical (re-importing the same payload changes nothing).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, ok := share.ImportParam(args[0])
			if !ok {
				return errors.New("no share payload found in argument")
			}
			wire, err := share.DecodeToken(token)
			if err != nil {
				return err
			}

			db, s, err := loadDB(app)
			if err != nil {
				return err
			}
			counts, err := s.MergeImport(db, wire)
			if err != nil {
				return err
			}
			return writeOut(cmd, app, counts)
		},
	}
}
