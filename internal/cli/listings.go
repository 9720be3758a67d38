package cli

import (
	"errors"
	"time"

	"vagas-cli/internal/model"
	"vagas-cli/internal/normalize"
	"vagas-cli/internal/store"
	"vagas-cli/internal/view"

	"github.com/spf13/cobra"
)

func newAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <company> <link> [date]",
		Short: "Add a listing, or replace the one sharing its link",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			company := normalize.Sanitize(args[0])
			link := normalize.Sanitize(args[1])
			date := time.Now().Format("2006-01-02")
			if len(args) == 3 {
				date = normalize.CanonicalDate(args[2])
			}

			if company == "" {
				return errors.New(store.ReasonEmptyCompany)
			}
			if !normalize.ValidLink(link) {
				return errors.New(store.ReasonInvalidLink)
			}
			if date == "" {
				return errors.New(store.ReasonInvalidDate)
			}

			db, s, err := loadDB(app)
			if err != nil {
				return err
			}
			rec := model.Listing{Company: company, Link: link, Date: date, Completed: false}
			replaced, err := s.Upsert(db, rec)
			if err != nil {
				return err
			}
			action := "added"
			if replaced {
				action = "updated"
			}
			return writeOut(cmd, app, map[string]any{"action": action, "listing": rec})
		},
	}
}

func newListCmd(app *App) *cobra.Command {
	var sortCol string
	var desc bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List listings in display order (incomplete first)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var sortState model.SortState
			if sortCol != "" {
				col, err := model.ParseColumn(sortCol)
				if err != nil {
					return err
				}
				sortState.Column = col
			}
			sortState.Desc = desc

			db, _, err := loadDB(app)
			if err != nil {
				return err
			}
			rows := view.Project(db.All(), sortState)
			out := make([]model.Listing, 0, len(rows))
			for _, r := range rows {
				out = append(out, r.Listing)
			}
			return writeOut(cmd, app, out)
		},
	}

	cmd.Flags().StringVar(&sortCol, "sort", "", "Sort column (empresa|link|data)")
	cmd.Flags().BoolVar(&desc, "desc", false, "Sort descending")
	return cmd
}

func newEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <link> <column> <value>",
		Short: "Edit one field of the listing keyed by link",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			link := normalize.Sanitize(args[0])
			col, err := model.ParseColumn(args[1])
			if err != nil {
				return err
			}

			db, s, err := loadDB(app)
			if err != nil {
				return err
			}
			if _, ok := db.FindListing(link); !ok {
				return errNotFound(link)
			}
			if err := s.UpdateField(db, link, col, args[2]); err != nil {
				return err
			}
			l, _ := db.FindListing(keyAfterEdit(link, col, args[2]))
			return writeOut(cmd, app, l)
		},
	}
}

// keyAfterEdit returns the lookup key for the record just edited: editing
// the link column moves the record to its new key.
func keyAfterEdit(link string, col model.Column, raw string) string {
	if col == model.ColumnLink {
		return normalize.Sanitize(raw)
	}
	return link
}

func newCompleteCmd(app *App) *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "complete <link>",
		Short: "Mark a listing completed (or not, with --undo)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			link := normalize.Sanitize(args[0])
			db, s, err := loadDB(app)
			if err != nil {
				return err
			}
			found, err := s.SetCompleted(db, link, !undo)
			if err != nil {
				return err
			}
			if !found {
				return errNotFound(link)
			}
			l, _ := db.FindListing(link)
			return writeOut(cmd, app, l)
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "Mark as not completed")
	return cmd
}

func newRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <link>",
		Short: "Remove the listing keyed by link (immediate; the TUI uses a countdown)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			link := normalize.Sanitize(args[0])
			db, s, err := loadDB(app)
			if err != nil {
				return err
			}
			removed, err := s.Remove(db, link)
			if err != nil {
				return err
			}
			if !removed {
				return errNotFound(link)
			}
			return writeOut(cmd, app, map[string]any{"removed": link, "remaining": len(db.Listings)})
		},
	}
}
