// Package view derives display orderings from store snapshots. It never
// mutates the store.
package view

import (
	"sort"
	"strings"

	"vagas-cli/internal/model"
)

// Row is one projected listing with its original insertion index attached.
// The index is the final tie-break key, so the projection is fully
// deterministic for every sort state.
type Row struct {
	Listing model.Listing
	Index   int
}

// Project orders a snapshot for display:
//
//  1. incomplete listings before completed ones
//  2. within a partition, the requested column (case-insensitive for
//     company/link; canonical ISO dates compare lexicographically by
//     calendar order), ascending or descending
//  3. always, original insertion index ascending
//
// The index capture happens before sorting: without it the completion
// partition alone would reshuffle equal elements between renders.
func Project(listings []model.Listing, sortState model.SortState) []Row {
	rows := make([]Row, len(listings))
	for i, l := range listings {
		rows[i] = Row{Listing: l, Index: i}
	}

	sort.Slice(rows, func(i, j int) bool {
		return compareRows(rows[i], rows[j], sortState) < 0
	})
	return rows
}

func compareRows(a, b Row, sortState model.SortState) int {
	if a.Listing.Completed != b.Listing.Completed {
		if a.Listing.Completed {
			return 1
		}
		return -1
	}

	if sortState.Column != "" {
		av := sortKey(a.Listing, sortState.Column)
		bv := sortKey(b.Listing, sortState.Column)
		if av != bv {
			less := av < bv
			if sortState.Desc {
				less = !less
			}
			if less {
				return -1
			}
			return 1
		}
	}

	// Deterministic tie-break regardless of sort state.
	if a.Index < b.Index {
		return -1
	}
	if a.Index > b.Index {
		return 1
	}
	return 0
}

func sortKey(l model.Listing, col model.Column) string {
	switch col {
	case model.ColumnCompany:
		return strings.ToLower(l.Company)
	case model.ColumnLink:
		return strings.ToLower(l.Link)
	case model.ColumnDate:
		return l.Date
	default:
		return ""
	}
}
