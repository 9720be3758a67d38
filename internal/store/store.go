package store

import (
	"context"
	"fmt"
	"strings"

	"vagas-cli/internal/model"
	"vagas-cli/internal/normalize"
)

// DB is the in-memory listing collection. Slice order is insertion order and
// doubles as the projection tie-break key, so mutations must preserve
// positions (upsert replaces in place, remove splices).
//
// The DB is owned by the Store operations below; other packages get copied
// snapshots via All and request mutations through Store methods.
type DB struct {
	Listings []model.Listing
}

// Store owns durability for a DB. Every mutating operation persists the full
// collection before returning; see sqlite_state.go for the on-disk format.
type Store struct {
	Dir string
}

func (db *DB) FindListing(link string) (*model.Listing, bool) {
	for i := range db.Listings {
		if db.Listings[i].Link == link {
			return &db.Listings[i], true
		}
	}
	return nil, false
}

func (db *DB) indexOf(link string) int {
	for i := range db.Listings {
		if db.Listings[i].Link == link {
			return i
		}
	}
	return -1
}

// All returns a copied snapshot for projection. Callers may not mutate the
// store through it.
func (db *DB) All() []model.Listing {
	out := make([]model.Listing, len(db.Listings))
	copy(out, db.Listings)
	return out
}

// Upsert inserts rec, or fully replaces the listing sharing its link
// (replacement, not field merge). Reports whether an existing listing was
// replaced. Persists on success.
func (s Store) Upsert(db *DB, rec model.Listing) (replaced bool, err error) {
	if i := db.indexOf(rec.Link); i >= 0 {
		db.Listings[i] = rec
		replaced = true
	} else {
		db.Listings = append(db.Listings, rec)
	}
	return replaced, s.Save(db)
}

// MergeImport merges raw candidates into the collection.
//
// Per candidate: fields are sanitized, the date canonicalized, and the entry
// skipped (counted, never surfaced individually) unless company, link and
// date are non-empty and the link is a valid URL. A valid candidate with an
// unseen link is appended; one whose link exists replaces the existing
// listing only if any of company/date/completed differ — identical imports
// are no-ops and count as neither updated nor skipped.
//
// Persistence happens once, at the end, and only if something changed.
func (s Store) MergeImport(db *DB, candidates []model.WireListing) (model.ImportCounts, error) {
	var counts model.ImportCounts
	for _, raw := range candidates {
		company := normalize.Sanitize(raw.Company)
		link := normalize.Sanitize(raw.Link)
		date := normalize.CanonicalDate(raw.Date)
		completed := bool(raw.Completed)

		if company == "" || link == "" || date == "" || !normalize.ValidLink(link) {
			counts.Skipped++
			continue
		}

		rec := model.Listing{Company: company, Link: link, Date: date, Completed: completed}
		i := db.indexOf(link)
		if i < 0 {
			db.Listings = append(db.Listings, rec)
			counts.Added++
			continue
		}
		existing := db.Listings[i]
		if existing.Company != company || existing.Date != date || existing.Completed != completed {
			db.Listings[i] = rec
			counts.Updated++
		}
	}

	if counts.Added+counts.Updated > 0 {
		if err := s.Save(db); err != nil {
			return counts, err
		}
	}
	return counts, nil
}

// SetCompleted flips the completion flag in place. Absent links are a no-op
// (no persistence); the bool reports whether the listing was found.
func (s Store) SetCompleted(db *DB, link string, v bool) (bool, error) {
	l, ok := db.FindListing(link)
	if !ok {
		return false, nil
	}
	l.Completed = v
	return true, s.Save(db)
}

// UpdateField validates rawValue for col and, on success, replaces the full
// listing with only that field changed, then persists. Failures are
// *ValidationError values and leave the store untouched and unpersisted:
//
// - company: empty after trim
// - link: not an absolute URL, or colliding with a different listing's link
// - date: not normalizable to a canonical calendar date
func (s Store) UpdateField(db *DB, link string, col model.Column, rawValue string) error {
	i := db.indexOf(link)
	if i < 0 {
		return fmt.Errorf("listing not found: %s", link)
	}

	val := normalize.Sanitize(rawValue)
	next := db.Listings[i]

	switch col {
	case model.ColumnCompany:
		if val == "" {
			return errValidation(ReasonEmptyCompany)
		}
		next.Company = val
	case model.ColumnLink:
		if !normalize.ValidLink(val) {
			return errValidation(ReasonInvalidLink)
		}
		if j := db.indexOf(val); j >= 0 && j != i {
			return errValidation(ReasonDuplicateLink)
		}
		next.Link = val
	case model.ColumnDate:
		iso := normalize.CanonicalDate(val)
		if iso == "" {
			return errValidation(ReasonInvalidDate)
		}
		next.Date = iso
	default:
		return fmt.Errorf("invalid column: %q", string(col))
	}

	db.Listings[i] = next
	return s.Save(db)
}

// Remove deletes the listing with the given link, preserving the relative
// order of the rest. Reports whether anything was removed; persists only
// when something was.
func (s Store) Remove(db *DB, link string) (bool, error) {
	i := db.indexOf(link)
	if i < 0 {
		return false, nil
	}
	db.Listings = append(db.Listings[:i], db.Listings[i+1:]...)
	return true, s.Save(db)
}

// Load reads the persisted collection, applying load-time normalization:
// legacy slash dates become canonical and a missing completed flag defaults
// to false. A missing or unreadable state yields an empty DB — persistence
// failures at the load boundary are never fatal.
func (s Store) Load() (*DB, error) {
	return s.loadSQLite(context.Background())
}

// Save atomically writes the entire collection in current order.
func (s Store) Save(db *DB) error {
	return s.saveSQLite(context.Background(), db)
}

// listingsFromWire applies the load/import normalization shared by the
// sqlite loader and the legacy-file importer. Unlike MergeImport it does not
// reject entries: persisted data is trusted, only reshaped.
func listingsFromWire(wire []model.WireListing) []model.Listing {
	out := make([]model.Listing, 0, len(wire))
	for _, w := range wire {
		date := w.Date
		if strings.Contains(date, "/") {
			if iso := normalize.CanonicalDate(date); iso != "" {
				date = iso
			}
		}
		out = append(out, model.Listing{
			Company:   w.Company,
			Link:      w.Link,
			Date:      date,
			Completed: bool(w.Completed),
		})
	}
	return out
}
