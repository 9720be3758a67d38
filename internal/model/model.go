package model

import (
	"bytes"
	"fmt"
	"strings"
)

// Listing is one tracked job application. Link is the unique key across the
// live collection; uniqueness is enforced at every mutation point.
//
// The JSON field names (empresa/link/data/concluido) are the wire format of
// both the persisted state and the share payload and are fixed for backward
// compatibility.
type Listing struct {
	Company   string `json:"empresa"`
	Link      string `json:"link"`
	Date      string `json:"data"` // YYYY-MM-DD
	Completed bool   `json:"concluido"`
}

// WireListing is the tolerant decode shape used for imports and for loading
// legacy persisted data: the date may still be slash-formatted and concluido
// may be the string "true" instead of a JSON bool.
type WireListing struct {
	Company   string   `json:"empresa"`
	Link      string   `json:"link"`
	Date      string   `json:"data"`
	Completed FlexBool `json:"concluido"`
}

// FlexBool unmarshals JSON true or the string "true" as true; every other
// value (false, other strings, null, numbers) is false. Decoding never fails
// on shape: import candidates with junk flags are still considered, they just
// come in as not-completed.
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	s := string(bytes.TrimSpace(data))
	*b = FlexBool(s == "true" || s == `"true"`)
	return nil
}

func (b FlexBool) MarshalJSON() ([]byte, error) {
	if b {
		return []byte("true"), nil
	}
	return []byte("false"), nil
}

// Column identifies an editable/sortable listing field. Values match the
// wire field names.
type Column string

const (
	ColumnCompany Column = "empresa"
	ColumnLink    Column = "link"
	ColumnDate    Column = "data"
)

// ParseColumn accepts wire names and their English aliases.
func ParseColumn(s string) (Column, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "empresa", "company":
		return ColumnCompany, nil
	case "link", "url":
		return ColumnLink, nil
	case "data", "date":
		return ColumnDate, nil
	default:
		return "", fmt.Errorf("invalid column: %q (expected empresa|link|data)", s)
	}
}

// SortState is the transient view ordering preference. The zero value (no
// column) keeps insertion order within each completion partition. It is not
// persisted.
type SortState struct {
	Column Column // "" means none
	Desc   bool
}

type ImportCounts struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}
