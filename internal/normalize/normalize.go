package normalize

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

var (
	reISODate   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	reSlashDate = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
)

// CanonicalDate normalizes a date to YYYY-MM-DD.
//
// Accepted inputs:
// - YYYY-MM-DD (already canonical)
// - DD/MM/YYYY (legacy display/form format)
//
// Anything else — including syntactically well-formed non-dates like
// 2024-02-31 — yields "". Callers treat the empty result as a soft
// validation failure; this never panics or returns an error.
func CanonicalDate(s string) string {
	s = Sanitize(s)
	if s == "" {
		return ""
	}

	if m := reSlashDate.FindStringSubmatch(s); m != nil {
		s = fmt.Sprintf("%s-%s-%s", m[3], pad2(m[2]), pad2(m[1]))
	} else if !reISODate.MatchString(s) {
		return ""
	}

	// time.Parse with the civil layout rejects out-of-range calendar dates.
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return ""
	}
	return s
}

// DisplayDate formats a canonical date as DD/MM/YYYY. Best-effort: input
// that does not decompose into three dash-separated parts is returned
// unchanged rather than erased.
func DisplayDate(iso string) string {
	if iso == "" {
		return ""
	}
	parts := strings.Split(iso, "-")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return iso
	}
	return fmt.Sprintf("%s/%s/%s", pad2(parts[2]), pad2(parts[1]), parts[0])
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// ValidLink reports whether s parses as an absolute URL. Scheme and host are
// both required: url.Parse happily accepts bare words as opaque paths, which
// is not what "valid link" means for a listing.
func ValidLink(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// Sanitize trims surrounding whitespace.
func Sanitize(s string) string {
	return strings.TrimSpace(s)
}
