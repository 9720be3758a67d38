// Package share encodes the listing collection as a URL-embeddable token and
// decodes inbound tokens. Decoded candidates must always flow through
// Store.MergeImport so the usual validation and uniqueness rules apply.
package share

import (
	"encoding/json"
	"errors"
	"net/url"
	"strings"

	"vagas-cli/internal/model"
)

// BaseURL is the fixed share address. The payload rides in the "vagas" query
// parameter as a percent-encoded JSON array of wire listings.
const BaseURL = "https://malgany.github.io/lista-vagas"

const paramName = "vagas"

// BuildURL serializes the snapshot into a shareable address. Only the wire
// fields are emitted. An empty collection shares the bare base address.
func BuildURL(listings []model.Listing) string {
	if len(listings) == 0 {
		return BaseURL
	}
	payload, err := json.Marshal(listings)
	if err != nil {
		return BaseURL
	}
	return BaseURL + "?" + paramName + "=" + url.QueryEscape(string(payload))
}

// DecodeToken parses a share token into raw candidates. The token may be
// directly parseable JSON or carry one level of percent-encoding. Failure is
// non-fatal by contract: callers ignore the error and take no action.
func DecodeToken(token string) ([]model.WireListing, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("empty share token")
	}

	if wire, err := decodeJSONArray(token); err == nil {
		return wire, nil
	}
	unescaped, err := url.QueryUnescape(token)
	if err != nil {
		return nil, errors.New("undecodable share token")
	}
	wire, err := decodeJSONArray(unescaped)
	if err != nil {
		return nil, errors.New("undecodable share token")
	}
	return wire, nil
}

func decodeJSONArray(s string) ([]model.WireListing, error) {
	if !strings.HasPrefix(strings.TrimSpace(s), "[") {
		return nil, errors.New("not a JSON array")
	}
	var wire []model.WireListing
	if err := json.Unmarshal([]byte(s), &wire); err != nil {
		return nil, err
	}
	return wire, nil
}

// ImportParam extracts the share token from a pasted address. A bare token
// (no scheme, not a URL) is returned as-is, so `vagas import` accepts both
// full share URLs and raw payloads. The bool reports whether a token was
// present at all.
func ImportParam(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return raw, true
	}
	tok := u.Query().Get(paramName)
	if tok == "" {
		return "", false
	}
	return tok, true
}

// StripParam removes the share parameter from an address, preserving the
// rest of the query. Used when echoing back a cleaned address after import.
func StripParam(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	q := u.Query()
	q.Del(paramName)
	u.RawQuery = q.Encode()
	return u.String()
}
