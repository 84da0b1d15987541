package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"

	"energysink-engine/internal/domain"
)

// NormalizeKey lower-cases and collapses whitespace so "  Data Entry " and
// "data entry" address the same bucket. Empty input stays empty.
func NormalizeKey(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.ToLower(strings.TrimSpace(s))
}

// CanonicalizeJobURL reduces a job URL to scheme+host+path. Query strings and
// fragments carry tracking tokens and session noise, so two URLs differing
// only there must canonicalize identically.
func CanonicalizeJobURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.RawQuery = ""
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}

// Fingerprint derives the opaque JobIdentity key from a job URL: stable for
// the same canonical URL, not casually invertible. This is privacy hygiene,
// not access control, so a truncated digest is enough.
func Fingerprint(rawURL string) string {
	sum := sha256.Sum256([]byte(CanonicalizeJobURL(rawURL)))
	return hex.EncodeToString(sum[:])[:16]
}

// Natural builds the (company, position) identity with both keys normalized.
func Natural(company, position string) domain.JobIdentity {
	return domain.JobIdentity{
		CompanyKey:  NormalizeKey(company),
		PositionKey: NormalizeKey(position),
	}
}

// Opaque wraps a client-supplied fingerprint. The engine never sees the URL
// behind it.
func Opaque(fingerprint string) domain.JobIdentity {
	return domain.JobIdentity{Fingerprint: strings.TrimSpace(fingerprint)}
}
