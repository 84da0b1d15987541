package domain

// JobIdentity is the key signals and scores are bucketed under. Exactly one
// addressing scheme is populated: the natural (company, position) pair, or
// the opaque URL fingerprint produced client-side so raw URLs never reach
// the engine. Identities are lookup keys only and never mutated.
type JobIdentity struct {
	CompanyKey  string
	PositionKey string
	Fingerprint string
}

// BucketKey is the storage key a signal bucket lives under.
func (id JobIdentity) BucketKey() string {
	if id.Fingerprint != "" {
		return "fp:" + id.Fingerprint
	}
	return id.CompanyKey + "|" + id.PositionKey
}

func (id JobIdentity) IsZero() bool {
	return id.CompanyKey == "" && id.PositionKey == "" && id.Fingerprint == ""
}
