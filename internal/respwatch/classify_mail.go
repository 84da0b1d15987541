package respwatch

import (
	"strings"

	"energysink-engine/internal/identity"
)

// ResponseClass buckets employer mail by how meaningful the response is.
type ResponseClass string

const (
	ClassInterview       ResponseClass = "interview"
	ClassRejection       ResponseClass = "rejection"
	ClassAcknowledgement ResponseClass = "acknowledgement"
)

var (
	interviewTerms = []string{
		"interview", "schedule a call", "phone screen", "next steps",
		"calendly", "hirevue", "availability",
	}
	rejectionTerms = []string{
		"unfortunately", "not moving forward", "other candidates",
		"we regret", "will not be proceeding",
	}
	ackTerms = []string{
		"application received", "thank you for applying",
		"we received your application", "application-received",
		"successfully submitted",
	}
	// Bulk-sender prefixes that are alerts, not responses.
	noiseSenders = []string{"jobalerts", "noreply+alerts", "jobs-noreply", "alerts@"}
)

// ClassifyMessage decides whether an email is a meaningful employer response
// and which class it falls into. Subject and sender only.
func ClassifyMessage(subject, from string) (ResponseClass, bool) {
	lf := strings.ToLower(from)
	for _, noise := range noiseSenders {
		if strings.Contains(lf, noise) {
			return "", false
		}
	}

	ls := strings.ToLower(subject)
	for _, t := range interviewTerms {
		if strings.Contains(ls, t) {
			return ClassInterview, true
		}
	}
	for _, t := range rejectionTerms {
		if strings.Contains(ls, t) {
			return ClassRejection, true
		}
	}
	for _, t := range ackTerms {
		if strings.Contains(ls, t) {
			return ClassAcknowledgement, true
		}
	}
	return "", false
}

// CompanyKeyFromSender extracts the normalized company key from a sender
// address: the registrable label of the domain, so "talent@mail.acme.com"
// keys as "acme".
func CompanyKeyFromSender(from string) string {
	at := strings.LastIndex(from, "@")
	if at < 0 || at == len(from)-1 {
		return ""
	}
	domain := strings.ToLower(strings.Trim(from[at+1:], " >"))
	parts := strings.Split(domain, ".")
	if len(parts) < 2 {
		return identity.NormalizeKey(domain)
	}
	return identity.NormalizeKey(parts[len(parts)-2])
}
