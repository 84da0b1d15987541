package domain

import "time"

type SignalKind string

const (
	KindClick                SignalKind = "click"
	KindFileUpload           SignalKind = "file_upload"
	KindApplicationSubmitted SignalKind = "application_submitted"
	KindTimeSpent            SignalKind = "time_spent"
	KindObservedResponse     SignalKind = "observed_response"
)

// DefaultWeight is the effort contribution used when an inbound signal
// carries no explicit value. Unknown kinds stay recorded but weigh nothing.
func (k SignalKind) DefaultWeight() float64 {
	switch k {
	case KindClick:
		return 1
	case KindFileUpload:
		return 20
	case KindApplicationSubmitted:
		return 50
	case KindTimeSpent:
		return 1
	default:
		return 0
	}
}

func (k SignalKind) IsResponse() bool { return k == KindObservedResponse }

// EffortSignal is one observed applicant action. Immutable once recorded;
// metadata is an opaque bag and must never carry resume content or mail
// bodies.
type EffortSignal struct {
	Kind     SignalKind        `json:"kind"`
	Value    float64           `json:"value"`
	At       time.Time         `json:"at"`
	Metadata map[string]string `json:"metadata,omitempty"`
}
