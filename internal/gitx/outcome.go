package gitx

import "strings"

// Outcome is the tri-state result of a remote-publish attempt.
type Outcome int

const (
	// Accepted means the remote applied the update.
	Accepted Outcome = iota
	// Deferred means the remote provisionally accepted the update and
	// will materialize it asynchronously. Treated as forward progress.
	Deferred
	// Rejected means the remote refused the update outright.
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case Deferred:
		return "deferred"
	case Rejected:
		return "rejected"
	}
	return "unknown"
}

// deferralMarkers are matched case-insensitively against the diagnostic
// text of a failed push. This heuristic is a contract the remote's
// error messages must satisfy; it lives here and nowhere else so it can
// be swapped for a structured signal if the remote ever grows one.
var deferralMarkers = []string{"later", "defer"}

// Classify maps a push attempt's diagnostic output and process error to
// an Outcome. A clean exit is Accepted. A failed exit whose output
// carries a deferral marker is Deferred; anything else is Rejected.
func Classify(raw string, err error) Outcome {
	if err == nil {
		return Accepted
	}
	lower := strings.ToLower(raw)
	for _, marker := range deferralMarkers {
		if strings.Contains(lower, marker) {
			return Deferred
		}
	}
	return Rejected
}
