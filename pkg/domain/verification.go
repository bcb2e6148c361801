package domain

// VerificationOutcome is the terminal state reached by a single URL verification.
type VerificationOutcome string

const (
	// VerificationValid means the target answered the primary probe with a 2xx/3xx
	// status, or the fallback probe with a 2xx status.
	VerificationValid VerificationOutcome = "VALID"
	// VerificationInvalidSyntax means the input was empty or could not be
	// normalized. No network request was made.
	VerificationInvalidSyntax VerificationOutcome = "INVALID_SYNTAX"
	// VerificationUnreachable means the target answered with a non-success status.
	VerificationUnreachable VerificationOutcome = "UNREACHABLE"
	// VerificationNetworkError means the primary probe failed at the transport
	// level or timed out.
	VerificationNetworkError VerificationOutcome = "NETWORK_ERROR"
	// VerificationUnspecified means the verification itself malfunctioned.
	VerificationUnspecified VerificationOutcome = "UNSPECIFIED"
)

// Verification is the immutable result of checking a user submitted URL.
type Verification struct {
	// Outcome is the terminal state of the verification.
	Outcome VerificationOutcome
	// URL is the normalized address. It is empty for INVALID_SYNTAX.
	URL string
	// Message is a user facing explanation. It is empty for VALID.
	Message string
	// StatusCode is the HTTP status the outcome is based on, if any. When the
	// fallback probe fails this is still the primary probe status.
	StatusCode int
}

// Valid reports whether the URL was found reachable.
func (v Verification) Valid() bool { return v.Outcome == VerificationValid }
