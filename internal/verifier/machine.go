package verifier

import (
	"errors"
	"fmt"
	"linkvault/pkg/domain"
	"linkvault/pkg/serrors"
	"net/http"
)

// User facing messages, one per non-valid outcome.
const (
	MsgEmpty         = "Please enter a website address."
	MsgInvalidSyntax = "This doesn't look like a valid link. Please check the spelling."
	MsgNetworkError  = "We couldn't find this website. It might be down or incorrect."
	MsgUnspecified   = "Something went wrong. Please try again."
	msgBrokenFmt     = "This link seems broken (Error: %d)."
)

// state is a step of a single verification.
//
//	start -> probePrimary -> done
//	                      -> probeFallback -> done
type state int

const (
	stateStart state = iota
	stateProbePrimary
	stateProbeFallback
	stateDone
)

func (s state) String() string {
	switch s {
	case stateStart:
		return "start"
	case stateProbePrimary:
		return "probePrimary"
	case stateProbeFallback:
		return "probeFallback"
	case stateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// BrokenMessage is the message reported for a remote rejection with status.
func BrokenMessage(status int) string { return fmt.Sprintf(msgBrokenFmt, status) }

// afterStart validates raw input. On success the normalized URL is returned
// with stateProbePrimary.
func afterStart(raw string) (state, string, domain.Verification) {
	u, err := Normalize(raw)
	if err == nil {
		return stateProbePrimary, u, domain.Verification{}
	}

	msg := MsgInvalidSyntax
	if isBlank(raw) {
		msg = MsgEmpty
	}

	return stateDone, "", domain.Verification{
		Outcome: domain.VerificationInvalidSyntax,
		Message: msg,
	}
}

// afterPrimary maps the primary (HEAD) probe result to the next state. The
// returned verification is only meaningful when the next state is stateDone.
func afterPrimary(status int, err error) (state, domain.Verification) {
	switch {
	case err != nil && errors.Is(err, serrors.ErrInternal):
		return stateDone, domain.Verification{Outcome: domain.VerificationUnspecified, Message: MsgUnspecified}
	case err != nil:
		return stateDone, domain.Verification{Outcome: domain.VerificationNetworkError, Message: MsgNetworkError}
	case isSuccess(status) || isRedirect(status):
		return stateDone, domain.Verification{Outcome: domain.VerificationValid, StatusCode: status}
	case status == http.StatusMethodNotAllowed:
		return stateProbeFallback, domain.Verification{StatusCode: status}
	default:
		return stateDone, domain.Verification{
			Outcome:    domain.VerificationUnreachable,
			Message:    BrokenMessage(status),
			StatusCode: status,
		}
	}
}

// afterFallback maps the fallback (GET) probe result to the terminal
// verification. Only a 2xx counts; anything else, including a failure, is
// reported with the primary probe status and the fallback's own status is
// dropped.
func afterFallback(primaryStatus, status int, err error) domain.Verification {
	if err == nil && isSuccess(status) {
		return domain.Verification{Outcome: domain.VerificationValid, StatusCode: status}
	}

	return domain.Verification{
		Outcome:    domain.VerificationUnreachable,
		Message:    BrokenMessage(primaryStatus),
		StatusCode: primaryStatus,
	}
}

func isSuccess(status int) bool  { return status >= 200 && status < 300 }
func isRedirect(status int) bool { return status >= 300 && status < 400 }
