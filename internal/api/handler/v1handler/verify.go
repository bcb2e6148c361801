package v1handler

import (
	"errors"
	"linkvault/internal/verifier"
	"linkvault/pkg/domain"
	"linkvault/pkg/logger"
	"net/http"

	"go.uber.org/zap"
)

// VerifyURL handles POST /api/verify-url. The status tells whether a check ran:
// 400 when the input never reached the network, 500 when the check itself
// failed, 200 otherwise with the verdict in the body.
func (h Handler) VerifyURL(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := readBody(w, r)
	if err != nil {
		logger.Debug(ctx, "could not read verify request", zap.Error(err))
		writeVerification(w, domain.Verification{
			Outcome: domain.VerificationInvalidSyntax,
			Message: verifier.MsgEmpty,
		})

		return
	}

	req, err := decodeVerifyRequest(body)
	switch {
	case errors.Is(err, errNotString):
		writeVerification(w, domain.Verification{
			Outcome: domain.VerificationInvalidSyntax,
			Message: verifier.MsgInvalidSyntax,
		})

		return
	case err != nil:
		logger.Debug(ctx, "malformed verify request", zap.Error(err))
		writeVerification(w, domain.Verification{
			Outcome: domain.VerificationInvalidSyntax,
			Message: verifier.MsgEmpty,
		})

		return
	}

	writeVerification(w, h.deps.Verifier.Verify(ctx, req.URL))
}

func writeVerification(w http.ResponseWriter, res domain.Verification) {
	status := http.StatusOK
	switch res.Outcome {
	case domain.VerificationInvalidSyntax:
		status = http.StatusBadRequest
	case domain.VerificationUnspecified:
		status = http.StatusInternalServerError
	case domain.VerificationValid, domain.VerificationUnreachable, domain.VerificationNetworkError:
	}

	writeJSON(w, status, encodeVerifyResponse(res))
}
