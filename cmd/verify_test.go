package main

import (
	"bytes"
	"context"
	"linkvault/internal/verifier"
	mockverifier "linkvault/internal/verifier/mock"
	"linkvault/pkg/domain"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestVerifyAll_KeepsOrderAndLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	v := mockverifier.NewMockVerifier(ctrl)

	var inFlight, peak atomic.Int32
	v.EXPECT().Verify(gomock.Any(), gomock.Any()).Times(6).DoAndReturn(
		func(_ context.Context, raw string) domain.Verification {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			inFlight.Add(-1)

			return domain.Verification{Outcome: domain.VerificationValid, URL: "https://" + raw}
		})

	urls := []string{"a.com", "b.com", "c.com", "d.com", "e.com", "f.com"}
	results := verifyAll(context.Background(), v, urls, 2)

	require.Len(t, results, len(urls))
	for i, res := range results {
		require.Equal(t, "https://"+urls[i], res.URL)
	}
	require.LessOrEqual(t, peak.Load(), int32(2))
}

func TestPrintResults(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	failed := printResults(&buf, []string{"go.dev", "nope"}, []domain.Verification{
		{Outcome: domain.VerificationValid, URL: "https://go.dev"},
		{Outcome: domain.VerificationInvalidSyntax, Message: verifier.MsgInvalidSyntax},
	})

	require.Equal(t, 1, failed)
	require.Equal(t,
		"OK   https://go.dev\nFAIL nope: "+verifier.MsgInvalidSyntax+" (INVALID_SYNTAX)\n",
		buf.String())
}
