package main

import (
	"context"
	"fmt"
	"io"
	"linkvault/internal/config"
	"linkvault/internal/verifier"
	"linkvault/pkg/domain"
	"linkvault/pkg/prober/httpprober"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// verifyCommand constructs the 'verify' subcommand that checks the given URLs
// the same way bookmarks are checked before they are saved. It fails when at
// least one URL is not reachable.
func verifyCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify URL...",
		Short: "Checks whether the given URLs are reachable",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			concurrency, _ := cmd.Flags().GetInt("concurrency")

			opts := verifier.NewOptions(cfg)
			if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
				opts.ProbeTimeout = timeout
			}
			v, err := verifier.New(httpprober.New(httpprober.Options{
				UserAgent:    cfg.Verifier.UserAgent,
				MaxRedirects: cfg.Verifier.MaxRedirects,
			}), opts)
			if err != nil {
				return fmt.Errorf("could not create verifier: %w", err)
			}

			results := verifyAll(cmd.Context(), v, args, concurrency)
			if failed := printResults(cmd.OutOrStdout(), args, results); failed > 0 {
				cmd.SilenceUsage = true

				return fmt.Errorf("%d of %d links are not reachable", failed, len(args))
			}

			return nil
		},
	}

	cmd.Flags().Int("concurrency", 4, "Number of URLs checked at the same time")
	cmd.Flags().Duration("timeout", 0, "Per probe timeout, overrides the configured one")

	return cmd
}

// verifyAll verifies urls with at most concurrency checks in flight. Results
// keep the order of urls.
func verifyAll(ctx context.Context, v verifier.Verifier, urls []string, concurrency int) []domain.Verification {
	results := make([]domain.Verification, len(urls))

	var g errgroup.Group
	g.SetLimit(max(concurrency, 1))
	for i, raw := range urls {
		g.Go(func() error {
			results[i] = v.Verify(ctx, raw)

			return nil
		})
	}
	_ = g.Wait()

	return results
}

//nolint: gochecknoglobals
var (
	okColor   = color.New(color.FgGreen, color.Bold)
	failColor = color.New(color.FgRed, color.Bold)
)

// printResults writes one line per URL and returns the number of failures.
func printResults(w io.Writer, urls []string, results []domain.Verification) int {
	failed := 0
	for i, res := range results {
		if res.Valid() {
			_, _ = okColor.Fprint(w, "OK  ")
			_, _ = fmt.Fprintf(w, " %s\n", res.URL)

			continue
		}

		failed++
		_, _ = failColor.Fprintf(w, "%-4s", "FAIL")
		_, _ = fmt.Fprintf(w, " %s: %s (%s)\n", urls[i], res.Message, res.Outcome)
	}

	return failed
}
