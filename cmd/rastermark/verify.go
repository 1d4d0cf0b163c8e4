package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rastermark/rastermark"
	"github.com/rastermark/rastermark/internal/telemetry"
)

func newVerifyCmd() *cobra.Command {
	var payload string
	var threshold float64

	cmd := &cobra.Command{
		Use:   "verify [files...]",
		Short: "Check whether images carry a given payload's fingerprint",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := telemetry.NewLogger(cmd.ErrOrStderr())
			anyMismatch := false

			for _, path := range args {
				ctx, id := telemetry.WithRequest(cmd.Context(), logger)
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("verify %s: %w", path, err)
				}

				result, err := rastermark.Verify(ctx, data, payload, &rastermark.VerifyOptions{Threshold: threshold})
				if err != nil {
					logger.Error().Str("correlation_id", id).Str("file", path).Err(err).Msg("verify failed")
					return fmt.Errorf("verify %s: %w", path, err)
				}

				if !result.IsMatch {
					anyMismatch = true
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%s\tmatch=%t\tconfidence=%.4f\tdigest=%s\n",
					path, result.IsMatch, result.Confidence, result.RecoveredDigestHex)
			}

			if anyMismatch {
				return fmt.Errorf("one or more inputs did not match")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&payload, "payload", "", "candidate payload to verify against (required)")
	cmd.Flags().Float64Var(&threshold, "threshold", rastermark.DefaultThreshold, "minimum confidence to count as a match")
	_ = cmd.MarkFlagRequired("payload")

	return cmd
}
