package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rastermark/rastermark"
	"github.com/rastermark/rastermark/internal/telemetry"
)

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "Diagnostic: run the extractor under a fixed debug seed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := telemetry.NewLogger(cmd.ErrOrStderr())
			ctx, id := telemetry.WithRequest(cmd.Context(), logger)

			data, err := os.ReadFile(args[0])
			if err != nil {
				logger.Error().Str("correlation_id", id).Str("file", args[0]).Err(err).Msg("read failed")
				return fmt.Errorf("extract %s: %w", args[0], err)
			}

			result, err := rastermark.Extract(ctx, data)
			if err != nil {
				logger.Error().Str("correlation_id", id).Str("file", args[0]).Err(err).Msg("extract failed")
				return fmt.Errorf("extract %s: %w", args[0], err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "digest=%s\tconfidence=%.4f\n", result.DigestHex, result.Confidence)
			return nil
		},
	}
	return cmd
}
