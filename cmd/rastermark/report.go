package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rastermark/rastermark/internal/imageio"
	"github.com/rastermark/rastermark/internal/luma"
	"github.com/rastermark/rastermark/internal/metrics"
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [original] [watermarked]",
		Short: "Print diagnostic image-quality metrics between an original and a watermarked image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			original, err := decodeFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			watermarked, err := decodeFile(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			if original.Width != watermarked.Width || original.Height != watermarked.Height {
				return fmt.Errorf("report: dimension mismatch: %dx%d vs %dx%d",
					original.Width, original.Height, watermarked.Width, watermarked.Height)
			}

			report := metrics.Compute(original, watermarked)
			fmt.Fprintf(cmd.OutOrStdout(), "mean_abs_delta=%.4f\tstddev_delta=%.4f\tpsnr_db=%.2f\n",
				report.MeanAbsDelta, report.StdDevDelta, report.PSNR)
			return nil
		},
	}
	return cmd
}

func decodeFile(ctx context.Context, path string) (*luma.Pixels, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("report: read %s: %w", path, err)
	}
	pixels, err := imageio.Decode(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("report: decode %s: %w", path, err)
	}
	return pixels, nil
}
