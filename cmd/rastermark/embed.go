package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/rastermark/rastermark"
	"github.com/rastermark/rastermark/internal/imageio"
	"github.com/rastermark/rastermark/internal/telemetry"
)

func newEmbedCmd() *cobra.Command {
	var payload string
	var mimeType string
	var quality float64
	var outDir string
	var visibleText string
	var batch bool

	cmd := &cobra.Command{
		Use:   "embed [files...]",
		Short: "Embed a payload's fingerprint into one or more images",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := telemetry.NewLogger(cmd.ErrOrStderr())
			bar := progressbar.Default(int64(len(args)), "embedding")

			var opts *rastermark.Options
			if mimeType != "" || quality != 0 || visibleText != "" {
				opts = &rastermark.Options{MimeType: mimeType, JPEGQuality: quality}
				if visibleText != "" {
					opts.Visible = &rastermark.VisibleOptions{Text: visibleText}
				}
			}

			embedOne := func(path string) error {
				ctx, logID := telemetry.WithRequest(cmd.Context(), logger)
				data, err := os.ReadFile(path)
				if err != nil {
					logger.Error().Str("correlation_id", logID).Str("file", path).Err(err).Msg("read failed")
					return fmt.Errorf("embed %s: %w", path, err)
				}

				result, err := rastermark.Watermark(ctx, data, payload, opts)
				if err != nil {
					logger.Error().Str("correlation_id", logID).Str("file", path).Err(err).Msg("watermark failed")
					return fmt.Errorf("embed %s: %w", path, err)
				}

				destPath := destinationFor(path, outDir, result.MimeType)
				if err := os.WriteFile(destPath, result.Blob, 0o644); err != nil {
					return fmt.Errorf("embed %s: write %s: %w", path, destPath, err)
				}

				logger.Info().Str("correlation_id", logID).Str("file", path).Str("out", destPath).Msg("embedded")
				return nil
			}

			if !batch {
				for _, path := range args {
					if err := embedOne(path); err != nil {
						return err
					}
					_ = bar.Add(1)
				}
				return nil
			}

			// Batch mode: one goroutine per file, bounded by GOMAXPROCS so a
			// large input set never spawns more concurrent decode/DCT/encode
			// pipelines than there are cores to run them on. Each goroutine
			// owns its own pixel buffer end to end; nothing is shared but the
			// progress bar, which is updated under barMu since it is not
			// itself safe for concurrent Add calls.
			sem := make(chan struct{}, runtime.GOMAXPROCS(0))
			var barMu sync.Mutex
			var wg sync.WaitGroup
			errs := make([]error, len(args))

			for i, path := range args {
				wg.Add(1)
				sem <- struct{}{}
				go func(i int, path string) {
					defer wg.Done()
					defer func() { <-sem }()

					errs[i] = embedOne(path)

					barMu.Lock()
					_ = bar.Add(1)
					barMu.Unlock()
				}(i, path)
			}
			wg.Wait()

			for _, err := range errs {
				if err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&payload, "payload", "", "payload to fingerprint and embed (required)")
	cmd.Flags().StringVar(&mimeType, "mime", imageio.MimePNG, "output mime type: image/png, image/jpeg or image/webp")
	cmd.Flags().Float64Var(&quality, "quality", rastermark.DefaultJPEGQuality, "JPEG quality in [0,1]")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "directory for watermarked output (default: alongside input, suffixed)")
	cmd.Flags().StringVar(&visibleText, "visible-text", "", "optional cosmetic overlay text")
	cmd.Flags().BoolVar(&batch, "batch", false, "process inputs concurrently, one goroutine per file bounded by GOMAXPROCS")
	_ = cmd.MarkFlagRequired("payload")

	return cmd
}

func destinationFor(srcPath, outDir, mimeType string) string {
	ext := ".png"
	switch mimeType {
	case imageio.MimeJPEG:
		ext = ".jpg"
	case imageio.MimeWebP:
		ext = ".webp"
	}
	name := filepath.Base(srcPath) + ".watermarked" + ext
	if outDir != "" {
		return filepath.Join(outDir, name)
	}
	return filepath.Join(filepath.Dir(srcPath), name)
}
