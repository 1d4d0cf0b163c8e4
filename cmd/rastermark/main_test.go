package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 120, G: 120, B: 120, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestEmbedThenVerifyCLI(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "input.png")
	writeTestPNG(t, srcPath, 256, 256)

	embedCmd := newRootCmd()
	embedCmd.SetArgs([]string{"embed", "--payload", "cli-payload", srcPath})
	var embedOut bytes.Buffer
	embedCmd.SetOut(&embedOut)
	embedCmd.SetErr(&embedOut)
	require.NoError(t, embedCmd.Execute())

	watermarkedPath := srcPath + ".watermarked.png"
	_, err := os.Stat(watermarkedPath)
	require.NoError(t, err)

	verifyCmd := newRootCmd()
	var verifyOut bytes.Buffer
	verifyCmd.SetOut(&verifyOut)
	verifyCmd.SetArgs([]string{"verify", "--payload", "cli-payload", watermarkedPath})
	require.NoError(t, verifyCmd.Execute())
	require.True(t, strings.Contains(verifyOut.String(), "match=true"))
}

func TestVerifyWrongPayloadCLIReturnsError(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "input.png")
	writeTestPNG(t, srcPath, 256, 256)

	embedCmd := newRootCmd()
	embedCmd.SetArgs([]string{"embed", "--payload", "right", srcPath})
	var embedOut bytes.Buffer
	embedCmd.SetOut(&embedOut)
	embedCmd.SetErr(&embedOut)
	require.NoError(t, embedCmd.Execute())

	verifyCmd := newRootCmd()
	var verifyOut bytes.Buffer
	verifyCmd.SetOut(&verifyOut)
	verifyCmd.SetErr(&verifyOut)
	verifyCmd.SetArgs([]string{"verify", "--payload", "wrong", srcPath + ".watermarked.png"})
	require.Error(t, verifyCmd.Execute())
}

func TestEmbedBatchProcessesAllFilesConcurrently(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 4; i++ {
		path := filepath.Join(dir, "input"+string(rune('a'+i))+".png")
		writeTestPNG(t, path, 256, 256)
		paths = append(paths, path)
	}

	embedCmd := newRootCmd()
	args := append([]string{"embed", "--batch", "--payload", "batch-payload"}, paths...)
	embedCmd.SetArgs(args)
	var embedOut bytes.Buffer
	embedCmd.SetOut(&embedOut)
	embedCmd.SetErr(&embedOut)
	require.NoError(t, embedCmd.Execute())

	for _, path := range paths {
		_, err := os.Stat(path + ".watermarked.png")
		require.NoError(t, err)
	}

	verifyCmd := newRootCmd()
	var verifyOut bytes.Buffer
	verifyCmd.SetOut(&verifyOut)
	watermarkedPaths := make([]string, len(paths))
	for i, path := range paths {
		watermarkedPaths[i] = path + ".watermarked.png"
	}
	verifyCmd.SetArgs(append([]string{"verify", "--payload", "batch-payload"}, watermarkedPaths...))
	require.NoError(t, verifyCmd.Execute())
	require.Equal(t, 4, strings.Count(verifyOut.String(), "match=true"))
}

func TestReportCLIPrintsMetrics(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "input.png")
	writeTestPNG(t, srcPath, 256, 256)

	embedCmd := newRootCmd()
	embedCmd.SetArgs([]string{"embed", "--payload", "report-me", srcPath})
	var embedOut bytes.Buffer
	embedCmd.SetOut(&embedOut)
	embedCmd.SetErr(&embedOut)
	require.NoError(t, embedCmd.Execute())

	reportCmd := newRootCmd()
	var reportOut bytes.Buffer
	reportCmd.SetOut(&reportOut)
	reportCmd.SetArgs([]string{"report", srcPath, srcPath + ".watermarked.png"})
	require.NoError(t, reportCmd.Execute())
	require.True(t, strings.Contains(reportOut.String(), "psnr_db="))
}
