// Command rastermark embeds and verifies invisible watermarks in raster
// images from the shell.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rastermark",
		Short: "Invisible frequency-domain image watermarking",
	}
	root.AddCommand(newEmbedCmd())
	root.AddCommand(newVerifyCmd())
	root.AddCommand(newExtractCmd())
	root.AddCommand(newReportCmd())
	return root
}
