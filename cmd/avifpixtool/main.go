// Command avifpixtool converts raw decoded AVIF planes into display-ready images.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/vearutop/avifpix"
)

var (
	version = "dev"
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "avifpixtool",
	Short: "Convert decoded AVIF planes to RGBA images",
	Long: `avifpixtool runs the avifpix pixel pipeline on raw planar YUV input
(as dumped by a decoder or ffmpeg -f rawvideo, optionally zstd compressed)
and writes PNG, JPEG, BMP, GIF or TIFF output.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(*cobra.Command, []string) {
		if verbose {
			avifpix.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log conversion details to stderr")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"avifpixtool %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
