/*
Copyright © 2025 Katie Mulliken <katie@mulliken.net>
*/
package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/seckatie/linklift/internal/core"
	"github.com/seckatie/linklift/internal/core/viewer"
)

var previewCmd = &cobra.Command{
	Use:   "preview <link-id>",
	Short: "Render the extracted HTML of a link to a standalone file or screenshot",
	Long: `Sanitize the extracted HTML of a link and rewrite its relative URLs against
--url. The result is written to --html; with --screenshot it is also rendered in
headless Chrome with scripts disabled and captured to an image.`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(runPreview),
}

func runPreview(cmd *cobra.Command, args []string, a *app) error {
	baseURL, err := cmd.Flags().GetString("url")
	if err != nil {
		return fmt.Errorf("failed to read --url: %w", err)
	}
	htmlOut, err := cmd.Flags().GetString("html")
	if err != nil {
		return fmt.Errorf("failed to read --html: %w", err)
	}
	shotOut, err := cmd.Flags().GetString("screenshot")
	if err != nil {
		return fmt.Errorf("failed to read --screenshot: %w", err)
	}
	timeout, err := cmd.Flags().GetDuration("capture-timeout")
	if err != nil {
		return fmt.Errorf("failed to read --capture-timeout: %w", err)
	}
	chromePath, err := cmd.Flags().GetString("chrome-path")
	if err != nil {
		return fmt.Errorf("failed to read --chrome-path: %w", err)
	}
	headful, err := cmd.Flags().GetBool("headful")
	if err != nil {
		return fmt.Errorf("failed to read --headful: %w", err)
	}
	if htmlOut == "" && shotOut == "" {
		return fmt.Errorf("nothing to write: pass --html and/or --screenshot")
	}

	if chromePath == "" && runtime.GOOS == "darwin" {
		// Best-effort default for macOS.
		chromePath = "/Applications/Google Chrome.app/Contents/MacOS/Google Chrome"
	}

	res, err := core.RunPreview(cmd.Context(), a.uc.GetContent, viewer.NewSanitizer(), core.PreviewRunOptions{
		LinkID:  args[0],
		BaseURL: baseURL,
		Capture: shotOut != "",
		Options: core.PreviewOptions{
			ChromePath: chromePath,
			Headless:   !headful,
			Timeout:    timeout,
		},
	}, a.log)
	if err != nil {
		return err
	}

	if htmlOut != "" {
		if err := os.WriteFile(htmlOut, []byte(res.HTML), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", htmlOut, err)
		}
		a.printf("Wrote %s (%s)\n", htmlOut, humanize.IBytes(uint64(len(res.HTML))))
	}
	if shotOut != "" {
		if err := os.WriteFile(shotOut, res.Screenshot, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", shotOut, err)
		}
		a.printf("Wrote %s (%s)\n", shotOut, humanize.IBytes(uint64(len(res.Screenshot))))
	}
	if res.Title != "" {
		a.printf("Title: %s\n", res.Title)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().String("url", "", "The link's URL; relative references are resolved against it")
	previewCmd.Flags().String("html", "", "Write the sanitized HTML to this file")
	previewCmd.Flags().String("screenshot", "", "Capture a PNG screenshot to this file (needs Chrome)")
	previewCmd.Flags().Duration("capture-timeout", core.DefaultPreviewTimeout, "Browser capture timeout")
	previewCmd.Flags().String("chrome-path", "", "Path to Chrome/Chromium executable")
	previewCmd.Flags().Bool("headful", false, "Run Chrome with a visible window (not headless)")
}
