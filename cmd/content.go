/*
Copyright © 2025 Katie Mulliken <katie@mulliken.net>
*/
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/juju/clock"
	"github.com/spf13/cobra"

	"github.com/seckatie/linklift/internal/core/viewer"
)

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Read and manage the content extracted from links",
}

var contentShowCmd = &cobra.Command{
	Use:   "show <link-id>",
	Short: "Show the extracted content of a link",
	Long: `Show the extracted content of a link. Completed content is shown as text,
or as sanitized HTML with --mode html. With --wait the command polls until the
download completes or fails.`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(runContentShow),
}

var contentRefreshCmd = &cobra.Command{
	Use:   "refresh <link-id>",
	Short: "Ask the server to extract the content again",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runContentRefresh),
}

var contentRmCmd = &cobra.Command{
	Use:   "rm <link-id>",
	Short: "Delete the extracted content of a link",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runContentRm),
}

func runContentShow(cmd *cobra.Command, args []string, a *app) error {
	rawMode, err := cmd.Flags().GetString("mode")
	if err != nil {
		return fmt.Errorf("failed to read --mode: %w", err)
	}
	mode, err := viewer.ParseMode(rawMode)
	if err != nil {
		return err
	}
	wait, err := cmd.Flags().GetBool("wait")
	if err != nil {
		return fmt.Errorf("failed to read --wait: %w", err)
	}
	interval, err := cmd.Flags().GetDuration("poll-interval")
	if err != nil {
		return fmt.Errorf("failed to read --poll-interval: %w", err)
	}
	waitTimeout, err := cmd.Flags().GetDuration("wait-timeout")
	if err != nil {
		return fmt.Errorf("failed to read --wait-timeout: %w", err)
	}

	w := viewer.NewWatcher(a.store)
	v := viewer.New(w, viewer.WithRefreshDelay(a.cfg.RefreshDelay))
	v.SetMode(mode)

	ctx := cmd.Context()
	// A failed fetch is rendered as the error state below.
	_ = w.SetLinkID(ctx, args[0])

	if wait && viewer.Resolve(w.Snapshot()) == viewer.StateDownloading {
		waitCtx, cancel := context.WithTimeout(ctx, waitTimeout)
		defer cancel()
		if _, err := viewer.WaitForTerminal(waitCtx, w, clock.WallClock, interval); err != nil {
			a.log.WithError(err).Debug("stopped waiting for content")
		}
	}

	if err := v.Render(a.out); err != nil {
		return err
	}
	if st := viewer.Resolve(w.Snapshot()); st == viewer.StateError {
		return fmt.Errorf("failed to load content for %s", args[0])
	}
	return nil
}

func runContentRefresh(cmd *cobra.Command, args []string, a *app) error {
	if err := a.store.RefreshContent(cmd.Context(), args[0]); err != nil {
		return failure(a.store.Content().Message, err)
	}
	c := a.store.Content().Data
	if c != nil {
		a.printf("Refresh requested for %s; status %s\n", args[0], c.Status)
		return nil
	}
	a.printf("Refresh requested for %s\n", args[0])
	return nil
}

func runContentRm(cmd *cobra.Command, args []string, a *app) error {
	if err := a.store.DeleteContent(cmd.Context(), args[0]); err != nil {
		return failure(a.store.Content().Message, err)
	}
	a.printf("Deleted content of %s\n", args[0])
	return nil
}

func init() {
	rootCmd.AddCommand(contentCmd)
	contentCmd.AddCommand(contentShowCmd, contentRefreshCmd, contentRmCmd)

	contentShowCmd.Flags().String("mode", "text", "View mode for completed content (text or html)")
	contentShowCmd.Flags().Bool("wait", false, "Poll until the download completes or fails")
	contentShowCmd.Flags().Duration("poll-interval", viewer.DefaultPollInterval, "Wait between polls with --wait")
	contentShowCmd.Flags().Duration("wait-timeout", 2*time.Minute, "Give up waiting after this long")
}
