/*
Copyright © 2025 Katie Mulliken <katie@mulliken.net>
*/
package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/seckatie/linklift/internal/core/viewer"
	"github.com/seckatie/linklift/internal/core/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a local web viewer",
	Long: `Serve a local web front end for browsing links, collections and search
results and for reading extracted content. Extracted HTML is sanitized and
served under a sandboxing Content-Security-Policy.`,
	Args: cobra.NoArgs,
	RunE: withApp(runServe),
}

func runServe(cmd *cobra.Command, _ []string, a *app) error {
	host, err := cmd.Flags().GetString("host")
	if err != nil {
		return fmt.Errorf("failed to get host: %w", err)
	}
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("failed to get port: %w", err)
	}

	v := viewer.New(viewer.NewWatcher(a.store), viewer.WithRefreshDelay(a.cfg.RefreshDelay))
	srv, err := web.NewServer(a.store, v, a.log)
	if err != nil {
		return fmt.Errorf("failed to initialize web server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx, fmt.Sprintf("%s:%d", host, port))
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("host", "localhost", "Host to listen on")
}
