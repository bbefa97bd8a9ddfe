/*
Copyright © 2025 Katie Mulliken <katie@mulliken.net>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/seckatie/linklift/internal/core/api"
	"github.com/seckatie/linklift/internal/core/config"
	"github.com/seckatie/linklift/internal/core/session"
	"github.com/seckatie/linklift/internal/core/store"
	"github.com/seckatie/linklift/internal/core/usecase"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "linklift",
	Short: "Command-line client for a LinkLift bookmark server",
	Long: `linklift manages the links stored on a LinkLift server: add, list, edit
and delete links, organize them into collections, read the content the server
extracted from each page, and search it.

Settings come from flags, LINKLIFT_* environment variables and an optional
linklift.yaml, in that order of precedence. Run "linklift login" first.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	defaults := config.Defaults()
	rootCmd.PersistentFlags().String("config", "", "Path to a config file (default ./linklift.yaml)")
	rootCmd.PersistentFlags().String("api-url", defaults.APIURL, "LinkLift API root URL")
	rootCmd.PersistentFlags().StringP("session-store", "s", defaults.SessionStore, "Session store URI (sqlite://<file> or badger://<dir>)")
	rootCmd.PersistentFlags().String("log-level", defaults.LogLevel, "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", defaults.LogFormat, "Log format (text or json)")
	rootCmd.PersistentFlags().Duration("timeout", defaults.RequestTimeout, "Per-request timeout")
	rootCmd.PersistentFlags().Int("page-size", defaults.PageSize, "Default page size for link listings")
	rootCmd.PersistentFlags().Duration("refresh-delay", defaults.RefreshDelay, "Wait after requesting a content refresh before reloading it")
}

// app is everything a command needs, built from the resolved config.
type app struct {
	cfg      config.Config
	log      *logrus.Logger
	sessions session.Store
	client   *api.Client
	uc       *usecase.Container
	store    *store.Store
	out      io.Writer
}

// newApp loads config, opens the session store and wires the client, the
// use-cases and the store. Callers must Close it.
func newApp(cmd *cobra.Command) (*app, error) {
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to read --config: %w", err)
	}
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	log, err := cfg.NewLogger()
	if err != nil {
		return nil, err
	}
	log.SetOutput(cmd.ErrOrStderr())

	sessions, err := session.Open(cfg.SessionStore, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	opts := []api.Option{api.WithTimeout(cfg.RequestTimeout), api.WithLogger(log)}
	stored, err := sessions.Load(cmd.Context())
	switch {
	case errors.Is(err, session.ErrNoSession):
	case err != nil:
		_ = sessions.Close()
		return nil, err
	case stored.APIURL != "" && stored.APIURL != cfg.APIURL:
		log.WithFields(logrus.Fields{
			"session_api": stored.APIURL,
			"api":         cfg.APIURL,
		}).Warn("stored session belongs to another API, ignoring it")
	default:
		opts = append(opts, api.WithSession(stored))
	}

	client, err := api.New(cfg.APIURL, opts...)
	if err != nil {
		_ = sessions.Close()
		return nil, err
	}
	client.OnSessionChange(session.Persist(context.Background(), sessions, log))

	uc := usecase.NewAPIContainer(client)
	return &app{
		cfg:      cfg,
		log:      log,
		sessions: sessions,
		client:   client,
		uc:       uc,
		store:    store.New(uc, log),
		out:      cmd.OutOrStdout(),
	}, nil
}

func (a *app) Close() {
	if err := a.sessions.Close(); err != nil {
		a.log.WithError(err).Warn("failed to close session store")
	}
}

// withApp adapts a command body that needs an app to cobra's RunE.
func withApp(run func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		return run(cmd, args, a)
	}
}

// failure pairs the store's display message with the underlying error.
func failure(msg string, err error) error {
	if msg == "" {
		return err
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
