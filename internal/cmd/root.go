// Package cmd wires the console commands.
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/attendly/attendly/internal/auth"
	"github.com/attendly/attendly/internal/config"
	"github.com/attendly/attendly/internal/directory"
	"github.com/attendly/attendly/internal/gateway"
	"github.com/attendly/attendly/internal/log"
	"github.com/attendly/attendly/internal/session"
)

var rootCmd = &cobra.Command{
	Use:   "attendly",
	Short: "Admin console for the Attendly attendance service",
	Long: `attendly is a terminal console for the Attendly attendance service.
It manages employees, subjects, and attendance records over the service's
GraphQL API, with email-verified sign-in and role-based access.

Run 'attendly console' for the interactive console, or use the
subcommands directly.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	flagConfig   string
	flagEndpoint string
	flagLogLevel string
	flagFormat   string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default ~/.config/attendly/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagEndpoint, "endpoint", "", "GraphQL endpoint URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format: text, json, yaml")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with a cancellable context
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// app bundles the wired dependencies of a command invocation
type app struct {
	cfg        *config.Config
	logger     *log.Logger
	store      session.Store
	client     *gateway.Client
	controller *auth.Controller
	dir        *directory.Service
}

// loadConfig resolves configuration with flag overrides applied
func loadConfig() (*config.Config, error) {
	path := flagConfig
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if flagEndpoint != "" {
		cfg.Endpoint = flagEndpoint
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	return cfg, nil
}

// newApp wires the full dependency chain for a command
func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := log.New(log.Config{
		Level:  log.ParseLevel(cfg.LogLevel),
		Format: log.ParseFormat(cfg.LogFormat),
		Output: log.OutputStderr(),
	})

	sessionPath, err := session.DefaultPath()
	if err != nil {
		return nil, err
	}
	store := session.NewFileStore(sessionPath)

	client := gateway.NewClient(cfg.Endpoint, store, logger)

	return &app{
		cfg:        cfg,
		logger:     logger,
		store:      store,
		client:     client,
		controller: auth.NewController(client, store, logger),
		dir:        directory.NewService(client),
	}, nil
}

// requireSession bootstraps the session and fails unless it resolved to an
// authenticated identity.
func (a *app) requireSession(ctx context.Context) error {
	if err := a.controller.Bootstrap(ctx); err != nil {
		return err
	}

	snap := a.controller.Snapshot()
	switch snap.Phase {
	case auth.PhaseAuthenticated:
		return nil
	case auth.PhasePendingVerification:
		return errVerificationPending(snap.Email)
	default:
		return errNotSignedIn()
	}
}
