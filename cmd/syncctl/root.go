package main

import (
	"context"
	"fmt"
	"io"

	"github.com/MKhiriev/go-entity-sync/internal/client"
	"github.com/MKhiriev/go-entity-sync/internal/config"
	"github.com/MKhiriev/go-entity-sync/internal/logger"
	"github.com/MKhiriev/go-entity-sync/models"
	"github.com/spf13/cobra"
)

type app struct {
	flags     *config.StructuredConfig
	format    string
	out       io.Writer
	buildInfo models.AppBuildInfo
}

func newApp(info models.AppBuildInfo, out io.Writer) *app {
	return &app{buildInfo: info, out: out}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "syncctl",
		Short:         "Synchronize entities with a sync backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return checkFormat(a.format)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	fs, flagCfg := config.NewFlagSet("syncctl")
	a.flags = flagCfg
	root.PersistentFlags().AddGoFlagSet(fs)
	root.PersistentFlags().StringVarP(&a.format, "output", "o", formatText, "Output format (text, json, yaml)")

	root.AddCommand(
		newAuthCmd(a),
		newSyncCmd(a),
		newHistoryCmd(a),
		newJournalCmd(a),
		newVersionCmd(a),
	)

	root.SetOut(a.out)
	root.SetErr(a.out)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		a.printError(err)
		return err
	})
	return root
}

// open loads the configuration and builds a client. The caller must close
// it.
func (a *app) open(ctx context.Context) (*client.Client, error) {
	cfg, err := config.GetClientConfig(a.flags)
	if err != nil {
		return nil, fmt.Errorf("error getting configs: %w", err)
	}

	log := logger.Nop()
	if cfg.Log.File != "" {
		log = logger.NewClientLogger("syncctl", logger.Options{File: cfg.Log.File, Level: cfg.Log.Level})
	}

	return client.New(ctx, cfg, client.WithLogger(log), client.WithBuildInfo(a.buildInfo))
}

// authenticated opens a client and logs in.
func (a *app) authenticated(ctx context.Context) (*client.Client, models.AuthResult, error) {
	c, err := a.open(ctx)
	if err != nil {
		return nil, models.AuthResult{}, err
	}

	result, err := c.Authenticate(ctx)
	if err != nil {
		_ = c.Close()
		return nil, models.AuthResult{}, err
	}
	return c, result, nil
}

// run wraps a command body so that failures are rendered once.
func (a *app) run(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			a.printError(err)
			return err
		}
		return nil
	}
}
