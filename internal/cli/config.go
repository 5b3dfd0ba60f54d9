package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/kottz/ekman/internal/config"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration (file, environment and flags applied)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := app.configPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, wrap(configView{Path: path, Config: app.cfg}))
		},
	}

	cmd.AddCommand(newConfigInitCmd(app))

	return cmd
}

func newConfigInitCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := app.configPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, err := os.Stat(path); err == nil && !force {
				return writeErr(cmd, errors.New(path+" already exists (use --force to overwrite)"))
			}
			if err := app.cfg.Validate(); err != nil {
				return writeErr(cmd, err)
			}
			if err := app.cfg.SaveToFile(path); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, wrap(configView{Path: path, Config: app.cfg}))
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	return cmd
}

func (app *App) configPath() (string, error) {
	if app.ConfigPath != "" {
		return app.ConfigPath, nil
	}
	return config.Path()
}
