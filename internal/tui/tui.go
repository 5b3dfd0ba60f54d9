// Package tui is the interactive workout grid.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/kottz/ekman/internal/api"
	"github.com/kottz/ekman/internal/config"
)

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		WeightStep:   cfg.WeightStep,
		Metric:       cfg.Metric(),
		GraphPoints:  cfg.GraphPoints,
		ActivityDays: cfg.ActivityDays,
		Timeout:      cfg.RequestTimeout.Duration,
		KeysPath:     cfg.Keybindings,
		CheckSession: cfg.Backend == config.BackendRemote,
	}
}

func Run(client api.Client, opts Options) error {
	setupTerminalColors()
	m := newAppModel(client, opts)
	w, err := newKeysWatcher(m.opts.KeysPath)
	if err != nil {
		log.Debugf("tui: not watching key bindings: %s", err)
	}
	m.keysWatch = w
	defer w.Close()

	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
