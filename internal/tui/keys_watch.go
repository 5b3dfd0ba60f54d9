package tui

import (
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// keysChangedMsg reports that binds.conf was edited while the grid is open.
type keysChangedMsg struct{}

// keysWatcher watches the directory holding binds.conf, so editors that
// replace the file on save are seen too.
type keysWatcher struct {
	fsw      *fsnotify.Watcher
	path     string
	debounce time.Duration
}

func newKeysWatcher(path string) (*keysWatcher, error) {
	if path == "" {
		return nil, nil
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return &keysWatcher{fsw: fsw, path: filepath.Clean(path), debounce: 100 * time.Millisecond}, nil
}

func (w *keysWatcher) Close() error {
	if w == nil {
		return nil
	}
	return w.fsw.Close()
}

// wait blocks until the file settles after a change. Issue it again after
// each keysChangedMsg.
func (w *keysWatcher) wait() tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		var settled <-chan time.Time
		for {
			select {
			case ev, ok := <-w.fsw.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(ev.Name) != w.path {
					continue
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove) {
					settled = time.After(w.debounce)
				}
			case err, ok := <-w.fsw.Errors:
				if !ok {
					return nil
				}
				log.Warnf("tui: watch %s: %s", w.path, err)
			case <-settled:
				return keysChangedMsg{}
			}
		}
	}
}

func (m *appModel) reloadKeys() tea.Cmd {
	km, err := loadKeyMap(m.opts.KeysPath)
	if err != nil {
		log.Warnf("tui: reload key bindings: %s", err)
		m.status = "Key bindings error: " + err.Error()
	} else {
		m.keys = km
		m.status = "Key bindings reloaded"
		log.Infof("tui: reloaded %s (%d custom bindings)", m.opts.KeysPath, km.custom)
	}
	return m.keysWatch.wait()
}
