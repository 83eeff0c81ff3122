package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/agripath/agripath/internal/content"
)

// RunOptions configures the program around the model.
type RunOptions struct {
	// WatchPath is a catalog file or directory reloaded on change. Empty
	// disables watching.
	WatchPath string
	// LogOutput receives logs while the TUI owns the terminal. Nil discards them.
	LogOutput io.Writer
}

// Run starts the Bubble Tea TUI program and blocks until the user quits.
func Run(ctx context.Context, opts Options, run RunOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewModel(ctx, opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	// Silence external logs (WARN/ERRO) during TUI to avoid corrupting the view.
	prevOut := logrus.StandardLogger().Out
	out := run.LogOutput
	if out == nil {
		out = io.Discard
	}
	logrus.SetOutput(out)
	defer logrus.SetOutput(prevOut)

	done := make(chan struct{})
	if run.WatchPath != "" {
		go func() {
			defer close(done)
			err := content.Watch(ctx, run.WatchPath, func(c *content.Catalog, err error) {
				p.Send(catalogReloadedMsg{Catalog: c, Source: "watcher", Err: err})
			})
			if err != nil {
				logrus.Warnf("catalog watcher: %v", err)
			}
		}()
	} else {
		close(done)
	}

	// Run TUI blocking in this goroutine.
	_, err := p.Run()
	cancel()
	<-done
	return err
}
