package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"nodewalk/internal/ui"
	"nodewalk/internal/watcher"
)

// runEditor opens path in the full screen editor and blocks until it quits
func runEditor(parent context.Context, opts *rootOptions, path string) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	s, lang, err := openSession(ctx, opts, path)
	if err != nil {
		return err
	}
	defer s.Close()

	model := ui.NewModel(s, opts.cfg, ui.Options{
		Language: string(lang),
		Ready:    os.Getenv("NODEWALK_E2E_TEST") == "1",
	})
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.SetProgram(p)

	if path != "" {
		go func() {
			// changes are applied on the UI loop, never from this goroutine
			err := watcher.Watch(ctx, path, func(data []byte) {
				p.Send(ui.FileChangedMsg{Data: data})
			})
			if err != nil {
				log.Warningf("not watching %s: %s", path, err)
			}
		}()
	}

	log.Info("starting UI")
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	log.Info("UI exited")
	return nil
}
