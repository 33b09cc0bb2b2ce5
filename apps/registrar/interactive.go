package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Nolexnol/CourseRegistration-System/apps/registrar/tui"
	"github.com/Nolexnol/CourseRegistration-System/services/watcher"
)

// startTUI runs the interactive interface, reloading the data whenever the CSV files change on disk.
func (cli *commandLine) startTUI(ctx context.Context) error {
	a := cli.app
	m := tui.New(ctx, a.students, a.enrollments, a.logger, tui.DefaultStyles())

	w, err := watcher.New(a.conf.DataDir, a.dataFiles, watcher.WithLogger(a.logger))
	if err != nil {
		return err
	}
	defer w.Stop()

	return tui.Run(ctx, m, func(p *tea.Program) {
		onReload := func(err error) { p.Send(tui.DataChangedMsg{Err: err}) }
		if err := w.Start(ctx, watcher.Reloader(a.store, a.logger, onReload)); err != nil {
			a.logger.Warn("data directory is not watched", err)
		}
	})
}
