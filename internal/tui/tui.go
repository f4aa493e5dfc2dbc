package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/internal/service"
	"github.com/MKhiriev/go-link-keeper/models"
)

type TUI struct {
	engine service.SyncEngine
	build  models.BuildInfo
	opts   []tea.ProgramOption
	logger *logger.Logger
}

// New builds the terminal UI over engine. opts are passed to every program
// it runs, after the defaults.
func New(engine service.SyncEngine, build models.BuildInfo, logger *logger.Logger, opts ...tea.ProgramOption) *TUI {
	return &TUI{engine: engine, build: build, opts: opts, logger: logger}
}

// MainLoop shows the entity lists until the user quits or logs out, or ctx
// is cancelled. logout reports whether the user asked to sign out.
func (t *TUI) MainLoop(ctx context.Context) (logout bool, err error) {
	model := newMainModel(ctx, t.engine, t.build)

	opts := append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, t.opts...)
	finalModel, runErr := tea.NewProgram(model, opts...).Run()
	if runErr != nil {
		if errors.Is(runErr, tea.ErrProgramKilled) && ctx.Err() != nil {
			t.logger.Debug().Str("func", "*TUI.MainLoop").Msg("main loop cancelled")
			return false, nil
		}
		return false, runErr
	}

	result, ok := finalModel.(mainModel)
	if !ok {
		return false, tea.ErrProgramKilled
	}
	return result.logout, nil
}
