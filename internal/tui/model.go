package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-link-keeper/internal/service"
	"github.com/MKhiriev/go-link-keeper/models"
)

const tickInterval = 500 * time.Millisecond

type mode int

const (
	modeList mode = iota
	modeForm
	modeConfirmDelete
	modePending
	modeBuildInfo
)

// mainModel shows one entity kind at a time. The engine owns the state; the
// model only mirrors it and turns keys into engine calls.
type mainModel struct {
	ctx      context.Context
	engine   service.SyncEngine
	build    models.BuildInfo
	copyText func(string) error

	kindIdx int
	items   []models.Entity
	pending []models.PendingOperation
	idx     int
	loading bool
	syncing bool
	lastErr *models.ErrorKind
	spinner spinner.Model

	mode   mode
	form   entityForm
	status string
	errMsg string

	logout bool
}

func newMainModel(ctx context.Context, engine service.SyncEngine, build models.BuildInfo) mainModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot

	m := mainModel{
		ctx:      ctx,
		engine:   engine,
		build:    build,
		copyText: clipboard.WriteAll,
		spinner:  s,
	}
	m.reload()
	return m
}

func (m mainModel) kind() models.EntityKind {
	return models.EntityKinds[m.kindIdx]
}

func (m mainModel) current() (models.Entity, bool) {
	if len(m.items) == 0 || m.idx < 0 || m.idx >= len(m.items) {
		return models.Entity{}, false
	}
	return m.items[m.idx], true
}

// reload mirrors the engine state of the shown kind.
func (m *mainModel) reload() {
	kind := m.kind()
	m.items = m.engine.Entities(kind)
	m.pending = m.engine.PendingOperations(kind)
	m.loading = m.engine.IsLoading(kind)
	m.syncing = m.engine.IsSyncing(kind)
	m.lastErr = m.engine.LastError(kind)

	if m.idx >= len(m.items) {
		m.idx = len(m.items) - 1
	}
	if m.idx < 0 {
		m.idx = 0
	}
}

func (m mainModel) Init() tea.Cmd {
	return tea.Batch(tick(), m.spinner.Tick)
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m mainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.reload()
		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case createDoneMsg:
		m.reload()
		if msg.err != nil {
			m.failed("create", msg.err)
			return m, nil
		}
		m.succeeded(fmt.Sprintf("%s added%s", singular(msg.kind), pendingNote(msg.entity)))
		return m, nil

	case updateDoneMsg:
		m.reload()
		if msg.err != nil {
			m.failed("update", msg.err)
			return m, nil
		}
		m.succeeded(fmt.Sprintf("%s updated%s", singular(msg.kind), pendingNote(msg.entity)))
		return m, nil

	case deleteDoneMsg:
		m.reload()
		if msg.err != nil {
			m.failed("delete", msg.err)
			return m, nil
		}
		m.succeeded(fmt.Sprintf("%s deleted", singular(msg.kind)))
		return m, nil

	case refreshDoneMsg:
		m.reload()
		if msg.err != nil {
			m.failed("refresh", msg.err)
			return m, nil
		}
		m.succeeded(fmt.Sprintf("refresh %s: %s", msg.kind, msg.decision))
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.mode == modeForm {
			var cmd tea.Cmd
			m.form, cmd = m.form.update(msg)
			return m, cmd
		}
		return m, nil
	}

	if keyMsg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case modeForm:
		return m.updateForm(keyMsg)
	case modeConfirmDelete:
		return m.updateConfirm(keyMsg)
	case modePending, modeBuildInfo:
		if key.Matches(keyMsg, keys.esc, keys.pending, keys.buildInfo) {
			m.mode = modeList
		}
		return m, nil
	}

	return m.updateList(keyMsg)
}

func (m mainModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.quit):
		return m, tea.Quit
	case key.Matches(msg, keys.logout):
		m.logout = true
		return m, tea.Quit
	case key.Matches(msg, keys.up):
		if m.idx > 0 {
			m.idx--
		}
	case key.Matches(msg, keys.down):
		if m.idx < len(m.items)-1 {
			m.idx++
		}
	case key.Matches(msg, keys.switchKind):
		m.kindIdx = (m.kindIdx + 1) % len(models.EntityKinds)
		m.idx = 0
		m.status, m.errMsg = "", ""
		m.reload()
	case key.Matches(msg, keys.newItem):
		m.form = newEntityForm(m.kind(), models.Entity{})
		m.mode = modeForm
	case key.Matches(msg, keys.edit):
		item, ok := m.current()
		if !ok {
			m.status = "nothing to edit"
			return m, nil
		}
		m.form = newEntityForm(m.kind(), item)
		m.mode = modeForm
	case key.Matches(msg, keys.delete):
		if _, ok := m.current(); !ok {
			m.status = "nothing to delete"
			return m, nil
		}
		m.mode = modeConfirmDelete
	case key.Matches(msg, keys.refresh):
		return m, m.cmdRefresh(false)
	case key.Matches(msg, keys.forceRefresh):
		return m, m.cmdRefresh(true)
	case key.Matches(msg, keys.copy):
		m.copyCurrent()
	case key.Matches(msg, keys.pending):
		m.mode = modePending
	case key.Matches(msg, keys.buildInfo):
		m.mode = modeBuildInfo
	}

	return m, nil
}

func (m mainModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.mode = modeList
		return m, nil
	case key.Matches(msg, keys.tab):
		m.form.next(1)
		return m, nil
	case key.Matches(msg, keys.backtab):
		m.form.next(-1)
		return m, nil
	case key.Matches(msg, keys.enter):
		attrs, err := m.form.attributes()
		if err != nil {
			m.form.err = err.Error()
			return m, nil
		}
		m.mode = modeList
		if m.form.editing() {
			return m, m.cmdUpdate(m.form.id, attrs)
		}
		return m, m.cmdCreate(attrs)
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m mainModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.yes):
		m.mode = modeList
		item, ok := m.current()
		if !ok {
			return m, nil
		}
		return m, m.cmdDelete(item.ID)
	case key.Matches(msg, keys.no):
		m.mode = modeList
	}
	return m, nil
}

// copyCurrent puts the URL of the selected link, or the name of the
// selected collection, on the clipboard.
func (m *mainModel) copyCurrent() {
	item, ok := m.current()
	if !ok {
		m.status = "nothing to copy"
		return
	}

	text := item.ID
	switch m.kind() {
	case models.EntityKindLinks:
		if attrs, err := models.DecodeAttributes[models.LinkAttributes](item); err == nil {
			text = attrs.URL
		}
	case models.EntityKindCollections:
		if attrs, err := models.DecodeAttributes[models.CollectionAttributes](item); err == nil {
			text = attrs.Name
		}
	}

	if err := m.copyText(text); err != nil {
		m.failed("copy", err)
		return
	}
	m.succeeded("copied " + text)
}

func (m *mainModel) succeeded(status string) {
	m.status = status
	m.errMsg = ""
}

func (m *mainModel) failed(op string, err error) {
	m.status = ""
	m.errMsg = fmt.Sprintf("%s failed: %v", op, err)
	if errors.Is(err, models.ErrValidation) {
		m.errMsg = fmt.Sprintf("%s rejected: %v", op, err)
	}
}

func (m mainModel) cmdCreate(attrs []byte) tea.Cmd {
	ctx, engine, kind := m.ctx, m.engine, m.kind()
	return func() tea.Msg {
		created, err := engine.Create(ctx, kind, attrs)
		return createDoneMsg{kind: kind, entity: created, err: err}
	}
}

func (m mainModel) cmdUpdate(id string, attrs []byte) tea.Cmd {
	ctx, engine, kind := m.ctx, m.engine, m.kind()
	return func() tea.Msg {
		updated, err := engine.Update(ctx, kind, id, attrs)
		return updateDoneMsg{kind: kind, entity: updated, err: err}
	}
}

func (m mainModel) cmdDelete(id string) tea.Cmd {
	ctx, engine, kind := m.ctx, m.engine, m.kind()
	return func() tea.Msg {
		err := engine.Delete(ctx, kind, id)
		return deleteDoneMsg{kind: kind, id: id, err: err}
	}
}

func (m mainModel) cmdRefresh(force bool) tea.Cmd {
	ctx, engine, kind := m.ctx, m.engine, m.kind()
	return func() tea.Msg {
		decision, err := engine.RequestRefresh(ctx, kind, force)
		return refreshDoneMsg{kind: kind, decision: decision, err: err}
	}
}

func pendingNote(e models.Entity) string {
	if e.Pending {
		return ", waiting for the remote store"
	}
	return ""
}

func singular(kind models.EntityKind) string {
	switch kind {
	case models.EntityKindLinks:
		return "link"
	case models.EntityKindCollections:
		return "collection"
	}
	return kind.String()
}
