package tui

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/models"
)

func newTestModel(engine *fakeEngine) mainModel {
	return newMainModel(context.Background(), engine, models.NewBuildInfo("v0.3.0", "", ""))
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press feeds keys one by one and returns the command of the last one.
func press(t *testing.T, m mainModel, keys ...string) (mainModel, tea.Cmd) {
	t.Helper()

	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(keyMsg(k))
		m = next.(mainModel)
	}
	return m, cmd
}

// finish runs an engine command and feeds its result back.
func finish(t *testing.T, m mainModel, cmd tea.Cmd) mainModel {
	t.Helper()
	require.NotNil(t, cmd)

	next, _ := m.Update(cmd())
	return next.(mainModel)
}

func link(id, url, title string, pending bool) models.Entity {
	raw, _ := json.Marshal(models.LinkAttributes{URL: url, Title: title})
	return models.Entity{ID: id, Attributes: raw, Pending: pending}
}

func TestMainModel_CreateLink(t *testing.T) {
	engine := newFakeEngine()
	m := newTestModel(engine)

	m, cmd := press(t, m, "n", "https://go.dev", "tab", "Go", "tab", "go, docs ,", "enter")
	m = finish(t, m, cmd)

	assert.Equal(t, []string{`create links {"url":"https://go.dev","title":"Go","tags":["go","docs"]}`}, engine.callLog())
	assert.Equal(t, modeList, m.mode)
	assert.Len(t, m.items, 1)
	assert.Contains(t, m.View(), "link added")
}

func TestMainModel_CreateCollection(t *testing.T) {
	engine := newFakeEngine()
	m := newTestModel(engine)

	m, cmd := press(t, m, "tab", "n", "Reading", "enter")
	finish(t, m, cmd)

	assert.Equal(t, []string{`create collections {"name":"Reading"}`}, engine.callLog())
}

func TestMainModel_FormValidation(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want error
	}{
		{"link without URL", []string{"n", "tab", "Go", "enter"}, ErrURLRequired},
		{"collection without name", []string{"tab", "n", "tab", "about", "enter"}, ErrNameRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newFakeEngine()

			m, cmd := press(t, newTestModel(engine), tt.keys...)

			assert.Nil(t, cmd)
			assert.Equal(t, modeForm, m.mode)
			assert.Contains(t, m.View(), tt.want.Error())
			assert.Empty(t, engine.callLog())
		})
	}
}

func TestMainModel_EditKeepsHiddenAttributes(t *testing.T) {
	engine := newFakeEngine()
	engine.entities[models.EntityKindLinks] = []models.Entity{{
		ID:         "l-1",
		Attributes: json.RawMessage(`{"url":"https://go.dev","title":"Go","site_name":"go.dev"}`),
	}}
	m := newTestModel(engine)

	// the title input starts with "Go"; one more rune is appended at the end
	m, cmd := press(t, m, "e", "tab", "!", "enter")
	finish(t, m, cmd)

	assert.Equal(t, []string{`update links l-1 {"url":"https://go.dev","title":"Go!","site_name":"go.dev"}`}, engine.callLog())
}

func TestMainModel_EscCancelsForm(t *testing.T) {
	engine := newFakeEngine()

	m, cmd := press(t, newTestModel(engine), "n", "https://go.dev", "esc")

	assert.Nil(t, cmd)
	assert.Equal(t, modeList, m.mode)
	assert.Empty(t, engine.callLog())
}

func TestMainModel_DeleteAsksForConfirmation(t *testing.T) {
	engine := newFakeEngine()
	engine.entities[models.EntityKindLinks] = []models.Entity{
		link("l-1", "https://go.dev", "", false),
		link("l-2", "https://pkg.go.dev", "", false),
	}
	m := newTestModel(engine)

	m, cmd := press(t, m, "j", "d")
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "delete link?")

	m, cmd = press(t, m, "n")
	assert.Nil(t, cmd)
	assert.Equal(t, modeList, m.mode)
	assert.Empty(t, engine.callLog())

	m, cmd = press(t, m, "d", "y")
	m = finish(t, m, cmd)

	assert.Equal(t, []string{"delete links l-2"}, engine.callLog())
	assert.Contains(t, m.View(), "link deleted")
}

func TestMainModel_EmptyListIgnoresEditAndDelete(t *testing.T) {
	engine := newFakeEngine()

	m, cmd := press(t, newTestModel(engine), "e")
	assert.Nil(t, cmd)
	assert.Equal(t, modeList, m.mode)

	m, cmd = press(t, m, "d")
	assert.Nil(t, cmd)
	assert.Equal(t, modeList, m.mode)
	assert.Contains(t, m.View(), "nothing to delete")
}

func TestMainModel_Refresh(t *testing.T) {
	engine := newFakeEngine()
	m := newTestModel(engine)

	m, cmd := press(t, m, "tab", "s")
	m = finish(t, m, cmd)
	m, cmd = press(t, m, "S")
	m = finish(t, m, cmd)

	assert.Equal(t, []string{"refresh collections", "refresh collections force"}, engine.callLog())
	assert.Contains(t, m.View(), "refresh collections: scheduled")
}

func TestMainModel_OperationErrorIsShown(t *testing.T) {
	engine := newFakeEngine()
	engine.entities[models.EntityKindLinks] = []models.Entity{link("l-1", "https://go.dev", "", false)}
	engine.opErr = errors.New("remote said no")
	m := newTestModel(engine)

	m, cmd := press(t, m, "d", "y")
	m = finish(t, m, cmd)

	assert.Contains(t, m.View(), "delete failed: remote said no")
}

func TestMainModel_PendingState(t *testing.T) {
	engine := newFakeEngine()
	engine.entities[models.EntityKindLinks] = []models.Entity{link("tmp-1", "https://go.dev", "Go", true)}
	engine.pending[models.EntityKindLinks] = []models.PendingOperation{{
		ID:         1,
		Kind:       models.OperationCreate,
		TargetID:   "tmp-1",
		EnqueuedAt: time.Date(2026, 1, 2, 10, 30, 0, 0, time.UTC),
	}}
	network := models.ErrorKindNetwork
	engine.lastErr[models.EntityKindLinks] = &network
	m := newTestModel(engine)

	view := m.View()
	assert.Contains(t, view, "* tmp-1  Go  https://go.dev")
	assert.Contains(t, view, "links [1 pending]")
	assert.Contains(t, view, "last sync error: network")

	m, _ = press(t, m, "p")
	assert.Contains(t, m.View(), "#1 create tmp-1 10:30:00")

	m, _ = press(t, m, "esc")
	assert.Equal(t, modeList, m.mode)
}

func TestMainModel_TickReloads(t *testing.T) {
	engine := newFakeEngine()
	m := newTestModel(engine)
	require.Empty(t, m.items)

	engine.entities[models.EntityKindLinks] = []models.Entity{link("r-1", "https://go.dev", "", false)}
	next, cmd := m.Update(tickMsg{})
	m = next.(mainModel)

	assert.NotNil(t, cmd)
	assert.Len(t, m.items, 1)
	assert.Contains(t, m.View(), "r-1")
}

func TestMainModel_CopySelected(t *testing.T) {
	engine := newFakeEngine()
	engine.entities[models.EntityKindLinks] = []models.Entity{link("l-1", "https://go.dev", "Go", false)}
	engine.entities[models.EntityKindCollections] = []models.Entity{{ID: "c-1", Attributes: json.RawMessage(`{"name":"Reading"}`)}}

	var copied []string
	m := newTestModel(engine)
	m.copyText = func(s string) error {
		copied = append(copied, s)
		return nil
	}

	m, _ = press(t, m, "c", "tab", "c")

	assert.Equal(t, []string{"https://go.dev", "Reading"}, copied)
	assert.Contains(t, m.View(), "copied Reading")

	m.copyText = func(string) error { return errors.New("no clipboard utility") }
	m, _ = press(t, m, "c")
	assert.Contains(t, m.View(), "copy failed: no clipboard utility")
}

func TestMainModel_BuildInfo(t *testing.T) {
	m, _ := press(t, newTestModel(newFakeEngine()), "v")

	assert.Contains(t, m.View(), "v0.3.0")
}

func TestMainModel_QuitAndLogout(t *testing.T) {
	tests := []struct {
		name       string
		keys       []string
		wantLogout bool
	}{
		{"quit", []string{"q"}, false},
		{"logout", []string{"l"}, true},
		{"ctrl+c in form", []string{"n", "ctrl+c"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, cmd := press(t, newTestModel(newFakeEngine()), tt.keys...)

			require.NotNil(t, cmd)
			assert.Equal(t, tea.QuitMsg{}, cmd())
			assert.Equal(t, tt.wantLogout, m.logout)
		})
	}
}

func TestMainModel_FormTakesLetterKeysAsText(t *testing.T) {
	engine := newFakeEngine()

	m, _ := press(t, newTestModel(engine), "n", "q", "l", "d")

	assert.Equal(t, modeForm, m.mode)
	assert.False(t, m.logout)
	assert.Equal(t, "qld", m.form.value(0))
}

func TestTUI_MainLoop(t *testing.T) {
	t.Run("logout key", func(t *testing.T) {
		ui := New(newFakeEngine(), models.NewBuildInfo("", "", ""), logger.Nop(),
			tea.WithInput(strings.NewReader("l")), tea.WithOutput(io.Discard))

		logout, err := ui.MainLoop(context.Background())

		require.NoError(t, err)
		assert.True(t, logout)
	})

	t.Run("cancelled context", func(t *testing.T) {
		pr, pw := io.Pipe()
		defer pw.Close()

		ctx, cancel := context.WithCancel(context.Background())
		ui := New(newFakeEngine(), models.NewBuildInfo("", "", ""), logger.Nop(),
			tea.WithInput(pr), tea.WithOutput(io.Discard))

		done := make(chan error, 1)
		go func() {
			_, err := ui.MainLoop(ctx)
			done <- err
		}()
		cancel()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("main loop did not stop after cancel")
		}
	})
}
