package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/MKhiriev/go-link-keeper/models"
)

func (m mainModel) View() string {
	var b strings.Builder

	b.WriteString(m.tabsView())
	b.WriteString("\n\n")

	switch m.mode {
	case modeForm:
		b.WriteString(m.formView())
	case modeConfirmDelete:
		b.WriteString(m.confirmView())
	case modePending:
		b.WriteString(overlayBoxStyle.Render(m.pendingView()))
	case modeBuildInfo:
		b.WriteString(overlayBoxStyle.Render(strings.TrimRight(m.build.String(), "\n")))
	default:
		b.WriteString(m.listView())
	}

	b.WriteString("\n\n")
	b.WriteString(m.statusView())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.helpView()))

	return appStyle.Render(b.String())
}

func (m mainModel) tabsView() string {
	tabs := make([]string, len(models.EntityKinds))
	for i, kind := range models.EntityKinds {
		label := kind.String()
		if n := len(m.engine.PendingOperations(kind)); n > 0 {
			label += fmt.Sprintf(" [%d pending]", n)
		}
		if i == m.kindIdx {
			tabs[i] = activeTabStyle.Render(label)
			continue
		}
		tabs[i] = tabStyle.Render(label)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, titleStyle.Render("go-link-keeper")+"  ", strings.Join(tabs, "  "))
}

func (m mainModel) listView() string {
	if len(m.items) == 0 {
		if m.loading {
			return m.spinner.View() + " loading"
		}
		return fmt.Sprintf("no %s yet, press n to add one", m.kind())
	}

	lines := make([]string, len(m.items))
	for i, e := range m.items {
		line := describe(m.kind(), e)
		if e.Pending {
			line = pendingStyle.Render(line)
		}
		if i == m.idx {
			line = cursorStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

func (m mainModel) formView() string {
	title := "new " + singular(m.form.kind)
	if m.form.editing() {
		title = "edit " + m.form.id
	}
	return titleStyle.Render(title) + "\n\n" + m.form.View()
}

func (m mainModel) confirmView() string {
	item, _ := m.current()
	return fmt.Sprintf("delete %s?\n\n%s\n\n(y/n)", singular(m.kind()), describe(m.kind(), item))
}

func (m mainModel) pendingView() string {
	if len(m.pending) == 0 {
		return fmt.Sprintf("nothing queued for %s", m.kind())
	}

	lines := make([]string, len(m.pending))
	for i, op := range m.pending {
		lines[i] = fmt.Sprintf("#%d %s %s %s", op.ID, op.Kind, op.TargetID, op.EnqueuedAt.Format("15:04:05"))
	}
	return strings.Join(lines, "\n")
}

func (m mainModel) statusView() string {
	var parts []string
	if m.syncing {
		parts = append(parts, m.spinner.View()+" syncing")
	}
	if m.lastErr != nil {
		parts = append(parts, errorStyle.Render("last sync error: "+string(*m.lastErr)))
	}
	if m.errMsg != "" {
		parts = append(parts, errorStyle.Render(m.errMsg))
	}
	if m.status != "" {
		parts = append(parts, statusStyle.Render(m.status))
	}
	return strings.Join(parts, "  ")
}

func (m mainModel) helpView() string {
	switch m.mode {
	case modeForm:
		return "tab next field • enter save • esc cancel"
	case modeConfirmDelete:
		return "y delete • n cancel"
	case modePending, modeBuildInfo:
		return "esc back"
	}
	return "↑/↓ move • tab switch • n new • e edit • d delete • c copy • s refresh • S force refresh • p pending • v version • l logout • q quit"
}

// describe renders one entity on a single line. Pending copies are marked
// with a star.
func describe(kind models.EntityKind, e models.Entity) string {
	mark := " "
	if e.Pending {
		mark = "*"
	}

	switch kind {
	case models.EntityKindLinks:
		attrs, err := models.DecodeAttributes[models.LinkAttributes](e)
		if err != nil {
			break
		}
		if attrs.Title != "" {
			return fmt.Sprintf("%s %s  %s  %s", mark, e.ID, attrs.Title, attrs.URL)
		}
		return fmt.Sprintf("%s %s  %s", mark, e.ID, attrs.URL)
	case models.EntityKindCollections:
		attrs, err := models.DecodeAttributes[models.CollectionAttributes](e)
		if err != nil {
			break
		}
		return fmt.Sprintf("%s %s  %s", mark, e.ID, attrs.Name)
	}

	return fmt.Sprintf("%s %s  %s", mark, e.ID, e.Attributes)
}
