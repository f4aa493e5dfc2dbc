package tui

import (
	"encoding/json"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-link-keeper/models"
)

// entityForm edits the attributes of one entity. Editing keeps the
// attributes the form does not show, e.g. scraped link metadata.
type entityForm struct {
	kind   models.EntityKind
	id     string
	base   json.RawMessage
	inputs []textinput.Model
	focus  int
	err    string
}

func newInput(placeholder string) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.Width = 48
	return in
}

// newEntityForm builds the form for kind. With a non-empty id it is
// prefilled from entity.
func newEntityForm(kind models.EntityKind, entity models.Entity) entityForm {
	f := entityForm{kind: kind, id: entity.ID, base: entity.Attributes}

	switch kind {
	case models.EntityKindLinks:
		attrs, _ := models.DecodeAttributes[models.LinkAttributes](entity)
		url, title, tags := newInput("URL"), newInput("Title (optional)"), newInput("Tags, comma separated (optional)")
		url.SetValue(attrs.URL)
		title.SetValue(attrs.Title)
		tags.SetValue(strings.Join(attrs.Tags, ", "))
		f.inputs = []textinput.Model{url, title, tags}

	case models.EntityKindCollections:
		attrs, _ := models.DecodeAttributes[models.CollectionAttributes](entity)
		name, description := newInput("Name"), newInput("Description (optional)")
		name.SetValue(attrs.Name)
		description.SetValue(attrs.Description)
		f.inputs = []textinput.Model{name, description}
	}

	for i := range f.inputs {
		f.inputs[i].CursorEnd()
	}
	f.inputs[0].Focus()
	return f
}

func (f entityForm) editing() bool {
	return f.id != ""
}

func (f *entityForm) next(step int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + step + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (f entityForm) update(msg tea.Msg) (entityForm, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f entityForm) value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

// attributes validates the inputs and encodes them over the attributes the
// form was opened with.
func (f entityForm) attributes() (json.RawMessage, error) {
	base := models.Entity{Attributes: f.base}

	switch f.kind {
	case models.EntityKindLinks:
		attrs, err := models.DecodeAttributes[models.LinkAttributes](base)
		if err != nil {
			return nil, err
		}
		attrs.URL, attrs.Title, attrs.Tags = f.value(0), f.value(1), splitTags(f.value(2))
		if attrs.URL == "" {
			return nil, ErrURLRequired
		}
		return models.EncodeAttributes(attrs)

	case models.EntityKindCollections:
		attrs, err := models.DecodeAttributes[models.CollectionAttributes](base)
		if err != nil {
			return nil, err
		}
		attrs.Name, attrs.Description = f.value(0), f.value(1)
		if attrs.Name == "" {
			return nil, ErrNameRequired
		}
		return models.EncodeAttributes(attrs)
	}

	return nil, models.ErrUnknownEntityKind
}

func splitTags(raw string) []string {
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func (f entityForm) View() string {
	var b strings.Builder
	for _, in := range f.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(f.err))
		b.WriteString("\n")
	}
	return b.String()
}
