package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/plantel/internal/fault"
)

// formModal edits the writable columns of one record. An empty id adds a
// new record.
type formModal struct {
	tab    Tab
	id     string
	title  string
	keys   []string
	labels []string
	inputs []textinput.Model
	focus  int
	err    string
}

func newFormModal(tab Tab, id string) (formModal, error) {
	values, err := tab.FormValues(id)
	if err != nil {
		return formModal{}, err
	}
	f := formModal{tab: tab, id: id, title: "New record: " + tab.Title()}
	if id != "" {
		f.title = "Edit " + id + ": " + tab.Title()
	}
	for _, c := range tab.Columns() {
		if c.ReadOnly {
			continue
		}
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 200
		in.Width = 32
		in.Placeholder = strings.ToLower(c.Title)
		in.SetValue(values[c.Key])

		label := c.Title
		if c.Required {
			label += " *"
		}
		f.keys = append(f.keys, c.Key)
		f.labels = append(f.labels, label)
		f.inputs = append(f.inputs, in)
	}
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
	return f, nil
}

func (f formModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Escape):
			return f, nil, true
		case key.Matches(msg, keys.Confirm):
			if err := f.submit(); err != nil {
				f.err = fault.UserMessage(err)
				return f, nil, false
			}
			return f, nil, true
		case key.Matches(msg, keys.NextField):
			return f, f.move(1), false
		case key.Matches(msg, keys.PrevField):
			return f, f.move(-1), false
		}
	}
	if len(f.inputs) == 0 {
		return f, nil, false
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd, false
}

func (f *formModal) move(delta int) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	return f.inputs[f.focus].Focus()
}

func (f formModal) values() map[string]string {
	out := make(map[string]string, len(f.keys))
	for i, k := range f.keys {
		out[k] = f.inputs[i].Value()
	}
	return out
}

func (f formModal) submit() error {
	if f.id == "" {
		return f.tab.Add(f.values())
	}
	return f.tab.Edit(f.id, f.values())
}

func (f formModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render(f.title))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 44)))
	b.WriteString("\n\n")

	for i, in := range f.inputs {
		labelStyle := styles.MutedText
		if i == f.focus {
			labelStyle = styles.AccentText.Bold(true)
		}
		b.WriteString(labelStyle.Width(14).Render(f.labels[i]))
		b.WriteString(in.View())
		b.WriteString("\n")
	}

	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(styles.DangerText.Render(f.err))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("enter save · tab next field · esc cancel"))

	return placeModal(theme, b.String(), 52, width, height)
}
