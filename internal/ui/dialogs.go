package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/plantel/internal/fault"
	"github.com/five82/plantel/internal/session"
)

// confirmModal answers a question asked through the bridge.
type confirmModal struct {
	prompt promptMsg
}

func (c confirmModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch {
	case key.Matches(k, keys.Yes), key.Matches(k, keys.Confirm):
		c.prompt.answer(true)
		return c, nil, true
	case key.Matches(k, keys.No), key.Matches(k, keys.Escape):
		c.prompt.answer(false)
		return c, nil, true
	}
	return c, nil, false
}

func (c confirmModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder
	b.WriteString(styles.WarningText.Bold(true).Render("Confirm"))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render(c.prompt.text))
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("y confirm · n/esc cancel"))
	return placeModal(theme, b.String(), 48, width, height)
}

// loginDoneMsg reports a token saved from the token modal.
type loginDoneMsg struct{}

// tokenModal asks for a new access token.
type tokenModal struct {
	ctx     context.Context
	session *session.Session
	reason  string
	input   textinput.Model
	err     string
}

func newTokenModal(ctx context.Context, s *session.Session, reason error) tokenModal {
	in := textinput.New()
	in.Prompt = "› "
	in.Placeholder = "paste token"
	in.EchoMode = textinput.EchoPassword
	in.EchoCharacter = '•'
	in.CharLimit = 4096
	in.Width = 40
	in.Focus()

	t := tokenModal{ctx: ctx, session: s, input: in}
	if reason != nil {
		t.reason = fault.UserMessage(reason)
	}
	return t
}

func (t tokenModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, keys.Escape):
			return t, nil, true
		case key.Matches(k, keys.Confirm):
			if t.session == nil {
				t.err = "no session store configured"
				return t, nil, false
			}
			if err := t.session.Login(t.ctx, t.input.Value()); err != nil {
				t.err = fault.UserMessage(err)
				return t, nil, false
			}
			return t, func() tea.Msg { return loginDoneMsg{} }, true
		}
	}
	var cmd tea.Cmd
	t.input, cmd = t.input.Update(msg)
	return t, cmd, false
}

func (t tokenModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Access token"))
	b.WriteString("\n\n")
	if t.reason != "" {
		b.WriteString(styles.WarningText.Render(t.reason))
		b.WriteString("\n\n")
	}
	b.WriteString(t.input.View())
	b.WriteString("\n")
	if t.err != "" {
		b.WriteString("\n")
		b.WriteString(styles.DangerText.Render(t.err))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("enter save · esc cancel"))
	return placeModal(theme, b.String(), 52, width, height)
}
