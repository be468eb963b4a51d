package ui

import (
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/five82/plantel/internal/state"
)

func TestThemesColorEverySyncState(t *testing.T) {
	keys := []string{
		state.Synced.String(),
		state.PendingCreate.String(),
		state.PendingUpdate.String(),
		state.PendingDelete.String(),
		state.SyncFailed.String(),
		"delete-failed",
	}
	for _, name := range ThemeNames() {
		theme := GetTheme(name)
		if theme.Name != name {
			t.Fatalf("GetTheme(%q).Name = %q", name, theme.Name)
		}
		for _, k := range keys {
			if theme.StatusColors[k] == "" {
				t.Errorf("%s: no color for %q", name, k)
			}
		}
	}
}

func TestNextThemeCycles(t *testing.T) {
	names := ThemeNames()
	current := names[0]
	for range names {
		current = NextTheme(current)
	}
	if current != names[0] {
		t.Fatalf("cycle ended at %q, want %q", current, names[0])
	}
	if got := NextTheme("Dracula"); got != names[0] {
		t.Fatalf("NextTheme(unknown) = %q", got)
	}
	if got := GetTheme("Dracula").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(unknown) = %q", got)
	}
}

func TestWithBackgroundKeepsForegrounds(t *testing.T) {
	theme := GetTheme("Slate")
	styles := theme.Styles().WithBackground(theme.Surface)
	if styles.DangerText.GetForeground() != theme.Styles().DangerText.GetForeground() {
		t.Fatal("danger foreground changed")
	}
}

func TestBgStyleRenderKeepsSpacing(t *testing.T) {
	bg := NewBgStyle(GetTheme("Nightfox").Background)
	styles := GetTheme("Nightfox").Styles()

	for _, text := range []string{"plain", "two words", "  lead and  gap ", ""} {
		got := ansi.Strip(bg.Render(text, styles.Text))
		if got != text {
			t.Errorf("Render(%q) = %q", text, got)
		}
	}
	if got := ansi.Strip(bg.Spaces(3)); got != "   " {
		t.Errorf("Spaces(3) = %q", got)
	}
	if bg.Spaces(0) != "" {
		t.Error("Spaces(0) not empty")
	}
}
