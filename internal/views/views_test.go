package views

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"clockdown/internal/viewmodel"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return buf.String()
}

func TestWelcomeScreen(t *testing.T) {
	html := renderString(t, WelcomeScreen(viewmodel.WelcomeScreen{
		SessionID: "s1",
		Previews: []viewmodel.PlayerPreview{
			{Index: 0, Color: "red", Class: "player-preview player-red"},
			{Index: 1, Color: "blue", Class: "player-preview player-blue"},
		},
		CanAddPlayer: true,
	}))
	for _, want := range []string{
		`id="welcome-screen"`,
		`class="player-preview player-red"`,
		`class="player-preview player-blue"`,
		`<button id="add-player-button" type="submit">+ player</button>`,
		`<button id="start-button" type="submit">Start</button>`,
		`action="/s/s1/start"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("welcome screen missing %s", want)
		}
	}
	if strings.Contains(html, "remove-player") {
		t.Error("remove buttons should be hidden at minimum roster")
	}
}

func TestWelcomeScreen_FullAndRemovable(t *testing.T) {
	html := renderString(t, WelcomeScreen(viewmodel.WelcomeScreen{
		SessionID:       "s1",
		Previews:        []viewmodel.PlayerPreview{{Index: 2, Color: "green", Class: "player-preview player-green"}},
		CanRemovePlayer: true,
	}))
	if !strings.Contains(html, `id="add-player-button" type="submit" class="full"`) {
		t.Error("full roster should mark the add button")
	}
	if !strings.Contains(html, `action="/s/s1/players/2/remove"`) {
		t.Error("missing remove form")
	}
}

func TestClockScreen(t *testing.T) {
	html := renderString(t, ClockScreen(viewmodel.ClockScreen{
		SessionID:  "s1",
		Paused:     true,
		PauseLabel: "Resume",
		PauseClass: "paused",
		Players: []viewmodel.PlayerSection{
			{Index: 0, DOMID: "player-0", Class: "player-section player-red active paused", Label: `3"`},
			{Index: 1, DOMID: "player-1", Class: "player-section player-blue paused", Label: `0"`},
		},
	}))
	for _, want := range []string{
		`id="clock-screen"`,
		`id="players-game"`,
		`<button id="player-0" type="submit" class="player-section player-red active paused">3&#34;</button>`,
		`action="/s/s1/players/1/select"`,
		`<button id="pause-button" type="submit" class="paused">Resume</button>`,
		`id="reset-button"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("clock screen missing %s", want)
		}
	}
}

func TestPage(t *testing.T) {
	html := renderString(t, Page(viewmodel.Page{
		SessionID: `s"1`,
		Screen: viewmodel.Screen{
			Phase: "clock",
			Clock: &viewmodel.ClockScreen{SessionID: "s1", PauseLabel: "Pause"},
		},
	}))
	if !strings.Contains(html, "<title>Clockdown</title>") {
		t.Error("missing default title")
	}
	if !strings.Contains(html, `<h1 class="title">Clockdown</h1>`) {
		t.Error("missing header title")
	}
	if !strings.Contains(html, `data-session="s&#34;1"`) {
		t.Error("session id should be escaped")
	}
	if !strings.Contains(html, `<button id="pause-button" type="submit">Pause</button>`) {
		t.Error("missing clock screen")
	}
}

func TestScreen_Empty(t *testing.T) {
	if html := renderString(t, Screen(viewmodel.Screen{})); html != "" {
		t.Errorf("empty screen rendered %q", html)
	}
}
