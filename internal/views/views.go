// Package views renders Clockdown pages as templ components.
package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"clockdown/internal/viewmodel"
)

// Page renders the full document around the current screen.
func Page(data viewmodel.Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := data.Title
		if title == "" {
			title = "Clockdown"
		}
		if err := write(w,
			`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1">`,
			`<title>`, templ.EscapeString(title), `</title>`,
			`<link rel="stylesheet" href="/static/clockdown.css"></head>`,
			`<body data-session="`, templ.EscapeString(data.SessionID), `">`,
			`<header class="header"><h1 class="title">Clockdown</h1></header>`,
			`<main id="screen">`,
		); err != nil {
			return err
		}
		if err := Screen(data.Screen).Render(ctx, w); err != nil {
			return err
		}
		return write(w, `</main><script src="/static/clockdown.js"></script></body></html>`)
	})
}

// Screen renders whichever screen the session is on.
func Screen(data viewmodel.Screen) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		switch {
		case data.Welcome != nil:
			return WelcomeScreen(*data.Welcome).Render(ctx, w)
		case data.Clock != nil:
			return ClockScreen(*data.Clock).Render(ctx, w)
		}
		return nil
	})
}

// WelcomeScreen renders the roster editor with its start and add controls.
func WelcomeScreen(data viewmodel.WelcomeScreen) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		base := "/s/" + templ.EscapeString(data.SessionID)
		if err := write(w,
			`<section id="welcome-screen" class="screen">`,
			`<div id="players-preview" class="players-preview">`,
		); err != nil {
			return err
		}
		for _, p := range data.Previews {
			idx := strconv.Itoa(p.Index)
			if err := write(w, `<div class="`, templ.EscapeString(p.Class), `" data-index="`, idx, `">`); err != nil {
				return err
			}
			if data.CanRemovePlayer {
				if err := write(w,
					`<form method="post" action="`, base, `/players/`, idx, `/remove">`,
					`<button type="submit" class="remove-player" aria-label="remove `, templ.EscapeString(p.Color), `">&times;</button></form>`,
				); err != nil {
					return err
				}
			}
			if err := write(w, `</div>`); err != nil {
				return err
			}
		}
		addClass := ""
		if !data.CanAddPlayer {
			addClass = ` class="full"`
		}
		return write(w,
			`</div><div class="controls">`,
			`<form method="post" action="`, base, `/players"><button id="add-player-button" type="submit"`, addClass, `>+ player</button></form>`,
			`<form method="post" action="`, base, `/start"><button id="start-button" type="submit">Start</button></form>`,
			`</div></section>`,
		)
	})
}

// ClockScreen renders one button per player plus the pause and reset controls.
func ClockScreen(data viewmodel.ClockScreen) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		base := "/s/" + templ.EscapeString(data.SessionID)
		if err := write(w,
			`<section id="clock-screen" class="screen">`,
			`<div id="players-game" class="players-game">`,
		); err != nil {
			return err
		}
		for _, p := range data.Players {
			if err := PlayerSection(base, p).Render(ctx, w); err != nil {
				return err
			}
		}
		pauseClass := ""
		if data.PauseClass != "" {
			pauseClass = ` class="` + templ.EscapeString(data.PauseClass) + `"`
		}
		return write(w,
			`</div><div class="controls">`,
			`<form method="post" action="`, base, `/pause"><button id="pause-button" type="submit"`, pauseClass, `>`,
			templ.EscapeString(data.PauseLabel), `</button></form>`,
			`<form method="post" action="`, base, `/reset"><button id="reset-button" type="submit">Reset</button></form>`,
			`</div></section>`,
		)
	})
}

// PlayerSection renders a single player's clock button.
func PlayerSection(base string, p viewmodel.PlayerSection) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return write(w,
			`<form method="post" action="`, base, `/players/`, strconv.Itoa(p.Index), `/select" class="player-form">`,
			`<button id="`, templ.EscapeString(p.DOMID), `" type="submit" class="`, templ.EscapeString(p.Class), `">`,
			templ.EscapeString(p.Label),
			`</button></form>`,
		)
	})
}

func write(w io.Writer, parts ...string) error {
	for _, part := range parts {
		if _, err := io.WriteString(w, part); err != nil {
			return err
		}
	}
	return nil
}
