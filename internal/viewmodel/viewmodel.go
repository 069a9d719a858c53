// Package viewmodel defines the view-layer types for Clockdown pages.
// These types are free of game-logic imports so the views package can use
// them without depending on the clock engine.
package viewmodel

// Page holds data for the full page shell.
type Page struct {
	Title     string
	SessionID string
	Screen    Screen
}

// Screen is whichever screen the session is on. Exactly one of Welcome and
// Clock is set.
type Screen struct {
	SessionID string
	Phase     string
	Welcome   *WelcomeScreen
	Clock     *ClockScreen
}

// WelcomeScreen holds the roster editor.
type WelcomeScreen struct {
	SessionID       string
	Previews        []PlayerPreview
	Capacity        int
	CanAddPlayer    bool
	CanRemovePlayer bool
}

// PlayerPreview is one seat on the welcome screen.
type PlayerPreview struct {
	Index int
	Color string
	Class string
}

// ClockScreen holds the running clock.
type ClockScreen struct {
	SessionID  string
	Paused     bool
	PauseLabel string
	PauseClass string
	Players    []PlayerSection
}

// PlayerSection is one player's clock button.
type PlayerSection struct {
	Index    int
	DOMID    string
	Color    string
	Class    string
	Label    string
	Seconds  int
	Active   bool
	Thinking bool
	Paused   bool
}
