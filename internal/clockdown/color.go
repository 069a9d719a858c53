// Package clockdown implements the Clockdown turn clock: the pre-game roster
// and the single-active-timer engine that runs once the game starts.
//
// Everything here is a value. Transitions return a new Roster or State and
// take the current instant as an argument; nothing in this package reads the
// wall clock, holds a timer or starts a goroutine.
package clockdown

// Color identifies a player seat. It is a function of roster position.
type Color string

const (
	Red    Color = "red"
	Blue   Color = "blue"
	Green  Color = "green"
	Yellow Color = "yellow"
	Purple Color = "purple"
	Orange Color = "orange"
	Brown  Color = "brown"
)

// Palette is the fixed seat order. Position i always gets Palette[i].
var Palette = []Color{Red, Blue, Green, Yellow, Purple, Orange, Brown}

// ColorAt returns the color for roster position i.
func ColorAt(i int) Color {
	if i < 0 || i >= len(Palette) {
		return ""
	}
	return Palette[i]
}
