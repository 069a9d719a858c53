package clockdown

import "fmt"

const (
	// MinPlayers is both the starting roster size and the smallest playable one.
	MinPlayers = 2
	// DefaultCapacity is the largest roster the palette can color.
	DefaultCapacity = 7
)

// Player is one seat at the table.
type Player struct {
	Index int
	Color Color
}

// Roster is the ordered pre-game player list. The zero value is not usable;
// build one with NewRoster.
type Roster struct {
	size     int
	capacity int
}

// NewRoster returns a two-player roster. capacity is clamped to
// [MinPlayers, DefaultCapacity]; zero or negative means DefaultCapacity.
func NewRoster(capacity int) Roster {
	return Roster{size: MinPlayers, capacity: clampCapacity(capacity)}
}

func clampCapacity(capacity int) int {
	switch {
	case capacity <= 0:
		return DefaultCapacity
	case capacity < MinPlayers:
		return MinPlayers
	case capacity > DefaultCapacity:
		return DefaultCapacity
	}
	return capacity
}

// Len returns the number of players.
func (r Roster) Len() int {
	return r.size
}

// Capacity returns the maximum number of players.
func (r Roster) Capacity() int {
	return r.capacity
}

// Full reports whether AddPlayer would be a no-op.
func (r Roster) Full() bool {
	return r.size >= r.capacity
}

// AddPlayer appends a player in the next palette color. At capacity the
// roster is returned unchanged.
func (r Roster) AddPlayer() Roster {
	if r.Full() {
		return r
	}
	r.size++
	return r
}

// RemovePlayer drops the player at index i. Later players shift down one seat
// and take the color of their new position. Removing below MinPlayers or an
// index outside the roster leaves it unchanged.
func (r Roster) RemovePlayer(i int) Roster {
	if i < 0 || i >= r.size || r.size <= MinPlayers {
		return r
	}
	r.size--
	return r
}

// Players returns the seats in order.
func (r Roster) Players() []Player {
	players := make([]Player, r.size)
	for i := range players {
		players[i] = Player{Index: i, Color: ColorAt(i)}
	}
	return players
}

// Finalize returns the seats to hand to the engine.
func (r Roster) Finalize() ([]Player, error) {
	if r.capacity == 0 {
		return nil, fmt.Errorf("%w: roster was not created with NewRoster", ErrPrecondition)
	}
	if r.size < MinPlayers || r.size > r.capacity {
		return nil, fmt.Errorf("%w: roster size %d outside [%d, %d]", ErrPrecondition, r.size, MinPlayers, r.capacity)
	}
	return r.Players(), nil
}
