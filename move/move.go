// Package move defines the four slide directions and their parsing from
// user input.
package move

import "fmt"

// Direction is one of the four ways tiles can slide.
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

// AllDirections is in best-move priority order. Ties between equally
// valued moves resolve to the earliest entry.
var AllDirections = [4]Direction{Up, Down, Left, Right}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "none"
}

// ParseDirection maps user input to a Direction. It accepts the full
// direction name, WASD keys, and the first letter of each direction
// ("d" means right, as in the classic console game; use "s" for down).
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "up", "w", "u":
		return Up, nil
	case "left", "a", "l":
		return Left, nil
	case "down", "s":
		return Down, nil
	case "right", "d", "r":
		return Right, nil
	}
	return 0, fmt.Errorf("invalid direction %q; use up, down, left, or right", s)
}
