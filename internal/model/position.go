package model

import (
	"fmt"

	"github.com/pkg/errors"
)

var ErrInvalidPosition = errors.New("invalid board position")

// Position is one of the 64 squares. X is the file (0 = a) and Y the screen
// row, so Y 0 is rank 8 and Y 7 is rank 1.
// It encodes to JSON as its algebraic name.
type Position struct {
	X int
	Y int
}

func NewPosition(file, rank int) Position {
	return Position{X: file, Y: 8 - rank}
}

func ParsePosition(s string) (Position, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return Position{}, errors.Wrapf(ErrInvalidPosition, "%q", s)
	}
	return Position{X: int(s[0] - 'a'), Y: 8 - int(s[1]-'0')}, nil
}

// MustPosition is ParsePosition for literals known to be valid.
func MustPosition(s string) Position {
	p, err := ParsePosition(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Position) Valid() bool {
	return p.X >= 0 && p.X < 8 && p.Y >= 0 && p.Y < 8
}

func (p Position) Equals(other Position) bool {
	return p.X == other.X && p.Y == other.Y
}

// Rank returns the chess rank, 1 through 8.
func (p Position) Rank() int {
	return 8 - p.Y
}

func (p Position) File() string {
	return fmt.Sprintf("%c", p.X+97)
}

// String returns algebraic notation, e.g. "e4".
func (p Position) String() string {
	return fmt.Sprintf("%c%d", p.X+97, 8-p.Y)
}

func (p Position) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, errors.Wrapf(ErrInvalidPosition, "x=%d y=%d", p.X, p.Y)
	}
	return []byte(p.String()), nil
}

func (p *Position) UnmarshalText(text []byte) error {
	parsed, err := ParsePosition(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// IsLight reports whether the square is a light square (h1 is light).
func (p Position) IsLight() bool {
	return (p.X+p.Y)%2 == 0
}
