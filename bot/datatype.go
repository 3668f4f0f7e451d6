package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidSteer   = errors.New("invalid steering code")
	ErrInvalidCommand = errors.New("invalid command type")
	ErrInvalidMode    = errors.New("invalid mode")
	ErrInvalidPower   = errors.New("invalid power value")
)

type (
	Steer   byte
	Command byte
	Mode    byte
	Power   uint8
	Flag    uint8
)

var (
	steerNames = map[Steer]string{
		BackLeft:  "BACK_LEFT",
		Back:      "BACK",
		BackRight: "BACK_RIGHT",
		SpinLeft:  "SPIN_LEFT",
		Stop:      "STOP",
		SpinRight: "SPIN_RIGHT",
		FwdLeft:   "FWD_LEFT",
		Fwd:       "FWD",
		FwdRight:  "FWD_RIGHT",
	}
	commandNames = map[Command]string{
		Movement: "MOVEMENT",
		Speed:    "SPEED",
		Program:  "PROGRAM",
	}
	modeNames = map[Mode]string{
		RemoteOp: "REMOTE_OP",
		Obstacle: "OBSTACLE",
	}
)

//
// Steer
//

// Steers returns all the steering codes, from BackLeft to FwdRight.
func Steers() []Steer {
	return []Steer{BackLeft, Back, BackRight, SpinLeft, Stop, SpinRight, FwdLeft, Fwd, FwdRight}
}

func ParseSteer(b byte) (Steer, error) {
	s := Steer(b)
	if _, ok := steerNames[s]; !ok {
		return 0, fmt.Errorf("%s: %w", strconv.QuoteRuneToASCII(rune(b)), ErrInvalidSteer)
	}
	return s, nil
}

// SteerByName accepts a symbolic name (e.g. "fwd_left", "FWD-LEFT") or the wire character.
func SteerByName(name string) (Steer, error) {
	name = strings.TrimSpace(name)
	if len(name) == 1 {
		return ParseSteer(name[0])
	}

	for s, n := range steerNames {
		if n == normalize(name) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%s: %w", strconv.Quote(name), ErrInvalidSteer)
}

// SteerAt returns the steering code of the grid cell (x, y).
// x is -1 (left), 0 or 1 (right). y is -1 (back), 0 (in place) or 1 (forward).
func SteerAt(x, y int) (Steer, error) {
	if x < -1 || x > 1 || y < -1 || y > 1 {
		return 0, fmt.Errorf("(%d,%d): %w", x, y, ErrInvalidSteer)
	}
	return BackLeft + Steer((y+1)*3+(x+1)), nil
}

// Grid returns the cell of s as laid out by SteerAt, ok is false for an invalid code.
func (s Steer) Grid() (x, y int, ok bool) {
	if !s.Valid() {
		return 0, 0, false
	}

	i := int(s - BackLeft)
	return i%3 - 1, i/3 - 1, true
}

func (s Steer) Valid() bool {
	_, ok := steerNames[s]
	return ok
}

func (s Steer) Byte() byte {
	return byte(s)
}

func (s Steer) String() string {
	if n, ok := steerNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Steer(%+q)", rune(s))
}

func (s Steer) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%s: %w", s, ErrInvalidSteer)
	}
	return []byte{byte(s)}, nil
}

func (s *Steer) UnmarshalText(data []byte) error {
	if len(data) != 1 {
		return fmt.Errorf("%s: %w", strconv.Quote(string(data)), ErrInvalidSteer)
	}

	v, err := ParseSteer(data[0])
	if err != nil {
		return err
	}
	*s = v
	return nil
}

//
// Command
//

func Commands() []Command {
	return []Command{Movement, Program, Speed}
}

func ParseCommand(b byte) (Command, error) {
	c := Command(b)
	if _, ok := commandNames[c]; !ok {
		return 0, fmt.Errorf("%s: %w", strconv.QuoteRuneToASCII(rune(b)), ErrInvalidCommand)
	}
	return c, nil
}

func CommandByName(name string) (Command, error) {
	name = strings.TrimSpace(name)
	if len(name) == 1 {
		return ParseCommand(name[0])
	}

	for c, n := range commandNames {
		if n == normalize(name) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%s: %w", strconv.Quote(name), ErrInvalidCommand)
}

func (c Command) Valid() bool {
	_, ok := commandNames[c]
	return ok
}

func (c Command) Byte() byte {
	return byte(c)
}

func (c Command) String() string {
	if n, ok := commandNames[c]; ok {
		return n
	}
	return fmt.Sprintf("Command(%+q)", rune(c))
}

func (c Command) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%s: %w", c, ErrInvalidCommand)
	}
	return []byte{byte(c)}, nil
}

func (c *Command) UnmarshalText(data []byte) error {
	if len(data) != 1 {
		return fmt.Errorf("%s: %w", strconv.Quote(string(data)), ErrInvalidCommand)
	}

	v, err := ParseCommand(data[0])
	if err != nil {
		return err
	}
	*c = v
	return nil
}

//
// Mode
//

func Modes() []Mode {
	return []Mode{RemoteOp, Obstacle}
}

func ParseMode(b byte) (Mode, error) {
	m := Mode(b)
	if _, ok := modeNames[m]; !ok {
		return 0, fmt.Errorf("%s: %w", strconv.QuoteRuneToASCII(rune(b)), ErrInvalidMode)
	}
	return m, nil
}

func ModeByName(name string) (Mode, error) {
	name = strings.TrimSpace(name)
	if len(name) == 1 {
		return ParseMode(name[0])
	}

	for m, n := range modeNames {
		if n == normalize(name) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%s: %w", strconv.Quote(name), ErrInvalidMode)
}

func (m Mode) Valid() bool {
	_, ok := modeNames[m]
	return ok
}

func (m Mode) Byte() byte {
	return byte(m)
}

func (m Mode) String() string {
	if n, ok := modeNames[m]; ok {
		return n
	}
	return fmt.Sprintf("Mode(%+q)", rune(m))
}

func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%s: %w", m, ErrInvalidMode)
	}
	return []byte{byte(m)}, nil
}

func (m *Mode) UnmarshalText(data []byte) error {
	if len(data) != 1 {
		return fmt.Errorf("%s: %w", strconv.Quote(string(data)), ErrInvalidMode)
	}

	v, err := ParseMode(data[0])
	if err != nil {
		return err
	}
	*m = v
	return nil
}

//
// Power & Flag
//

// PowerFromPercent maps [0,100] onto [0,MaxPower], rounded to the nearest step.
func PowerFromPercent(pct int) (Power, error) {
	if pct < 0 || pct > 100 {
		return 0, fmt.Errorf("%d%%: %w", pct, ErrInvalidPower)
	}
	return Power((pct*int(MaxPower) + 50) / 100), nil
}

func (p Power) Percent() int {
	return (int(p)*100 + int(MaxPower)/2) / int(MaxPower)
}

func FlagFrom(v bool) Flag {
	if v {
		return Trigger
	}
	return MonitorMode
}

func (f Flag) Bool() bool {
	return f == Trigger
}

func (f Flag) String() string {
	switch f {
	case MonitorMode:
		return "MONITOR_MODE"
	case Trigger:
		return "TRIGGER"
	default:
		return fmt.Sprintf("Flag(%d)", uint8(f))
	}
}

func normalize(name string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), "-", "_"))
}
