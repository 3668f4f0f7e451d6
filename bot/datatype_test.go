package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiterals(t *testing.T) {
	assert.EqualValues(t, '1', BackLeft)
	assert.EqualValues(t, '2', Back)
	assert.EqualValues(t, '3', BackRight)
	assert.EqualValues(t, '4', SpinLeft)
	assert.EqualValues(t, '5', Stop)
	assert.EqualValues(t, '6', SpinRight)
	assert.EqualValues(t, '7', FwdLeft)
	assert.EqualValues(t, '8', Fwd)
	assert.EqualValues(t, '9', FwdRight)

	assert.EqualValues(t, 255, MaxPower)

	assert.EqualValues(t, 'M', Movement)
	assert.EqualValues(t, 'S', Speed)
	assert.EqualValues(t, 'P', Program)

	assert.EqualValues(t, '1', RemoteOp)
	assert.EqualValues(t, '2', Obstacle)

	assert.EqualValues(t, 0, MonitorMode)
	assert.EqualValues(t, 1, Trigger)
}

func TestDistinct(t *testing.T) {
	seen := map[byte]Steer{}
	for _, s := range Steers() {
		_, dup := seen[s.Byte()]
		assert.False(t, dup, s.String())
		seen[s.Byte()] = s
	}
	assert.Len(t, seen, 9)

	commands := map[Command]bool{}
	for _, c := range Commands() {
		commands[c] = true

		// Command tags never collide with steering or mode bytes.
		_, err := ParseSteer(c.Byte())
		assert.ErrorIs(t, err, ErrInvalidSteer)
		_, err = ParseMode(c.Byte())
		assert.ErrorIs(t, err, ErrInvalidMode)
	}
	assert.Len(t, commands, 3)

	assert.NotEqual(t, RemoteOp, Obstacle)
	assert.NotEqual(t, MonitorMode, Trigger)
}

func TestSteer(t *testing.T) {
	t.Run("round-trip through the character", func(t *testing.T) {
		for _, s := range Steers() {
			text, err := s.MarshalText()
			require.NoError(t, err)
			require.Len(t, text, 1)

			var got Steer
			require.NoError(t, got.UnmarshalText(text))
			assert.Equal(t, s, got)

			got, err = ParseSteer(s.Byte())
			require.NoError(t, err)
			assert.Equal(t, s, got)
		}
	})

	t.Run("invalid bytes", func(t *testing.T) {
		for _, b := range []byte{'0', 'A', 0, 255} {
			_, err := ParseSteer(b)
			assert.ErrorIs(t, err, ErrInvalidSteer)
		}

		var s Steer
		assert.ErrorIs(t, s.UnmarshalText([]byte("12")), ErrInvalidSteer)
		assert.ErrorIs(t, s.UnmarshalText(nil), ErrInvalidSteer)

		_, err := ParseSteer(0xFF)
		assert.ErrorContains(t, err, `'\u00ff'`, "the wire byte is shown")

		_, err = Steer('x').MarshalText()
		assert.ErrorIs(t, err, ErrInvalidSteer)
		assert.Equal(t, "Steer('x')", Steer('x').String())
	})

	t.Run("names", func(t *testing.T) {
		tests := map[string]Steer{
			"fwd_left":   FwdLeft,
			"FWD-LEFT":   FwdLeft,
			" back ":     Back,
			"spin_right": SpinRight,
			"5":          Stop,
			" 5 ":        Stop,
		}
		for name, expected := range tests {
			s, err := SteerByName(name)
			require.NoError(t, err, name)
			assert.Equal(t, expected, s, name)
		}

		_, err := SteerByName("sideways")
		assert.ErrorIs(t, err, ErrInvalidSteer)
		assert.Equal(t, "FWD_RIGHT", FwdRight.String())
	})

	t.Run("grid", func(t *testing.T) {
		tests := []struct {
			steer Steer
			x, y  int
		}{
			{BackLeft, -1, -1},
			{Back, 0, -1},
			{BackRight, 1, -1},
			{SpinLeft, -1, 0},
			{Stop, 0, 0},
			{SpinRight, 1, 0},
			{FwdLeft, -1, 1},
			{Fwd, 0, 1},
			{FwdRight, 1, 1},
		}
		for _, tt := range tests {
			x, y, ok := tt.steer.Grid()
			assert.True(t, ok, tt.steer.String())
			assert.Equal(t, tt.x, x, tt.steer.String())
			assert.Equal(t, tt.y, y, tt.steer.String())

			s, err := SteerAt(tt.x, tt.y)
			require.NoError(t, err)
			assert.Equal(t, tt.steer, s)
		}

		x, y, ok := Steer('x').Grid()
		assert.False(t, ok)
		assert.Zero(t, x)
		assert.Zero(t, y)

		_, err := SteerAt(2, 0)
		assert.ErrorIs(t, err, ErrInvalidSteer)
		_, err = SteerAt(0, -2)
		assert.ErrorIs(t, err, ErrInvalidSteer)
	})
}

func TestCommandAndMode(t *testing.T) {
	for _, c := range Commands() {
		text, err := c.MarshalText()
		require.NoError(t, err)

		var got Command
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, c, got)
	}

	c, err := CommandByName("speed")
	require.NoError(t, err)
	assert.Equal(t, Speed, c)
	c, err = CommandByName(" P ")
	require.NoError(t, err)
	assert.Equal(t, Program, c)
	_, err = CommandByName("jump")
	assert.ErrorIs(t, err, ErrInvalidCommand)

	for _, m := range Modes() {
		text, err := m.MarshalText()
		require.NoError(t, err)

		var got Mode
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, m, got)
	}

	m, err := ModeByName("remote-op")
	require.NoError(t, err)
	assert.Equal(t, RemoteOp, m)
	_, err = ParseMode('3')
	assert.ErrorIs(t, err, ErrInvalidMode)
}

// The same byte means different things depending on the field it is read from.
func TestSharedBytes(t *testing.T) {
	s, err := ParseSteer('1')
	require.NoError(t, err)
	m, err := ParseMode('1')
	require.NoError(t, err)

	assert.Equal(t, BackLeft, s)
	assert.Equal(t, RemoteOp, m)
	assert.Equal(t, s.Byte(), m.Byte())
	assert.NotEqual(t, s.String(), m.String())
}

func TestPower(t *testing.T) {
	p, err := PowerFromPercent(100)
	require.NoError(t, err)
	assert.Equal(t, MaxPower, p)
	assert.Equal(t, 100, p.Percent())

	p, err = PowerFromPercent(0)
	require.NoError(t, err)
	assert.EqualValues(t, 0, p)

	for pct := 0; pct <= 100; pct++ {
		p, err := PowerFromPercent(pct)
		require.NoError(t, err)
		assert.Equal(t, pct, p.Percent(), "%d%%", pct)
	}
	p, _ = PowerFromPercent(1)
	assert.NotZero(t, p)
	assert.Equal(t, 1, Power(2).Percent())

	_, err = PowerFromPercent(101)
	assert.ErrorIs(t, err, ErrInvalidPower)
	_, err = PowerFromPercent(-1)
	assert.ErrorIs(t, err, ErrInvalidPower)
}

func TestFlag(t *testing.T) {
	assert.False(t, MonitorMode.Bool())
	assert.True(t, Trigger.Bool())
	assert.Equal(t, Trigger, FlagFrom(true))
	assert.Equal(t, MonitorMode, FlagFrom(false))
	assert.Equal(t, "TRIGGER", Trigger.String())
	assert.Equal(t, "Flag(7)", Flag(7).String())
}
