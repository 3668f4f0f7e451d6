package bot

const (
	BaudRate      = 115200
	LineDelimiter = '\n'
)

// Steering codes, laid out like a numeric keypad.
const (
	BackLeft  Steer = '1'
	Back      Steer = '2'
	BackRight Steer = '3'
	SpinLeft  Steer = '4'
	Stop      Steer = '5'
	SpinRight Steer = '6'
	FwdLeft   Steer = '7'
	Fwd       Steer = '8'
	FwdRight  Steer = '9'
)

const MaxPower Power = 255 // max drive speed

// Command types
const (
	Movement Command = 'M'
	Speed    Command = 'S'
	Program  Command = 'P'
)

// Modes of operation
const (
	RemoteOp Mode = '1'
	Obstacle Mode = '2'
)

// Boolean synonyms
const (
	MonitorMode Flag = 0
	Trigger     Flag = 1
)
