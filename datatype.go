package botbase

import (
	"time"

	"github.com/mdouchement/botbase/bot"
)

// A Bot is a board speaking the line based serial protocol.
// It is implemented by *bot.Controller and *DummyBot.
type Bot interface {
	Port() string
	Send(message string) (string, error)
	SendSteer(s bot.Steer) error
	ReadLine() (string, error)
	Close() error
}

const (
	EventRX    = "rx"
	EventTX    = "tx"
	EventError = "error"
)

type Event struct {
	Kind string    `json:"kind"`
	Data string    `json:"data"`
	At   time.Time `json:"at"`
}

type Status struct {
	Port     string `json:"port"`
	BaudRate int    `json:"baud_rate"`
	Watchers int    `json:"watchers"`
	Events   uint64 `json:"events"`
}

const (
	loopRecord  = "record"
	loopWatch   = "watch"
	loopUnwatch = "unwatch"
	loopStatus  = "status"
)

type loopEvent struct {
	name      string
	event     Event
	monitorID int64
	monitor   chan<- Event
	status    chan<- Status
}

func genID() int64 {
	time.Sleep(time.Nanosecond)
	return time.Now().UnixNano()
}
