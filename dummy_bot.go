package botbase

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/mdouchement/botbase/bot"
)

// A DummyBot should only be used for dev & tests.
// It answers every message with a line "ack <message>".
type DummyBot struct {
	sync   sync.Mutex
	sent   []string
	lines  chan string
	closed chan struct{}
	once   sync.Once
}

func NewDummyBot() *DummyBot {
	return &DummyBot{
		lines:  make(chan string, 64),
		closed: make(chan struct{}),
	}
}

func (b *DummyBot) Port() string {
	return "x-testing"
}

func (b *DummyBot) Send(message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", bot.ErrEmptyMessage
	}

	return message, b.push(message)
}

func (b *DummyBot) SendSteer(s bot.Steer) error {
	if !s.Valid() {
		return fmt.Errorf("%s: %w", s, bot.ErrInvalidSteer)
	}

	return b.push(string(s.Byte()))
}

func (b *DummyBot) push(message string) error {
	b.sync.Lock()
	defer b.sync.Unlock()

	select {
	case <-b.closed:
		return bot.ErrClosed
	default:
	}

	b.sent = append(b.sent, message)
	select {
	case b.lines <- "ack " + message:
	default:
		// Nobody reads the board, like a real one the answer is lost.
	}
	return nil
}

// Sent returns all the messages received by the board.
func (b *DummyBot) Sent() []string {
	b.sync.Lock()
	defer b.sync.Unlock()

	return slices.Clone(b.sent)
}

func (b *DummyBot) ReadLine() (string, error) {
	select {
	case line := <-b.lines:
		return line, nil
	case <-b.closed:
		return "", bot.ErrClosed
	}
}

func (b *DummyBot) Close() error {
	b.once.Do(func() {
		close(b.closed)
	})
	return nil
}
