package botbase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mdouchement/botbase/bot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestConsole(t *testing.T) {
	defer goleak.VerifyNone(t)

	b := NewDummyBot()
	out := &syncBuffer{}
	in, typing := io.Pipe()
	defer typing.Close()

	done := make(chan error, 1)
	go func() {
		done <- NewConsole(b, out).Run(context.Background(), in)
	}()

	io.WriteString(typing, "M8\n")
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Arduino: ack M8\n")
	}, time.Second, 5*time.Millisecond)

	io.WriteString(typing, "   \n  5 \r\n")
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Arduino: ack 5\n")
	}, time.Second, 5*time.Millisecond)

	io.WriteString(typing, "quit\n")
	require.NoError(t, <-done)
	typing.Close()

	assert.Equal(t, []string{"M8", "5"}, b.Sent())
	assert.Contains(t, out.String(), "port open: x-testing\n")
	assert.Contains(t, out.String(), "writing: M8\n")
	assert.Contains(t, out.String(), "writing: 5\n")
	assert.True(t, strings.HasSuffix(out.String(), "port closed.\n"))

	_, err := b.ReadLine()
	assert.ErrorIs(t, err, bot.ErrClosed, "the board is closed on exit")
}

func TestConsole_EndOfInput(t *testing.T) {
	defer goleak.VerifyNone(t)

	b := NewDummyBot()
	out := &syncBuffer{}

	err := NewConsole(b, out).Run(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, b.Sent())
	assert.Contains(t, out.String(), "port closed.")
}

func TestConsole_Cancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	in, typing := io.Pipe()
	defer typing.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewConsole(NewDummyBot(), io.Discard).Run(ctx, in)
	}()

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	typing.Close()
}

type brokenBot struct {
	*DummyBot
}

func (brokenBot) ReadLine() (string, error) {
	return "", errors.New("device reports readiness to read but returned no data")
}

func TestConsole_PortError(t *testing.T) {
	defer goleak.VerifyNone(t)

	in, typing := io.Pipe()
	defer typing.Close()
	out := &syncBuffer{}

	err := NewConsole(brokenBot{NewDummyBot()}, out).Run(context.Background(), in)
	typing.Close()

	assert.ErrorContains(t, err, "returned no data")
	assert.Contains(t, out.String(), "Serial port error: device reports readiness")
}
