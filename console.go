package botbase

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/mdouchement/botbase/bot"
)

const quitCommand = "quit"

// A Console is an interactive session with a board: what is typed is sent, what the board says is printed.
type Console struct {
	bot Bot
	out io.Writer
	mu  sync.Mutex
}

func NewConsole(b Bot, out io.Writer) *Console {
	return &Console{
		bot: b,
		out: out,
	}
}

// Run forwards the lines of in to the board until "quit", the end of in, a port failure or ctx cancellation.
// The board is closed when Run returns.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	c.printf("port open: %s\n", c.bot.Port())

	var wg sync.WaitGroup
	portErr := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		portErr <- c.receive()
	}()

	stopped := make(chan struct{})
	inputs := make(chan string)
	go func() {
		defer close(inputs)

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case inputs <- scanner.Text():
			case <-stopped:
				return
			}
		}
	}()

	defer func() {
		close(stopped)
		c.bot.Close()
		wg.Wait()
		c.printf("port closed.\n")
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-portErr:
			if err != nil {
				c.printf("Serial port error: %s\n", err)
			}
			return err
		case line, ok := <-inputs:
			if !ok {
				return nil
			}

			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if line == quitCommand {
				return nil
			}

			message, err := c.bot.Send(line)
			if err != nil {
				c.printf("Serial port error: %s\n", err)
				return err
			}
			c.printf("writing: %s\n", message)
		}
	}
}

func (c *Console) receive() error {
	for {
		line, err := c.bot.ReadLine()
		if err != nil {
			if errors.Is(err, bot.ErrClosed) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		c.printf("Arduino: %s\n", line)
	}
}

func (c *Console) printf(format string, a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintf(c.out, format, a...)
}
