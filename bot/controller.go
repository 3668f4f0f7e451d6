package bot

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/mdouchement/logger"
	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

var (
	ErrNotFound     = errors.New("arduino not found/plugged")
	ErrEmptyMessage = errors.New("empty message")
	ErrClosed       = errors.New("port closed")
)

// Vendor IDs of boards that answer like an Arduino (genuine boards and the common USB-serial clones).
var arduinoVIDs = []string{"2341", "2a03", "1a86", "0403", "10c4"}

type PortInfo struct {
	Name         string `json:"name"`
	IsUSB        bool   `json:"usb"`
	VID          string `json:"vid,omitempty"`
	PID          string `json:"pid,omitempty"`
	SerialNumber string `json:"serial_number,omitempty"`
	Product      string `json:"product,omitempty"`
	Arduino      bool   `json:"arduino"`
}

type Controller struct {
	sync   sync.Mutex
	pname  string
	serial io.ReadWriteCloser
	reader *bufio.Reader
	log    logger.Logger
	closed atomic.Bool
}

// OpenPort opens the serial device. It's a variable so tests can run without hardware.
var OpenPort = func(name string, baud int) (io.ReadWriteCloser, error) {
	port, err := serial.Open(name, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, err
	}

	if err = port.ResetInputBuffer(); err != nil {
		port.Close()
		return nil, err
	}

	if err = port.ResetOutputBuffer(); err != nil {
		port.Close()
		return nil, err
	}

	return port, nil
}

// ListPorts is the port enumerator used by Ports. It's a variable so tests can run without hardware.
var ListPorts = enumerator.GetDetailedPortsList

func Ports() ([]PortInfo, error) {
	details, err := ListPorts()
	if err != nil {
		return nil, fmt.Errorf("list ports: %w", err)
	}

	ports := make([]PortInfo, 0, len(details))
	for _, d := range details {
		vid := strings.ToLower(d.VID)
		ports = append(ports, PortInfo{
			Name:         d.Name,
			IsUSB:        d.IsUSB,
			VID:          d.VID,
			PID:          d.PID,
			SerialNumber: d.SerialNumber,
			Product:      d.Product,
			Arduino:      d.IsUSB && (strings.Contains(d.Product, "Arduino") || slices.Contains(arduinoVIDs, vid)),
		})
	}

	return ports, nil
}

func OpenAuto(baud int) (*Controller, error) {
	ports, err := Ports()
	if err != nil {
		return nil, err
	}

	for _, p := range ports {
		if p.Arduino {
			fmt.Printf("Found Arduino on %s - VID: %s - PID: %s - SN: %s\n", p.Name, p.VID, p.PID, p.SerialNumber)
			return Open(p.Name, baud)
		}
	}

	return nil, ErrNotFound
}

func Open(port string, baud int) (*Controller, error) {
	if baud <= 0 {
		baud = BaudRate
	}

	rwc, err := OpenPort(port, baud)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", port, err)
	}

	return NewController(port, rwc), nil
}

func NewController(port string, rwc io.ReadWriteCloser) *Controller {
	return &Controller{
		pname:  port,
		serial: rwc,
		reader: bufio.NewReader(rwc),
	}
}

func (c *Controller) SetLogger(l logger.Logger) {
	c.log = l
}

func (c *Controller) Port() string {
	return c.pname
}

func (c *Controller) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	return c.serial.Close()
}

// Send writes the message stripped of its surrounding spaces and line endings.
func (c *Controller) Send(message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}

	return message, c.write([]byte(message))
}

func (c *Controller) SendSteer(s Steer) error {
	if !s.Valid() {
		return fmt.Errorf("%s: %w", s, ErrInvalidSteer)
	}

	return c.write([]byte{s.Byte()})
}

func (c *Controller) write(p []byte) error {
	c.sync.Lock()
	defer c.sync.Unlock()

	if c.closed.Load() {
		return ErrClosed
	}

	n, err := c.serial.Write(p)
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if n != len(p) {
		return fmt.Errorf("write: %d of %d bytes: %w", n, len(p), io.ErrShortWrite)
	}

	if c.log != nil {
		c.log.Debug(fmt.Sprintf("-> %q", p))
	}
	return nil
}

// ReadLine blocks until the board sends a full line. The line ending is removed.
// Only one goroutine may read at a time.
func (c *Controller) ReadLine() (string, error) {
	line, err := c.reader.ReadString(LineDelimiter)
	if err != nil {
		if c.closed.Load() {
			return "", ErrClosed
		}
		if line != "" && errors.Is(err, io.EOF) {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}

	line = strings.TrimRight(line, "\r\n")
	if c.log != nil {
		c.log.Debug(fmt.Sprintf("<- %q", line))
	}
	return line, nil
}
