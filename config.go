package botbase

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mdouchement/botbase/bot"
	"go.yaml.in/yaml/v4"
)

const (
	PortAuto       = "auto"
	DefaultHistory = 100
	MaxHistory     = 10000
)

type Config struct {
	Debug     bool     `yaml:"debug"`
	Socket    string   `yaml:"socket"`
	Port      string   `yaml:"port"`
	BaudRate  int      `yaml:"baud_rate"`
	History   int      `yaml:"history"`
	OpenDelay Duration `yaml:"open_delay"`
}

func Default() Config {
	return Config{
		Socket:    "/run/botd/botd.sock",
		Port:      PortAuto,
		BaudRate:  bot.BaudRate,
		History:   DefaultHistory,
		OpenDelay: Duration{Duration: 2 * time.Second},
	}
}

// Load reads the YAML configuration at path. Omitted settings keep their Default value.
func Load(path string) (Config, error) {
	c := Default()

	f, err := os.Open(path)
	if err != nil {
		return c, err
	}
	defer f.Close()

	codec := yaml.NewDecoder(f)
	err = codec.Decode(&c)
	if err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}

	return c, c.Validate()
}

func (c Config) Validate() error {
	if c.Socket == "" {
		return errors.New("socket: must be provided")
	}
	if c.Port == "" {
		return fmt.Errorf("port: must be a device path or %s", PortAuto)
	}
	if c.BaudRate <= 0 {
		return fmt.Errorf("baud_rate: %d: must be positive", c.BaudRate)
	}
	if c.History < 1 || c.History > MaxHistory {
		return fmt.Errorf("history: %d: must in range [1,%d]", c.History, MaxHistory)
	}
	if c.OpenDelay.Duration < 0 {
		return fmt.Errorf("open_delay: %s: must not be negative", c.OpenDelay)
	}

	return nil
}
