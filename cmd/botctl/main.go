package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mdouchement/botbase/cmd/botctl/console"
	"github.com/mdouchement/botbase/cmd/botctl/monitor"
	"github.com/mdouchement/botbase/cmd/botctl/send"
	showcodes "github.com/mdouchement/botbase/cmd/botctl/show_codes"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v4"
)

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"
)

func main() {
	client := &http.Client{}

	cmd := &cobra.Command{
		Use:     "botctl",
		Short:   "A ctl use to drive a robot base, through botd or directly on its serial port",
		Version: fmt.Sprintf("%s - build %.7s @ %s - %s", version, revision, date, runtime.Version()),
		Args:    cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			socket, err := findSocket()
			if err != nil {
				return err
			}

			client.Transport = &http.Transport{
				DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
					var d net.Dialer
					return d.DialContext(ctx, "unix", socket)
				},
			}
			return nil
		},
	}

	// These ones do not talk to botd.
	local := func(c *cobra.Command) *cobra.Command {
		c.PersistentPreRunE = func(*cobra.Command, []string) error { return nil }
		return c
	}

	cmd.AddCommand(monitor.Command(client))
	cmd.AddCommand(send.Command(client))
	cmd.AddCommand(local(console.Command()))
	cmd.AddCommand(local(showcodes.Command()))
	cmd.AddCommand(local(&cobra.Command{
		Use:   "version",
		Short: "Version for botctl",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(cmd.Version)
		},
	}))

	if err := cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

//
//
//

type config struct {
	Socket string `yaml:"socket"`
}

func findSocket() (string, error) {
	socket := "/run/botd/botd.sock"
	if _, err := os.Stat(socket); err == nil {
		return socket, nil
	}

	u, err := user.Current()
	if err != nil {
		return "", err
	}

	var cfg config
	cpath := filepath.Join(u.HomeDir, ".config", "botctl", "botctl.yml") // Does not follow XDG..
	p, err := os.ReadFile(cpath)
	switch {
	case err == nil:
		err = yaml.Unmarshal(p, &cfg)
		if err != nil {
			return "", fmt.Errorf("%s: %w", cpath, err)
		}

		if _, err = os.Stat(cfg.Socket); err == nil {
			return cfg.Socket, nil
		}

		fmt.Println("Invalid socket path:", cfg.Socket)
	case !errors.Is(err, fs.ErrNotExist):
		return "", err
	}

	fmt.Print("Enter a socket path: ")
	r := bufio.NewReader(os.Stdin)
	socket, err = r.ReadString('\n')
	if err != nil {
		return "", err
	}

	socket = strings.TrimSpace(socket)

	if err = os.MkdirAll(filepath.Dir(cpath), 0o755); err != nil {
		return "", err
	}

	cfg.Socket = socket
	p, err = yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}

	return socket, os.WriteFile(cpath, p, 0o600)
}
