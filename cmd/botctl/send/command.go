package send

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mdouchement/botbase"
	"github.com/mdouchement/botbase/bot"
	"github.com/spf13/cobra"
)

func Command(client *http.Client) *cobra.Command {
	var steer string

	cmd := &cobra.Command{
		Use:   "send [message]",
		Short: "Send a message or a steering code to the board through botd",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			u := url.URL{Scheme: "http", Host: "unix", Path: "/send"}
			var body string

			switch {
			case steer != "" && len(args) > 0:
				return fmt.Errorf("either a message or --steer must be given, not both")
			case steer != "":
				// Fail early with the list of valid names.
				if _, err := bot.SteerByName(steer); err != nil {
					return fmt.Errorf("%w (valid: %s)", err, steerNames())
				}
				u.RawQuery = url.Values{"steer": {steer}}.Encode()
			case len(args) == 1:
				body = args[0]
			default:
				return fmt.Errorf("a message or --steer must be given")
			}

			resp, err := client.Post(u.String(), "text/plain", strings.NewReader(body))
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
				return fmt.Errorf("send: %s: %s", resp.Status, strings.TrimSpace(string(b)))
			}

			var e botbase.Event
			if err = json.NewDecoder(resp.Body).Decode(&e); err != nil {
				return fmt.Errorf("send: %w", err)
			}

			fmt.Printf("writing: %s\n", e.Data)
			return nil
		},
	}
	cmd.Flags().StringVarP(&steer, "steer", "s", "", "Steering code name (e.g. fwd, spin_left) or digit")

	return cmd
}

func steerNames() string {
	var names []string
	for _, s := range bot.Steers() {
		names = append(names, strings.ToLower(s.String()))
	}
	return strings.Join(names, ", ")
}
