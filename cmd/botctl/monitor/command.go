package monitor

import (
	"fmt"
	"io"
	"net/http"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mdouchement/botbase"
	"github.com/spf13/cobra"
)

func Command(client *http.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "monitor",
		Short: "Start the TUI monitor display of the board traffic",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			resp, err := client.Get("http://unix/monitor")
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode < 200 || resp.StatusCode >= 300 { // Should never happen
				b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
				return fmt.Errorf("sse bad status: %s body=%q", resp.Status, string(b))
			}

			tui := tea.NewProgram(newTUI(), tea.WithAltScreen())

			streamErr := make(chan error, 1)
			go func() {
				r := botbase.NewSSEReader(resp.Body)
				for {
					e, err := r.NextEvent()
					if err != nil {
						streamErr <- err
						tui.Quit()
						return
					}

					tui.Send(e)
				}
			}()

			_, err = tui.Run()
			if err != nil {
				return err
			}

			select {
			case err = <-streamErr:
				if err != io.EOF {
					return fmt.Errorf("monitor: %w", err)
				}
			default:
			}
			return nil
		},
	}
}
