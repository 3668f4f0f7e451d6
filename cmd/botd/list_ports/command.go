package listports

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mdouchement/botbase/bot"
	"github.com/spf13/cobra"
)

func Command() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list-ports",
		Short: "Show the serial ports and which ones look like an Arduino",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			ports, err := bot.Ports()
			if err != nil {
				return err
			}

			slices.SortStableFunc(ports, func(a, b bot.PortInfo) int {
				return strings.Compare(a.Name, b.Name)
			})

			for _, p := range ports {
				if !all && !p.IsUSB {
					continue
				}

				marker := " "
				if p.Arduino {
					marker = "*"
				}
				fmt.Printf("%s %-16s %4s:%-4s  %-20s %q\n", marker, p.Name, p.VID, p.PID, p.SerialNumber, p.Product)
			}

			return nil
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Also show non-USB ports")

	return cmd
}
