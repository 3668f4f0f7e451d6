package console

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/mdouchement/botbase"
	"github.com/mdouchement/botbase/bot"
	"github.com/spf13/cobra"
)

func Command() *cobra.Command {
	var port string
	var baud int

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Talk to the board directly on its serial port (type quit to exit)",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			if baud <= 0 {
				baud = bot.BaudRate
			}

			var ctrl *bot.Controller
			var err error
			if port == botbase.PortAuto {
				ctrl, err = bot.OpenAuto(baud)
			} else {
				ctrl, err = bot.Open(port, baud)
			}
			if err != nil {
				return err
			}
			fmt.Printf("port open. Data rate: %d\n", baud)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			return botbase.NewConsole(ctrl, os.Stdout).Run(ctx, os.Stdin)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", botbase.PortAuto, "Serial port path, auto picks the first Arduino")
	cmd.Flags().IntVarP(&baud, "baud", "b", bot.BaudRate, "Data rate")

	return cmd
}
