package showcodes

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mdouchement/botbase/bot"
	"github.com/spf13/cobra"
)

var (
	border = lipgloss.NewStyle().Foreground(lipgloss.Color("#00afff"))
	header = lipgloss.NewStyle().Foreground(lipgloss.Color("#00afff")).Bold(true).Padding(0, 1)
	cell   = lipgloss.NewStyle().Padding(0, 1)
)

func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "show-codes",
		Short: "Show the command alphabet understood by the board",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			fmt.Println(grid())
			fmt.Println(codes())
			return nil
		},
	}
}

// grid draws the steering codes where they sit on the keypad, forward on top.
func grid() *table.Table {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(border).
		BorderRow(true).
		StyleFunc(func(row, col int) lipgloss.Style {
			return cell.Align(lipgloss.Center)
		})

	for y := 1; y >= -1; y-- {
		var row []string
		for x := -1; x <= 1; x++ {
			s, err := bot.SteerAt(x, y)
			if err != nil {
				panic(err) // Should never happen
			}
			row = append(row, fmt.Sprintf("%c\n%s", s.Byte(), strings.ToLower(s.String())))
		}
		t.Row(row...)
	}

	return t
}

func codes() *table.Table {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(border).
		Headers("Group", "Name", "Value").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})

	for _, s := range bot.Steers() {
		t.Row("steer", s.String(), strconv.QuoteRune(rune(s.Byte())))
	}
	t.Row("power", "MAX_POWER", strconv.Itoa(int(bot.MaxPower)))
	for _, c := range bot.Commands() {
		t.Row("command", c.String(), strconv.QuoteRune(rune(c.Byte())))
	}
	for _, m := range bot.Modes() {
		t.Row("mode", m.String(), strconv.QuoteRune(rune(m.Byte())))
	}
	for _, f := range []bot.Flag{bot.MonitorMode, bot.Trigger} {
		t.Row("flag", f.String(), strconv.Itoa(int(f)))
	}

	return t
}
