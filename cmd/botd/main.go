package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"regexp"
	"runtime"
	"time"

	"github.com/mdouchement/botbase"
	"github.com/mdouchement/botbase/bot"
	listports "github.com/mdouchement/botbase/cmd/botd/list_ports"
	"github.com/mdouchement/logger"
	"github.com/spf13/cobra"
)

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"

	cpath string
	dummy bool
)

func main() {
	cmd := &cobra.Command{
		Use:     "botd",
		Short:   "A daemon sharing a serial robot base between several clients",
		Version: fmt.Sprintf("%s - build %.7s @ %s - %s", version, revision, date, runtime.Version()),
		Args:    cobra.NoArgs,
		RunE:    daemon,
	}
	cmd.Flags().StringVarP(&cpath, "config", "c", "/etc/botd/botd.yml", "Configfile path")
	cmd.Flags().BoolVarP(&dummy, "dummy", "", false, "Start botd with a dummy board")
	cmd.AddCommand(listports.Command())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Version for botd",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(cmd.Version)
		},
	})

	if err := cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func daemon(_ *cobra.Command, args []string) error {
	cfg, err := botbase.Load(cpath)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}

	h := logger.NewSlogTextHandler(os.Stdout, &logger.SlogTextOption{
		Level:            level,
		ForceColors:      true,
		ForceFormatting:  true,
		PrefixRE:         regexp.MustCompile(`^(\[.*?\])\s`),
		DisableTimestamp: true, // Provided by journalctl
	})
	log := logger.WrapSlogHandler(h)
	ctx := logger.WithLogger(context.Background(), log)

	log.Infof("botd version %s", version)

	var b botbase.Bot = botbase.NewDummyBot()
	if !dummy {
		ctrl, err := open(cfg)
		if err != nil {
			return fmt.Errorf("bot: %w", err)
		}
		if cfg.Debug {
			ctrl.SetLogger(log)
		}

		log.Infof("Board port `%s` - Data rate: %d", ctrl.Port(), cfg.BaudRate)
		b = ctrl

		// Opening the port resets most boards, let them boot before talking.
		time.Sleep(cfg.OpenDelay.Duration)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	relay, err := botbase.New(cfg, b)
	if err != nil {
		b.Close()
		return err
	}
	relay.Launch(ctx)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	<-ctx.Done()
	cancel()
	<-relay.Done()

	log.Info("Gracefully shutdown")
	return nil
}

func open(cfg botbase.Config) (*bot.Controller, error) {
	if cfg.Port == botbase.PortAuto {
		return bot.OpenAuto(cfg.BaudRate)
	}
	return bot.Open(cfg.Port, cfg.BaudRate)
}
