package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/WIZARDISHUNGRY/visim/internal/config"
	"github.com/WIZARDISHUNGRY/visim/internal/logger"
	"github.com/WIZARDISHUNGRY/visim/internal/transform"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	log = logger.New(logrus.InfoLevel)
	cfg = config.Default()
	svc *transform.Service
)

var rootCmd = &cobra.Command{
	Use:               "visim",
	Short:             "Simulate how an image looks with a vision impairment",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().Int64("seed", 0, "Seed for random effect elements, 0 for time based")
	rootCmd.PersistentFlags().String("env-file", config.DefaultPath, "Optional dotenv file")
}

// setup resolves configuration with flags taking precedence over the
// environment, which takes precedence over the dotenv file.
func setup(cmd *cobra.Command, args []string) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	c, err := config.Load(envFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		v, _ := cmd.Flags().GetString("log-level")
		if c.LogLevel, err = logrus.ParseLevel(v); err != nil {
			return errors.Wrap(err, "--log-level")
		}
	}
	if cmd.Flags().Changed("seed") {
		c.Seed, _ = cmd.Flags().GetInt64("seed")
	}
	cfg = c
	log.SetLevel(cfg.LogLevel)

	svc, err = transform.New(transform.WithSeed(cfg.Seed))
	if err != nil {
		return err
	}
	ctx := logger.WithLogEntry(cmd.Context(), logrus.NewEntry(log))
	cmd.SetContext(ctx)
	log.WithFields(logrus.Fields{"seed": cfg.Seed, "workers": cfg.Workers}).Debug("configured")
	return nil
}

func main() {
	ctx, ctxCancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer ctxCancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		ctxCancel()
		os.Exit(1)
	}
}
