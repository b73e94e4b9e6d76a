package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	configx "github.com/tanpawarit/pharmapilot/pkg/config"
	logx "github.com/tanpawarit/pharmapilot/pkg/logger"
	_ "github.com/tanpawarit/pharmapilot/pkg/logger/autoload"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:           "pharmapilot",
	Short:         "Multi-agent pharmaceutical research backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envFile == "" {
			return nil
		}
		configx.SetEnvFile(envFile)
		logCfg, err := configx.New[logx.Config]("LOG")
		if err != nil {
			return err
		}
		logx.Init(*logCfg)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "path to a .env file")
	rootCmd.AddCommand(serveCmd, researchCmd, routeCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
