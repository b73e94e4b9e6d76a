package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tanpawarit/pharmapilot/api"
	authx "github.com/tanpawarit/pharmapilot/pkg/auth"
	configx "github.com/tanpawarit/pharmapilot/pkg/config"
	mailerx "github.com/tanpawarit/pharmapilot/pkg/mailer"
	storex "github.com/tanpawarit/pharmapilot/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		httpCfg, err := configx.New[api.Config]("HTTP")
		if err != nil {
			return fmt.Errorf("load http config: %w", err)
		}
		jwtCfg, err := configx.New[authx.Config]("JWT")
		if err != nil {
			return fmt.Errorf("load jwt config: %w", err)
		}
		smtpCfg, err := configx.New[mailerx.Config]("SMTP")
		if err != nil {
			return fmt.Errorf("load smtp config: %w", err)
		}
		storeCfg, err := configx.New[storex.Config]("STORE")
		if err != nil {
			return fmt.Errorf("load store config: %w", err)
		}

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		tokens, err := authx.NewManager(*jwtCfg)
		if err != nil {
			return err
		}
		stores, err := storex.Open(ctx, *storeCfg)
		if err != nil {
			return fmt.Errorf("open stores: %w", err)
		}
		defer stores.Close()

		srv, err := api.NewServer(*httpCfg, api.Deps{
			Researcher:  a.orchestrator,
			Agents:      a.agents,
			Users:       stores.Users,
			Projects:    stores.Projects,
			ResetTokens: stores.ResetTokens,
			Tokens:      tokens,
			Mailer:      mailerx.New(*smtpCfg),
		})
		if err != nil {
			return err
		}
		return srv.Run(ctx)
	},
}
