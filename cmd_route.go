package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	llmx "github.com/tanpawarit/pharmapilot/agent/llm"
	registryx "github.com/tanpawarit/pharmapilot/agent/registry"
	configx "github.com/tanpawarit/pharmapilot/pkg/config"
)

var (
	routeQuery    string
	routeMolecule string
)

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Print the agents a query would be routed to",
	RunE: func(cmd *cobra.Command, args []string) error {
		llmCfg, err := configx.New[llmx.Config]("LLM")
		if err != nil {
			return fmt.Errorf("load llm config: %w", err)
		}
		router, err := newRouter(*llmCfg)
		if err != nil {
			return err
		}

		decision := router.Decide(cmd.Context(), routeQuery, routeMolecule)
		names, err := registryx.DisplayNames(decision.Domains)
		if err != nil {
			return err
		}
		keys := make([]string, len(decision.Domains))
		for i, d := range decision.Domains {
			keys[i] = string(d)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "path:   %s\n", decision.Path)
		fmt.Fprintf(cmd.OutOrStdout(), "agents: %s\n", strings.Join(keys, ", "))
		fmt.Fprintf(cmd.OutOrStdout(), "names:  %s\n", strings.Join(names, ", "))
		return nil
	},
}

func init() {
	routeCmd.Flags().StringVarP(&routeQuery, "query", "q", "", "research question")
	routeCmd.Flags().StringVarP(&routeMolecule, "molecule", "m", "", "molecule name")
	_ = routeCmd.MarkFlagRequired("query")
}
