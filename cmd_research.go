package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	contractx "github.com/tanpawarit/pharmapilot/agent/contract"
)

var (
	researchQuery    string
	researchMolecule string
	researchPDF      string
)

var researchCmd = &cobra.Command{
	Use:   "research",
	Short: "Run one research request and print the report",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}

		out, err := a.orchestrator.Research(ctx, contractx.ResearchRequest{
			Query:    researchQuery,
			Molecule: researchMolecule,
		})
		if err != nil {
			return err
		}

		renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
		if err != nil {
			return err
		}
		rendered, err := renderer.Render(out.Content)
		if err != nil {
			rendered = out.Content
		}
		fmt.Fprintln(cmd.OutOrStdout(), rendered)
		fmt.Fprintf(cmd.OutOrStdout(), "Agents: %s\n", strings.Join(out.AgentsUsed, ", "))

		if researchPDF != "" {
			doc, err := a.pdf.Document(ctx, out.ResearchData, out.Molecule)
			if err != nil {
				return fmt.Errorf("render pdf: %w", err)
			}
			if err := os.WriteFile(researchPDF, doc, 0o644); err != nil {
				return fmt.Errorf("write pdf: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "PDF written to %s\n", researchPDF)
		}
		return nil
	},
}

func init() {
	researchCmd.Flags().StringVarP(&researchQuery, "query", "q", "", "research question")
	researchCmd.Flags().StringVarP(&researchMolecule, "molecule", "m", "", "molecule name (detected from the query when empty)")
	researchCmd.Flags().StringVar(&researchPDF, "pdf", "", "write the PDF report to this path")
	_ = researchCmd.MarkFlagRequired("query")
}
