package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentlog/supercompact/internal/check"
	"github.com/agentlog/supercompact/internal/config"
	"github.com/agentlog/supercompact/internal/help"
)

func newDoctorCmd() *cobra.Command {
	var historyDB string

	cmd := &cobra.Command{
		Use:   subUse(help.CmdDoctor.Usage),
		Short: help.CmdDoctor.Brief,
		Long:  help.CmdDoctor.Description,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			report := check.Run(cfg, historyDB)
			fmt.Print(report.Format())
			if report.HasFailures() {
				return fail(1, fmt.Errorf("one or more checks failed"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&historyDB, "history-db", "", "Also check that this eval-history sqlite file is reachable")
	return cmd
}
