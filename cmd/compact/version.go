package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentlog/supercompact/internal/help"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   subUse(help.CmdVersion.Usage),
		Short: help.CmdVersion.Brief,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("compact v%s\n", version)
			return nil
		},
	}
}
