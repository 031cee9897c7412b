package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentlog/supercompact/internal/archive"
	"github.com/agentlog/supercompact/internal/compacterr"
	"github.com/agentlog/supercompact/internal/config"
	"github.com/agentlog/supercompact/internal/help"
)

func newArchiveCmd() *cobra.Command {
	var archiveDir string
	var force bool

	cmd := &cobra.Command{
		Use:   subUse(help.CmdArchive.Usage),
		Short: help.CmdArchive.Brief,
		Long:  help.CmdArchive.Description,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := archiveDir
			if dir == "" {
				cfg, err := config.Load()
				if err != nil {
					return fail(4, fmt.Errorf("load config: %w", err))
				}
				dir = cfg.Archive.Dir
			}

			if !force && archive.HasArchive(dir, archive.SessionKey(args[0])) {
				fmt.Printf("an archive already exists for %s in %s, skipping (use --force to write another)\n", args[0], dir)
				return nil
			}

			dest, err := archive.Archive(args[0], dir, time.Now().Unix())
			if err != nil {
				return fail(3, &compacterr.IoError{Path: args[0], Reason: "archive", Cause: err})
			}
			fmt.Printf("archived to %s\n", dest)
			return nil
		},
	}

	cmd.Flags().StringVar(&archiveDir, "archive-dir", "", "Directory to write the compressed copy into (default: config archive.dir)")
	cmd.Flags().BoolVar(&force, "force", false, "Write a new archive even if one already exists for this session")
	return cmd
}
