package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentlog/supercompact/internal/archive"
	"github.com/agentlog/supercompact/internal/compacterr"
	"github.com/agentlog/supercompact/internal/help"
)

func newRestoreCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   subUse(help.CmdRestore.Usage),
		Short: help.CmdRestore.Brief,
		Long:  help.CmdRestore.Description,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return fail(4, &compacterr.InvalidArgument{Name: "output", Reason: "--output is required"})
			}

			tmpPath, cleanup, err := archive.Decompress(args[0])
			if err != nil {
				return fail(3, &compacterr.IoError{Path: args[0], Reason: "decompress archive", Cause: err})
			}
			defer cleanup()

			if err := copyFile(tmpPath, output); err != nil {
				return fail(3, &compacterr.IoError{Path: output, Reason: "write restored transcript", Cause: err})
			}
			fmt.Printf("restored to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination for the decompressed transcript (required)")
	return cmd
}

func copyFile(srcPath, destPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()

	dest, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer dest.Close()

	if _, err := io.Copy(dest, src); err != nil {
		return err
	}
	return dest.Close()
}
