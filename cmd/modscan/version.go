package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"modscan/internal/config"
)

func newVersionCmd(jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := map[string]string{
				"version": config.BuildVersion,
				"commit":  config.BuildCommit,
				"date":    config.BuildDate,
			}
			if *jsonOutput {
				return print(true, info, "")
			}
			fmt.Printf("modscan %s\ncommit: %s\nbuilt at: %s\n", config.BuildVersion, config.BuildCommit, config.BuildDate)
			return nil
		},
	}
}
