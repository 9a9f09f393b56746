package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// versionCommand creates the version command.
func (c *cli) versionCommand() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if short {
				fmt.Fprintln(c.out, version)
				return nil
			}

			fmt.Fprintf(c.out, "routem %s\n", version)
			fmt.Fprintf(c.out, "  commit:     %s\n", gitCommit)
			fmt.Fprintf(c.out, "  built:      %s\n", buildTime)
			fmt.Fprintf(c.out, "  go version: %s\n", runtime.Version())
			fmt.Fprintf(c.out, "  platform:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "Print only the version number")

	return cmd
}
