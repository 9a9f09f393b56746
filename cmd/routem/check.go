package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// checkCommand creates the check command.
func (c *cli) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the route table",
		Long: `Load the route table, validate every parameter type and route, and
compile all templates. All problems are reported, not just the first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, path, err := c.loadTable()
			if err != nil {
				return err
			}

			fmt.Fprintf(c.out, "%s: ok (%d routes, %d parameter types)\n",
				path, len(table.Routes), len(table.ParamTypes))
			return nil
		},
	}
}
