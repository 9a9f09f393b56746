package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// fillCommand creates the fill command.
func (c *cli) fillCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fill <route> [value]...",
		Short: "Build a path from a named route",
		Long: `Substitute the given values into the parameters of the named route, in
pattern order. Values are not checked against parameter types.`,
		Example: `  routem fill user 42`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, _, err := c.loadRouter()
			if err != nil {
				return err
			}

			path, err := r.URL(args[0], args[1:]...)
			if err != nil {
				return err
			}

			fmt.Fprintln(c.out, path)
			return nil
		},
	}
}
