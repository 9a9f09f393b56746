package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vyrodovalexey/routem/internal/util"
)

// matchCommand creates the match command.
func (c *cli) matchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "match <path>...",
		Short: "Find the first route matching each path",
		Long: `Look up each path in the route table. Routes are tried in declaration
order and the first match wins. The command fails if any path matches no
route.`,
		Example: `  routem match /user/42/ /static/app.js`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, _, err := c.loadRouter()
			if err != nil {
				return err
			}

			misses := 0
			for _, path := range args {
				result, err := r.Match(path)
				if errors.Is(err, util.ErrNotFound) {
					misses++
					fmt.Fprintf(c.out, "%s\t(no route)\n", path)
					continue
				}
				if err != nil {
					return err
				}

				fmt.Fprintf(c.out, "%s\t%s\t%s\n", path, result.Route.Name(), result.Route.Pattern())
				for _, p := range result.Params {
					fmt.Fprintf(c.out, "  %s=%s\n", p.Name, p.Value)
				}
			}

			if misses > 0 {
				return fmt.Errorf("%d of %d paths matched no route", misses, len(args))
			}
			return nil
		},
	}
}
