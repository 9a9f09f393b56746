package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vyrodovalexey/routem/internal/config"
	"github.com/vyrodovalexey/routem/internal/route"
)

// parseCommand creates the parse command.
func (c *cli) parseCommand() *cobra.Command {
	var withTable bool

	cmd := &cobra.Command{
		Use:   "parse <template>...",
		Short: "Parse path templates and print their segments",
		Long: `Parse one or more path templates and print the segment sequence of each.

Only the built-in types (int, string, uuid) are known unless --with-table is
set, in which case the parameter types declared in the route table are
registered as well.`,
		Example: `  routem parse /user/<id:int>/
  routem parse --with-table /orders/<status:order_status>`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := route.DefaultRegistry()
			if withTable {
				table, _, err := c.loadTable()
				if err != nil {
					return err
				}
				if reg, err = config.BuildRegistry(table, reg); err != nil {
					return err
				}
			}

			parser := route.NewParser(reg)
			for i, template := range args {
				segments, err := parser.Parse(template)
				if err != nil {
					return err
				}
				if i > 0 {
					fmt.Fprintln(c.out)
				}
				c.printSegments(template, segments)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withTable, "with-table", false, "Register the parameter types declared in the route table")

	return cmd
}

func (c *cli) printSegments(template string, segments []route.Segment) {
	fmt.Fprintf(c.out, "%s\n", template)

	w := newTabWriter(c.out)
	fmt.Fprintln(w, "  #\tKIND\tTEXT\tPARAM\tTYPE")
	for i, seg := range segments {
		switch seg.Kind {
		case route.SegmentParam:
			fmt.Fprintf(w, "  %d\t%s\t\t%s\t%s\n", i, seg.Kind, seg.Param.Name, seg.Param.TypeName)
		default:
			fmt.Fprintf(w, "  %d\t%s\t%s\t\t\n", i, seg.Kind, seg.Text)
		}
	}
	_ = w.Flush()
}
