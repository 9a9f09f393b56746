package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vyrodovalexey/routem/internal/route"
)

// routeView is the serialized form of a compiled route.
type routeView struct {
	Name    string      `yaml:"name"`
	Pattern string      `yaml:"pattern"`
	Params  []paramView `yaml:"params,omitempty"`
}

type paramView struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

func newRouteView(rt *route.Route) routeView {
	view := routeView{Name: rt.Name(), Pattern: rt.Pattern()}
	for _, seg := range rt.Segments() {
		if seg.Kind == route.SegmentParam {
			view.Params = append(view.Params, paramView{Name: seg.Param.Name, Type: seg.Param.TypeName})
		}
	}
	return view
}

// routesCommand creates the routes command.
func (c *cli) routesCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List compiled routes in match order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, _, err := c.loadRouter()
			if err != nil {
				return err
			}

			views := make([]routeView, 0, r.Len())
			for _, rt := range r.Routes() {
				views = append(views, newRouteView(rt))
			}

			switch output {
			case "text":
				w := newTabWriter(c.out)
				fmt.Fprintln(w, "#\tNAME\tPATTERN\tPARAMS")
				for i, v := range views {
					params := make([]string, len(v.Params))
					for j, p := range v.Params {
						params[j] = p.Name + ":" + p.Type
					}
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i, v.Name, v.Pattern, strings.Join(params, ","))
				}
				return w.Flush()
			case "yaml":
				enc := yaml.NewEncoder(c.out)
				enc.SetIndent(2)
				if err := enc.Encode(views); err != nil {
					return fmt.Errorf("failed to encode routes: %w", err)
				}
				return enc.Close()
			default:
				return fmt.Errorf("unknown output format %q (expected text or yaml)", output)
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format (text, yaml)")

	return cmd
}
