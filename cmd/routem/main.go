// Package main is the entry point for the routem command line tool.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vyrodovalexey/routem/internal/config"
	"github.com/vyrodovalexey/routem/internal/observability"
	"github.com/vyrodovalexey/routem/internal/route"
	"github.com/vyrodovalexey/routem/internal/router"
	"github.com/vyrodovalexey/routem/internal/util"
)

// Version information (set at build time).
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// cliFlags holds global command line flags.
type cliFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

// cli carries state shared by all subcommands.
type cli struct {
	flags  cliFlags
	out    io.Writer
	errOut io.Writer
	logger observability.Logger
}

func main() {
	c := &cli{out: os.Stdout, errOut: os.Stderr}
	if err := c.rootCommand().Execute(); err != nil {
		c.printError(err)
		os.Exit(1)
	}
}

// rootCommand builds the command tree.
func (c *cli) rootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "routem",
		Short: "Compile, check and query path template route tables",
		Long: `routem compiles path templates such as /user/<id:int>/ into routes and
answers first-match lookups against a YAML route table.

Routes are tried in the order they are declared; the first route whose
pattern matches a path wins.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.initLogger,
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	rootCmd.SetOut(c.out)
	rootCmd.SetErr(c.errOut)

	rootCmd.PersistentFlags().StringVarP(&c.flags.configPath, "config", "c",
		getEnvOrDefault("ROUTEM_CONFIG", "routes.yaml"), "Path to the route table")
	rootCmd.PersistentFlags().StringVar(&c.flags.logLevel, "log-level",
		getEnvOrDefault("ROUTEM_LOG_LEVEL", "warn"), "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&c.flags.logFormat, "log-format",
		getEnvOrDefault("ROUTEM_LOG_FORMAT", "console"), "Log format (json, console)")

	rootCmd.AddCommand(c.parseCommand())
	rootCmd.AddCommand(c.checkCommand())
	rootCmd.AddCommand(c.routesCommand())
	rootCmd.AddCommand(c.matchCommand())
	rootCmd.AddCommand(c.fillCommand())
	rootCmd.AddCommand(c.watchCommand())
	rootCmd.AddCommand(c.versionCommand())

	return rootCmd
}

// initLogger creates the logger from the global flags.
func (c *cli) initLogger(*cobra.Command, []string) error {
	logger, err := observability.NewLogger(observability.LogConfig{
		Level:  c.flags.logLevel,
		Format: c.flags.logFormat,
		Output: "stderr",
	})
	if err != nil {
		return util.WrapError(err, "failed to initialize logger")
	}

	c.logger = logger
	observability.SetGlobalLogger(logger)
	return nil
}

// loadTable resolves, loads and validates the configured route table.
func (c *cli) loadTable() (*config.RouteTable, string, error) {
	path, err := config.ResolveConfigPath(c.flags.configPath)
	if err != nil {
		return nil, "", err
	}

	table, err := config.LoadRouteTable(path)
	if err != nil {
		return nil, path, err
	}

	if err := config.ValidateRouteTable(table); err != nil {
		return nil, path, err
	}

	c.logger.Debug("route table loaded",
		observability.String("path", path),
		observability.Int("routes", len(table.Routes)),
	)
	return table, path, nil
}

// loadRouter builds a router from the configured route table.
func (c *cli) loadRouter(opts ...router.Option) (*router.Router, string, error) {
	table, path, err := c.loadTable()
	if err != nil {
		return nil, path, err
	}

	opts = append([]router.Option{router.WithLogger(c.logger)}, opts...)
	r := router.New(opts...)
	if err := r.LoadConfig(table); err != nil {
		return nil, path, err
	}
	return r, path, nil
}

// printError writes err to the error stream, with a caret diagnostic for
// template parse errors.
func (c *cli) printError(err error) {
	fmt.Fprintf(c.errOut, "Error: %v\n", err)

	var pe *route.ParseError
	if errors.As(err, &pe) {
		fmt.Fprintf(c.errOut, "\n%s\n", indent(pe.Diagnostic(), "  "))
	}
}
