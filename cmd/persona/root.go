package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags.
var version = "dev"

// cliOptions holds the persistent flag values.
type cliOptions struct {
	configFile string
	json       bool
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:           "persona",
		Short:         "Manage the persons table",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "",
		"properties file (default: persona.properties in . or ./config)")
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "output as JSON")

	root.AddCommand(
		newListCmd(opts),
		newGetCmd(opts),
		newAddCmd(opts),
		newDeleteCmd(opts),
		newClearCmd(opts),
		newMigrateCmd(opts),
	)
	return root
}

// runFunc is a command body that receives the wired application.
type runFunc func(cmd *cobra.Command, a *application, args []string) error

// withApp wires an application for one command and closes it afterwards,
// whether or not the command fails.
func withApp(opts *cliOptions, fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApplication(opts.configFile, cmd.OutOrStdout(), cmd.ErrOrStderr())
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}
		defer func() {
			if cerr := a.close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		return fn(cmd, a, args)
	}
}
