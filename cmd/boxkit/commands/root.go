// Package commands implements the boxkit CLI: smoke checks for the
// configured enterprise session and manual escape hatches for cleaning
// up drifted test environments.
package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/watfordsuzy/boxkit/pkg/config"
	"github.com/watfordsuzy/boxkit/pkg/lifecycle"
)

// flag names
const (
	flagConfigFile = "config"
)

var (
	// ctrl is the shared lifecycle controller, established by
	// PersistentPreRunE before any subcommand runs.
	ctrl *lifecycle.Controller
	// configFile holds an explicit config file path. Flag parsing sets this.
	configFile string
)

// initController resolves configuration and establishes the session.
func initController(ctx context.Context) error {
	var (
		cfg *config.Config
		err error
	)
	if configFile != "" {
		cfg, err = config.Load(configFile)
	} else {
		cfg, err = config.FromEnv()
	}
	if err != nil {
		return err
	}

	ctrl, err = lifecycle.Initialize(ctx, cfg)
	return err
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configFile, flagConfigFile, "c", "", "Path to the Box configuration JSON (default: BOX_CONFIG / BOX_CONFIG_FILE env)")

	RootCmd.AddCommand(GetCheckCmd())
	RootCmd.AddCommand(GetUsersCmd())
	RootCmd.AddCommand(GetFoldersCmd())
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "boxkit",
	Short: "boxkit CLI - lifecycle tooling for Box integration test environments",
	Long: `boxkit CLI establishes an authenticated Box enterprise session from the
same configuration the test suites use and exposes manual create/delete
operations for inspecting and repairing test environments.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return initController(cmd.Context())
	},
}

// Execute runs the root command.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
