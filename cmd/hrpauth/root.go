package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var (
	configFile string
	baseURL    string
)

// NewRootCmd creates the root command for the hrpauth CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hrpauth",
		Short: "hrpauth - command-line client for the HRPAuth backend",
		Long: `hrpauth drives the HRPAuth credential-exchange flows from the
command line: login, registration with a captcha gate, email verification,
and inspection of the locally persisted session.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	cmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "backend base URL (overrides config)")

	cmd.AddCommand(NewLoginCmd())
	cmd.AddCommand(NewRegisterCmd())
	cmd.AddCommand(NewVerifyCmd())
	cmd.AddCommand(NewWhoamiCmd())
	cmd.AddCommand(NewLogoutCmd())
	cmd.AddCommand(NewWatchCmd())

	return cmd
}
