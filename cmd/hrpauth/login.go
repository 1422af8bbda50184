package main

import (
	"bufio"

	"github.com/spf13/cobra"
)

// NewLoginCmd creates the login subcommand.
func NewLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Exchange credentials for a session token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, log, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			stdin := bufio.NewReader(cmd.InOrStdin())
			if email == "" {
				if email, err = promptLine(cmd.OutOrStdout(), stdin, "E-mail: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = promptLine(cmd.OutOrStdout(), stdin, "Password: "); err != nil {
					return err
				}
			}

			result, flow := client.Login(cmd.Context(), email, password)
			if flow.Failed() {
				log.Warnw("login failed", "message", flow.Message)
				cmd.Println(flow.Message)
				return flow.Err
			}

			cmd.Printf("%s (uid %s)\n", flow.Message, result.UID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")

	return cmd
}
