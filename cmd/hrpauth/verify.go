package main

import (
	"bufio"

	"github.com/spf13/cobra"
)

// NewVerifyCmd creates the verify subcommand group.
func NewVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Email verification: request and confirm codes",
	}

	cmd.AddCommand(newVerifySendCmd())
	cmd.AddCommand(newVerifyConfirmCmd())

	return cmd
}

func newVerifySendCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Mail a verification code to the account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, log, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			if email == "" {
				stdin := bufio.NewReader(cmd.InOrStdin())
				if email, err = promptLine(cmd.OutOrStdout(), stdin, "E-mail: "); err != nil {
					return err
				}
			}

			flow := client.RequestVerificationCode(cmd.Context(), email)
			if flow.Failed() {
				if remaining := client.ResendRemaining(); remaining > 0 {
					cmd.Printf("%s (%ds)\n", flow.Message, remaining)
				} else {
					cmd.Println(flow.Message)
				}
				log.Warnw("send code failed", "message", flow.Message)
				return flow.Err
			}

			cmd.Println(flow.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

func newVerifyConfirmCmd() *cobra.Command {
	var email, code string

	cmd := &cobra.Command{
		Use:   "confirm",
		Short: "Confirm a mailed verification code",
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
			if code == "" {
				if code, err = promptLine(cmd.OutOrStdout(), stdin, "Code: "); err != nil {
					return err
				}
			}

			flow := client.ConfirmVerificationCode(cmd.Context(), email, code)
			if flow.Failed() {
				log.Warnw("confirm code failed", "message", flow.Message)
				cmd.Println(flow.Message)
				return flow.Err
			}

			cmd.Println(flow.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&code, "code", "", "verification code")
	return cmd
}
