package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	hrpauth "github.com/hrpnet/hrpauth"
	"github.com/hrpnet/hrpauth/captcha"
)

// NewRegisterCmd creates the register subcommand. The captcha rendering is
// written to a PNG the user opens, and the guess is read back from the
// terminal; on a failed attempt the SDK refreshes the challenge, so the
// PNG is rewritten before the next prompt.
func NewRegisterCmd() *cobra.Command {
	var email, nickname string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, log, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			stdin := bufio.NewReader(cmd.InOrStdin())
			in := hrpauth.RegisterInput{Email: email, Nickname: nickname}
			if in.Email == "" {
				if in.Email, err = promptLine(cmd.OutOrStdout(), stdin, "E-mail: "); err != nil {
					return err
				}
			}
			if in.Nickname == "" {
				if in.Nickname, err = promptLine(cmd.OutOrStdout(), stdin, "Gamename: "); err != nil {
					return err
				}
			}
			if in.Password, err = promptLine(cmd.OutOrStdout(), stdin, "Password: "); err != nil {
				return err
			}
			if in.Password2, err = promptLine(cmd.OutOrStdout(), stdin, "Confirm password: "); err != nil {
				return err
			}

			challenge, err := client.NewChallenge()
			if err != nil {
				return err
			}

			pngPath := filepath.Join(os.TempDir(), "hrpauth-captcha.png")
			if err := writeChallenge(challenge, pngPath); err != nil {
				return err
			}
			cmd.Printf("Captcha written to %s\n", pngPath)

			if in.CaptchaGuess, err = promptLine(cmd.OutOrStdout(), stdin, "Captcha: "); err != nil {
				return err
			}

			flow := client.Register(cmd.Context(), in, challenge)
			if flow.Failed() {
				// The challenge was refreshed on failure; rewrite the image
				// so a retry shows the live code.
				if werr := writeChallenge(challenge, pngPath); werr == nil {
					cmd.Printf("New captcha written to %s\n", pngPath)
				}
				log.Warnw("register failed", "message", flow.Message)
				cmd.Println(flow.Message)
				return flow.Err
			}

			cmd.Println(flow.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&nickname, "nickname", "", "game nickname")

	return cmd
}

func writeChallenge(ch *captcha.Challenge, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write captcha: %w", err)
	}
	defer f.Close()
	return ch.PNG(f)
}
