package main

import (
	"errors"

	"github.com/spf13/cobra"

	hrpauth "github.com/hrpnet/hrpauth"
)

// NewWhoamiCmd creates the whoami subcommand.
func NewWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			profile, err := client.Profile(cmd.Context())
			if errors.Is(err, hrpauth.ErrNotAuthenticated) {
				cmd.Println("未登录或登录已过期 (not logged in)")
				return err
			}
			if err != nil {
				return err
			}

			cmd.Printf("%s <%s>\n", profile.Nickname, profile.Email)
			if profile.Derived {
				cmd.Println("  (backend unreachable; showing locally stored identity)")
			}
			if profile.IsVerified {
				cmd.Println("  邮箱已验证 (email verified)")
			} else {
				cmd.Println("  邮箱未验证 (email not verified)")
			}

			if info, err := client.InspectToken(cmd.Context()); err == nil {
				if !info.ExpiresAt.IsZero() {
					cmd.Printf("  token expires %s\n", info.ExpiresAt.Format("2006-01-02 15:04:05"))
				}
			} else if errors.Is(err, hrpauth.ErrTokenOpaque) {
				cmd.Println("  token: opaque")
			}

			return nil
		},
	}
}
