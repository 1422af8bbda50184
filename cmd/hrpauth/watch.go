package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// NewWatchCmd creates the watch subcommand: it samples the session store
// on the configured interval and prints every login-state transition until
// interrupted. Useful when another process (or the redis store) mutates
// the shared session.
func NewWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the session store and report login-state changes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, log, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			for loggedIn := range client.Watcher().Watch(ctx) {
				if loggedIn {
					cmd.Println("logged in")
				} else {
					cmd.Println("logged out")
				}
				log.Infow("auth state", "logged_in", loggedIn)
			}
			return nil
		},
	}
}
