package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetSession bool

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Print the stored session identifier",
	Long:  `Prints the identifier sent with every chat message, creating it on first use. With --reset the stored identifier is discarded first.`,
	RunE:  runSessionCmd,
}

func init() {
	sessionCmd.Flags().BoolVar(&resetSession, "reset", false, "discard the stored identifier and create a new one")
	rootCmd.AddCommand(sessionCmd)
}

func runSessionCmd(cmd *cobra.Command, args []string) error {
	identity, release, err := openIdentity()
	if err != nil {
		return err
	}
	defer release()

	if resetSession {
		if err := identity.Reset(cmd.Context()); err != nil {
			return fmt.Errorf("resetting session: %w", err)
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), identity.GetOrCreate(cmd.Context()))
	return nil
}
