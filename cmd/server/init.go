package main

import (
	"log"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the storage, seed the admin account and exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, cleanup, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()
		log.Println("Storage is ready")
		return nil
	},
}
