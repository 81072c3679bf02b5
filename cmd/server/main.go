package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var envFile string

// rootCmd starts the API server when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "server [command] [flags]",
	Short: "Feedback portal API server",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(envFile); err != nil {
			log.Println("No .env file found or error loading, relying on environment variables")
		}
	},
	RunE: serve,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "path to a dotenv file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
