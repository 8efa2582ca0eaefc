package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/Yash-Thio/IETE-ToDo/cmd/api/commands"
)

// @title Remindify API
// @version 1.0
// @description Reminders-style task lists with smart dashboard categories
// @termsOfService https://github.com/Yash-Thio/IETE-ToDo/blob/main/LICENSE

// @contact.name Remindify Maintainers
// @contact.url https://github.com/Yash-Thio/IETE-ToDo

// @license.name MIT
// @license.url https://github.com/Yash-Thio/IETE-ToDo/blob/main/LICENSE

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

func main() {
	rootCmd := &cobra.Command{
		Use:   "remindify",
		Short: "Remindify API Server",
		Long:  `Remindify keeps per-user task lists and serves the Today, Scheduled, All, Flagged and Completed dashboard views over them.`,
	}

	// Add commands
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewUserCommand())
	rootCmd.AddCommand(commands.NewImportCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
