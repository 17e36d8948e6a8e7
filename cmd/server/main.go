package main

import (
	"os"

	"github.com/spf13/cobra"

	_ "PM-TMPL/docs" // Load swagger docs
)

var rootCmd = &cobra.Command{
	Use:   "pmtmpl",
	Short: "Project templates materialised into team projects and tasks",
	Long: `pmtmpl stores project templates with {placeholder} variables and turns
them into concrete projects and tasks for a team, anchored at a start date.`,
	Example: `  # Run the API server
  pmtmpl serve

  # Inspect which variables a template needs
  pmtmpl placeholders 0b6f6a9e-2c1d-4d8e-9a51-5d2f3c7e8a10

  # Generate from the command line
  pmtmpl generate 0b6f6a9e-2c1d-4d8e-9a51-5d2f3c7e8a10 --team 5 --start 2024-01-08 --var employee=Ana`,
	// no subcommand runs the server
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(placeholdersCmd)
	rootCmd.AddCommand(generateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
