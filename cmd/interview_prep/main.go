// Package main provides the entry point for the interview-prep HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/jonathan/interview-prep/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "interview_prep",
	Short: "Interview preparation HTTP API server",
	Long:  "Interview prep serves AI-generated technical quizzes, scores and stores the results, and tracks industry insights for onboarding users.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Optional JSON config file (environment values win)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig merges the environment over the optional config file.
func loadConfig() (*config.Config, error) {
	env, err := config.FromEnv()
	if err != nil {
		return nil, err
	}

	var file config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		file = *loaded
	}

	merged := env.MergeWithDefaults(file)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}
