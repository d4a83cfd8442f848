package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	rootCmd    = &cobra.Command{
		Use:   "content-orch",
		Short: "Content Orchestrator - AI content operations dashboard",
		Long: `Content Orchestrator runs LLM-backed content agents for a brand.
It fetches industry news, drafts blog posts with configurable writer
personas, runs topic research, and tracks every agent run as a
pollable job with notifications.`,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
}

func main() {
	// Optional .env for OPENAI_API_KEY and friends
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
