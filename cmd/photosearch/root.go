package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kailas-cloud/photosearch/internal/config"
)

var envFlag string

var rootCmd = &cobra.Command{
	Use:   "photosearch",
	Short: "Faceted search over a photo and video library",
	Long: `photosearch answers filtered, paginated searches over a media catalog
and computes date, tag, people and duplicate facets for every result set.

Configuration is read from config/<env>.yaml; ${VAR} references are
expanded from the environment and an optional .env file.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&envFlag, "env", "", "Config environment (default: $ENV or local)")
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}

// envName resolves the config environment: --env wins over $ENV.
func envName() string {
	if envFlag != "" {
		return envFlag
	}
	return config.GetEnv()
}
