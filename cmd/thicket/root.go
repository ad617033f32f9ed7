package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/thicket/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:   "thicket",
	Short: "Thicket solves finite-domain planning tasks with best-first search",
	Long: `Thicket reads planning tasks written in YAML or JSON and searches for a
cheapest plan with A*, weighted A*, greedy best-first or uniform-cost search.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCode(nil, err))
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Log every search event to stderr")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log progress to stderr")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON lines")
}

func logOptions(cmd *cobra.Command) cli.LogOptions {
	debug, _ := cmd.Flags().GetBool("debug")
	verbose, _ := cmd.Flags().GetBool("verbose")
	asJSON, _ := cmd.Flags().GetBool("log-json")
	return cli.LogOptions{Debug: debug, Verbose: verbose, JSON: asJSON}
}

func addStoreFlags(cmd *cobra.Command, defaultKind string) {
	cmd.Flags().String("store", defaultKind, "Plan store: none, memory, file, redis or badger")
	cmd.Flags().String("store-path", "", "Directory of the file or badger store")
	cmd.Flags().String("redis-url", "", "Redis URL for the redis store (default redis://localhost:6379/0)")
	cmd.Flags().Duration("store-ttl", 0, "Expire stored plans after this duration (redis, badger)")
}

func storeOptions(cmd *cobra.Command) cli.StoreOptions {
	kind, _ := cmd.Flags().GetString("store")
	path, _ := cmd.Flags().GetString("store-path")
	url, _ := cmd.Flags().GetString("redis-url")
	ttl, _ := cmd.Flags().GetDuration("store-ttl")
	return cli.StoreOptions{Kind: kind, Path: path, RedisURL: url, TTL: ttl}
}
