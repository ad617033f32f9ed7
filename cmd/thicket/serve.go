package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/thicket/internal/cli"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP planning server",
	Long:  `Exposes POST /v1/solve, the stored plans under /v1/plans, Prometheus metrics on /metrics and search events on /v1/events.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")
		configPath, _ := cmd.Flags().GetString("config")
		maxTime, _ := cmd.Flags().GetDuration("max-time")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		err := cli.RunServe(ctx, cli.ServeOptions{
			Addr:       ":" + port,
			ConfigPath: configPath,
			MaxTime:    maxTime,
			Store:      storeOptions(cmd),
			Log:        logOptions(cmd),
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
			os.Exit(cli.ExitCode(nil, err))
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().StringP("config", "c", "", "Default search configuration file")
	serveCmd.Flags().Duration("max-time", 0, "Cap on the search time of each request")
	addStoreFlags(serveCmd, cli.StoreMemory)
}
