package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/thicket/internal/cli"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts Thicket as an MCP Server so that agents can solve and validate tasks
as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Run: func(cmd *cobra.Command, args []string) {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")
		configPath, _ := cmd.Flags().GetString("config")
		maxTime, _ := cmd.Flags().GetDuration("max-time")

		// Stdout carries JSON-RPC in stdio mode.
		log.SetOutput(os.Stderr)

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		err := cli.RunMCP(ctx, cli.MCPOptions{
			Transport:  transport,
			Port:       port,
			ConfigPath: configPath,
			MaxTime:    maxTime,
			Store:      storeOptions(cmd),
			Log:        logOptions(cmd),
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "MCP Server execution failed: %v\n", err)
			os.Exit(cli.ExitCode(nil, err))
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
	mcpCmd.Flags().StringP("config", "c", "", "Default search configuration file")
	mcpCmd.Flags().Duration("max-time", 30*time.Second, "Cap on the search time of each call")
	addStoreFlags(mcpCmd, cli.StoreMemory)
}
