package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/thicket/internal/cli"
)

var validateCmd = &cobra.Command{
	Use:   "validate <task.yaml>",
	Short: "Check a task file for consistency",
	Long:  `Compiles the task and reports every unknown variable, value or malformed operator.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := cli.ValidateTask(args[0], os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			os.Exit(cli.ExitCode(nil, err))
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
