package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/thicket"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the thicket release and the Go toolchain it was built with",
	Run: func(cmd *cobra.Command, args []string) {
		short, _ := cmd.Flags().GetBool("short")
		v := strings.TrimSpace(thicket.Version)
		if short {
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "thicket %s (%s, %s/%s)\n", v, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	versionCmd.Flags().Bool("short", false, "Print only the release number")
	rootCmd.AddCommand(versionCmd)
}
