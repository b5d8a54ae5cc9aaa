package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kunori-kiku/textholder/server"
)

func init() {
	rootCmd.AddCommand(healthCheckCmd)
}

var rootCmd = &cobra.Command{
	Use:   "textholder",
	Short: "textholder serves per-user text files behind credential and ban checks",
	Run: func(cmd *cobra.Command, args []string) {
		server.RunServer()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err.Error())
		os.Exit(1)
	}
}
