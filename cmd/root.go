// Package cmd contains the wildscope CLI commands.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wildscope",
	Short: "Wildscope - structured wildlife research answers",
	Long: `Wildscope answers free-text wildlife and conservation questions by
decomposing each query into generation tasks, resolving every task against
a hosted text-generation model with fallback, and assembling the sections
into one structured answer.

Run "wildscope serve" to start the HTTP API, or "wildscope ask" for a
one-shot answer on the command line.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
