/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package cmd

import (
	"github.com/spf13/cobra"
)

// helpCmd represents the help command
var helpCmd = &cobra.Command{
	Use:         "help",
	Short:       "Show this help message",
	Long:        `Show this help message.`,
	Annotations: map[string]string{skipSetup: "true"},
	Run: func(cmd *cobra.Command, args []string) {
		printHelpText(cmd)
	},
}

func init() {
	rootCmd.SetHelpCommand(helpCmd)
}
