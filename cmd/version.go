/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package cmd

import (
	"fmt"

	"github.com/cristianoliveira/zendesk-intray/internal/version"
	"github.com/spf13/cobra"
)

type versionClient interface {
	Version() string
}

type buildVersion struct{}

func (buildVersion) Version() string { return version.String() }

// NewVersionCmd creates the version command with explicit dependencies.
func NewVersionCmd(client versionClient) *cobra.Command {
	if client == nil {
		panic("NewVersionCmd: client dependency cannot be nil")
	}

	return &cobra.Command{
		Use:         "version",
		Short:       "Show version information",
		Long:        `Show the current version of zendesk-intray.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSetup: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "zendesk-intray version %s\n", client.Version())
			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(NewVersionCmd(buildVersion{}))
}
