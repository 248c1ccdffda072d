/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cristianoliveira/zendesk-intray/internal/colors"
	"github.com/cristianoliveira/zendesk-intray/internal/config"
	"github.com/cristianoliveira/zendesk-intray/internal/logging"
	"github.com/cristianoliveira/zendesk-intray/internal/version"
	"github.com/spf13/cobra"
)

// skipSetup marks commands that run without loading configuration.
const skipSetup = "skip-setup"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:               "zendesk-intray",
	Short:             "Desktop alerts for new tickets in your groups.",
	Long:              `Desktop alerts for new tickets in your groups.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		colors.Error(err.Error())
		logging.Error("command failed", "error", err)
	}
	_ = logging.ShutdownGlobal()
	return err
}

func init() {
	rootCmd.Version = version.String()

	// Hide the completion command
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		printHelpText(cmd)
	})

	registerGlobalFlags(rootCmd.PersistentFlags(), &globals)
}

// setup loads configuration, applies global flags and starts the file logger.
func setup(cmd *cobra.Command, _ []string) error {
	if cmd.Annotations[skipSetup] == "true" {
		return nil
	}
	if globals.configPath != "" {
		if err := os.Setenv(config.EnvPrefix+"CONFIG_PATH", globals.configPath); err != nil {
			return fmt.Errorf("set config path: %w", err)
		}
	}
	config.Load()
	if globals.debug {
		config.Set("debug", "true")
	}
	if globals.quiet {
		config.Set("quiet", "true")
	}
	colors.SetDebug(config.GetBool("debug", false))
	colors.SetQuiet(config.GetBool("quiet", false))

	if err := logging.InitGlobal(); err != nil {
		colors.Warning("file logging disabled:", err.Error())
	}
	logging.Debug("command started", "command", cmd.CommandPath(), "config", config.ConfigPath(), "settings", config.All())
	return nil
}

func printHelpText(cmd *cobra.Command) {
	root := cmd.Root()
	commandOrder := []string{
		"run",
		"check",
		"seen",
		"help",
		"version",
	}

	var cmdLines []string
	for _, name := range commandOrder {
		var found *cobra.Command
		for _, c := range root.Commands() {
			if c.Name() == name {
				found = c
				break
			}
		}
		if found == nil {
			continue
		}
		cmdLines = append(cmdLines, fmt.Sprintf("    %-16s %s", found.Use, found.Short))
	}

	configPath := config.ConfigPath()
	if configPath == "" {
		configPath = "$XDG_CONFIG_HOME/zendesk-intray/config.toml"
	}

	helpText := fmt.Sprintf(`zendesk-intray v%s

Desktop alerts for new tickets in your groups.

USAGE:
    zendesk-intray [COMMAND] [OPTIONS]

COMMANDS:
%s

OPTIONS:
%s
CONFIGURATION:
    %s
    Environment variables %s<KEY> override the file.
`, version.String(), strings.Join(cmdLines, "\n"), root.PersistentFlags().FlagUsages(),
		configPath, config.EnvPrefix)
	fmt.Fprint(cmd.OutOrStdout(), helpText)
}
