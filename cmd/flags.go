package cmd

import "github.com/spf13/pflag"

// globalFlags are accepted by every command.
type globalFlags struct {
	configPath string
	debug      bool
	quiet      bool
}

var globals globalFlags

func registerGlobalFlags(fs *pflag.FlagSet, f *globalFlags) {
	fs.StringVar(&f.configPath, "config", "", "Read configuration from this TOML file")
	fs.BoolVar(&f.debug, "debug", false, "Print debug output and log at debug level")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "Only print warnings and errors")
}
