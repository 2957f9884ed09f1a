package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/leonkasovan/sffkit/internal/config"
	"github.com/leonkasovan/sffkit/internal/sfflog"
)

// globalFlags mirrors the teacher's handful of top-level switches
// (config.go's Config fields), wired to persistent cobra/pflag flags
// shared by every subcommand.
type globalFlags struct {
	configPath string
	logFile    string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	gf := &globalFlags{}

	root := &cobra.Command{
		Use:           "sffkit",
		Short:         "Extract sprites and palettes from Mugen SFF containers",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVar(&gf.configPath, "config", "sffkit.yaml", "path to optional settings file")
	root.PersistentFlags().StringVar(&gf.logFile, "log-file", "", "write logs to this file instead of stderr")
	root.PersistentFlags().BoolVarP(&gf.verbose, "verbose", "v", false, "enable debug-level logging")

	root.AddCommand(newExtractCmd(gf), newAtlasCmd(gf), newDumpCmd(gf))
	return root
}

// setup loads the optional YAML config and builds a logger, letting
// command-line flags override the file's values.
func setup(gf *globalFlags) (*config.Config, *zap.SugaredLogger, error) {
	cfg, err := config.Load(gf.configPath)
	if err != nil {
		return nil, nil, err
	}

	logFile := cfg.LogFile
	if gf.logFile != "" {
		logFile = gf.logFile
	}
	verbose := cfg.LogVerbose || gf.verbose

	log, err := sfflog.New(sfflog.Config{FilePath: logFile, Verbose: verbose})
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
