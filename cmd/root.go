package cmd

import (
	"os"
	"strings"

	"github.com/reviewbridge/reviewbridge/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Command line flags
	logLevel string
	ipcMode  string
)

var rootCmd = &cobra.Command{
	Use:   "reviewbridge",
	Short: "Prepare code review requests and hand them to an editor AI panel",
	Long: `reviewbridge assembles a markdown review request from git state, keeps the
bundled review skill synchronized into the workspace, and pushes the request
into the host editor's AI panel, falling back to the clipboard.

The editor extension spawns it with --ipc stdio and serves the editor surface
over JSON-RPC on the process's standard streams; run without the flag it
behaves as a plain terminal tool.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		configErr := loadConfigFile()

		// The flag wins when given; otherwise the config file may raise or
		// lower the level. Resolved before the first log line.
		level := logLevel
		if !cmd.Flags().Changed("log-level") {
			if fromConfig := viper.GetString("log-level"); fromConfig != "" {
				level = fromConfig
			}
		}
		logger.Init(level)
		logger.Debugf("Log level set to: %s", level)

		if configErr != nil {
			logger.Warnf("Config file not usable, continuing with defaults: %v", configErr)
		} else if used := viper.ConfigFileUsed(); used != "" {
			logger.Debugf("Using config file: %s", used)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		// Default behavior when no subcommands are provided
		cmd.Help()
	},
}

// Execute runs the root command and handles errors
func Execute() error {
	// Subcommands are added in their respective init() functions
	return rootCmd.Execute()
}

func init() {
	rootCmd.SilenceUsage = true

	// Add persistent flags that will be available to all subcommands
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Set the logging level (debug, info, warn, error, dpanic, panic, fatal)")
	rootCmd.PersistentFlags().StringVar(&ipcMode, "ipc", "",
		`Host bridge mode; the editor extension passes "stdio"`)
}

// loadConfigFile points viper at the optional workspace config file and the
// REVIEWBRIDGE_* environment. A missing file is normal and reports nothing;
// an unreadable one is handed back for a warning once the logger is up.
func loadConfigFile() error {
	if cwd, err := os.Getwd(); err == nil {
		viper.AddConfigPath(cwd)
	}
	viper.SetConfigName(".reviewbridge")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("REVIEWBRIDGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}
	return nil
}
