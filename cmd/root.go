package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/cahier/internal/config"
	"github.com/zjrosen/cahier/internal/log"
)

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	cfg       config.Config
)

var rootCmd = &cobra.Command{
	Use:   "cahier",
	Short: "Inspect reactive notebook cell records",
	Long: `Cahier loads notebook cell records and reports on each cell: its code,
its disablement state, and whether a script export would comment it out.

Records are read from JSON or YAML files. Use 'report' for a rendered
view of a notebook and 'validate' to check records without rendering.`,
	Version: version,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/cahier/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false,
		"enable debug logging")
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("format", defaults.Format)
	viper.SetDefault("debug", defaults.Debug)
	viper.SetDefault("log_file", defaults.LogFile)
	viper.SetDefault("watch.debounce", defaults.Watch.Debounce)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .cahier/config.yaml (current directory)
		// 2. ~/.config/cahier/config.yaml (user config)
		if _, err := os.Stat(".cahier/config.yaml"); err == nil {
			viper.SetConfigFile(".cahier/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "cahier"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at .cahier/config.yaml
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			defaultPath := ".cahier/config.yaml"
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// debugEnabled reports whether debug logging was requested via the --debug
// flag, the config file, or the CAHIER_DEBUG environment variable.
func debugEnabled() bool {
	return debugFlag || cfg.Debug || os.Getenv("CAHIER_DEBUG") != ""
}

// initLogging enables file logging when debug mode is requested. The
// returned cleanup closes the log file and is safe to call always.
func initLogging() (func(), error) {
	if !debugEnabled() {
		return func() {}, nil
	}

	logPath := os.Getenv("CAHIER_LOG")
	if logPath == "" {
		logPath = cfg.LogFile
	}
	if logPath == "" {
		logPath = "debug.log"
	}

	cleanup, err := log.Init(logPath)
	if err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}
	return cleanup, nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
