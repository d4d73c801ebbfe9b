package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pders01/git-release/internal/config"
	"github.com/pders01/git-release/internal/logging"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	cfgFile    string
	reactorDir string
)

// swapped by tests
var (
	appFs  afero.Fs  = afero.NewOsFs()
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
)

var rootCmd = &cobra.Command{
	Use:   "git-release",
	Short: "Decide module versions for multi-module releases",
	Long: `git-release decides, for every module of a multi-module project, the
version it moves to when a release is prepared, a branch is cut, or the
working copy moves on to the next development cycle.

Modules are described by module.toml manifests. Decisions are recorded in
a release state file (release.toml) that later runs pick up again.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/git-release/config.toml)")
	flags.StringVarP(&reactorDir, "dir", "C", ".", "root directory of the reactor")
	flags.String("state", "", "release state file, relative to the reactor root")
	flags.StringP("format", "o", "", "output format: text, json, yaml, toon")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.Bool("log-json", false, "write logs as JSON")

	bindFlag("release.state_file", flags.Lookup("state"))
	bindFlag("output.format", flags.Lookup("format"))
	bindFlag("log.level", flags.Lookup("log-level"))
	bindFlag("log.json", flags.Lookup("log-json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		configDir, err := defaultConfigDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		viper.AddConfigPath(configDir)
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	config.BindEnv()
	config.SetDefaults()

	if err := viper.ReadInConfig(); err == nil {
		newLogger().Debug("using config file", "path", viper.ConfigFileUsed())
	}
}

func defaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "git-release"), nil
}

func bindFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("failed to bind flag %s: %v", key, err))
	}
}

// newLogger builds the diagnostics logger from log.level and log.json
func newLogger() *slog.Logger {
	level, err := logging.ParseLevel(config.GetLogLevel())
	if err != nil {
		level = logging.LevelWarn
	}
	return logging.New(logging.Config{
		Level: level,
		JSON:  config.GetLogJSON(),
	})
}
