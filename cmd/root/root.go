// Package root contains the root command for the application
package root

import (
	"fmt"
	"sync"

	"fjacquet/txcat/internal/config"
	"fjacquet/txcat/internal/container"
	"fjacquet/txcat/internal/logging"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// configKeyAnnotation maps a command flag onto a configuration key.
const configKeyAnnotation = "txcat_config_key"

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// AppContainer holds the dependencies of the running command
	AppContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "txcat",
		Short: "A CLI tool to categorize bank transactions with keyword rules.",
		Long: `txcat assigns every transaction to exactly one category by matching its
description against per-category keyword patterns and reports the totals.

Transactions and categories are read from CSV files (categories may also be
YAML) or from a SQLite/PostgreSQL ledger database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE:  initialize,
		PersistentPostRunE: cleanup,
	}

	// Persistent flags
	ConfigFile string
	LogLevel   string
	LogFormat  string

	initOnce sync.Once
)

// Init initializes the root command and all flags. It is safe to call more than once.
func Init() {
	initOnce.Do(initFlags)
}

func initFlags() {
	Cmd.PersistentFlags().StringVar(&ConfigFile, "config", "", "Config file (default searches $HOME/.txcat, .txcat and .)")
	Cmd.PersistentFlags().StringVar(&LogLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
	Cmd.PersistentFlags().StringVar(&LogFormat, "log-format", "text", "Log format (text or json)")

	BindConfigKey(Cmd.PersistentFlags(), "log-level", "log.level")
	BindConfigKey(Cmd.PersistentFlags(), "log-format", "log.format")
}

// BindConfigKey marks flag name of flags as an override of the configuration
// key. Only flags set on the command line take precedence over the
// config file and environment.
func BindConfigKey(flags *pflag.FlagSet, name, key string) {
	if err := flags.SetAnnotation(name, configKeyAnnotation, []string{key}); err != nil {
		panic(fmt.Sprintf("binding flag %q: %v", name, err))
	}
}

// bindFlags binds every annotated flag visible to cmd into v.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var bindErr error
	bind := func(f *pflag.Flag) {
		keys, ok := f.Annotations[configKeyAnnotation]
		if !ok || len(keys) == 0 || bindErr != nil {
			return
		}
		bindErr = v.BindPFlag(keys[0], f)
	}
	cmd.Flags().VisitAll(bind)
	cmd.InheritedFlags().VisitAll(bind)
	return bindErr
}

// initialize loads the configuration with command-line overrides and wires
// the application container.
func initialize(cmd *cobra.Command, args []string) error {
	if err := config.LoadEnv(Log); err != nil {
		Log.WithError(err).Warn("Failed to load .env file")
	}

	v, err := config.NewViper(ConfigFile)
	if err != nil {
		return err
	}
	if err := bindFlags(cmd, v); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	Log = config.NewLogger(cfg)
	if used := v.ConfigFileUsed(); used != "" {
		Log.Debug("Using config file", logging.Field{Key: logging.FieldFile, Value: used})
	}

	AppContainer, err = container.NewContainerWithLogger(cfg, Log)
	return err
}

func cleanup(cmd *cobra.Command, args []string) error {
	if AppContainer == nil {
		return nil
	}
	return AppContainer.Close()
}
