package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/racelogtools/telemetry-pivot-go/log"
	ingestCmd "github.com/racelogtools/telemetry-pivot-go/pkg/cmd/ingest"
	lapsCmd "github.com/racelogtools/telemetry-pivot-go/pkg/cmd/laps"
	"github.com/racelogtools/telemetry-pivot-go/pkg/config"
	"github.com/racelogtools/telemetry-pivot-go/version"
)

const envPrefix = "TPV"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "telemetry-pivot",
	Short:   "Reconstructs wide-format telemetry frames from long-format logs",
	Long:    ``,
	Version: version.FullVersion,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogger()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // cobra wiring
func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.telemetry-pivot.yml)")

	rootCmd.PersistentFlags().StringVar(&config.LogLevel, "log-level",
		"info",
		"controls the log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&config.LogFormat, "log-format",
		"text",
		"controls the log output format (text, json)")
	rootCmd.PersistentFlags().StringVar(&config.LogConfig, "log-config", "",
		"path to a yaml logging configuration")

	rootCmd.PersistentFlags().IntVar(&config.MaxMatchedRows, "max-rows",
		100000,
		"stop ingesting once this many matched rows accumulated")
	rootCmd.PersistentFlags().IntVar(&config.SkipRows, "skip-rows",
		0,
		"number of leading data rows to skip")
	rootCmd.PersistentFlags().IntVar(&config.ChunkSize, "chunk-size",
		1000,
		"rows per decoded chunk")
	rootCmd.PersistentFlags().StringVar(&config.VehicleFilter, "vehicle", "",
		"restrict processing to this vehicle id")
	rootCmd.PersistentFlags().IntVar(&config.LapFilter, "lap", -1,
		"restrict processing to this lap")

	// add commands here
	rootCmd.AddCommand(ingestCmd.NewIngestCmd())
	rootCmd.AddCommand(lapsCmd.NewLapsCmd())
}

func setupLogger() error {
	cfg := &log.Config{DefaultLevel: config.LogLevel}
	if config.LogConfig != "" {
		var err error
		if cfg, err = log.LoadConfig(config.LogConfig); err != nil {
			return fmt.Errorf("could not load log config %s: %w",
				config.LogConfig, err)
		}
		if cfg.DefaultLevel == "" {
			cfg.DefaultLevel = config.LogLevel
		}
	}
	logger, err := log.NewWithConfig(cfg, config.LogFormat)
	if err != nil {
		return err
	}
	log.ResetDefault(logger)
	return nil
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".telemetry-pivot"
		// (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".telemetry-pivot")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	bindFlags(rootCmd, viper.GetViper())
	for _, cmd := range rootCmd.Commands() {
		bindFlags(cmd, viper.GetViper())
	}
}

// Bind each cobra flag to its associated viper configuration
// (config file and environment variable)
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Environment variables can't have dashes in them, so bind them to their
		// equivalent keys with underscores, e.g. --favorite-color to TPV_FAVORITE_COLOR
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name,
				fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				fmt.Fprintf(os.Stderr, "Could not bind env var %s: %v", f.Name, err)
			}
		}
		// Apply the viper config value to the flag when the flag is not set and viper
		// has a value
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				fmt.Fprintf(os.Stderr, "Could set flag value for %s: %v", f.Name, err)
			}
		}
	})
}
