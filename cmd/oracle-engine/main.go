// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the oracle-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/oracle-engine/internal/batch"
	"github.com/pdiddy/oracle-engine/internal/logging"
	"github.com/pdiddy/oracle-engine/internal/pipeline"
	"github.com/pdiddy/oracle-engine/internal/resolve"
	"github.com/pdiddy/oracle-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built in PersistentPreRunE from config and flags.
var logger = zap.NewNop()

// rootCmd is the base command for the oracle-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "oracle-engine",
	Short: "Preprocess Oracle habit-coaching documents into structured registries",
	Long: `oracle-engine converts Oracle knowledge-base documents (markdown habit
catalogs, objectives, trilhas and strategy frameworks) into validated JSON
registries of dimensions and activities, and derives goal/trilha mappings
from them.

preprocess runs the extraction pipeline, mapping builds goal mappings from
a prior result, validate checks result files, watch reprocesses documents
on change, and store keeps a searchable SQLite index of registries.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		level, _ := cmd.Flags().GetString("log-level")
		if level == "" {
			level = cfg.Log.Level
		}
		dev := cfg.Log.Development
		if cmd.Flags().Changed("log-dev") {
			dev, _ = cmd.Flags().GetBool("log-dev")
		}
		l, err := logging.New(level, dev)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./oracle-engine.yaml or ~/.config/oracle-engine/oracle-engine.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (default from config, else warn)")
	rootCmd.PersistentFlags().Bool("log-dev", false, "human-readable console logs")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("oracle-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "oracle-engine"))
		}
	}

	viper.SetEnvPrefix("ORACLE_ENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig merges the shipped defaults with the config file and
// ORACLE_ENGINE_* environment. A resolver table present in the config file
// replaces the shipped table of the same name.
func loadConfig() (types.PipelineConfig, error) {
	def := resolve.DefaultConfig()

	viper.SetDefault("resolver.work_letter", def.WorkLetter)
	viper.SetDefault("resolver.work_dimension", def.WorkDimension)
	viper.SetDefault("extraction.sublevel_threshold", resolve.DefaultSublevelThreshold)
	viper.SetDefault("batch.oracle_dir", batch.DefaultOracleDir)
	viper.SetDefault("batch.pattern", batch.DefaultPattern)
	viper.SetDefault("batch.output_dir", "")
	viper.SetDefault("batch.parallel", 1)
	viper.SetDefault("batch.force", false)
	viper.SetDefault("batch.with_mapping", false)
	viper.SetDefault("store.dir", "oracle-store")
	viper.SetDefault("store.max_results", 20)
	viper.SetDefault("log.level", logging.DefaultLevel)
	viper.SetDefault("log.development", false)

	var cfg types.PipelineConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}

	if !viper.IsSet("resolver.overrides") {
		cfg.Resolver.Overrides = def.Overrides
	}
	if !viper.IsSet("resolver.reserved") {
		cfg.Resolver.Reserved = def.Reserved
	}
	if !viper.IsSet("resolver.strategies") {
		cfg.Resolver.Strategies = def.Strategies
	}
	return cfg, nil
}

// newPipeline builds the extraction pipeline from configuration.
func newPipeline(cfg types.PipelineConfig) *pipeline.Pipeline {
	return pipeline.New(
		pipeline.WithLogger(logger),
		pipeline.WithResolver(resolve.New(cfg.Resolver)),
		pipeline.WithSublevelThreshold(cfg.Extraction.SublevelThreshold),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
