// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the coggraph CLI. It turns
// ⟨Category#track: text⟩ annotated texts into GraphViz knowledge graphs.
package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/coggraph/internal/logger"
	"github.com/pdiddy/coggraph/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the coggraph CLI.
var rootCmd = &cobra.Command{
	Use:   "coggraph",
	Short: "Generate knowledge graphs from Cog-Annot annotated texts",
	Long: `coggraph reads texts annotated with ⟨Category#track: text⟩ spans and
generates GraphViz DOT knowledge graphs showing objects (Cog1, Cog5), their
properties and states (Cog2p, Cog2t), actions (Cog2v), parts and products
(Cog3Int, Cog3Der), environments (Cog4), temporal markers (TD_), movement
(MOV_), and human operations (PLACTAC).

Texts can be scoped to one Bekker-numbered section (e.g. 486a.1). Annotations
can also be exported as YAML/JSON or collected into a searchable index.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		logger.Init(logger.NewConsole(cmd.ErrOrStderr(), verbose || viper.GetBool("verbose")))
		if f := viper.ConfigFileUsed(); f != "" {
			logger.Debug("using config file", "path", f)
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./coggraph.yaml or ~/.config/coggraph/coggraph.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	viper.SetDefault("graph.output_dir", types.DefaultOutputDir)
	viper.SetDefault("graph.title", types.DefaultDocumentTitle)
	viper.SetDefault("index.dir", "index")
	viper.SetDefault("index.max_results", 20)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("coggraph")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "coggraph"))
		}
	}

	// COGGRAPH_GRAPH_OUTPUT_DIR sets graph.output_dir.
	viper.SetEnvPrefix("COGGRAPH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// A missing config file is fine; defaults and flags apply.
	_ = viper.ReadInConfig()
}

// stringSetting returns the flag value when set on the command line,
// otherwise the configured value for key, otherwise the flag default.
func stringSetting(cmd *cobra.Command, flag, key string) string {
	if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
		return f.Value.String()
	}
	if v := viper.GetString(key); v != "" {
		return v
	}
	v, _ := cmd.Flags().GetString(flag)
	return v
}

func graphConfig(cmd *cobra.Command) types.GraphConfig {
	return types.GraphConfig{
		OutputDir:     stringSetting(cmd, "output", "graph.output_dir"),
		DocumentTitle: viper.GetString("graph.title"),
	}
}

// run executes the root command and logs the error it fails with.
func run() error {
	err := rootCmd.Execute()
	if err != nil {
		logger.Error("command failed", "err", err)
	}
	return err
}

func main() {
	logger.Init(logger.NewConsole(os.Stderr, false))
	if err := run(); err != nil {
		os.Exit(1)
	}
}
