// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the material-logger CLI.
// Dictated site deliveries go in as audio or text; (material, quantity)
// rows come out in a CSV file, a Google Sheet, and the local ledger.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/material-logger/internal/config"
	"github.com/pdiddy/material-logger/internal/logger"
	"github.com/pdiddy/material-logger/internal/secrets"
	"github.com/pdiddy/material-logger/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// cfg is the validated configuration, loaded before any subcommand runs.
var cfg types.Config

// rootCmd is the base command for the material-logger CLI.
var rootCmd = &cobra.Command{
	Use:   "material-logger",
	Short: "Log construction material deliveries from dictation",
	Long: `material-logger turns spoken site notes such as "5 bags cement and
10 kg sand" into numbered rows of (material, quantity).

Audio is transcribed by a whisper.cpp server, the OpenAI audio API, or a
local whisper container. Records are appended to a CSV file, a Google Sheet,
and a local SQLite ledger that can be listed, totalled, and exported.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadRuntime,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./material-logger.yaml or ~/.config/material-logger/material-logger.yaml)")
	pf.String("secrets-dir", secrets.DefaultDir, "directory of secret files (openai-api-key, google-service-account)")
	pf.Bool("debug", false, "enable debug logging")
	pf.Bool("quiet", false, "log errors only")
	pf.Bool("log-json", false, "log as JSON lines")

	_ = viper.BindPFlag("log.debug", pf.Lookup("debug"))
	_ = viper.BindPFlag("log.quiet", pf.Lookup("quiet"))
}

func initConfig() {
	config.SetDefaults(viper.GetViper())

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("material-logger")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "material-logger"))
		}
	}

	config.BindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		logger.Debug("using config file", "path", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		logger.Warn("could not read config file", "path", cfgFile, "err", err)
	}
}

// loadRuntime loads secrets and configuration and sets up logging.
func loadRuntime(cmd *cobra.Command, _ []string) error {
	jsonLogs, _ := cmd.Flags().GetBool("log-json")
	logger.Init(logger.Options{
		Debug: viper.GetBool("log.debug"),
		Quiet: viper.GetBool("log.quiet"),
		JSON:  jsonLogs || viper.GetString("log.format") == "json",
	})

	dir, _ := cmd.Flags().GetString("secrets-dir")
	s, err := secrets.Load(dir)
	if err != nil {
		return err
	}
	if len(s) > 0 {
		logger.Debug("loaded secrets", "keys", s.Keys())
	}

	loaded, err := config.Load(viper.GetViper(), s)
	if err != nil {
		return err
	}
	cfg = loaded
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
