/*
Copyright © 2025 Your Name

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package handlers

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"trendpulse/internal/ai"
	"trendpulse/internal/aicache"
	"trendpulse/internal/config"
	"trendpulse/internal/pipeline"
	"trendpulse/internal/sources"
	"trendpulse/internal/store"
)

var cfgFile string

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "trendpulse",
		Short: "TrendPulse analyzes social media trends and generates posts with AI.",
		Long: `TrendPulse tracks keywords across social media, summarizes what people
are saying with LLM providers, and drafts tweets and Instagram posts from
the resulting insights.

Track a keyword, then generate insights manually or let the built-in
scheduler run at fixed hours of the day.`,
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.trendpulse.yaml)")

	rootCmd.AddCommand(NewServeCmd())
	rootCmd.AddCommand(NewGenerateCmd())
	rootCmd.AddCommand(NewKeywordCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if _, err := config.Load(cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
}

// openStore opens the SQLite store at the configured data directory.
func openStore(cfg *config.Config) (*store.Store, error) {
	st, err := store.NewStore(cfg.App.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return st, nil
}

// buildPipeline wires the source, the AI facade, and the store into the
// generation pipeline.
func buildPipeline(cfg *config.Config, st *store.Store) *pipeline.Pipeline {
	providers := ai.ProvidersFromConfig(cfg.AI)
	service := ai.NewService(providers, aicache.New(), ai.OptionsFromConfig(cfg.AI))
	source := sources.NewTwitterClient(cfg.Twitter.BearerToken)
	return pipeline.New(source, service, st, pipeline.DefaultConfig())
}
