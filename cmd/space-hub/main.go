// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the space-hub CLI.
// Implements: prd001-interpret, prd003-fusion, prd006-cache,
//
//	prd007-sources (CLI surface).
//
// See docs/ARCHITECTURE § Hub Interface, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/space-hub/internal/secrets"
	"github.com/pdiddy/space-hub/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the space-hub CLI.
var rootCmd = &cobra.Command{
	Use:   "space-hub",
	Short: "Natural-language search across federated space data sources",
	Long: `space-hub answers plain-English questions about space data. A query is
interpreted into a structured intent, translated into per-source filters,
and fanned out to the NASA Exoplanet Archive, the api.nasa.gov feeds, and
the wheretheiss.at tracker. Results are scored, ranked, and cached.

Each operation is a subcommand: search runs a query, cache inspects the
local response cache, and datasets lists the federated sources.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./space-hub.yaml or ~/.config/space-hub/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("space-hub")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "space-hub"))
		}
	}

	viper.SetEnvPrefix("SPACE_HUB")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// hubConfig assembles the runtime configuration from the config file,
// environment, and secrets, then fills documented defaults.
func hubConfig() types.HubConfig {
	cfg := types.HubConfig{
		Search: types.SearchConfig{
			MaxResultsPerSource: viper.GetInt("search.max_results_per_source"),
			SourceTimeout:       viper.GetDuration("search.source_timeout"),
			RequestTimeout:      viper.GetDuration("search.request_timeout"),
		},
		Cache: types.CacheConfig{
			Backend:       types.CacheBackend(viper.GetString("cache.backend")),
			TTL:           viper.GetDuration("cache.ttl"),
			Dir:           viper.GetString("cache.dir"),
			RedisAddr:     viper.GetString("cache.redis_addr"),
			RedisPassword: secretDefault("redis-password", viper.GetString("cache.redis_password")),
			RedisDB:       viper.GetInt("cache.redis_db"),
		},
		Sources: types.SourcesConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("sources.timeout"),
				UserAgent: viper.GetString("sources.user_agent"),
			},
			NASAAPIKey:         secretDefault("nasa-api-key", viper.GetString("sources.nasa_api_key")),
			OverheadAltitudeKM: viper.GetFloat64("sources.overhead_altitude_km"),
		},
	}
	return cfg.Defaults()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
