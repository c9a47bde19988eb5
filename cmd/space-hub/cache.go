// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/space-hub/internal/store"
	"github.com/pdiddy/space-hub/pkg/types"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the local response cache",
	Long: `Cache manages the SQLite response cache and query analytics log.
Use subcommands to show statistics, purge expired entries, or list
recent queries. These operate on the sqlite backend only.`,
}

// --- stats subcommand ---

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache and analytics statistics",
	RunE:  runCacheStats,
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	s, err := openSQLiteStore()
	if err != nil {
		return err
	}
	defer s.Close()

	stats, err := s.ReadStats(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("Live cache entries:    %d\n", stats.CacheEntries)
	fmt.Printf("Expired cache entries: %d\n", stats.ExpiredEntries)
	fmt.Printf("Analytics rows:        %d\n", stats.AnalyticsRows)
	return nil
}

// --- purge subcommand ---

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete all cached responses",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSQLiteStore()
		if err != nil {
			return err
		}
		defer s.Close()

		n, err := s.Purge(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("Purged %d cached responses\n", n)
		return nil
	},
}

// --- recent subcommand ---

var cacheRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recent queries from the analytics log",
	RunE:  runCacheRecent,
}

func runCacheRecent(cmd *cobra.Command, args []string) error {
	n, _ := cmd.Flags().GetInt("limit")

	s, err := openSQLiteStore()
	if err != nil {
		return err
	}
	defer s.Close()

	recs, err := s.RecentQueries(context.Background(), n)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("No queries recorded.")
		return nil
	}

	fmt.Printf("%-20s  %-14s  %-7s  %-5s  %-8s  %s\n",
		"When", "Intent", "Results", "Cache", "Latency", "Query")
	fmt.Println(strings.Repeat("-", 90))
	for _, r := range recs {
		cache := "miss"
		if r.CacheHit {
			cache = "hit"
		}
		query := r.Query
		if len(query) > 40 {
			query = query[:37] + "..."
		}
		fmt.Printf("%-20s  %-14s  %-7d  %-5s  %-8s  %s\n",
			r.Timestamp.Format(time.DateTime), r.Intent, r.ResultCount, cache,
			fmt.Sprintf("%d ms", r.LatencyMS), query)
	}
	return nil
}

// openSQLiteStore opens the configured store, rejecting non-sqlite
// backends since stats and analytics live in the local database.
func openSQLiteStore() (*store.Store, error) {
	cfg := hubConfig()
	if cfg.Cache.Backend != types.CacheSQLite {
		return nil, fmt.Errorf("cache inspection requires the sqlite backend (configured: %s)", cfg.Cache.Backend)
	}
	return store.NewStore(cfg.Cache)
}

func init() {
	cacheRecentCmd.Flags().Int("limit", 10, "number of recent queries to show")

	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cachePurgeCmd)
	cacheCmd.AddCommand(cacheRecentCmd)

	rootCmd.AddCommand(cacheCmd)
}
