// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pdiddy/space-hub/internal/engine"
	"github.com/pdiddy/space-hub/internal/sources"
	"github.com/pdiddy/space-hub/internal/store"
	"github.com/pdiddy/space-hub/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Run a natural-language query across the space data sources",
	Long: `Search interprets a plain-English question, builds per-source filters,
and queries the federated sources concurrently. Results are scored,
ranked, and cached; a repeated query within the cache TTL is answered
locally.

Examples:
  space-hub search "earth-sized planets discovered after 2020"
  space-hub search "is the ISS overhead at 40.7,-74.0" --datasets iss
  space-hub search "curiosity rover photos from sol 1000" --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	req := requestFromFlags(cmd, args)
	cfg := hubConfig()
	log := newLogger(cmd)

	cache, analytics, closeStore, err := openStore(cmd.Context(), cfg.Cache)
	if err != nil {
		return err
	}
	defer closeStore()

	eng := engine.New(cfg, sources.All(cfg.Sources), cache, analytics, log)
	resp, err := eng.Search(cmd.Context(), req)
	if err != nil {
		return err
	}

	if save, _ := cmd.Flags().GetString("save"); save != "" {
		if err := engine.WriteResponseFile(save, req, resp); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved search to %s\n", save)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(resp, jsonOutput)
}

// requestFromFlags builds the engine request; dataset and sort names
// are validated by the engine itself.
func requestFromFlags(cmd *cobra.Command, args []string) engine.Request {
	req := engine.Request{Query: strings.Join(args, " ")}

	if datasets, _ := cmd.Flags().GetString("datasets"); datasets != "" {
		for _, d := range strings.Split(datasets, ",") {
			req.Datasets = append(req.Datasets, types.Dataset(strings.TrimSpace(d)))
		}
	}
	req.Limit, _ = cmd.Flags().GetInt("limit")
	sortMode, _ := cmd.Flags().GetString("sort")
	req.Sort = types.SortMode(sortMode)
	req.Correlations, _ = cmd.Flags().GetBool("correlations")
	req.NoCache, _ = cmd.Flags().GetBool("no-cache")
	return req
}

// openStore constructs the configured cache backend. The SQLite store
// doubles as the analytics log; Redis and "none" run without analytics.
func openStore(ctx context.Context, cfg types.CacheConfig) (store.Cache, store.Analytics, func(), error) {
	switch cfg.Backend {
	case types.CacheSQLite:
		s, err := store.NewStore(cfg)
		if err != nil {
			return nil, nil, nil, err
		}
		return s, s, func() { s.Close() }, nil
	case types.CacheRedis:
		c, err := store.NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, nil, err
		}
		return c, nil, func() { c.Close() }, nil
	case types.CacheNone:
		return nil, nil, func() {}, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown cache backend %q: use sqlite, redis, or none", cfg.Backend)
	}
}

// newLogger builds the CLI logger; --verbose enables debug output.
func newLogger(cmd *cobra.Command) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

func formatSearchOutput(resp types.Response, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	fmt.Printf("Query: %s\n", resp.Query)
	fmt.Printf("Intent: %s (confidence %.2f, %s)\n", resp.Intent.Category, resp.Confidence, resp.Intent.Complexity)
	if resp.Meta.CacheHit {
		fmt.Println("Answered from cache.")
	}
	fmt.Println()

	for _, d := range types.Datasets {
		dr, ok := resp.Datasets[d]
		if !ok {
			continue
		}
		if dr.Unavailable {
			fmt.Printf("== %s (%s): unavailable: %s\n\n", d, dr.Source, dr.Error)
			continue
		}
		fmt.Printf("== %s (%s): %d result(s)\n", d, dr.Source, dr.Count)
		if dr.Predicate != "" {
			fmt.Printf("   filters: %s\n", dr.Predicate)
		}
		for i, item := range dr.Items {
			fmt.Printf("%4d. [%.2f] %s\n", i+1, item.Score, itemTitle(item))
			if item.Explanation != "" {
				fmt.Printf("      %s\n", item.Explanation)
			}
		}
		fmt.Println()
	}

	if len(resp.Correlations) > 0 {
		fmt.Println("Observations:")
		for _, c := range resp.Correlations {
			fmt.Printf("  - %s\n", c)
		}
		fmt.Println()
	}
	if len(resp.Suggestions) > 0 {
		fmt.Println("Try next:")
		for _, s := range resp.Suggestions {
			fmt.Printf("  - %s\n", s)
		}
		fmt.Println()
	}

	fmt.Printf("%d results in %d ms\n", resp.TotalResults, resp.Meta.LatencyMS)
	return nil
}

// itemTitle picks a display name from the well-known record fields.
func itemTitle(item types.ResultItem) string {
	for _, key := range []string{"pl_name", "title", "name", "flrID", "activityID"} {
		if v, ok := item.Record[key].(string); ok && v != "" {
			return v
		}
	}
	if v, ok := item.Record["id"].(float64); ok {
		return fmt.Sprintf("record %d", int(v))
	}
	return string(item.Dataset)
}

func init() {
	searchCmd.Flags().String("datasets", "", "restrict to datasets (comma-separated: exoplanets, mars, iss)")
	searchCmd.Flags().Int("limit", 0, "maximum results per dataset (0 = use default)")
	searchCmd.Flags().String("sort", "", "sort mode: relevance, date, distance, size")
	searchCmd.Flags().Bool("correlations", false, "include cross-dataset observations")
	searchCmd.Flags().Bool("no-cache", false, "bypass the response cache")
	searchCmd.Flags().Bool("json", false, "output the full response as JSON")
	searchCmd.Flags().String("save", "", "save the search to a YAML file")
	searchCmd.Flags().Bool("verbose", false, "enable debug logging")

	rootCmd.AddCommand(searchCmd)
}
