// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/space-hub/internal/sources"
	"github.com/pdiddy/space-hub/pkg/types"
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List the federated datasets and their source adapters",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := hubConfig()
		byDataset := make(map[types.Dataset]string)
		for _, src := range sources.All(cfg.Sources) {
			byDataset[src.Dataset()] = src.Name()
		}
		for _, d := range types.Datasets {
			fmt.Printf("%-12s %s\n", d, byDataset[d])
		}
	},
}

func init() {
	rootCmd.AddCommand(datasetsCmd)
}
