// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/space-hub/pkg/types"
)

// ResponseFile is the on-disk representation of a search and its
// results. A search can be saved to a file and reviewed later without
// re-querying the upstream APIs.
type ResponseFile struct {
	Request  RequestParams  `yaml:"request"`
	Response types.Response `yaml:"response"`
	SavedAt  time.Time      `yaml:"saved_at"`
}

// RequestParams stores the request in a serializable form.
type RequestParams struct {
	Query        string          `yaml:"query"`
	Datasets     []types.Dataset `yaml:"datasets,omitempty"`
	Limit        int             `yaml:"limit,omitempty"`
	Sort         types.SortMode  `yaml:"sort,omitempty"`
	Correlations bool            `yaml:"correlations,omitempty"`
}

// WriteResponseFile saves a request and its response to a YAML file.
func WriteResponseFile(path string, req Request, resp types.Response) error {
	rf := ResponseFile{
		Request: RequestParams{
			Query:        req.Query,
			Datasets:     req.Datasets,
			Limit:        req.Limit,
			Sort:         req.Sort,
			Correlations: req.Correlations,
		},
		Response: resp,
		SavedAt:  time.Now(),
	}

	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling response file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadResponseFile loads a previously saved search from disk.
func ReadResponseFile(path string) (*ResponseFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading response file: %w", err)
	}
	var rf ResponseFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing response file: %w", err)
	}
	return &rf, nil
}
