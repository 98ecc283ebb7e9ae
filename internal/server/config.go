package server

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"Hearthvale/internal/dialogue"
)

// loadGraphsFromDir reads every .json file in dir as a dialogue graph.
// Decode failures are errors; structural defects are left for the caller's
// validation pass so authors get the full report.
func loadGraphsFromDir(dir string) ([]*dialogue.DialogueGraph, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read content dir: %w", err)
	}

	var graphs []*dialogue.DialogueGraph
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		g, err := dialogue.DecodeGraph(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		graphs = append(graphs, g)
	}
	return graphs, nil
}
