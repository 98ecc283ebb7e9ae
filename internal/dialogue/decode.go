package dialogue

import (
	"encoding/json"
	"fmt"
)

// DecodeGraph parses a graph from its JSON content-file form and rebuilds
// the node index. Structural problems (duplicates, dangling references) are
// deliberately not rejected here; run Validate on the result so authors see
// every defect at once.
func DecodeGraph(data []byte) (*DialogueGraph, error) {
	var g DialogueGraph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("dialogue: decode graph: %w", err)
	}
	if g.ID == "" {
		return nil, fmt.Errorf("dialogue: decode graph: missing id")
	}
	g.Reindex()
	return &g, nil
}

// EncodeGraph serializes a graph to its JSON content-file form.
func EncodeGraph(g *DialogueGraph) ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}
