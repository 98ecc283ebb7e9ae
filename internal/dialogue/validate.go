package dialogue

import (
	"fmt"
	"sort"
)

// Validate runs every structural check over a graph and returns all findings
// as human-readable strings. It never short-circuits: a graph with a missing
// start node still gets duplicate and dangling-reference reports. An empty
// result means the graph is structurally sound.
//
// Validate is pure and has no runtime dependency; run it over all authored
// graphs at build/test time and fail on any output. The engine itself does
// not re-validate during traversal.
func Validate(g *DialogueGraph) []string {
	var errs []string

	declared := make(map[NodeID]int, len(g.Nodes))
	for _, node := range g.Nodes {
		declared[node.ID]++
	}

	// Duplicate IDs, one report per duplicated ID.
	var dupes []string
	for id, count := range declared {
		if count > 1 {
			dupes = append(dupes, fmt.Sprintf("duplicate node id %q declared %d times", id, count))
		}
	}
	sort.Strings(dupes)
	errs = append(errs, dupes...)

	// Start node existence.
	if g.StartNodeID == "" {
		errs = append(errs, "start node id is empty")
	} else if declared[g.StartNodeID] == 0 {
		errs = append(errs, fmt.Sprintf("start node %q does not exist", g.StartNodeID))
	}

	// Dangling references.
	for _, node := range g.Nodes {
		if node.NextID != "" && declared[node.NextID] == 0 {
			errs = append(errs, fmt.Sprintf("node %q: next node %q does not exist", node.ID, node.NextID))
		}
		for i, choice := range node.Choices {
			if choice.TargetID == "" {
				errs = append(errs, fmt.Sprintf("node %q: choice %d (%q) has no target", node.ID, i, choice.Text))
				continue
			}
			if declared[choice.TargetID] == 0 {
				errs = append(errs, fmt.Sprintf("node %q: choice %d (%q) targets missing node %q", node.ID, i, choice.Text, choice.TargetID))
			}
		}
	}

	// Reachability from the start node over next and choice edges.
	if declared[g.StartNodeID] > 0 {
		reachable := reachableFrom(g, g.StartNodeID)
		var unreachable []string
		for _, node := range g.Nodes {
			if !reachable[node.ID] {
				unreachable = append(unreachable, fmt.Sprintf("node %q is unreachable from start node %q", node.ID, g.StartNodeID))
			}
		}
		errs = append(errs, unreachable...)
	}

	errs = append(errs, findSkipCycles(g)...)

	return errs
}

// reachableFrom walks the directed graph breadth-first from startID,
// following next and choice edges. Cycles terminate via the visited set.
func reachableFrom(g *DialogueGraph, startID NodeID) map[NodeID]bool {
	visited := map[NodeID]bool{startID: true}
	queue := []NodeID{startID}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		node := g.GetNode(curr)
		if node == nil {
			continue
		}
		var targets []NodeID
		if node.NextID != "" {
			targets = append(targets, node.NextID)
		}
		for _, choice := range node.Choices {
			targets = append(targets, choice.TargetID)
		}
		for _, target := range targets {
			if target == "" || visited[target] {
				continue
			}
			visited[target] = true
			queue = append(queue, target)
		}
	}
	return visited
}

// findSkipCycles flags cycles of next edges in which every node carries
// preconditions and no choices. If all conditions on such a cycle evaluate
// false at runtime, the engine's unmet-node skip would chase the cycle
// without ever displaying anything, so it is reported as a content defect.
func findSkipCycles(g *DialogueGraph) []string {
	var errs []string
	reported := make(map[NodeID]bool)

	for _, start := range g.Nodes {
		if reported[start.ID] || !skippable(start) {
			continue
		}
		// Follow next edges through skippable nodes looking for a loop
		// back to a node on the current path.
		onPath := map[NodeID]int{start.ID: 0}
		path := []NodeID{start.ID}
		curr := start
		for {
			next := g.GetNode(curr.NextID)
			if next == nil || !skippable(next) || reported[next.ID] {
				break
			}
			if at, seen := onPath[next.ID]; seen {
				cycle := path[at:]
				for _, id := range cycle {
					reported[id] = true
				}
				errs = append(errs, fmt.Sprintf("conditional nodes %v form a skip cycle: if their conditions are all unmet the conversation never progresses", cycle))
				break
			}
			onPath[next.ID] = len(path)
			path = append(path, next.ID)
			curr = next
		}
	}
	return errs
}

func skippable(n *Node) bool {
	return len(n.Conditions) > 0 && len(n.Choices) == 0 && n.NextID != ""
}
