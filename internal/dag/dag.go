// SPDX-License-Identifier: MPL-2.0

// Package dag provides directed-graph operations for ordering and cycle
// detection. The modtree package uses it to expand re-export chains: an
// edge from one `pub use` binding to the binding it resolves through must
// be acyclic, and a cycle is a user error worth reporting precisely.
package dag

import (
	"fmt"
	"strings"
)

type (
	// CycleError indicates that the graph contains a cycle.
	CycleError struct {
		// Cycle is one concrete cycle path; the first node repeats at
		// the end for readability in the rendered message.
		Cycle []string
	}

	// Graph is a directed graph over string-keyed nodes. Edges point
	// from a node to the nodes it depends on being processed first.
	Graph struct {
		adjacency map[string][]string
		// nodes preserves insertion order so sorts are deterministic.
		nodes   []string
		nodeSet map[string]bool
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		adjacency: make(map[string][]string),
		nodeSet:   make(map[string]bool),
	}
}

// AddNode adds a node. Adding an existing node is a no-op.
func (g *Graph) AddNode(name string) {
	if g.nodeSet[name] {
		return
	}
	g.nodeSet[name] = true
	g.nodes = append(g.nodes, name)
}

// AddEdge adds a directed edge from -> to, implicitly adding both nodes.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	g.adjacency[from] = append(g.adjacency[from], to)
}

// TopologicalSort returns an order in which every node appears before
// its dependents, using Kahn's algorithm. Nodes at the same level keep
// insertion order. Returns CycleError when no such order exists.
func (g *Graph) TopologicalSort() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	inDegree := make(map[string]int, len(g.nodes))
	for _, node := range g.nodes {
		inDegree[node] = 0
	}
	for _, neighbors := range g.adjacency {
		for _, neighbor := range neighbors {
			inDegree[neighbor]++
		}
	}

	queue := make([]string, 0, len(g.nodes))
	for _, node := range g.nodes {
		if inDegree[node] == 0 {
			queue = append(queue, node)
		}
	}

	var result []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, neighbor := range g.adjacency[node] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
			}
		}
	}

	if len(result) != len(g.nodes) {
		return nil, &CycleError{Cycle: g.findCycle()}
	}
	return result, nil
}

// FindCycle returns one cycle as a path whose first node repeats at the
// end, or nil when the graph is acyclic.
func (g *Graph) FindCycle() []string {
	if _, err := g.TopologicalSort(); err == nil {
		return nil
	}
	return g.findCycle()
}

// findCycle walks the graph depth-first and extracts the first back edge
// it meets. Only called when a cycle is known to exist.
func (g *Graph) findCycle() []string {
	const (
		unvisited = iota
		inStack
		done
	)
	state := make(map[string]int, len(g.nodes))
	var stack []string
	var cycle []string

	var visit func(node string) bool
	visit = func(node string) bool {
		state[node] = inStack
		stack = append(stack, node)
		for _, neighbor := range g.adjacency[node] {
			switch state[neighbor] {
			case inStack:
				start := 0
				for i, n := range stack {
					if n == neighbor {
						start = i
						break
					}
				}
				cycle = append(append(cycle, stack[start:]...), neighbor)
				return true
			case unvisited:
				if visit(neighbor) {
					return true
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[node] = done
		return false
	}

	for _, node := range g.nodes {
		if state[node] == unvisited && visit(node) {
			break
		}
	}
	return cycle
}
