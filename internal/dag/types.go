// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package dag

import (
	"fmt"
	"strings"
	"sync"
)

// Graph is a collection of nodes and their edges, representing a DAG once
// DetectCycles has passed. All operations on the graph are concurrency-safe.
type Graph struct {
	// mutex protects the nodes map during concurrent access.
	mutex sync.RWMutex
	// nodes stores all nodes in the graph, keyed by their unique ID.
	nodes map[string]*node
}

// node represents a single vertex in the graph. It is un-exported to
// enforce interaction with the graph via the public API (using string IDs),
// not by direct struct manipulation.
type node struct {
	id string
	// deps holds the set of nodes pointing at this node (predecessors).
	deps map[string]*node
	// dependents holds the set of nodes this node points at (successors).
	dependents map[string]*node
}

// CycleError reports a cycle as the ordered chain of IDs that closes it,
// e.g. [a b c a].
type CycleError struct {
	Chain []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected involving node '%s': %s", e.Chain[0], strings.Join(e.Chain, " -> "))
}
