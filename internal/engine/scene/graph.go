package scene

import (
	"fmt"
	"strings"

	"github.com/Faultbox/gltfview/pkg/math"
)

// Scene is an ordered forest of root node indices.
type Scene struct {
	Name  string
	Roots []int
}

// Graph owns the node array shared by every scene of an asset.
type Graph struct {
	Nodes  []*Node
	Scenes []Scene
}

// Node returns the node at index i, or nil when i is out of range.
func (g *Graph) Node(i int) *Node {
	if i < 0 || i >= len(g.Nodes) {
		return nil
	}
	return g.Nodes[i]
}

// Propagate recomputes world, inverse-world and normal matrices for every node
// reachable from the scene roots, parents before children. A node reachable
// through several parents is written once per path, last path wins. A node
// already on the current ancestor path is not entered again, so a malformed
// cycle ends the branch instead of recursing forever.
func (g *Graph) Propagate(sc *Scene, root math.Mat4) {
	if sc == nil {
		return
	}
	onPath := make(map[int]bool)
	for _, idx := range sc.Roots {
		g.propagate(idx, root, onPath)
	}
}

func (g *Graph) propagate(idx int, parent math.Mat4, onPath map[int]bool) {
	node := g.Node(idx)
	if node == nil || onPath[idx] {
		return
	}
	onPath[idx] = true
	defer delete(onPath, idx)

	node.setWorld(parent.Mul(node.LocalTransform()))
	for _, child := range node.Children {
		g.propagate(child, node.WorldTransform, onPath)
	}
}

// Walk calls fn for every node reachable from the scene roots in the same
// pre-order and with the same cycle guard as Propagate.
func (g *Graph) Walk(sc *Scene, fn func(idx int, node *Node)) {
	if sc == nil {
		return
	}
	onPath := make(map[int]bool)
	var visit func(idx int)
	visit = func(idx int) {
		node := g.Node(idx)
		if node == nil || onPath[idx] {
			return
		}
		onPath[idx] = true
		fn(idx, node)
		for _, child := range node.Children {
			visit(child)
		}
		delete(onPath, idx)
	}
	for _, idx := range sc.Roots {
		visit(idx)
	}
}

// Validate checks the tree assumption for one scene: every child index is in
// range, no node has two parents and there are no cycles.
func (g *Graph) Validate(sc *Scene) error {
	if sc == nil {
		return nil
	}

	var problems []string
	parents := make(map[int]int)
	for i, n := range g.Nodes {
		for _, c := range n.Children {
			if g.Node(c) == nil {
				problems = append(problems, fmt.Sprintf("node %d: child %d out of range", i, c))
				continue
			}
			if p, ok := parents[c]; ok {
				problems = append(problems, fmt.Sprintf("node %d: parented by both %d and %d", c, p, i))
				continue
			}
			parents[c] = i
		}
	}

	const (
		unvisited = iota
		active
		done
	)
	state := make([]int, len(g.Nodes))
	var visit func(idx int)
	visit = func(idx int) {
		state[idx] = active
		for _, c := range g.Nodes[idx].Children {
			if g.Node(c) == nil {
				continue
			}
			switch state[c] {
			case active:
				problems = append(problems, fmt.Sprintf("node %d: cycle through child %d", idx, c))
			case unvisited:
				visit(c)
			}
		}
		state[idx] = done
	}
	for _, r := range sc.Roots {
		if g.Node(r) == nil {
			problems = append(problems, fmt.Sprintf("scene %q: root %d out of range", sc.Name, r))
			continue
		}
		if state[r] == unvisited {
			visit(r)
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("scene %q is not a tree: %s", sc.Name, strings.Join(problems, "; "))
	}
	return nil
}
