package graph

import "strconv"

// NodeID is the path from the root graph to a node: (p1, ..., pn, ndx).
// Every integer but the last names the nested-graph index taken to reach
// the node's owning graph; the last integer is the node's index within
// that graph. The root graph's id is the empty sequence.
type NodeID []int

// RootGraphID is the id of the outermost graph.
var RootGraphID = NodeID{}

// Child returns the id of the ndx'th node owned directly by the graph
// identified by g.
func (g NodeID) Child(ndx int) NodeID {
	out := make(NodeID, len(g)+1)
	copy(out, g)
	out[len(g)] = ndx
	return out
}

// Equal reports whether two node ids name the same node.
func (g NodeID) Equal(o NodeID) bool {
	if len(g) != len(o) {
		return false
	}
	for i := range g {
		if g[i] != o[i] {
			return false
		}
	}
	return true
}

// String renders the id as dot-separated integers, e.g. "0.3.2".
func (g NodeID) String() string {
	if len(g) == 0 {
		return "<root>"
	}
	s := make([]byte, 0, len(g)*3)
	for i, p := range g {
		if i > 0 {
			s = append(s, '.')
		}
		s = strconv.AppendInt(s, int64(p), 10)
	}
	return string(s)
}

// Index is the node's position within its owning graph (the last element
// of the path), or -1 for the root graph id itself.
func (g NodeID) Index() int {
	if len(g) == 0 {
		return -1
	}
	return g[len(g)-1]
}
