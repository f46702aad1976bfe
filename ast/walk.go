package ast

// Visitor receives pre-order and post-order callbacks as Walk descends a
// tree, honoring both the parent-child links and the sibling chains
// (spec.md §4.5: "a generic walker honours the tree links and iterates
// the chains"). Either callback may be nil.
//
// Returning false from Pre skips descending into that node's children
// (but its siblings are still visited), matching the "break out" result
// the pass framework built on top of this (pass.Pass) needs at §4.7.
type Visitor struct {
	Pre  func(n *Node) bool
	Post func(n *Node)
}

// Walk visits n and its descendants depth-first, left-to-right across
// sibling chains.
func Walk(n *Node, v Visitor) {
	if n == nil {
		return
	}
	descend := true
	if v.Pre != nil {
		descend = v.Pre(n)
	}
	if descend {
		for c := n.FirstChild; c != nil; c = c.Next {
			Walk(c, v)
		}
	}
	if v.Post != nil {
		v.Post(n)
	}
}

// WalkChain applies Walk to first and every subsequent sibling in its
// chain, the shape a list of top-level declarations or statements takes
// (spec.md §4.5).
func WalkChain(first *Node, v Visitor) {
	for n := first; n != nil; n = n.Next {
		Walk(n, v)
	}
}
