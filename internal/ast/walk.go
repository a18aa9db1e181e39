package ast

// Walk traverses the tree rooted at node in source order, calling fn for each
// node. If fn returns false, Walk stops descending into that branch.
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}

	switch n := node.(type) {
	case *Element:
		walkAll(n.Children, fn)

	case *Fragment:
		walkAll(n.Children, fn)

	case *If:
		walkAll(n.Children, fn)
		for _, elif := range n.Elifs {
			walkAll(elif.Children, fn)
		}
		walkAll(n.Else, fn)

	case *ForEach:
		walkAll(n.Children, fn)
		walkAll(n.FallbackChildren, fn)

	case *Switch:
		walkAll(n.Children, fn)

	case *Match:
		walkAll(n.Children, fn)
	}
	// Text and Expression are leaves.
}

// WalkAll traverses a node list in order, as Walk does for a single node.
func WalkAll(nodes []Node, fn func(Node) bool) {
	walkAll(nodes, fn)
}

func walkAll(nodes []Node, fn func(Node) bool) {
	for _, child := range nodes {
		Walk(child, fn)
	}
}
