package adapter

import tree_sitter "github.com/tree-sitter/go-tree-sitter"

// flattenPlusChain flattens a left-associative `+`-chain of binary
// expression nodes into its leaf operands in source order. isPlusNode
// reports whether a node is itself a `+` binary expression of the
// chain's own kind.
func flattenPlusChain(n *tree_sitter.Node, isPlusNode func(*tree_sitter.Node) bool, leftOf, rightOf func(*tree_sitter.Node) *tree_sitter.Node) []*tree_sitter.Node {
	if !isPlusNode(n) {
		return []*tree_sitter.Node{n}
	}
	left := leftOf(n)
	right := rightOf(n)
	if left == nil || right == nil {
		return []*tree_sitter.Node{n}
	}
	parts := flattenPlusChain(left, isPlusNode, leftOf, rightOf)
	return append(parts, right)
}

// textBetween returns the raw bytes strictly between two nodes, used to
// sniff an infix operator when the grammar doesn't expose it as a field.
func textBetween(source []byte, a, b *tree_sitter.Node) string {
	start, end := int(a.EndByte()), int(b.StartByte())
	if start < 0 || end > len(source) || start > end {
		return ""
	}
	return string(source[start:end])
}
