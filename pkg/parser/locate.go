package parser

import "strconv"

// LineForPath resolves an instance path (mapping keys and sequence indexes)
// against a Node tree and returns the 1-based line of the deepest node it
// reaches. The final mapping segment resolves to the key's own line rather
// than the value's, which may sit further down for block values. An empty
// path or nil root returns 0, meaning the finding applies to the document
// as a whole.
func LineForPath(root *Node, path []string) int {
	if root == nil || len(path) == 0 {
		return 0
	}

	node := root
	line := 0
	for i, segment := range path {
		last := i == len(path)-1
		switch {
		case node.IsMapping():
			key := node.KeyNode(segment)
			if key == nil {
				return line
			}
			if last {
				return key.LineStart
			}
			line = key.LineStart
			node = node.Get(segment)
			if node == nil {
				return line
			}
		case node.IsSequence():
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node.Items) {
				return line
			}
			node = node.Items[idx]
			if node == nil {
				return line
			}
			line = node.LineStart
			if last {
				return node.LineStart
			}
		default:
			return line
		}
	}
	return line
}
