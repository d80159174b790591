// Package parser turns raw workflow YAML into a structural Node tree with
// 1-based line ranges, scans inline suppression annotations, and checks
// document shape against an embedded JSON schema. The tree is the input
// for every built-in gate detector.
package parser

// NodeKind classifies a Node in the structural tree.
type NodeKind int

const (
	// KindMapping is an ordered set of key/value pairs. Duplicate keys are
	// preserved, not merged.
	KindMapping NodeKind = iota
	// KindSequence is an ordered list of items.
	KindSequence
	// KindScalar is a leaf value carrying both the interpreted value and
	// the exact source text.
	KindScalar
	// KindError is a synthetic node covering a top-level block that failed
	// to parse during recovery.
	KindError
)

// String returns the lowercase name of the kind.
func (k NodeKind) String() string {
	switch k {
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	case KindScalar:
		return "scalar"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Pair is one key/value entry of a mapping Node. Keys are almost always
// scalars; complex keys convert to their inner node.
type Pair struct {
	Key   *Node
	Value *Node
}

// Node is one element of the structural tree. LineStart and LineEnd are
// 1-based and inclusive; child ranges are subranges of the parent, and the
// root spans the whole document.
type Node struct {
	Kind      NodeKind
	LineStart int
	LineEnd   int

	// Pairs holds mapping children in source order. On a recovered root,
	// Items additionally carries Error nodes for unparseable blocks.
	Pairs []Pair
	Items []*Node

	// Value is the interpreted scalar value; Raw is the exact source text
	// of the scalar (or of the failed block for Error nodes).
	Value string
	Raw   string
}

// IsMapping reports whether the node is a mapping.
func (n *Node) IsMapping() bool { return n != nil && n.Kind == KindMapping }

// IsSequence reports whether the node is a sequence.
func (n *Node) IsSequence() bool { return n != nil && n.Kind == KindSequence }

// IsScalar reports whether the node is a scalar.
func (n *Node) IsScalar() bool { return n != nil && n.Kind == KindScalar }

// Get returns the value for the first pair whose key scalar equals key,
// or nil when the node is not a mapping or the key is absent.
func (n *Node) Get(key string) *Node {
	if !n.IsMapping() {
		return nil
	}
	for _, p := range n.Pairs {
		if p.Key.IsScalar() && p.Key.Value == key {
			return p.Value
		}
	}
	return nil
}

// KeyNode returns the key node for the first pair matching key, which
// carries the line the key appears on.
func (n *Node) KeyNode(key string) *Node {
	if !n.IsMapping() {
		return nil
	}
	for _, p := range n.Pairs {
		if p.Key.IsScalar() && p.Key.Value == key {
			return p.Key
		}
	}
	return nil
}

// Has reports whether a mapping node carries at least one pair with key.
func (n *Node) Has(key string) bool {
	return n.Get(key) != nil
}

// Keys returns the scalar keys of a mapping in source order, including
// duplicates.
func (n *Node) Keys() []string {
	if !n.IsMapping() {
		return nil
	}
	keys := make([]string, 0, len(n.Pairs))
	for _, p := range n.Pairs {
		if p.Key.IsScalar() {
			keys = append(keys, p.Key.Value)
		}
	}
	return keys
}

// Walk visits n and its descendants depth-first in source order. Returning
// false from fn skips the node's children but continues with siblings.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, p := range n.Pairs {
		p.Key.Walk(fn)
		p.Value.Walk(fn)
	}
	for _, item := range n.Items {
		item.Walk(fn)
	}
}
