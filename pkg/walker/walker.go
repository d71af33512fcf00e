// Package walker provides lazy depth-first traversal over the Figma
// document tree. Sequences are produced on demand: stopping iteration
// early visits no further nodes.
package walker

import (
	"iter"

	"github.com/AltairTheSon/manex-ds-copilot/pkg/figma"
)

// maxDepth bounds recursion. The API guarantees the document is a tree
// rooted at the document node, so this is purely a guard against a
// pathological payload.
const maxDepth = 512

// Walk returns a lazy sequence of nodes in the subtree rooted at root for
// which match returns true. Nodes are visited depth-first, parent before
// children, with sibling order preserved. The root itself is included in
// the traversal. A missing children field means no descendants.
func Walk(root *figma.Node, match func(*figma.Node) bool) iter.Seq[*figma.Node] {
	return func(yield func(*figma.Node) bool) {
		visit(root, match, yield, 0)
	}
}

func visit(n *figma.Node, match func(*figma.Node) bool, yield func(*figma.Node) bool, depth int) bool {
	if n == nil || depth > maxDepth {
		return true
	}
	if match(n) && !yield(n) {
		return false
	}
	for i := range n.Children {
		if !visit(&n.Children[i], match, yield, depth+1) {
			return false
		}
	}
	return true
}

// Pages returns the top-level canvases of a document: direct children of
// the document root whose type is CANVAS (older schema versions use PAGE).
func Pages(doc *figma.Node) []*figma.Node {
	pages := make([]*figma.Node, 0, len(doc.Children))
	for i := range doc.Children {
		child := &doc.Children[i]
		if child.Type == figma.NodeTypeCanvas || child.Type == figma.NodeTypePage {
			pages = append(pages, child)
		}
	}
	return pages
}

// IsArtboard reports whether n is a valid artboard: a FRAME (or, when
// includeInstances is set, an INSTANCE) that carries a bounding box.
// A frame without a bounding box is not renderable and is excluded.
func IsArtboard(n *figma.Node, includeInstances bool) bool {
	if n.AbsoluteBoundingBox == nil {
		return false
	}
	if n.Type == figma.NodeTypeFrame {
		return true
	}
	return includeInstances && n.Type == figma.NodeTypeInstance
}

// Frames returns a lazy sequence of artboard nodes in the subtree rooted
// at root. See IsArtboard for eligibility.
func Frames(root *figma.Node, includeInstances bool) iter.Seq[*figma.Node] {
	return Walk(root, func(n *figma.Node) bool {
		return IsArtboard(n, includeInstances)
	})
}

// Components returns a lazy sequence of COMPONENT and COMPONENT_SET nodes
// in the subtree rooted at root.
func Components(root *figma.Node) iter.Seq[*figma.Node] {
	return Walk(root, func(n *figma.Node) bool {
		return n.Type == figma.NodeTypeComponent || n.Type == figma.NodeTypeComponentSet
	})
}

// TextNodes returns a lazy sequence of nodes that carry a text-style block,
// used for font-usage discovery.
func TextNodes(root *figma.Node) iter.Seq[*figma.Node] {
	return Walk(root, func(n *figma.Node) bool {
		return n.Style != nil
	})
}

// FindByID returns the first node in the subtree rooted at root whose ID
// matches id, or nil when no such node exists.
func FindByID(root *figma.Node, id string) *figma.Node {
	for n := range Walk(root, func(n *figma.Node) bool { return n.ID == id }) {
		return n
	}
	return nil
}
