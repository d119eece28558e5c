package dntree

import (
	"sort"
	"strings"

	"f0oster/adreport/activedirectory"
)

// TreeNode is one container in the reconstructed hierarchy. Children are owned
// by their parent; the Parent pointer is non-owning and exists only so a
// node's path can be reconstructed without a root-down search.
type TreeNode struct {
	// Name is the display value of the node ("Workstations"), Segment the
	// full component it was built from ("OU=Workstations"). The synthetic
	// forest root has both empty; a domain root carries the dot-joined
	// domain name in both.
	Name    string
	Segment string
	Parent  *TreeNode

	// Records fetched directly under this container.
	Records []*activedirectory.DirectoryRecord

	children map[string]*TreeNode // keyed by lower-cased segment
}

// Children returns the child nodes sorted by segment for deterministic
// traversal. Insertion order carries no meaning.
func (n *TreeNode) Children() []*TreeNode {
	if len(n.children) == 0 {
		return nil
	}
	keys := make([]string, 0, len(n.children))
	for k := range n.children {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]*TreeNode, 0, len(keys))
	for _, k := range keys {
		out = append(out, n.children[k])
	}
	return out
}

// Child looks a direct child up by segment, case-insensitively.
func (n *TreeNode) Child(segment string) (*TreeNode, bool) {
	c, ok := n.children[strings.ToLower(segment)]
	return c, ok
}

// Path reconstructs the component chain from the root down to this node by
// following parent pointers.
func (n *TreeNode) Path() []string {
	var segments []string
	for cur := n; cur != nil && cur.Segment != ""; cur = cur.Parent {
		segments = append(segments, cur.Segment)
	}
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return segments
}

// Walk visits the node and every descendant in deterministic order without
// recursing, so arbitrarily deep trees cannot exhaust the stack.
func (n *TreeNode) Walk(visit func(node *TreeNode, depth int)) {
	type frame struct {
		node  *TreeNode
		depth int
	}
	stack := []frame{{n, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visit(f.node, f.depth)

		children := f.node.Children()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{children[i], f.depth + 1})
		}
	}
}

// Builder assembles a container tree from flat DirectoryRecords. A full-path
// index keyed case-insensitively gives each insert a direct parent lookup;
// no per-record walk from the root, no recursion on input depth.
type Builder struct {
	root  *TreeNode
	index map[string]*TreeNode
}

func NewBuilder() *Builder {
	root := &TreeNode{children: make(map[string]*TreeNode)}
	return &Builder{
		root:  root,
		index: map[string]*TreeNode{"": root},
	}
}

// Build attaches every record under the node chain implied by its identifier.
// Records with malformed identifiers are skipped and reported in the returned
// warning list; all others are reachable from the root by exactly one path.
func (b *Builder) Build(records []*activedirectory.DirectoryRecord) (*TreeNode, []error) {
	var warnings []error
	for _, record := range records {
		if err := b.insert(record); err != nil {
			warnings = append(warnings, err)
		}
	}
	return b.root, warnings
}

func (b *Builder) insert(record *activedirectory.DirectoryRecord) error {
	parsed, err := ParseDN(record.DN)
	if err != nil {
		return err
	}

	node := b.root
	key := ""
	if parsed.DomainRoot != "" {
		node, key = b.childNode(node, key, parsed.DomainRoot, parsed.DomainRoot)
	}

	// The record hangs off the node for its parent path; its own RDN is the
	// final segment and names no container of its own.
	for i := 0; i < len(parsed.Segments)-1; i++ {
		segment := parsed.Segments[i]
		node, key = b.childNode(node, key, segment, componentValue(segment))
	}

	node.Records = append(node.Records, record)
	return nil
}

func (b *Builder) childNode(parent *TreeNode, parentKey, segment, name string) (*TreeNode, string) {
	key := parentKey + "\x00" + strings.ToLower(segment)
	if node, ok := b.index[key]; ok {
		return node, key
	}

	node := &TreeNode{
		Name:     name,
		Segment:  segment,
		Parent:   parent,
		children: make(map[string]*TreeNode),
	}
	parent.children[strings.ToLower(segment)] = node
	b.index[key] = node
	return node, key
}
