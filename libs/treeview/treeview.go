// Package treeview renders a flat file listing as an indented directory
// tree. Rendering is a pure function of its input: the same paths always
// produce byte-identical output.
package treeview

import (
	"sort"
	"strings"
)

const indent = "  "

type node struct {
	name     string
	children map[string]*node
	isFile   bool
}

func newNode(name string) *node {
	return &node{name: name, children: make(map[string]*node)}
}

// Render converts slash-delimited file paths into an indented tree with
// directories listed before files at each level, lexically sorted.
// Malformed paths (empty or with empty segments) are treated as root-level
// files.
func Render(paths []string) string {
	root := newNode("")

	for _, path := range paths {
		segments, ok := splitPath(path)
		if !ok {
			if path != "" {
				root.insertFile(path)
			}
			continue
		}

		cur := root
		for i, seg := range segments {
			last := i == len(segments)-1
			child, exists := cur.children[seg]
			if !exists {
				child = newNode(seg)
				cur.children[seg] = child
			}
			if last {
				child.isFile = true
			}
			cur = child
		}
	}

	var b strings.Builder
	writeChildren(&b, root, 0)
	return b.String()
}

func (n *node) insertFile(name string) {
	child, exists := n.children[name]
	if !exists {
		child = newNode(name)
		n.children[name] = child
	}
	child.isFile = true
}

// splitPath returns the path segments, reporting false when any segment is
// empty (leading slash, doubled slash, trailing slash).
func splitPath(path string) ([]string, bool) {
	if path == "" {
		return nil, false
	}
	segments := strings.Split(path, "/")
	for _, seg := range segments {
		if seg == "" {
			return nil, false
		}
	}
	return segments, true
}

func writeChildren(b *strings.Builder, n *node, depth int) {
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}

	// Directories first, then lexical within each group.
	sort.Slice(names, func(i, j int) bool {
		di := len(n.children[names[i]].children) > 0
		dj := len(n.children[names[j]].children) > 0
		if di != dj {
			return di
		}
		return names[i] < names[j]
	})

	for _, name := range names {
		child := n.children[name]
		for range depth {
			b.WriteString(indent)
		}
		if len(child.children) > 0 {
			b.WriteString(name)
			b.WriteString("/\n")
			writeChildren(b, child, depth+1)
		} else {
			b.WriteString(name)
			b.WriteString("\n")
		}
	}
}
