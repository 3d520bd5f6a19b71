package document

import (
	"gopkg.in/yaml.v3"

	"maso-hq/masolint/pkg/maso/ast"
)

// LocatorMode selects how violations are mapped to text positions.
type LocatorMode string

const (
	// LocateText finds the first line containing the quoted key.
	LocateText LocatorMode = "text"
	// LocateStructural resolves the violation's path against a node tree.
	LocateStructural LocatorMode = "structural"
)

// IsValid returns true if m is a known locator mode.
func (m LocatorMode) IsValid() bool {
	return m == LocateText || m == LocateStructural
}

// Locate returns the start position for a violation keyed by key at path.
// Unresolvable lookups fall back to line 0, character 0 so that every
// diagnostic has a valid range.
func (d *Document) Locate(mode LocatorMode, key string, path ast.Path) ast.Position {
	if mode == LocateStructural {
		if pos, ok := d.locateNode(path); ok {
			return pos
		}
	}
	pos, _ := d.FindFirstOccurrence(key)
	return pos
}

type nodeIndex struct {
	root *yaml.Node
	err  error
}

func (d *Document) nodes() *nodeIndex {
	if d.index != nil {
		return d.index
	}

	idx := &nodeIndex{}
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(d.text), &doc); err != nil {
		idx.err = err
	} else if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		idx.root = doc.Content[0]
	}
	d.index = idx
	return idx
}

// locateNode walks path through the node tree and returns the position of
// the deepest segment that exists: the key of a member, or the start of an
// array entry. A path whose first segment is missing does not resolve.
func (d *Document) locateNode(path ast.Path) (ast.Position, bool) {
	idx := d.nodes()
	if idx.root == nil || len(path) == 0 {
		return ast.Position{}, false
	}

	node := idx.root
	var anchor *yaml.Node

walk:
	for _, seg := range path {
		switch s := seg.(type) {
		case string:
			if node.Kind != yaml.MappingNode {
				break walk
			}
			key, value := mappingMember(node, s)
			if key == nil {
				break walk
			}
			anchor, node = key, value
		case int:
			if node.Kind != yaml.SequenceNode || s < 0 || s >= len(node.Content) {
				break walk
			}
			node = node.Content[s]
			anchor = node
		}
	}

	if anchor == nil {
		return ast.Position{}, false
	}
	return d.nodePosition(anchor), true
}

// mappingMember finds key in a mapping node. Later duplicates win, matching
// how the JSON decoder resolves repeated keys.
func mappingMember(node *yaml.Node, key string) (k, v *yaml.Node) {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			k, v = node.Content[i], node.Content[i+1]
		}
	}
	return k, v
}

func (d *Document) nodePosition(n *yaml.Node) ast.Position {
	line := n.Line - 1
	if line < 0 {
		line = 0
	}
	col := n.Column - 1
	if col < 0 {
		col = 0
	}
	return ast.Position{Line: line, Character: runeColumnToUTF16(d.Line(line), col)}
}
