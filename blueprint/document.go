package blueprint

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Document is a parsed blueprint. Root is a map[string]interface{} or a
// []interface{}, leaves are int64, float64, bool or string.
type Document struct {
	Root interface{}
}

func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

func (d *Document) Get(path string) (interface{}, bool) {
	node := d.Root
	for _, key := range splitPath(path) {
		switch n := node.(type) {
		case map[string]interface{}:
			v, ok := n[key]
			if !ok {
				return nil, false
			}
			node = v
		case []interface{}:
			i, err := strconv.Atoi(key)
			if err != nil || i < 0 || i >= len(n) {
				return nil, false
			}
			node = n[i]
		default:
			return nil, false
		}
	}
	return node, true
}

// String returns the string at path. Numbers and bools are not converted.
func (d *Document) String(path string) (string, bool) {
	v, ok := d.Get(path)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Count returns the number of entries in the table at path, 0 for scalars
// and missing paths.
func (d *Document) Count(path string) int {
	v, _ := d.Get(path)
	switch n := v.(type) {
	case map[string]interface{}:
		return len(n)
	case []interface{}:
		return len(n)
	}
	return 0
}

// Flatten returns every leaf keyed by its dot-joined path. Empty tables
// have no leaves and disappear.
func (d *Document) Flatten() map[string]interface{} {
	flat := make(map[string]interface{})
	flatten(flat, "", d.Root)
	return flat
}

func flatten(flat map[string]interface{}, prefix string, node interface{}) {
	join := func(key string) string {
		if prefix == "" {
			return key
		}
		return prefix + "." + key
	}

	switch n := node.(type) {
	case map[string]interface{}:
		for k, v := range n {
			flatten(flat, join(k), v)
		}
	case []interface{}:
		for i, v := range n {
			flatten(flat, join(strconv.Itoa(i)), v)
		}
	default:
		flat[prefix] = node
	}
}

// Paths returns flattened paths in sorted order.
func (d *Document) Paths() []string {
	flat := d.Flatten()
	paths := make([]string, 0, len(flat))
	for p := range flat {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

type renestNode struct {
	leaf     interface{}
	isLeaf   bool
	children map[string]*renestNode
}

// Renest rebuilds a tree from flattened paths. A table whose keys are all
// numeric becomes a list, so those keys must run 0..n-1.
func Renest(flat map[string]interface{}) (interface{}, error) {
	root := &renestNode{children: make(map[string]*renestNode)}

	for path, v := range flat {
		node := root
		for _, key := range splitPath(path) {
			if node.isLeaf {
				return nil, errors.Wrapf(ErrMalformedBlueprint, "path %q passes through a value", path)
			}
			child, ok := node.children[key]
			if !ok {
				child = &renestNode{children: make(map[string]*renestNode)}
				node.children[key] = child
			}
			node = child
		}
		if len(node.children) != 0 {
			return nil, errors.Wrapf(ErrMalformedBlueprint, "path %q is both value and table", path)
		}
		node.leaf = v
		node.isLeaf = true
	}

	return root.build("")
}

func (n *renestNode) build(path string) (interface{}, error) {
	if n.isLeaf {
		return n.leaf, nil
	}

	numeric := len(n.children) != 0
	for key := range n.children {
		if !isDigits(key) {
			numeric = false
			break
		}
	}

	if numeric {
		list := make([]interface{}, len(n.children))
		for key, child := range n.children {
			i, err := strconv.Atoi(key)
			if err != nil || i >= len(list) {
				return nil, errors.Wrapf(ErrMalformedBlueprint, "list %q has a gap before index %s", path, key)
			}
			v, err := child.build(fmt.Sprintf("%s.%s", path, key))
			if err != nil {
				return nil, err
			}
			list[i] = v
		}
		return list, nil
	}

	table := make(map[string]interface{}, len(n.children))
	for key, child := range n.children {
		v, err := child.build(fmt.Sprintf("%s.%s", path, key))
		if err != nil {
			return nil, err
		}
		table[key] = v
	}
	return table, nil
}

// MarshalYAML emits the tree, map keys come out sorted.
func (d *Document) MarshalYAML() (interface{}, error) {
	return d.Root, nil
}

func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Root)
}
