// Package splay implements a splay tree whose nodes are weighted by the
// length of their values, so that subtree weights support index-based
// lookup over an edited sequence.
package splay

import (
	"fmt"
	"strings"
)

// Value is the data stored in the nodes of Tree. Len is the weight the
// value contributes to subtree weights.
type Value interface {
	Len() int
	String() string
}

// Node is a node of Tree.
type Node[V Value] struct {
	value  V
	weight int

	parent *Node[V]
	left   *Node[V]
	right  *Node[V]
}

// NewNode creates a Node with the given value.
func NewNode[V Value](value V) *Node[V] {
	n := &Node[V]{value: value}
	n.initWeight()
	return n
}

// Value returns the value of this node.
func (n *Node[V]) Value() V {
	return n.value
}

func (n *Node[V]) leftWeight() int {
	if n.left == nil {
		return 0
	}
	return n.left.weight
}

func (n *Node[V]) rightWeight() int {
	if n.right == nil {
		return 0
	}
	return n.right.weight
}

func (n *Node[V]) initWeight() {
	n.weight = n.value.Len()
}

func (n *Node[V]) unlink() {
	n.parent = nil
	n.left = nil
	n.right = nil
}

func (n *Node[V]) hasLinks() bool {
	return n.parent != nil || n.left != nil || n.right != nil
}

// Tree is a weighted splay tree over a sequence of values.
type Tree[V Value] struct {
	root *Node[V]
}

// NewTree creates a Tree with the given root, which may be nil.
func NewTree[V Value](root *Node[V]) *Tree[V] {
	return &Tree[V]{root: root}
}

// Insert appends the value at the end of the sequence and returns its node.
func (t *Tree[V]) Insert(value V) *Node[V] {
	if t.root == nil {
		node := NewNode(value)
		t.root = node
		return node
	}

	return t.InsertAfter(t.root, value)
}

// InsertAfter inserts the value immediately after prev in the sequence and
// returns its node. prev is splayed to the root first so the new node
// becomes the root.
func (t *Tree[V]) InsertAfter(prev *Node[V], value V) *Node[V] {
	node := NewNode(value)
	t.Splay(prev)
	t.root = node
	node.right = prev.right
	if prev.right != nil {
		prev.right.parent = node
	}
	node.left = prev
	prev.parent = node
	prev.right = nil

	t.updateWeight(prev)
	t.updateWeight(node)

	return node
}

// Splay moves the node to the root, rebalancing along the access path and
// keeping subtree weights consistent.
func (t *Tree[V]) Splay(node *Node[V]) {
	if node == nil {
		return
	}

	for {
		if isLeftChild(node.parent) && isRightChild(node) {
			// zig-zag
			t.rotateLeft(node)
			t.rotateRight(node)
		} else if isRightChild(node.parent) && isLeftChild(node) {
			// zig-zag
			t.rotateRight(node)
			t.rotateLeft(node)
		} else if isLeftChild(node.parent) && isLeftChild(node) {
			// zig-zig
			t.rotateRight(node.parent)
			t.rotateRight(node)
		} else if isRightChild(node.parent) && isRightChild(node) {
			// zig-zig
			t.rotateLeft(node.parent)
			t.rotateLeft(node)
		} else {
			// zig
			if isLeftChild(node) {
				t.rotateRight(node)
			} else if isRightChild(node) {
				t.rotateLeft(node)
			}
			return
		}
	}
}

// IndexOf returns the position of the node in the sequence, or -1 when the
// node is not linked into this tree.
func (t *Tree[V]) IndexOf(node *Node[V]) int {
	if node == nil || (node != t.root && !node.hasLinks()) {
		return -1
	}

	t.Splay(node)
	return node.leftWeight()
}

// Find returns the node covering the given index together with the offset
// into that node's value.
func (t *Tree[V]) Find(index int) (*Node[V], int, error) {
	if t.root == nil {
		return nil, 0, fmt.Errorf("find %d: tree is empty", index)
	}
	if index < 0 || index > t.root.weight {
		return nil, 0, fmt.Errorf("find %d: out of range [0, %d]", index, t.root.weight)
	}

	node := t.root
	offset := index
	for {
		if node.left != nil && offset <= node.leftWeight() {
			node = node.left
		} else if node.right != nil && node.leftWeight()+node.value.Len() < offset {
			offset -= node.leftWeight() + node.value.Len()
			node = node.right
		} else {
			offset -= node.leftWeight()
			break
		}
	}
	return node, offset, nil
}

// Len returns the total weight of the sequence.
func (t *Tree[V]) Len() int {
	if t.root == nil {
		return 0
	}
	return t.root.weight
}

// Root returns the current root node.
func (t *Tree[V]) Root() *Node[V] {
	return t.root
}

// String returns the values of the sequence from left to right.
func (t *Tree[V]) String() string {
	var sb strings.Builder
	traverseInOrder(t.root, func(n *Node[V]) {
		sb.WriteString(n.value.String())
	})
	return sb.String()
}

// AnnotatedString returns the in-order values with their weights, for
// debugging.
func (t *Tree[V]) AnnotatedString() string {
	var sb strings.Builder
	traverseInOrder(t.root, func(n *Node[V]) {
		fmt.Fprintf(&sb, "[%d,%d]%s", n.weight, n.value.Len(), n.value.String())
	})
	return sb.String()
}

// rotateLeft lifts pivot, the right child of its parent, one level up.
func (t *Tree[V]) rotateLeft(pivot *Node[V]) {
	root := pivot.parent
	if root.parent != nil {
		if root == root.parent.left {
			root.parent.left = pivot
		} else {
			root.parent.right = pivot
		}
	} else {
		t.root = pivot
	}
	pivot.parent = root.parent

	root.right = pivot.left
	if root.right != nil {
		root.right.parent = root
	}

	pivot.left = root
	pivot.left.parent = pivot

	t.updateWeight(root)
	t.updateWeight(pivot)
}

// rotateRight lifts pivot, the left child of its parent, one level up.
func (t *Tree[V]) rotateRight(pivot *Node[V]) {
	root := pivot.parent
	if root.parent != nil {
		if root == root.parent.left {
			root.parent.left = pivot
		} else {
			root.parent.right = pivot
		}
	} else {
		t.root = pivot
	}
	pivot.parent = root.parent

	root.left = pivot.right
	if root.left != nil {
		root.left.parent = root
	}

	pivot.right = root
	pivot.right.parent = pivot

	t.updateWeight(root)
	t.updateWeight(pivot)
}

func (t *Tree[V]) updateWeight(node *Node[V]) {
	node.initWeight()
	node.weight += node.leftWeight()
	node.weight += node.rightWeight()
}

func isLeftChild[V Value](node *Node[V]) bool {
	return node != nil && node.parent != nil && node.parent.left == node
}

func isRightChild[V Value](node *Node[V]) bool {
	return node != nil && node.parent != nil && node.parent.right == node
}

func traverseInOrder[V Value](node *Node[V], callback func(*Node[V])) {
	if node == nil {
		return
	}
	traverseInOrder(node.left, callback)
	callback(node)
	traverseInOrder(node.right, callback)
}
