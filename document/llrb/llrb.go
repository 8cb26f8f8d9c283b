// Package llrb implements a left-leaning red-black tree.
//
// Original paper on Left-leaning Red-Black Trees:
//   - http://www.cs.princeton.edu/~rs/talks/LLRB/LLRB.pdf
//
// Invariant 1: No red node has a red child
// Invariant 2: Every leaf path has the same number of black nodes
// Invariant 3: Only the left child can be red (left leaning)
package llrb

import "strings"

// Key represents the key of Tree. The type parameter is the key type
// itself so Compare receives a concrete key.
type Key[K any] interface {
	Compare(other K) int
}

// Value represents the data stored in the nodes of Tree.
type Value interface {
	String() string
}

type node[K Key[K], V Value] struct {
	key   K
	value V

	left  *node[K, V]
	right *node[K, V]
	isRed bool
}

func newNode[K Key[K], V Value](key K, value V, isRed bool) *node[K, V] {
	return &node[K, V]{key: key, value: value, isRed: isRed}
}

// Tree is a left-leaning red-black tree.
type Tree[K Key[K], V Value] struct {
	root *node[K, V]
	size int
}

// NewTree creates an empty Tree.
func NewTree[K Key[K], V Value]() *Tree[K, V] {
	return &Tree[K, V]{}
}

// Put inserts the value for the given key, replacing any existing value.
func (t *Tree[K, V]) Put(key K, value V) {
	t.root = t.put(t.root, key, value)
	t.root.isRed = false
}

func (t *Tree[K, V]) put(n *node[K, V], key K, value V) *node[K, V] {
	if n == nil {
		t.size++
		return newNode(key, value, true)
	}

	switch cmp := key.Compare(n.key); {
	case cmp < 0:
		n.left = t.put(n.left, key, value)
	case cmp > 0:
		n.right = t.put(n.right, key, value)
	default:
		n.value = value
	}

	if isRed(n.right) && !isRed(n.left) {
		n = rotateLeft(n)
	}
	if isRed(n.left) && isRed(n.left.left) {
		n = rotateRight(n)
	}
	if isRed(n.left) && isRed(n.right) {
		flipColors(n)
	}

	return n
}

// Remove removes the value for the given key. Removing a key that is not
// present is a no-op.
func (t *Tree[K, V]) Remove(key K) {
	if t.root == nil {
		return
	}

	if !isRed(t.root.left) && !isRed(t.root.right) {
		t.root.isRed = true
	}

	t.root = t.remove(t.root, key)
	if t.root != nil {
		t.root.isRed = false
	}
}

func (t *Tree[K, V]) remove(n *node[K, V], key K) *node[K, V] {
	if key.Compare(n.key) < 0 {
		if n.left == nil {
			return fixUp(n)
		}
		if !isRed(n.left) && !isRed(n.left.left) {
			n = moveRedLeft(n)
		}
		n.left = t.remove(n.left, key)
	} else {
		if isRed(n.left) {
			n = rotateRight(n)
		}
		if key.Compare(n.key) == 0 && n.right == nil {
			t.size--
			return nil
		}
		if n.right == nil {
			return fixUp(n)
		}
		if !isRed(n.right) && !isRed(n.right.left) {
			n = moveRedRight(n)
		}
		if key.Compare(n.key) == 0 {
			t.size--
			smallest := min(n.right)
			n.value = smallest.value
			n.key = smallest.key
			n.right = removeMin(n.right)
		} else {
			n.right = t.remove(n.right, key)
		}
	}

	return fixUp(n)
}

// Floor returns the greatest key less than or equal to the given key.
// ok is false when no such entry exists.
func (t *Tree[K, V]) Floor(key K) (k K, v V, ok bool) {
	n := t.root
	for n != nil {
		switch cmp := key.Compare(n.key); {
		case cmp > 0:
			// n qualifies; a greater one may still sit to the right.
			k, v, ok = n.key, n.value, true
			n = n.right
		case cmp < 0:
			n = n.left
		default:
			return n.key, n.value, true
		}
	}

	return k, v, ok
}

// Len returns the number of entries in the tree.
func (t *Tree[K, V]) Len() int {
	return t.size
}

// String returns the values in ascending key order joined by commas.
func (t *Tree[K, V]) String() string {
	var values []string
	traverseInOrder(t.root, func(n *node[K, V]) {
		values = append(values, n.value.String())
	})
	return strings.Join(values, ",")
}

func isRed[K Key[K], V Value](n *node[K, V]) bool {
	return n != nil && n.isRed
}

func rotateLeft[K Key[K], V Value](n *node[K, V]) *node[K, V] {
	right := n.right
	n.right = right.left
	right.left = n
	right.isRed = n.isRed
	n.isRed = true
	return right
}

func rotateRight[K Key[K], V Value](n *node[K, V]) *node[K, V] {
	left := n.left
	n.left = left.right
	left.right = n
	left.isRed = n.isRed
	n.isRed = true
	return left
}

func flipColors[K Key[K], V Value](n *node[K, V]) {
	n.isRed = !n.isRed
	if n.left != nil {
		n.left.isRed = !n.left.isRed
	}
	if n.right != nil {
		n.right.isRed = !n.right.isRed
	}
}

func moveRedLeft[K Key[K], V Value](n *node[K, V]) *node[K, V] {
	flipColors(n)
	if isRed(n.right.left) {
		n.right = rotateRight(n.right)
		n = rotateLeft(n)
		flipColors(n)
	}
	return n
}

func moveRedRight[K Key[K], V Value](n *node[K, V]) *node[K, V] {
	flipColors(n)
	if isRed(n.left.left) {
		n = rotateRight(n)
		flipColors(n)
	}
	return n
}

func fixUp[K Key[K], V Value](n *node[K, V]) *node[K, V] {
	if isRed(n.right) {
		n = rotateLeft(n)
	}
	if isRed(n.left) && isRed(n.left.left) {
		n = rotateRight(n)
	}
	if isRed(n.left) && isRed(n.right) {
		flipColors(n)
	}
	return n
}

func min[K Key[K], V Value](n *node[K, V]) *node[K, V] {
	if n.left == nil {
		return n
	}
	return min(n.left)
}

func removeMin[K Key[K], V Value](n *node[K, V]) *node[K, V] {
	if n.left == nil {
		return nil
	}
	if !isRed(n.left) && !isRed(n.left.left) {
		n = moveRedLeft(n)
	}
	n.left = removeMin(n.left)
	return fixUp(n)
}

func traverseInOrder[K Key[K], V Value](n *node[K, V], callback func(*node[K, V])) {
	if n == nil {
		return
	}
	traverseInOrder(n.left, callback)
	callback(n)
	traverseInOrder(n.right, callback)
}
