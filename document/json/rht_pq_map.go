package json

import (
	"container/heap"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/crdtlabs/docsync/document/time"
)

// ErrElementNotFound is returned when an element is not present in the map.
var ErrElementNotFound = errors.New("element not found")

// RHTPQMapNode wraps an element stored under a key in RHTPriorityQueueMap.
type RHTPQMapNode struct {
	key     string
	element Element

	index int // heap index
}

func newRHTPQMapNode(key string, element Element) *RHTPQMapNode {
	return &RHTPQMapNode{key: key, element: element, index: -1}
}

// Key returns the key of this node.
func (n *RHTPQMapNode) Key() string {
	return n.key
}

// Element returns the element of this node.
func (n *RHTPQMapNode) Element() Element {
	return n.element
}

func (n *RHTPQMapNode) remove(removedAt time.Ticket) bool {
	return n.element.Remove(removedAt)
}

func (n *RHTPQMapNode) isRemoved() bool {
	return n.element.RemovedAt() != nil
}

// nodeQueue is a max-heap of nodes ordered by element creation ticket, so
// the most recently created element for a key sits at the top.
type nodeQueue []*RHTPQMapNode

func (q nodeQueue) Len() int { return len(q) }

func (q nodeQueue) Less(i, j int) bool {
	return q[i].element.CreatedAt().After(q[j].element.CreatedAt())
}

func (q nodeQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *nodeQueue) Push(x any) {
	node := x.(*RHTPQMapNode)
	node.index = len(*q)
	*q = append(*q, node)
}

func (q *nodeQueue) Pop() any {
	old := *q
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*q = old[:n-1]
	return node
}

func (q nodeQueue) peek() *RHTPQMapNode {
	if len(q) == 0 {
		return nil
	}
	return q[0]
}

// RHTPriorityQueueMap is a replicated hashtable of elements. Each key
// holds every element ever written under it in a priority queue ordered
// by creation ticket; the queue top is the visible element unless it is
// tombstoned. A secondary index finds elements by creation ticket for
// remote removals.
type RHTPriorityQueueMap struct {
	nodeQueueMapByKey  map[string]*nodeQueue
	nodeMapByCreatedAt map[string]*RHTPQMapNode
}

// NewRHTPriorityQueueMap creates an empty RHTPriorityQueueMap.
func NewRHTPriorityQueueMap() *RHTPriorityQueueMap {
	return &RHTPriorityQueueMap{
		nodeQueueMapByKey:  make(map[string]*nodeQueue),
		nodeMapByCreatedAt: make(map[string]*RHTPQMapNode),
	}
}

// Get returns the visible element for the key, nil when the key is absent
// or its newest element is tombstoned.
func (m *RHTPriorityQueueMap) Get(key string) Element {
	node := m.peek(key)
	if node == nil || node.isRemoved() {
		return nil
	}
	return node.element
}

// Has reports whether a live element exists for the key.
func (m *RHTPriorityQueueMap) Has(key string) bool {
	node := m.peek(key)
	return node != nil && !node.isRemoved()
}

// Set writes the element under the key. The previously visible element, if
// any, is tombstoned with the new element's creation ticket and returned.
func (m *RHTPriorityQueueMap) Set(key string, element Element) Element {
	var removed Element
	if node := m.peek(key); node != nil && !node.isRemoved() && node.remove(element.CreatedAt()) {
		removed = node.element
	}

	m.setInternal(key, element)
	return removed
}

func (m *RHTPriorityQueueMap) setInternal(key string, element Element) {
	node := newRHTPQMapNode(key, element)
	m.nodeMapByCreatedAt[element.CreatedAt().Key()] = node

	queue, ok := m.nodeQueueMapByKey[key]
	if !ok {
		queue = &nodeQueue{}
		m.nodeQueueMapByKey[key] = queue
	}
	heap.Push(queue, node)
}

// Delete tombstones the visible element for the key and returns it, nil
// when the key is absent or already tombstoned.
func (m *RHTPriorityQueueMap) Delete(key string, deletedAt time.Ticket) Element {
	node := m.peek(key)
	if node == nil || node.isRemoved() || !node.remove(deletedAt) {
		return nil
	}
	return node.element
}

// DeleteByCreatedAt tombstones the element created at the given ticket and
// returns it, nil when no such element exists or the removal does not
// apply.
func (m *RHTPriorityQueueMap) DeleteByCreatedAt(createdAt, deletedAt time.Ticket) Element {
	node, ok := m.nodeMapByCreatedAt[createdAt.Key()]
	if !ok || !node.remove(deletedAt) {
		return nil
	}
	return node.element
}

// Elements returns the live element per key.
func (m *RHTPriorityQueueMap) Elements() map[string]Element {
	elements := make(map[string]Element)
	for key, queue := range m.nodeQueueMapByKey {
		if node := queue.peek(); node != nil && !node.isRemoved() {
			elements[key] = node.element
		}
	}
	return elements
}

// Nodes returns every node, including tombstoned ones. Used by garbage
// collection.
func (m *RHTPriorityQueueMap) Nodes() []*RHTPQMapNode {
	var nodes []*RHTPQMapNode
	for _, queue := range m.nodeQueueMapByKey {
		nodes = append(nodes, *queue...)
	}
	return nodes
}

// purge physically removes the element from the map.
func (m *RHTPriorityQueueMap) purge(element Element) error {
	node, ok := m.nodeMapByCreatedAt[element.CreatedAt().Key()]
	if !ok {
		return fmt.Errorf("purge %s: %w", element.CreatedAt().Key(), ErrElementNotFound)
	}

	queue, ok := m.nodeQueueMapByKey[node.key]
	if !ok {
		return fmt.Errorf("purge %s: %w", element.CreatedAt().Key(), ErrElementNotFound)
	}

	heap.Remove(queue, node.index)
	delete(m.nodeMapByCreatedAt, element.CreatedAt().Key())
	if queue.Len() == 0 {
		delete(m.nodeQueueMapByKey, node.key)
	}
	return nil
}

// Marshal returns a JSON object text with keys in ascending order.
func (m *RHTPriorityQueueMap) Marshal() string {
	members := m.Elements()

	keys := make([]string, 0, len(members))
	for key := range members {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("{")
	for i, key := range keys {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, "%q:%s", key, members[key].Marshal())
	}
	sb.WriteString("}")

	return sb.String()
}

func (m *RHTPriorityQueueMap) peek(key string) *RHTPQMapNode {
	queue, ok := m.nodeQueueMapByKey[key]
	if !ok {
		return nil
	}
	return queue.peek()
}
