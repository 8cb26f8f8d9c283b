package json

import (
	"fmt"
	"sort"
	"strings"

	"github.com/crdtlabs/docsync/document/time"
)

// rhtNode is a node of RHT.
type rhtNode struct {
	key       string
	value     string
	updatedAt time.Ticket
	removedAt *time.Ticket
}

func newRHTNode(key, value string, updatedAt time.Ticket) *rhtNode {
	return &rhtNode{key: key, value: value, updatedAt: updatedAt}
}

// remove tombstones the node, keeping the latest removal ticket.
func (n *rhtNode) remove(removedAt time.Ticket) {
	if n.removedAt != nil && !removedAt.After(*n.removedAt) {
		return
	}
	n.removedAt = &removedAt
}

func (n *rhtNode) isRemoved() bool {
	return n.removedAt != nil
}

// RHT is a replicated hashtable: a map of string keys to string values
// whose writes are ordered by logical-clock tickets, with tombstoned
// removal. For more details about RHT: http://csl.skku.edu/papers/jpdc11.pdf
type RHT struct {
	nodeMapByKey       map[string]*rhtNode
	nodeMapByUpdatedAt map[string]*rhtNode
}

// NewRHT creates an empty RHT.
func NewRHT() *RHT {
	return &RHT{
		nodeMapByKey:       make(map[string]*rhtNode),
		nodeMapByUpdatedAt: make(map[string]*rhtNode),
	}
}

// Set writes the value for the key. The write applies only when its
// ticket orders after the stored node's last update (last writer wins).
func (h *RHT) Set(key, value string, executedAt time.Ticket) {
	if node, ok := h.nodeMapByKey[key]; ok && !executedAt.After(node.updatedAt) {
		return
	}

	node := newRHTNode(key, value, executedAt)
	h.nodeMapByKey[key] = node
	h.nodeMapByUpdatedAt[executedAt.Key()] = node
}

// Get returns the value for the key, or the empty string when the key is
// absent or tombstoned.
func (h *RHT) Get(key string) string {
	node, ok := h.nodeMapByKey[key]
	if !ok || node.isRemoved() {
		return ""
	}
	return node.value
}

// Has reports whether a live value exists for the key.
func (h *RHT) Has(key string) bool {
	node, ok := h.nodeMapByKey[key]
	return ok && !node.isRemoved()
}

// Remove tombstones the value for the key and returns it. Removing an
// absent key, or removing with a ticket that does not order after an
// existing tombstone, returns the empty string.
func (h *RHT) Remove(key string, executedAt time.Ticket) string {
	node, ok := h.nodeMapByKey[key]
	if !ok {
		return ""
	}
	if node.removedAt != nil && !executedAt.After(*node.removedAt) {
		return ""
	}

	node.remove(executedAt)
	return node.value
}

// Elements returns the live key/value pairs.
func (h *RHT) Elements() map[string]string {
	elements := make(map[string]string)
	for key, node := range h.nodeMapByKey {
		if node.isRemoved() {
			continue
		}
		elements[key] = node.value
	}
	return elements
}

// Len returns the number of live entries.
func (h *RHT) Len() int {
	return len(h.Elements())
}

// DeepCopy copies this RHT including update tickets. Tombstoned entries
// are not carried over.
func (h *RHT) DeepCopy() *RHT {
	rht := NewRHT()
	for _, node := range h.nodeMapByKey {
		if node.isRemoved() {
			continue
		}
		rht.Set(node.key, node.value, node.updatedAt)
	}
	return rht
}

// Marshal returns "{k:v,...}" with keys in ascending order, so the output
// is deterministic.
func (h *RHT) Marshal() string {
	members := h.Elements()

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
		fmt.Fprintf(&sb, "%s:%s", key, members[key])
	}
	sb.WriteString("}")

	return sb.String()
}
