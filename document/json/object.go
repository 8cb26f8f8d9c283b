package json

import "github.com/crdtlabs/docsync/document/time"

// Object is a JSON-like object Element backed by RHTPriorityQueueMap.
type Object struct {
	memberNodes *RHTPriorityQueueMap

	createdAt time.Ticket
	movedAt   *time.Ticket
	removedAt *time.Ticket
}

// NewObject creates an Object with the given member map.
func NewObject(memberNodes *RHTPriorityQueueMap, createdAt time.Ticket) *Object {
	return &Object{
		memberNodes: memberNodes,
		createdAt:   createdAt,
	}
}

// Set writes the element under the key and returns the element it
// replaced, if any.
func (o *Object) Set(key string, element Element) Element {
	return o.memberNodes.Set(key, element)
}

// Get returns the live member for the key, nil if absent.
func (o *Object) Get(key string) Element {
	return o.memberNodes.Get(key)
}

// Has reports whether a live member exists for the key.
func (o *Object) Has(key string) bool {
	return o.memberNodes.Has(key)
}

// Delete tombstones the member for the key and returns it.
func (o *Object) Delete(key string, deletedAt time.Ticket) Element {
	return o.memberNodes.Delete(key, deletedAt)
}

// DeleteByCreatedAt tombstones the member created at the given ticket.
func (o *Object) DeleteByCreatedAt(createdAt, deletedAt time.Ticket) Element {
	return o.memberNodes.DeleteByCreatedAt(createdAt, deletedAt)
}

// Members returns the live members of this object.
func (o *Object) Members() map[string]Element {
	return o.memberNodes.Elements()
}

// GarbageCollect purges members tombstoned at or before the given ticket
// and returns how many were removed.
func (o *Object) GarbageCollect(ticket time.Ticket) int {
	count := 0
	for _, node := range o.memberNodes.Nodes() {
		removedAt := node.Element().RemovedAt()
		if removedAt == nil || removedAt.After(ticket) {
			continue
		}
		if err := o.memberNodes.purge(node.Element()); err == nil {
			count++
		}
	}
	return count
}

// Marshal implements Element.
func (o *Object) Marshal() string {
	return o.memberNodes.Marshal()
}

// DeepCopy implements Element.
func (o *Object) DeepCopy() Element {
	members := NewRHTPriorityQueueMap()
	for _, node := range o.memberNodes.Nodes() {
		members.setInternal(node.Key(), node.Element().DeepCopy())
	}

	clone := NewObject(members, o.createdAt)
	clone.movedAt = o.movedAt
	clone.removedAt = o.removedAt
	return clone
}

// CreatedAt implements Element.
func (o *Object) CreatedAt() time.Ticket {
	return o.createdAt
}

// MovedAt implements Element.
func (o *Object) MovedAt() *time.Ticket {
	return o.movedAt
}

// SetMovedAt implements Element.
func (o *Object) SetMovedAt(ticket time.Ticket) {
	o.movedAt = &ticket
}

// RemovedAt implements Element.
func (o *Object) RemovedAt() *time.Ticket {
	return o.removedAt
}

// Remove implements Element.
func (o *Object) Remove(ticket time.Ticket) bool {
	if !ticket.After(o.createdAt) {
		return false
	}
	if o.removedAt != nil && !ticket.After(*o.removedAt) {
		return false
	}
	o.removedAt = &ticket
	return true
}
