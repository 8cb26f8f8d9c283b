// Package json provides the replicated containers that make up a
// document: elements guarded by logical-clock tickets, a replicated
// hashtable and a priority-queue-backed map with last-writer-wins
// semantics.
package json

import "github.com/crdtlabs/docsync/document/time"

// Element is a unit of replicated data. Elements carry the ticket they
// were created at and tombstone tickets for moves and removals.
type Element interface {
	// Marshal returns the JSON text of this element.
	Marshal() string
	// DeepCopy copies this element and its descendants.
	DeepCopy() Element
	// CreatedAt returns the creation ticket.
	CreatedAt() time.Ticket
	// MovedAt returns the move ticket, nil if the element never moved.
	MovedAt() *time.Ticket
	// SetMovedAt sets the move ticket.
	SetMovedAt(ticket time.Ticket)
	// RemovedAt returns the removal ticket, nil if the element is live.
	RemovedAt() *time.Ticket
	// Remove tombstones the element when the ticket orders after the
	// creation ticket and after any prior removal. It reports whether the
	// tombstone was applied.
	Remove(ticket time.Ticket) bool
}
