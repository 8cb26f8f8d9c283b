// Package document provides the client-side representation of a
// replicated document: its key, its root object and the logical clock
// that stamps local edits.
package document

import (
	"github.com/crdtlabs/docsync/document/json"
	"github.com/crdtlabs/docsync/document/time"
)

// Document is a replicated document. Local edits go through the typed
// setters or Root and are stamped with tickets from the document's clock;
// Marshal renders the current state as JSON text.
type Document struct {
	key   Key
	root  *json.Object
	clock *time.Clock
}

// New creates a Document for the given collection and document name. The
// clock starts on the initial actor; call SetActor once the server assigns
// a real one.
func New(collection, document string) *Document {
	clock := time.NewClock(time.InitialActorID)
	root := json.NewObject(json.NewRHTPriorityQueueMap(), clock.Tick())

	return &Document{
		key:   Key{collection: collection, document: document},
		root:  root,
		clock: clock,
	}
}

// Key returns the key of this document.
func (d *Document) Key() Key {
	return d.key
}

// SetActor rebinds the document's clock to the given actor.
func (d *Document) SetActor(actor time.ActorID) {
	d.clock.SetActor(actor)
}

// Actor returns the actor local edits are attributed to.
func (d *Document) Actor() time.ActorID {
	return d.clock.Actor()
}

// Root returns the root object.
func (d *Document) Root() *json.Object {
	return d.root
}

// SetString writes a string member on the root object.
func (d *Document) SetString(key, value string) {
	d.root.Set(key, json.NewPrimitive(value, d.nextTicket()))
}

// SetInteger writes an integer member on the root object.
func (d *Document) SetInteger(key string, value int) {
	d.root.Set(key, json.NewPrimitive(value, d.nextTicket()))
}

// SetBool writes a boolean member on the root object.
func (d *Document) SetBool(key string, value bool) {
	d.root.Set(key, json.NewPrimitive(value, d.nextTicket()))
}

// Delete removes the member for the key from the root object and reports
// whether anything was removed.
func (d *Document) Delete(key string) bool {
	return d.root.Delete(key, d.nextTicket()) != nil
}

// nextTicket stamps the first operation of a new change. Each facade edit
// is one change of its own; callers composing multi-operation changes
// drive the boundaries through Clock() instead.
func (d *Document) nextTicket() time.Ticket {
	d.clock.NextLamport()
	return d.clock.Tick()
}

// Marshal returns the JSON text of the document state.
func (d *Document) Marshal() string {
	return d.root.Marshal()
}

// GarbageCollect purges root members tombstoned at or before the given
// ticket and returns how many elements were reclaimed. Tombstones newer
// than the ticket stay, since a remote edit may still reference them.
func (d *Document) GarbageCollect(ticket time.Ticket) int {
	return d.root.GarbageCollect(ticket)
}

// Clock exposes the document's logical clock so callers building raw
// elements can issue tickets consistent with the document's history.
func (d *Document) Clock() *time.Clock {
	return d.clock
}
